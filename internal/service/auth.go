package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_api/internal/auth"
	"github.com/Skotchmaster/shop_api/internal/config"
	"github.com/Skotchmaster/shop_api/internal/metrics"
	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/Skotchmaster/shop_api/internal/repo"
	"github.com/Skotchmaster/shop_api/internal/transport"
	pkg_hash "github.com/Skotchmaster/shop_api/pkg/hash"
	"github.com/Skotchmaster/shop_api/pkg/events"
	"github.com/Skotchmaster/shop_api/pkg/logging"
	"github.com/Skotchmaster/shop_api/pkg/tokens"
)

type AuthService struct {
	Repo          *repo.GormRepo
	Events        events.Publisher
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Now           func() time.Time
}

func NewAuthService(r *repo.GormRepo, pub events.Publisher, cfg *config.Config) *AuthService {
	return &AuthService{
		Repo:          r,
		Events:        pub,
		AccessSecret:  []byte(cfg.JWTAccessSecret),
		RefreshSecret: []byte(cfg.JWTRefreshSecret),
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
	}
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	AccessExp    time.Time
	RefreshExp   time.Time
}

var (
	dummyOnce sync.Once
	dummyHash string
)

// burnPassword spends a bcrypt comparison so an unknown username costs as
// much as a wrong password.
func burnPassword(password string) {
	dummyOnce.Do(func() {
		dummyHash, _ = pkg_hash.HashPassword("not-a-real-password")
	})
	_ = pkg_hash.CheckPassword(dummyHash, password)
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *AuthService) Signup(ctx context.Context, req transport.SignupRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.signup")

	username := strings.TrimSpace(req.Username)
	if err := checkCredentials(username, req.Password); err != nil {
		metrics.AuthAttempt("signup", "invalid")
		return nil, err
	}

	pwHash, err := pkg_hash.HashPassword(req.Password)
	if err != nil {
		l.Error("signup_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}
	user := &models.User{
		Username:     username,
		Email:        strings.TrimSpace(req.Email),
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: pwHash,
		Role:         models.RoleUser,
		IsActive:     true,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			metrics.AuthAttempt("signup", "conflict")
			l.Warn("signup_error", "status", 409, "reason", "username taken", "username", username)
			return nil, newError(ErrConflict, "username %q is already taken", username)
		}
		l.Error("signup_error", "status", 500, "reason", "cannot create user", "error", err)
		return nil, fmt.Errorf("create user: %w", err)
	}

	metrics.AuthAttempt("signup", "ok")
	publish(ctx, s.Events, events.TopicUsers, "user_registered", user.ID, user.ID, user)
	l.Info("signup_success", "user_id", user.ID)
	return user, nil
}

func checkCredentials(username, password string) error {
	if len(username) < 3 || len(username) > 50 {
		return newError(ErrValidation, "username must be 3 to 50 characters")
	}
	if len(password) < 6 || len(password) > 72 {
		return newError(ErrValidation, "password must be 6 to 72 characters")
	}
	return nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login", "username", username)

	if strings.TrimSpace(username) == "" || password == "" {
		metrics.AuthAttempt("login", "invalid")
		return nil, newError(ErrValidation, "username and password are required")
	}

	user, err := s.Repo.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			l.Error("login_error", "status", 500, "error", err)
			return nil, fmt.Errorf("load user: %w", err)
		}
		burnPassword(password)
		metrics.AuthAttempt("login", "denied")
		l.Warn("login_failed", "status", 401, "reason", "invalid username or password")
		return nil, ErrInvalidCredentials
	}
	if !pkg_hash.CheckPassword(user.PasswordHash, password) {
		metrics.AuthAttempt("login", "denied")
		l.Warn("login_failed", "status", 401, "reason", "invalid username or password")
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		metrics.AuthAttempt("login", "inactive")
		l.Warn("login_failed", "status", 401, "reason", "account disabled", "user_id", user.ID)
		return nil, newError(ErrUnauthorized, "account is disabled")
	}

	res, next, err := s.issue(user)
	if err != nil {
		l.Error("login_error", "status", 500, "reason", "cannot sign tokens", "error", err)
		return nil, err
	}
	if err := s.Repo.CreateRefreshToken(ctx, next); err != nil {
		l.Error("login_error", "status", 500, "reason", "cannot store refresh token", "error", err)
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	metrics.AuthAttempt("login", "ok")
	l.Info("login_success", "user_id", user.ID)
	return res, nil
}

// issue signs a fresh token pair and returns the refresh row to persist.
func (s *AuthService) issue(user *models.User) (*LoginResult, *models.RefreshToken, error) {
	now := s.now()
	subject := strconv.FormatUint(uint64(user.ID), 10)

	accessExp := now.Add(s.AccessTTL)
	accessToken, err := tokens.NewAccessToken(subject, user.Role, now, accessExp, s.AccessSecret)
	if err != nil {
		return nil, nil, fmt.Errorf("sign access token: %w", err)
	}

	refreshExp := now.Add(s.RefreshTTL)
	refreshToken, jti, err := tokens.NewRefreshToken(subject, now, refreshExp, s.RefreshSecret)
	if err != nil {
		return nil, nil, fmt.Errorf("sign refresh token: %w", err)
	}

	row := &models.RefreshToken{
		JTI:       jti,
		Token:     tokens.Sha256Hex(refreshToken),
		UserID:    user.ID,
		ExpiresAt: refreshExp,
	}
	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		AccessExp:    accessExp,
		RefreshExp:   refreshExp,
	}, row, nil
}

// Verify checks the access token and then reloads the user, so the role in
// the returned principal is the stored one, not the one signed into the token.
func (s *AuthService) Verify(ctx context.Context, accessToken string) (auth.Principal, error) {
	claims, err := tokens.AccessClaimsFromToken(accessToken, s.AccessSecret)
	if err != nil {
		metrics.AuthAttempt("verify", "invalid")
		if errors.Is(err, jwt.ErrTokenExpired) {
			return auth.Principal{}, newError(ErrUnauthorized, "access token expired")
		}
		return auth.Principal{}, newError(ErrUnauthorized, "invalid access token")
	}

	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		metrics.AuthAttempt("verify", "invalid")
		return auth.Principal{}, newError(ErrUnauthorized, "invalid access token")
	}

	user, err := s.Repo.GetUserByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.AuthAttempt("verify", "unknown_user")
			return auth.Principal{}, newError(ErrUnauthorized, "user no longer exists")
		}
		return auth.Principal{}, fmt.Errorf("load user: %w", err)
	}
	if !user.IsActive {
		metrics.AuthAttempt("verify", "inactive")
		return auth.Principal{}, newError(ErrUnauthorized, "account is disabled")
	}
	return auth.Principal{UserID: user.ID, Role: user.Role}, nil
}

// Refresh trades a refresh token for a new pair. The presented token is
// revoked in the same transaction that stores its successor.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	claims, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret)
	if err != nil {
		metrics.AuthAttempt("refresh", "invalid")
		l.Warn("refresh_failed", "status", 401, "reason", "cannot parse refresh token", "error", err)
		return nil, ErrInvalidRefreshToken
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		metrics.AuthAttempt("refresh", "invalid")
		return nil, ErrInvalidRefreshToken
	}

	user, err := s.Repo.GetUserByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.AuthAttempt("refresh", "unknown_user")
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !user.IsActive {
		metrics.AuthAttempt("refresh", "inactive")
		return nil, ErrInvalidRefreshToken
	}

	res, next, err := s.issue(user)
	if err != nil {
		l.Error("refresh_error", "status", 500, "reason", "cannot sign tokens", "error", err)
		return nil, err
	}
	err = s.Repo.RotateRefreshToken(ctx, claims.ID, tokens.Sha256Hex(refreshToken), s.now(), next)
	if err != nil {
		if errors.Is(err, repo.ErrRefreshInvalid) {
			metrics.AuthAttempt("refresh", "revoked")
			l.Warn("refresh_failed", "status", 401, "reason", "refresh token revoked or unknown", "user_id", user.ID)
			return nil, ErrInvalidRefreshToken
		}
		l.Error("refresh_error", "status", 500, "reason", "cannot rotate refresh token", "error", err)
		return nil, fmt.Errorf("rotate refresh token: %w", err)
	}

	metrics.AuthAttempt("refresh", "ok")
	l.Info("refresh_success", "user_id", user.ID)
	return res, nil
}

// LogOut revokes the refresh token. An empty or already revoked token is a no-op.
func (s *AuthService) LogOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if _, err := tokens.RefreshClaimsFromToken(refreshToken, s.RefreshSecret); err != nil {
		metrics.AuthAttempt("logout", "invalid")
		return ErrInvalidRefreshToken
	}
	if _, err := s.Repo.RevokeRefreshToken(ctx, tokens.Sha256Hex(refreshToken)); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	metrics.AuthAttempt("logout", "ok")
	return nil
}

// EnsureAdmin creates the bootstrap admin, or promotes an existing account
// with that username. The password of an existing account is left alone.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, password string) error {
	l := logging.FromContext(ctx).With("svc", "auth.ensure_admin")
	if username == "" {
		return nil
	}

	user, err := s.Repo.GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		if user.Role == models.RoleAdmin && user.IsActive {
			return nil
		}
		if _, err := s.Repo.UpdateUser(ctx, user.ID, map[string]any{"role": models.RoleAdmin, "is_active": true}); err != nil {
			return fmt.Errorf("promote admin: %w", err)
		}
		l.Info("admin_promoted", "user_id", user.ID)
		return nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("load admin: %w", err)
	}

	if err := checkCredentials(username, password); err != nil {
		return err
	}
	pwHash, err := pkg_hash.HashPassword(password)
	if err != nil {
		return err
	}
	admin := &models.User{Username: username, PasswordHash: pwHash, Role: models.RoleAdmin, IsActive: true}
	if err := s.Repo.CreateUser(ctx, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	l.Info("admin_created", "user_id", admin.ID)
	return nil
}
