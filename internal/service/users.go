package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skotchmaster/shop_api/internal/auth"
	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/Skotchmaster/shop_api/internal/repo"
	"github.com/Skotchmaster/shop_api/internal/transport"
	"github.com/Skotchmaster/shop_api/internal/util"
	"github.com/Skotchmaster/shop_api/pkg/events"
	pkg_hash "github.com/Skotchmaster/shop_api/pkg/hash"
	"github.com/Skotchmaster/shop_api/pkg/logging"
)

type UserService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func (s *UserService) List(ctx context.Context, p auth.Principal, page util.Page, search, role string) (*transport.ListResponse[models.User], error) {
	if err := auth.Require(p, models.RoleAdmin); err != nil {
		return nil, translate(err, "user")
	}
	if role != "" && role != models.RoleUser && role != models.RoleAdmin {
		return nil, newError(ErrValidation, "role must be one of: user admin")
	}
	total, items, err := s.Repo.ListUsers(ctx, repo.ListParams{Offset: page.Offset(), Limit: page.Limit, Search: search}, role)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return listResponse(items, total, page), nil
}

func (s *UserService) Get(ctx context.Context, p auth.Principal, id uint) (*models.User, error) {
	if err := auth.Require(p, models.RoleAdmin); err != nil {
		return nil, translate(err, "user")
	}
	return s.get(ctx, id)
}

func (s *UserService) get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.Repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, translate(err, "user")
	}
	return user, nil
}

func (s *UserService) Create(ctx context.Context, p auth.Principal, req transport.CreateUserRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "users.create")
	if err := auth.Require(p, models.RoleAdmin); err != nil {
		return nil, translate(err, "user")
	}

	username := strings.TrimSpace(req.Username)
	if err := checkCredentials(username, req.Password); err != nil {
		return nil, err
	}
	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if role != models.RoleUser && role != models.RoleAdmin {
		return nil, newError(ErrValidation, "role must be one of: user admin")
	}
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	pwHash, err := pkg_hash.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:     username,
		Email:        strings.TrimSpace(req.Email),
		FullName:     strings.TrimSpace(req.FullName),
		PasswordHash: pwHash,
		Role:         role,
		IsActive:     active,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		l.Warn("create_user_failed", "reason", "cannot create user", "error", err)
		return nil, translate(err, "user")
	}

	publish(ctx, s.Events, events.TopicUsers, "user_created", user.ID, p.UserID, user)
	l.Info("create_user_success", "user_id", user.ID)
	return user, nil
}

func (s *UserService) Update(ctx context.Context, p auth.Principal, id uint, req transport.UpdateUserRequest) (*models.User, error) {
	if err := auth.Require(p, models.RoleAdmin); err != nil {
		return nil, translate(err, "user")
	}
	fields, err := profileFields(req.Username, req.Password, req.Email, req.FullName)
	if err != nil {
		return nil, err
	}
	if req.Role != nil {
		if *req.Role != models.RoleUser && *req.Role != models.RoleAdmin {
			return nil, newError(ErrValidation, "role must be one of: user admin")
		}
		fields["role"] = *req.Role
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	return s.update(ctx, p.UserID, id, fields)
}

func (s *UserService) update(ctx context.Context, actor, id uint, fields map[string]any) (*models.User, error) {
	user, err := s.Repo.UpdateUser(ctx, id, fields)
	if err != nil {
		return nil, translate(err, "user")
	}
	if _, ok := fields["password_hash"]; ok {
		if err := s.Repo.RevokeUserRefreshTokens(ctx, id); err != nil {
			return nil, fmt.Errorf("revoke refresh tokens: %w", err)
		}
	}
	publish(ctx, s.Events, events.TopicUsers, "user_updated", user.ID, actor, user)
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, p auth.Principal, id uint) (*models.User, error) {
	if err := auth.Require(p, models.RoleAdmin); err != nil {
		return nil, translate(err, "user")
	}
	return s.delete(ctx, p.UserID, id)
}

func (s *UserService) delete(ctx context.Context, actor, id uint) (*models.User, error) {
	user, err := s.Repo.DeleteUser(ctx, id)
	if err != nil {
		return nil, translate(err, "user")
	}
	publish(ctx, s.Events, events.TopicUsers, "user_deleted", user.ID, actor, nil)
	logging.FromContext(ctx).Info("delete_user_success", "user_id", user.ID, "actor_id", actor)
	return user, nil
}

// profileFields maps the self-editable fields to columns. A new password is
// hashed here; nil pointers are left out.
func profileFields(username, password, email, fullName *string) (map[string]any, error) {
	fields := map[string]any{}
	if username != nil {
		name := strings.TrimSpace(*username)
		if len(name) < 3 || len(name) > 50 {
			return nil, newError(ErrValidation, "username must be 3 to 50 characters")
		}
		fields["username"] = name
	}
	if password != nil {
		if len(*password) < 6 || len(*password) > 72 {
			return nil, newError(ErrValidation, "password must be 6 to 72 characters")
		}
		pwHash, err := pkg_hash.HashPassword(*password)
		if err != nil {
			return nil, err
		}
		fields["password_hash"] = pwHash
	}
	if email != nil {
		fields["email"] = strings.TrimSpace(*email)
	}
	if fullName != nil {
		fields["full_name"] = strings.TrimSpace(*fullName)
	}
	return fields, nil
}
