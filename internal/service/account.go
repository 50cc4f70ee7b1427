package service

import (
	"context"

	"github.com/Skotchmaster/shop_api/internal/auth"
	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/Skotchmaster/shop_api/internal/transport"
)

// AccountService is the self-service view of users. The target is always the
// principal; there is no way to name another account.
type AccountService struct {
	Users *UserService
}

func (s *AccountService) GetMyInfo(ctx context.Context, p auth.Principal) (*models.User, error) {
	return s.Users.get(ctx, p.UserID)
}

func (s *AccountService) EditMyInfo(ctx context.Context, p auth.Principal, req transport.UpdateAccountRequest) (*models.User, error) {
	fields, err := profileFields(req.Username, req.Password, req.Email, req.FullName)
	if err != nil {
		return nil, err
	}
	return s.Users.update(ctx, p.UserID, p.UserID, fields)
}

func (s *AccountService) RemoveMyAccount(ctx context.Context, p auth.Principal) (*models.User, error) {
	return s.Users.delete(ctx, p.UserID, p.UserID)
}
