package repo

import (
	"context"
	"errors"
	"time"

	"github.com/Skotchmaster/shop_api/internal/models"
	"gorm.io/gorm"
)

func (r *GormRepo) CreateRefreshToken(ctx context.Context, rt *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Create(rt).Error
}

func refreshByJTI(tx *gorm.DB, jti string) (*models.RefreshToken, error) {
	var rt models.RefreshToken
	if err := tx.Where("jti = ?", jti).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

// RotateRefreshToken revokes the presented token and stores its successor in
// one transaction. A token that is unknown, already revoked, expired or whose
// hash does not match yields ErrRefreshInvalid, so a replayed token loses the race.
func (r *GormRepo) RotateRefreshToken(ctx context.Context, oldJTI, oldHash string, now time.Time, next *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := refreshByJTI(tx, oldJTI)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRefreshInvalid
			}
			return err
		}
		if current.Token != oldHash || current.Revoked || !current.ExpiresAt.After(now) {
			return ErrRefreshInvalid
		}

		res := tx.Model(&models.RefreshToken{}).
			Where("id = ? AND revoked = ?", current.ID, false).
			Update("revoked", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRefreshInvalid
		}
		return tx.Create(next).Error
	})
}

func (r *GormRepo) RevokeRefreshToken(ctx context.Context, tokenHash string) (bool, error) {
	res := r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token = ? AND revoked = ?", tokenHash, false).
		Update("revoked", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *GormRepo) RevokeUserRefreshTokens(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked = ?", userID, false).
		Update("revoked", true).Error
}
