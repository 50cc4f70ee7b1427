package repo

import (
	"context"
	"errors"

	"github.com/Skotchmaster/shop_api/internal/models"
	"gorm.io/gorm"
)

func (r *GormRepo) ListCategories(ctx context.Context, p ListParams) (int64, []models.Category, error) {
	q := r.DB.WithContext(ctx).Model(&models.Category{})
	q = whereContains(q, "name", p.Search)
	return page[models.Category](q, p)
}

func (r *GormRepo) GetCategory(ctx context.Context, id uint, withProducts bool) (*models.Category, error) {
	var category models.Category
	q := r.DB.WithContext(ctx)
	if withProducts {
		q = q.Preload("Products", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") })
	}
	if err := q.First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func categoryNameTaken(tx *gorm.DB, name string, exceptID uint) (bool, error) {
	var count int64
	q := tx.Model(&models.Category{}).Where("LOWER(name) = LOWER(?)", name)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepo) CreateCategory(ctx context.Context, c *models.Category) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taken, err := categoryNameTaken(tx, c.Name, 0)
		if err != nil {
			return err
		}
		if taken {
			return ErrDuplicate
		}
		if err := tx.Omit("Products").Create(c).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicate
			}
			return err
		}
		return nil
	})
}

func (r *GormRepo) UpdateCategory(ctx context.Context, id uint, fields map[string]any) (*models.Category, error) {
	var category models.Category
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&category, id).Error; err != nil {
			return err
		}
		if name, ok := fields["name"].(string); ok {
			taken, err := categoryNameTaken(tx, name, id)
			if err != nil {
				return err
			}
			if taken {
				return ErrDuplicate
			}
		}
		if len(fields) == 0 {
			return nil
		}
		if err := tx.Model(&category).Updates(fields).Error; err != nil {
			return err
		}
		return tx.First(&category, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory refuses to orphan products: ErrInUse while any product
// still points at the category.
func (r *GormRepo) DeleteCategory(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&category, id).Error; err != nil {
			return err
		}
		var products int64
		if err := tx.Model(&models.Product{}).Where("category_id = ?", id).Count(&products).Error; err != nil {
			return err
		}
		if products > 0 {
			return ErrInUse
		}
		return tx.Delete(&models.Category{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func categoryExists(tx *gorm.DB, id uint) (bool, error) {
	var count int64
	if err := tx.Model(&models.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
