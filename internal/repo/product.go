package repo

import (
	"context"

	"github.com/Skotchmaster/shop_api/internal/models"
	"gorm.io/gorm"
)

func (r *GormRepo) ListProducts(ctx context.Context, p ListParams) (int64, []models.Product, error) {
	q := r.DB.WithContext(ctx).Model(&models.Product{})
	q = whereContains(q, "title", p.Search)
	return page[models.Product](q, p)
}

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// productsByID loads the products behind ids, keyed by id. Unknown ids are
// simply absent from the map.
func productsByID(tx *gorm.DB, ids []uint) (map[uint]models.Product, error) {
	byID := make(map[uint]models.Product, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}
	var found []models.Product
	if err := tx.Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	for _, p := range found {
		byID[p.ID] = p
	}
	return byID, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := categoryExists(tx, prod.CategoryID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrCategoryNotFound
		}
		return tx.Create(prod).Error
	})
}

func (r *GormRepo) UpdateProduct(ctx context.Context, id uint, fields map[string]any) (*models.Product, error) {
	var prod models.Product
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&prod, id).Error; err != nil {
			return err
		}
		if categoryID, ok := fields["category_id"].(uint); ok {
			exists, err := categoryExists(tx, categoryID)
			if err != nil {
				return err
			}
			if !exists {
				return ErrCategoryNotFound
			}
		}
		if len(fields) == 0 {
			return nil
		}
		if err := tx.Model(&prod).Updates(fields).Error; err != nil {
			return err
		}
		return tx.First(&prod, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &prod, nil
}

// DeleteProduct returns ErrInUse while a cart still holds the product.
func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) (*models.Product, error) {
	var prod models.Product
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&prod, id).Error; err != nil {
			return err
		}
		var lines int64
		if err := tx.Model(&models.CartItem{}).Where("product_id = ?", id).Count(&lines).Error; err != nil {
			return err
		}
		if lines > 0 {
			return ErrInUse
		}
		res := tx.Delete(&models.Product{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &prod, nil
}
