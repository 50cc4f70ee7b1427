package repo

import (
	"context"

	"github.com/Skotchmaster/shop_api/internal/models"
	"gorm.io/gorm"
)

type CartLine struct {
	ProductID uint
	Quantity  int
}

func itemsByID(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }

// ListCarts lists carts with their items. userID 0 lists every cart.
func (r *GormRepo) ListCarts(ctx context.Context, p ListParams, userID uint) (int64, []models.Cart, error) {
	q := r.DB.WithContext(ctx).Model(&models.Cart{})
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}
	carts := make([]models.Cart, 0, p.Limit)
	err := q.Session(&gorm.Session{}).
		Preload("Items", itemsByID).
		Order("id ASC").Offset(p.Offset).Limit(p.Limit).
		Find(&carts).Error
	if err != nil {
		return 0, nil, err
	}
	return total, carts, nil
}

func (r *GormRepo) GetCart(ctx context.Context, id uint) (*models.Cart, error) {
	var cart models.Cart
	if err := r.DB.WithContext(ctx).Preload("Items", itemsByID).First(&cart, id).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// buildItems merges repeated product lines and prices them from the catalog.
func buildItems(tx *gorm.DB, lines []CartLine) ([]models.CartItem, float64, error) {
	order := make([]uint, 0, len(lines))
	qty := make(map[uint]int, len(lines))
	for _, l := range lines {
		if _, seen := qty[l.ProductID]; !seen {
			order = append(order, l.ProductID)
		}
		qty[l.ProductID] += l.Quantity
	}
	if len(order) == 0 {
		return []models.CartItem{}, 0, nil
	}

	byID, err := productsByID(tx, order)
	if err != nil {
		return nil, 0, err
	}

	items := make([]models.CartItem, 0, len(order))
	var total float64
	for _, id := range order {
		p, ok := byID[id]
		if !ok {
			return nil, 0, ErrProductNotFound
		}
		subtotal := p.UnitPrice() * float64(qty[id])
		items = append(items, models.CartItem{ProductID: id, Quantity: qty[id], Subtotal: subtotal})
		total += subtotal
	}
	return items, total, nil
}

func (r *GormRepo) CreateCart(ctx context.Context, userID uint, lines []CartLine) (*models.Cart, error) {
	var cart models.Cart
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var users int64
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&users).Error; err != nil {
			return err
		}
		if users == 0 {
			return gorm.ErrRecordNotFound
		}
		items, total, err := buildItems(tx, lines)
		if err != nil {
			return err
		}
		cart = models.Cart{UserID: userID, TotalAmount: total}
		if err := tx.Omit("Items").Create(&cart).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].CartID = cart.ID
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return tx.Preload("Items", itemsByID).First(&cart, cart.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// ReplaceCartItems swaps the whole item set of a cart and recomputes its total.
func (r *GormRepo) ReplaceCartItems(ctx context.Context, id uint, lines []CartLine) (*models.Cart, error) {
	var cart models.Cart
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&cart, id).Error; err != nil {
			return err
		}
		items, total, err := buildItems(tx, lines)
		if err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].CartID = id
		}
		if len(items) > 0 {
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&cart).Update("total_amount", total).Error; err != nil {
			return err
		}
		return tx.Preload("Items", itemsByID).First(&cart, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *GormRepo) DeleteCart(ctx context.Context, id uint) (*models.Cart, error) {
	var cart models.Cart
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items", itemsByID).First(&cart, id).Error; err != nil {
			return err
		}
		if err := tx.Where("cart_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Cart{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &cart, nil
}
