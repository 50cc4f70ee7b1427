package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	Username     string    `gorm:"uniqueIndex;not null"      json:"username"`
	Email        string    `gorm:"not null;default:''"       json:"email"`
	FullName     string    `gorm:"not null;default:''"       json:"full_name"`
	PasswordHash string    `gorm:"not null"                  json:"-"`
	Role         string    `gorm:"not null;default:user"     json:"role"`
	IsActive     bool      `gorm:"not null"                  json:"is_active"`
	CreatedAt    time.Time `                                 json:"created_at"`
	UpdatedAt    time.Time `                                 json:"updated_at"`
}

type Category struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null"     json:"name"`
	CreatedAt time.Time `                                json:"created_at"`
	Products  []Product `gorm:"foreignKey:CategoryID"    json:"products,omitempty"`
}

type Product struct {
	ID                 uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title              string    `gorm:"not null"                 json:"title"`
	Description        string    `gorm:"not null;default:''"      json:"description"`
	Price              float64   `gorm:"not null"                 json:"price"`
	DiscountPercentage float64   `gorm:"not null;default:0"       json:"discount_percentage"`
	Rating             float64   `gorm:"not null;default:0"       json:"rating"`
	Stock              int       `gorm:"not null;default:0"       json:"stock"`
	Brand              string    `gorm:"not null;default:''"      json:"brand"`
	Thumbnail          string    `gorm:"not null;default:''"      json:"thumbnail"`
	IsPublished        bool      `gorm:"not null"                 json:"is_published"`
	CategoryID         uint      `gorm:"index;not null"           json:"category_id"`
	CreatedAt          time.Time `                                json:"created_at"`
}

// UnitPrice is the price after discount.
func (p Product) UnitPrice() float64 {
	return p.Price * (100 - p.DiscountPercentage) / 100
}

type Cart struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint       `gorm:"index;not null"           json:"user_id"`
	TotalAmount float64    `gorm:"not null;default:0"       json:"total_amount"`
	Items       []CartItem `gorm:"foreignKey:CartID"        json:"items"`
	CreatedAt   time.Time  `                                json:"created_at"`
	UpdatedAt   time.Time  `                                json:"updated_at"`
}

type CartItem struct {
	ID        uint    `gorm:"primaryKey;autoIncrement"      json:"id"`
	CartID    uint    `gorm:"index;not null"                json:"cart_id"`
	ProductID uint    `gorm:"index;not null"                json:"product_id"`
	Quantity  int     `gorm:"not null;check:quantity > 0"   json:"quantity"`
	Subtotal  float64 `gorm:"not null"                      json:"subtotal"`
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"           json:"id"`
	JTI       string    `gorm:"uniqueIndex;not null" json:"jti"`
	Token     string    `gorm:"uniqueIndex;not null" json:"-"`
	UserID    uint      `gorm:"index;not null"       json:"user_id"`
	ExpiresAt time.Time `gorm:"not null"             json:"expires_at"`
	Revoked   bool      `gorm:"not null"             json:"revoked"`
	CreatedAt time.Time `                            json:"created_at"`
}

func All() []any {
	return []any{&User{}, &Category{}, &Product{}, &Cart{}, &CartItem{}, &RefreshToken{}}
}
