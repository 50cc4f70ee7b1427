package transport

type SignupRequest struct {
	Username string `json:"username"  validate:"required,min=3,max=50"`
	Password string `json:"password"  validate:"required,min=6,max=72"`
	Email    string `json:"email"     validate:"omitempty,email"`
	FullName string `json:"full_name" validate:"omitempty,max=100"`
}

// LoginRequest binds from JSON or from an urlencoded form.
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

type CreateProductRequest struct {
	Title              string  `json:"title"               validate:"required,max=200"`
	Description        string  `json:"description"         validate:"max=2000"`
	Price              float64 `json:"price"               validate:"gte=0"`
	DiscountPercentage float64 `json:"discount_percentage" validate:"gte=0,lte=100"`
	Rating             float64 `json:"rating"              validate:"gte=0,lte=5"`
	Stock              int     `json:"stock"               validate:"gte=0"`
	Brand              string  `json:"brand"               validate:"max=100"`
	Thumbnail          string  `json:"thumbnail"           validate:"max=500"`
	IsPublished        bool    `json:"is_published"`
	CategoryID         uint    `json:"category_id"         validate:"required"`
}

type UpdateProductRequest struct {
	Title              *string  `json:"title"               validate:"omitempty,min=1,max=200"`
	Description        *string  `json:"description"         validate:"omitempty,max=2000"`
	Price              *float64 `json:"price"               validate:"omitempty,gte=0"`
	DiscountPercentage *float64 `json:"discount_percentage" validate:"omitempty,gte=0,lte=100"`
	Rating             *float64 `json:"rating"              validate:"omitempty,gte=0,lte=5"`
	Stock              *int     `json:"stock"               validate:"omitempty,gte=0"`
	Brand              *string  `json:"brand"               validate:"omitempty,max=100"`
	Thumbnail          *string  `json:"thumbnail"           validate:"omitempty,max=500"`
	IsPublished        *bool    `json:"is_published"`
	CategoryID         *uint    `json:"category_id"         validate:"omitempty,gt=0"`
}

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type UpdateCategoryRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=100"`
}

type CreateUserRequest struct {
	Username string `json:"username"  validate:"required,min=3,max=50"`
	Password string `json:"password"  validate:"required,min=6,max=72"`
	Email    string `json:"email"     validate:"omitempty,email"`
	FullName string `json:"full_name" validate:"omitempty,max=100"`
	Role     string `json:"role"      validate:"omitempty,oneof=user admin"`
	IsActive *bool  `json:"is_active"`
}

type UpdateUserRequest struct {
	Username *string `json:"username"  validate:"omitempty,min=3,max=50"`
	Password *string `json:"password"  validate:"omitempty,min=6,max=72"`
	Email    *string `json:"email"     validate:"omitempty,email"`
	FullName *string `json:"full_name" validate:"omitempty,max=100"`
	Role     *string `json:"role"      validate:"omitempty,oneof=user admin"`
	IsActive *bool   `json:"is_active"`
}

// UpdateAccountRequest has no role: nobody promotes themselves.
type UpdateAccountRequest struct {
	Username *string `json:"username"  validate:"omitempty,min=3,max=50"`
	Password *string `json:"password"  validate:"omitempty,min=6,max=72"`
	Email    *string `json:"email"     validate:"omitempty,email"`
	FullName *string `json:"full_name" validate:"omitempty,max=100"`
}

type CartItemRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity"   validate:"required,gte=1"`
}

type CartRequest struct {
	Items []CartItemRequest `json:"items" validate:"required,min=1,dive"`
}

type ListResponse[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int64 `json:"total_pages"`
}

type ErrorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}
