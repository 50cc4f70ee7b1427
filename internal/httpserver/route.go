package httpserver

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/Skotchmaster/shop_api/internal/metrics"
	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/Skotchmaster/shop_api/internal/service"
	middleware "github.com/Skotchmaster/shop_api/pkg/middleware/auth"
	loggingmw "github.com/Skotchmaster/shop_api/pkg/middleware/logging"
)

type Deps struct {
	ProductHandler  *ProductHTTP
	CategoryHandler *CategoryHTTP
	CartHandler     *CartHTTP
	UserHandler     *UserHTTP
	AccountHandler  *AccountHTTP
	AuthHandler     *AuthHTTP
	HealthHandler   *HealthHTTP
	Auth            *middleware.AuthMiddleware
}

func NewDeps(svc *service.Services, db *gorm.DB, serviceName string) *Deps {
	return &Deps{
		ProductHandler:  &ProductHTTP{Svc: svc.Products},
		CategoryHandler: &CategoryHTTP{Svc: svc.Categories},
		CartHandler:     &CartHTTP{Svc: svc.Carts},
		UserHandler:     &UserHTTP{Svc: svc.Users},
		AccountHandler:  &AccountHTTP{Svc: svc.Accounts},
		AuthHandler:     &AuthHTTP{Svc: svc.Auth},
		HealthHandler:   &HealthHTTP{DB: db, ServiceName: serviceName},
		Auth:            middleware.NewAuthMiddleware(svc.Auth),
	}
}

// New builds the echo instance with the middleware chain and every route.
func New(logger *slog.Logger, d *Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = HTTPErrorHandler
	e.Validator = NewValidator()
	e.JSONSerializer = strictJSONSerializer{}

	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Secure())
	e.Use(metrics.Middleware())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.BodyLimit("1M"))

	Register(e, d)
	return e
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/", d.HealthHandler.Welcome)
	e.GET("/health/live", d.HealthHandler.Live)
	e.GET("/health/ready", d.HealthHandler.Ready)
	e.GET("/metrics", metrics.Handler())

	authn := d.Auth.RequireAuth
	admin := d.Auth.RequireRole(models.RoleAdmin)

	a := e.Group("/auth")
	a.POST("/signup", d.AuthHandler.Signup)
	a.POST("/login", d.AuthHandler.Login)
	a.POST("/refresh", d.AuthHandler.Refresh)
	a.POST("/logout", d.AuthHandler.Logout)

	products := e.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/search", d.ProductHandler.SearchProducts)
	products.GET("/:id", d.ProductHandler.GetProduct)
	productsAdmin := products.Group("", authn, admin)
	productsAdmin.POST("", d.ProductHandler.CreateProduct)
	productsAdmin.PUT("/:id", d.ProductHandler.UpdateProduct)
	productsAdmin.DELETE("/:id", d.ProductHandler.DeleteProduct)

	categories := e.Group("/categories")
	categories.GET("", d.CategoryHandler.GetCategories)
	categories.GET("/:id", d.CategoryHandler.GetCategory)
	categoriesAdmin := categories.Group("", authn, admin)
	categoriesAdmin.POST("", d.CategoryHandler.CreateCategory)
	categoriesAdmin.PUT("/:id", d.CategoryHandler.UpdateCategory)
	categoriesAdmin.DELETE("/:id", d.CategoryHandler.DeleteCategory)

	carts := e.Group("/carts", authn)
	carts.GET("", d.CartHandler.GetCarts)
	carts.POST("", d.CartHandler.CreateCart)
	carts.GET("/:id", d.CartHandler.GetCart)
	carts.PUT("/:id", d.CartHandler.UpdateCart)
	carts.DELETE("/:id", d.CartHandler.DeleteCart)

	users := e.Group("/users", authn, admin)
	users.GET("", d.UserHandler.GetUsers)
	users.POST("", d.UserHandler.CreateUser)
	users.GET("/:id", d.UserHandler.GetUser)
	users.PUT("/:id", d.UserHandler.UpdateUser)
	users.DELETE("/:id", d.UserHandler.DeleteUser)

	me := e.Group("/me", authn)
	me.GET("", d.AccountHandler.GetMyInfo)
	me.PUT("", d.AccountHandler.EditMyInfo)
	me.DELETE("", d.AccountHandler.RemoveMyAccount)
}
