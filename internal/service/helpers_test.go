package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_api/internal/auth"
	"github.com/Skotchmaster/shop_api/internal/config"
	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/Skotchmaster/shop_api/internal/repo"
	"github.com/Skotchmaster/shop_api/internal/transport"
	pkgdb "github.com/Skotchmaster/shop_api/pkg/db"
	"github.com/Skotchmaster/shop_api/pkg/events"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTAccessSecret:  "test-jwt-secret",
		JWTRefreshSecret: "test-refresh-secret",
		AccessTokenTTL:   15 * time.Minute,
		RefreshTokenTTL:  time.Hour,
	}
}

func newTestServices(t *testing.T, index ProductIndex) (*Services, *events.Memory) {
	t.Helper()
	db, err := pkgdb.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(db))
	t.Cleanup(func() { _ = pkgdb.Close(db) })

	mem := &events.Memory{}
	return New(&repo.GormRepo{DB: db}, mem, index, testConfig()), mem
}

func signup(t *testing.T, s *Services, username string) (*models.User, auth.Principal) {
	t.Helper()
	u, err := s.Auth.Signup(context.Background(), transport.SignupRequest{Username: username, Password: "password1"})
	require.NoError(t, err)
	return u, auth.Principal{UserID: u.ID, Role: u.Role}
}

func adminPrincipal(t *testing.T, s *Services) auth.Principal {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.Auth.EnsureAdmin(ctx, "admin", "adminpass"))
	admin, err := s.Auth.Repo.GetUserByUsername(ctx, "admin")
	require.NoError(t, err)
	return auth.Principal{UserID: admin.ID, Role: admin.Role}
}

func seedProduct(t *testing.T, s *Services, admin auth.Principal, title string, price float64) *models.Product {
	t.Helper()
	ctx := context.Background()
	total, cats, err := s.Categories.Repo.ListCategories(ctx, repo.ListParams{Limit: 1})
	require.NoError(t, err)
	var categoryID uint
	if total == 0 {
		c, err := s.Categories.Create(ctx, admin, transport.CreateCategoryRequest{Name: "general"})
		require.NoError(t, err)
		categoryID = c.ID
	} else {
		categoryID = cats[0].ID
	}
	p, err := s.Products.Create(ctx, admin, transport.CreateProductRequest{Title: title, Price: price, CategoryID: categoryID})
	require.NoError(t, err)
	return p
}

func ptr[T any](v T) *T { return &v }
