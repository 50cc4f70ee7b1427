package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/Skotchmaster/shop_api/internal/transport"
	"github.com/Skotchmaster/shop_api/internal/util"
	"github.com/Skotchmaster/shop_api/pkg/events"
)

func TestProductService_CreateRequiresAdmin(t *testing.T) {
	s, mem := newTestServices(t, nil)
	ctx := context.Background()
	admin := adminPrincipal(t, s)
	_, user := signup(t, s, "shopper")

	category, err := s.Categories.Create(ctx, admin, transport.CreateCategoryRequest{Name: "books"})
	require.NoError(t, err)
	req := transport.CreateProductRequest{Title: "Dune", Price: 9.99, Stock: 3, CategoryID: category.ID}

	_, err = s.Products.Create(ctx, user, req)
	assert.ErrorIs(t, err, ErrForbidden)

	created, err := s.Products.Create(ctx, admin, req)
	require.NoError(t, err)

	got, err := s.Products.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)
	assert.Equal(t, category.ID, got.CategoryID)

	var published []events.Published
	for _, e := range mem.Events() {
		if e.Topic == events.TopicProducts {
			published = append(published, e)
		}
	}
	require.Len(t, published, 1)
	assert.Equal(t, fmt.Sprint(created.ID), published[0].Key)
}

func TestProductService_CreateValidation(t *testing.T) {
	s, _ := newTestServices(t, nil)
	ctx := context.Background()
	admin := adminPrincipal(t, s)

	_, err := s.Products.Create(ctx, admin, transport.CreateProductRequest{Title: "x", Price: 1, CategoryID: 999})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Products.Create(ctx, admin, transport.CreateProductRequest{Title: " ", Price: 1, CategoryID: 1})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.Products.Create(ctx, admin, transport.CreateProductRequest{Title: "x", Price: -1, CategoryID: 1})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.Products.Create(ctx, admin, transport.CreateProductRequest{Title: "x", Price: 1, DiscountPercentage: 120, CategoryID: 1})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestProductService_UpdateIsPartial(t *testing.T) {
	s, _ := newTestServices(t, nil)
	ctx := context.Background()
	admin := adminPrincipal(t, s)
	p := seedProduct(t, s, admin, "Lamp", 20)

	updated, err := s.Products.Update(ctx, admin, p.ID, transport.UpdateProductRequest{Stock: ptr(7)})
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Stock)
	assert.Equal(t, "Lamp", updated.Title)
	assert.InDelta(t, 20.0, updated.Price, 1e-9)

	_, err = s.Products.Update(ctx, admin, p.ID, transport.UpdateProductRequest{Rating: ptr(7.5)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.Products.Update(ctx, admin, p.ID, transport.UpdateProductRequest{CategoryID: ptr(uint(404))})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.Products.Update(ctx, admin, 9999, transport.UpdateProductRequest{Stock: ptr(1)})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductService_DeleteThenGet(t *testing.T) {
	s, _ := newTestServices(t, nil)
	ctx := context.Background()
	admin := adminPrincipal(t, s)
	p := seedProduct(t, s, admin, "Chair", 40)

	_, err := s.Products.Delete(ctx, admin, 9999)
	assert.ErrorIs(t, err, ErrNotFound)

	deleted, err := s.Products.Delete(ctx, admin, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Chair", deleted.Title)

	_, err = s.Products.Get(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProductService_ListPagesAreDisjoint(t *testing.T) {
	s, _ := newTestServices(t, nil)
	ctx := context.Background()
	admin := adminPrincipal(t, s)
	for i := 0; i < 23; i++ {
		seedProduct(t, s, admin, fmt.Sprintf("item %02d", i), float64(i))
	}

	first, err := s.Products.List(ctx, util.Clamp(1, 10), "")
	require.NoError(t, err)
	second, err := s.Products.List(ctx, util.Clamp(2, 10), "")
	require.NoError(t, err)
	all, err := s.Products.List(ctx, util.Clamp(1, 100), "")
	require.NoError(t, err)

	assert.Equal(t, int64(23), first.Total)
	assert.Equal(t, int64(3), first.TotalPages)
	got := append(append([]models.Product{}, first.Items...), second.Items...)
	require.Len(t, got, 20)
	for i := range got {
		assert.Equal(t, all.Items[i].ID, got[i].ID)
	}

	beyond, err := s.Products.List(ctx, util.Clamp(9, 10), "")
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)
	assert.NotNil(t, beyond.Items)

	huge, err := s.Products.List(ctx, util.FromQuery("922337203685477590", "10"), "")
	require.NoError(t, err)
	assert.Empty(t, huge.Items)
	assert.Equal(t, util.MaxPage, huge.Page)
	assert.Equal(t, int64(23), huge.Total)
}

type fakeIndex struct {
	indexed []uint
	removed []uint
	hits    []models.Product
	err     error
}

func (f *fakeIndex) IndexProduct(_ context.Context, p models.Product) error {
	f.indexed = append(f.indexed, p.ID)
	return nil
}

func (f *fakeIndex) RemoveProduct(_ context.Context, id uint) error {
	f.removed = append(f.removed, id)
	return nil
}

func (f *fakeIndex) Search(context.Context, string, int, int) (int64, []models.Product, error) {
	if f.err != nil {
		return 0, nil, f.err
	}
	return int64(len(f.hits)), f.hits, nil
}

func TestProductService_SearchUsesIndexAndFallsBack(t *testing.T) {
	idx := &fakeIndex{hits: []models.Product{{ID: 42, Title: "from index"}}}
	s, _ := newTestServices(t, idx)
	ctx := context.Background()
	admin := adminPrincipal(t, s)
	p := seedProduct(t, s, admin, "Blue kettle", 15)
	assert.Equal(t, []uint{p.ID}, idx.indexed)

	res, err := s.Products.Search(ctx, util.Clamp(1, 10), "kettle")
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, uint(42), res.Items[0].ID)

	idx.err = errors.New("cluster down")
	res, err = s.Products.Search(ctx, util.Clamp(1, 10), "KETTLE")
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, p.ID, res.Items[0].ID)

	_, err = s.Products.Search(ctx, util.Clamp(1, 10), "  ")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.Products.Delete(ctx, admin, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{p.ID}, idx.removed)
}

func TestCategoryService_DeleteBlockedByProducts(t *testing.T) {
	s, _ := newTestServices(t, nil)
	ctx := context.Background()
	admin := adminPrincipal(t, s)
	p := seedProduct(t, s, admin, "Pen", 1)

	got, err := s.Categories.Get(ctx, p.CategoryID)
	require.NoError(t, err)
	require.Len(t, got.Products, 1)

	_, err = s.Categories.Delete(ctx, admin, p.CategoryID)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = s.Products.Delete(ctx, admin, p.ID)
	require.NoError(t, err)
	deleted, err := s.Categories.Delete(ctx, admin, p.CategoryID)
	require.NoError(t, err)
	assert.Equal(t, "general", deleted.Name)

	_, err = s.Categories.Get(ctx, p.CategoryID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryService_CreateUpdate(t *testing.T) {
	s, _ := newTestServices(t, nil)
	ctx := context.Background()
	admin := adminPrincipal(t, s)
	_, user := signup(t, s, "viewer")

	_, err := s.Categories.Create(ctx, user, transport.CreateCategoryRequest{Name: "toys"})
	assert.ErrorIs(t, err, ErrForbidden)

	toys, err := s.Categories.Create(ctx, admin, transport.CreateCategoryRequest{Name: "toys"})
	require.NoError(t, err)
	games, err := s.Categories.Create(ctx, admin, transport.CreateCategoryRequest{Name: "games"})
	require.NoError(t, err)

	_, err = s.Categories.Update(ctx, admin, games.ID, transport.UpdateCategoryRequest{Name: ptr("Toys")})
	assert.ErrorIs(t, err, ErrConflict)

	renamed, err := s.Categories.Update(ctx, admin, toys.ID, transport.UpdateCategoryRequest{Name: ptr("kids")})
	require.NoError(t, err)
	assert.Equal(t, "kids", renamed.Name)

	list, err := s.Categories.List(ctx, util.Clamp(1, 10), "KID")
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, toys.ID, list.Items[0].ID)
}

func TestUserService_AdminOnly(t *testing.T) {
	s, _ := newTestServices(t, nil)
	ctx := context.Background()
	admin := adminPrincipal(t, s)
	u, user := signup(t, s, "nosy")

	_, err := s.Users.List(ctx, user, util.Clamp(1, 10), "", "")
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = s.Users.Get(ctx, user, u.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	list, err := s.Users.List(ctx, admin, util.Clamp(1, 10), "", models.RoleAdmin)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "admin", list.Items[0].Username)

	_, err = s.Users.List(ctx, admin, util.Clamp(1, 10), "", "root")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUserService_CreateUpdateDelete(t *testing.T) {
	s, mem := newTestServices(t, nil)
	ctx := context.Background()
	admin := adminPrincipal(t, s)

	created, err := s.Users.Create(ctx, admin, transport.CreateUserRequest{Username: "staff", Password: "staffpass", Role: models.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, created.Role)

	_, err = s.Users.Create(ctx, admin, transport.CreateUserRequest{Username: "staff", Password: "staffpass"})
	assert.ErrorIs(t, err, ErrConflict)

	demoted, err := s.Users.Update(ctx, admin, created.ID, transport.UpdateUserRequest{Role: ptr(models.RoleUser)})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, demoted.Role)
	assert.Equal(t, "staff", demoted.Username)

	_, err = s.Users.Update(ctx, admin, created.ID, transport.UpdateUserRequest{Role: ptr("owner")})
	assert.ErrorIs(t, err, ErrValidation)

	deleted, err := s.Users.Delete(ctx, admin, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = s.Users.Get(ctx, admin, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Users.Delete(ctx, admin, created.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Subset(t, mem.Types(), []string{"user_created", "user_updated", "user_deleted"})
}
