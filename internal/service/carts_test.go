package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/shop_api/internal/transport"
	"github.com/Skotchmaster/shop_api/internal/util"
)

func TestCartService_OwnershipIsForbiddenEverywhere(t *testing.T) {
	s, _ := newTestServices(t, nil)
	ctx := context.Background()
	admin := adminPrincipal(t, s)
	p := seedProduct(t, s, admin, "Mug", 4)
	_, owner := signup(t, s, "owner")
	_, other := signup(t, s, "other")

	cart, err := s.Carts.Create(ctx, owner, transport.CartRequest{Items: []transport.CartItemRequest{{ProductID: p.ID, Quantity: 2}}})
	require.NoError(t, err)
	assert.Equal(t, owner.UserID, cart.UserID)
	assert.InDelta(t, 8.0, cart.TotalAmount, 1e-9)

	_, err = s.Carts.Get(ctx, other, cart.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = s.Carts.Update(ctx, other, cart.ID, transport.CartRequest{Items: []transport.CartItemRequest{{ProductID: p.ID, Quantity: 1}}})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = s.Carts.Update(ctx, other, cart.ID, transport.CartRequest{})
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = s.Carts.Delete(ctx, other, cart.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = s.Carts.Get(ctx, other, 9999)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := s.Carts.Get(ctx, admin, cart.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)
}

func TestCartService_ListIsScoped(t *testing.T) {
	s, _ := newTestServices(t, nil)
	ctx := context.Background()
	admin := adminPrincipal(t, s)
	p := seedProduct(t, s, admin, "Spoon", 1)
	_, a := signup(t, s, "anna")
	_, b := signup(t, s, "boris")
	items := transport.CartRequest{Items: []transport.CartItemRequest{{ProductID: p.ID, Quantity: 1}}}

	_, err := s.Carts.Create(ctx, a, items)
	require.NoError(t, err)
	_, err = s.Carts.Create(ctx, a, items)
	require.NoError(t, err)
	_, err = s.Carts.Create(ctx, b, items)
	require.NoError(t, err)

	mine, err := s.Carts.List(ctx, a, util.Clamp(1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(2), mine.Total)
	for _, c := range mine.Items {
		assert.Equal(t, a.UserID, c.UserID)
	}

	all, err := s.Carts.List(ctx, admin, util.Clamp(1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)
}

func TestCartService_UpdateAndDelete(t *testing.T) {
	s, mem := newTestServices(t, nil)
	ctx := context.Background()
	admin := adminPrincipal(t, s)
	mug := seedProduct(t, s, admin, "Mug", 4)
	plate := seedProduct(t, s, admin, "Plate", 6)
	_, owner := signup(t, s, "olga")

	cart, err := s.Carts.Create(ctx, owner, transport.CartRequest{Items: []transport.CartItemRequest{{ProductID: mug.ID, Quantity: 1}}})
	require.NoError(t, err)

	updated, err := s.Carts.Update(ctx, owner, cart.ID, transport.CartRequest{Items: []transport.CartItemRequest{
		{ProductID: plate.ID, Quantity: 1},
		{ProductID: plate.ID, Quantity: 2},
	}})
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, 3, updated.Items[0].Quantity)
	assert.InDelta(t, 18.0, updated.TotalAmount, 1e-9)

	_, err = s.Carts.Update(ctx, owner, cart.ID, transport.CartRequest{Items: []transport.CartItemRequest{{ProductID: plate.ID, Quantity: 0}}})
	assert.ErrorIs(t, err, ErrValidation)

	deleted, err := s.Carts.Delete(ctx, owner, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, deleted.ID)

	_, err = s.Carts.Get(ctx, owner, cart.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Subset(t, mem.Types(), []string{"cart_created", "cart_updated", "cart_deleted"})
}

func TestCartService_CreateValidation(t *testing.T) {
	s, _ := newTestServices(t, nil)
	ctx := context.Background()
	_, owner := signup(t, s, "pete")

	_, err := s.Carts.Create(ctx, owner, transport.CartRequest{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.Carts.Create(ctx, owner, transport.CartRequest{Items: []transport.CartItemRequest{{ProductID: 777, Quantity: 1}}})
	assert.ErrorIs(t, err, ErrNotFound)
}
