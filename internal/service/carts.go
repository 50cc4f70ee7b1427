package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/shop_api/internal/auth"
	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/Skotchmaster/shop_api/internal/repo"
	"github.com/Skotchmaster/shop_api/internal/transport"
	"github.com/Skotchmaster/shop_api/internal/util"
	"github.com/Skotchmaster/shop_api/pkg/events"
	"github.com/Skotchmaster/shop_api/pkg/logging"
)

// CartService scopes every operation to the cart owner unless the caller is an
// admin. A cart that exists but belongs to someone else is ErrForbidden on
// every operation; a cart that does not exist is ErrNotFound.
type CartService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func (s *CartService) List(ctx context.Context, p auth.Principal, page util.Page) (*transport.ListResponse[models.Cart], error) {
	var owner uint
	if !p.IsAdmin() {
		owner = p.UserID
	}
	total, items, err := s.Repo.ListCarts(ctx, repo.ListParams{Offset: page.Offset(), Limit: page.Limit}, owner)
	if err != nil {
		return nil, fmt.Errorf("list carts: %w", err)
	}
	return listResponse(items, total, page), nil
}

func (s *CartService) Get(ctx context.Context, p auth.Principal, id uint) (*models.Cart, error) {
	return s.owned(ctx, p, id)
}

func (s *CartService) owned(ctx context.Context, p auth.Principal, id uint) (*models.Cart, error) {
	cart, err := s.Repo.GetCart(ctx, id)
	if err != nil {
		return nil, translate(err, "cart")
	}
	if err := auth.RequireOwner(p, cart.UserID); err != nil {
		logging.FromContext(ctx).Warn("cart_access_denied", "cart_id", id, "owner_id", cart.UserID, "user_id", p.UserID)
		return nil, newError(ErrForbidden, "cart belongs to another user")
	}
	return cart, nil
}

func cartLines(req transport.CartRequest) ([]repo.CartLine, error) {
	if len(req.Items) == 0 {
		return nil, newError(ErrValidation, "items must not be empty")
	}
	lines := make([]repo.CartLine, 0, len(req.Items))
	for i, it := range req.Items {
		if it.ProductID == 0 {
			return nil, newError(ErrValidation, "items[%d].product_id is required", i)
		}
		if it.Quantity < 1 {
			return nil, newError(ErrValidation, "items[%d].quantity must be at least 1", i)
		}
		lines = append(lines, repo.CartLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return lines, nil
}

func (s *CartService) Create(ctx context.Context, p auth.Principal, req transport.CartRequest) (*models.Cart, error) {
	lines, err := cartLines(req)
	if err != nil {
		return nil, err
	}
	cart, err := s.Repo.CreateCart(ctx, p.UserID, lines)
	if err != nil {
		return nil, translate(err, "user")
	}
	publish(ctx, s.Events, events.TopicCarts, "cart_created", cart.ID, p.UserID, cart)
	return cart, nil
}

// Update replaces the whole item set of the cart.
func (s *CartService) Update(ctx context.Context, p auth.Principal, id uint, req transport.CartRequest) (*models.Cart, error) {
	if _, err := s.owned(ctx, p, id); err != nil {
		return nil, err
	}
	lines, err := cartLines(req)
	if err != nil {
		return nil, err
	}
	cart, err := s.Repo.ReplaceCartItems(ctx, id, lines)
	if err != nil {
		return nil, translate(err, "cart")
	}
	publish(ctx, s.Events, events.TopicCarts, "cart_updated", cart.ID, p.UserID, cart)
	return cart, nil
}

func (s *CartService) Delete(ctx context.Context, p auth.Principal, id uint) (*models.Cart, error) {
	if _, err := s.owned(ctx, p, id); err != nil {
		return nil, err
	}
	cart, err := s.Repo.DeleteCart(ctx, id)
	if err != nil {
		return nil, translate(err, "cart")
	}
	publish(ctx, s.Events, events.TopicCarts, "cart_deleted", cart.ID, p.UserID, nil)
	return cart, nil
}
