package service

import (
	"context"
	"strconv"
	"time"

	"github.com/Skotchmaster/shop_api/internal/config"
	"github.com/Skotchmaster/shop_api/internal/metrics"
	"github.com/Skotchmaster/shop_api/internal/repo"
	"github.com/Skotchmaster/shop_api/internal/transport"
	"github.com/Skotchmaster/shop_api/internal/util"
	"github.com/Skotchmaster/shop_api/pkg/events"
	"github.com/Skotchmaster/shop_api/pkg/logging"
)

type Services struct {
	Auth       *AuthService
	Users      *UserService
	Accounts   *AccountService
	Products   *ProductService
	Categories *CategoryService
	Carts      *CartService
}

// New wires every service over one repository and publisher. index may be nil.
func New(r *repo.GormRepo, pub events.Publisher, index ProductIndex, cfg *config.Config) *Services {
	users := &UserService{Repo: r, Events: pub}
	return &Services{
		Auth:       NewAuthService(r, pub, cfg),
		Users:      users,
		Accounts:   &AccountService{Users: users},
		Products:   &ProductService{Repo: r, Events: pub, Index: index},
		Categories: &CategoryService{Repo: r, Events: pub},
		Carts:      &CartService{Repo: r, Events: pub},
	}
}

// publish never fails the caller: the write is already committed.
func publish(ctx context.Context, pub events.Publisher, topic, typ string, id, actor uint, payload any) {
	if pub == nil {
		return
	}
	ev := events.Event{
		Type:       typ,
		EntityID:   id,
		ActorID:    actor,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
	err := pub.PublishEvent(ctx, topic, strconv.FormatUint(uint64(id), 10), ev)
	metrics.EventPublished(topic, err)
	if err != nil {
		logging.FromContext(ctx).Warn("publish_event_failed", "topic", topic, "type", typ, "id", id, "error", err)
	}
}

func listResponse[T any](items []T, total int64, p util.Page) *transport.ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return &transport.ListResponse[T]{
		Items:      items,
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages(total),
	}
}
