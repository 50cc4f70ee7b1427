package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skotchmaster/shop_api/internal/auth"
	"github.com/Skotchmaster/shop_api/internal/models"
	"github.com/Skotchmaster/shop_api/internal/repo"
	"github.com/Skotchmaster/shop_api/internal/transport"
	"github.com/Skotchmaster/shop_api/internal/util"
	"github.com/Skotchmaster/shop_api/pkg/events"
)

type CategoryService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

func (s *CategoryService) List(ctx context.Context, page util.Page, search string) (*transport.ListResponse[models.Category], error) {
	total, items, err := s.Repo.ListCategories(ctx, repo.ListParams{Offset: page.Offset(), Limit: page.Limit, Search: search})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return listResponse(items, total, page), nil
}

// Get embeds the products of the category.
func (s *CategoryService) Get(ctx context.Context, id uint) (*models.Category, error) {
	category, err := s.Repo.GetCategory(ctx, id, true)
	if err != nil {
		return nil, translate(err, "category")
	}
	if category.Products == nil {
		category.Products = []models.Product{}
	}
	return category, nil
}

func (s *CategoryService) Create(ctx context.Context, p auth.Principal, req transport.CreateCategoryRequest) (*models.Category, error) {
	if err := auth.Require(p, models.RoleAdmin); err != nil {
		return nil, translate(err, "category")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, newError(ErrValidation, "name is required")
	}

	category := &models.Category{Name: name}
	if err := s.Repo.CreateCategory(ctx, category); err != nil {
		return nil, translate(err, "category")
	}
	publish(ctx, s.Events, events.TopicCategories, "category_created", category.ID, p.UserID, category)
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, p auth.Principal, id uint, req transport.UpdateCategoryRequest) (*models.Category, error) {
	if err := auth.Require(p, models.RoleAdmin); err != nil {
		return nil, translate(err, "category")
	}
	fields := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, newError(ErrValidation, "name must not be empty")
		}
		fields["name"] = name
	}

	category, err := s.Repo.UpdateCategory(ctx, id, fields)
	if err != nil {
		return nil, translate(err, "category")
	}
	publish(ctx, s.Events, events.TopicCategories, "category_updated", category.ID, p.UserID, category)
	return category, nil
}

// Delete refuses while products still belong to the category.
func (s *CategoryService) Delete(ctx context.Context, p auth.Principal, id uint) (*models.Category, error) {
	if err := auth.Require(p, models.RoleAdmin); err != nil {
		return nil, translate(err, "category")
	}
	category, err := s.Repo.DeleteCategory(ctx, id)
	if err != nil {
		return nil, translate(err, "category")
	}
	publish(ctx, s.Events, events.TopicCategories, "category_deleted", category.ID, p.UserID, nil)
	return category, nil
}
