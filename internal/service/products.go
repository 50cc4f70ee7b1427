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
	"github.com/Skotchmaster/shop_api/pkg/logging"
)

// ProductIndex is the full-text copy of the catalog.
type ProductIndex interface {
	IndexProduct(ctx context.Context, p models.Product) error
	RemoveProduct(ctx context.Context, id uint) error
	Search(ctx context.Context, query string, from, size int) (int64, []models.Product, error)
}

type ProductService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	Index  ProductIndex // nil disables full-text search
}

func (s *ProductService) List(ctx context.Context, page util.Page, search string) (*transport.ListResponse[models.Product], error) {
	total, items, err := s.Repo.ListProducts(ctx, repo.ListParams{Offset: page.Offset(), Limit: page.Limit, Search: search})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return listResponse(items, total, page), nil
}

// Search runs a fuzzy query against the index. Without an index, or when the
// index fails, it degrades to the substring match of List.
func (s *ProductService) Search(ctx context.Context, page util.Page, query string) (*transport.ListResponse[models.Product], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, newError(ErrValidation, "q is required")
	}
	if s.Index != nil {
		total, items, err := s.Index.Search(ctx, query, page.Offset(), page.Limit)
		if err == nil {
			return listResponse(items, total, page), nil
		}
		logging.FromContext(ctx).Warn("product_search_fallback", "reason", "index unavailable", "error", err)
	}
	return s.List(ctx, page, query)
}

func (s *ProductService) Get(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.Repo.GetProduct(ctx, id)
	if err != nil {
		return nil, translate(err, "product")
	}
	return product, nil
}

func checkProductNumbers(price, discount, rating *float64, stock *int) error {
	switch {
	case price != nil && *price < 0:
		return newError(ErrValidation, "price must not be negative")
	case discount != nil && (*discount < 0 || *discount > 100):
		return newError(ErrValidation, "discount_percentage must be between 0 and 100")
	case rating != nil && (*rating < 0 || *rating > 5):
		return newError(ErrValidation, "rating must be between 0 and 5")
	case stock != nil && *stock < 0:
		return newError(ErrValidation, "stock must not be negative")
	}
	return nil
}

func (s *ProductService) Create(ctx context.Context, p auth.Principal, req transport.CreateProductRequest) (*models.Product, error) {
	if err := auth.Require(p, models.RoleAdmin); err != nil {
		return nil, translate(err, "product")
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, newError(ErrValidation, "title is required")
	}
	if req.CategoryID == 0 {
		return nil, newError(ErrValidation, "category_id is required")
	}
	if err := checkProductNumbers(&req.Price, &req.DiscountPercentage, &req.Rating, &req.Stock); err != nil {
		return nil, err
	}

	product := &models.Product{
		Title:              title,
		Description:        req.Description,
		Price:              req.Price,
		DiscountPercentage: req.DiscountPercentage,
		Rating:             req.Rating,
		Stock:              req.Stock,
		Brand:              req.Brand,
		Thumbnail:          req.Thumbnail,
		IsPublished:        req.IsPublished,
		CategoryID:         req.CategoryID,
	}
	if err := s.Repo.CreateProduct(ctx, product); err != nil {
		return nil, translate(err, "product")
	}

	s.sync(ctx, *product)
	publish(ctx, s.Events, events.TopicProducts, "product_created", product.ID, p.UserID, product)
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, p auth.Principal, id uint, req transport.UpdateProductRequest) (*models.Product, error) {
	if err := auth.Require(p, models.RoleAdmin); err != nil {
		return nil, translate(err, "product")
	}
	if err := checkProductNumbers(req.Price, req.DiscountPercentage, req.Rating, req.Stock); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, newError(ErrValidation, "title must not be empty")
		}
		fields["title"] = title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Price != nil {
		fields["price"] = *req.Price
	}
	if req.DiscountPercentage != nil {
		fields["discount_percentage"] = *req.DiscountPercentage
	}
	if req.Rating != nil {
		fields["rating"] = *req.Rating
	}
	if req.Stock != nil {
		fields["stock"] = *req.Stock
	}
	if req.Brand != nil {
		fields["brand"] = *req.Brand
	}
	if req.Thumbnail != nil {
		fields["thumbnail"] = *req.Thumbnail
	}
	if req.IsPublished != nil {
		fields["is_published"] = *req.IsPublished
	}
	if req.CategoryID != nil {
		if *req.CategoryID == 0 {
			return nil, newError(ErrValidation, "category_id must not be zero")
		}
		fields["category_id"] = *req.CategoryID
	}

	product, err := s.Repo.UpdateProduct(ctx, id, fields)
	if err != nil {
		return nil, translate(err, "product")
	}
	s.sync(ctx, *product)
	publish(ctx, s.Events, events.TopicProducts, "product_updated", product.ID, p.UserID, product)
	return product, nil
}

// Delete refuses while a cart still holds the product.
func (s *ProductService) Delete(ctx context.Context, p auth.Principal, id uint) (*models.Product, error) {
	if err := auth.Require(p, models.RoleAdmin); err != nil {
		return nil, translate(err, "product")
	}
	product, err := s.Repo.DeleteProduct(ctx, id)
	if err != nil {
		return nil, translate(err, "product")
	}
	if s.Index != nil {
		if err := s.Index.RemoveProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("product_unindex_failed", "product_id", id, "error", err)
		}
	}
	publish(ctx, s.Events, events.TopicProducts, "product_deleted", product.ID, p.UserID, nil)
	return product, nil
}

func (s *ProductService) sync(ctx context.Context, product models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexProduct(ctx, product); err != nil {
		logging.FromContext(ctx).Warn("product_index_failed", "product_id", product.ID, "error", err)
	}
}
