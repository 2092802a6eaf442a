package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/apperr"
	"github.com/Skotchmaster/storefront/internal/catalogfeed"
	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/logging"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	"github.com/Skotchmaster/storefront/internal/search"
	"github.com/Skotchmaster/storefront/internal/util"
)

type CatalogService struct {
	Products ProductRepo
	Feed     CatalogFeed
	Index    ProductIndex
	Events   EventPublisher
}

type ProductInput struct {
	Title              string
	Description        string
	Price              float64
	DiscountPercentage *float64
	Rating             *float64
	Stock              int
	Brand              string
	Category           string
	Thumbnail          string
	Images             []string
}

// ParseID classifies a path id: anything that is not a UUID is malformed.
func ParseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, apperr.ErrMalformedID.Wrap(err)
	}
	return id, nil
}

func (s *CatalogService) List(ctx context.Context, category string) ([]models.Product, error) {
	items, err := s.Products.ListProducts(ctx, strings.TrimSpace(category))
	if err != nil {
		logging.FromContext(ctx).Error("list_products_error", "status", 500, "error", err)
		return nil, apperr.Internal(fmt.Errorf("list products: %w", err))
	}
	return items, nil
}

func (s *CatalogService) Get(ctx context.Context, rawID string) (*models.Product, error) {
	id, err := ParseID(rawID)
	if err != nil {
		return nil, err
	}

	product, err := s.Products.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperr.ErrProductNotFound
		}
		logging.FromContext(ctx).Error("get_product_error", "status", 500, "product_id", id, "error", err)
		return nil, apperr.Internal(fmt.Errorf("get product: %w", err))
	}
	return product, nil
}

func (s *CatalogService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.create")

	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)

	var missing []string
	if in.Title == "" {
		missing = append(missing, "title")
	}
	if in.Description == "" {
		missing = append(missing, "description")
	}
	if in.Price == 0 {
		missing = append(missing, "price")
	}
	if in.Category == "" {
		missing = append(missing, "category")
	}
	if in.Stock == 0 {
		missing = append(missing, "stock")
	}
	if len(missing) > 0 {
		l.Warn("create_product_error", "status", 400, "reason", "missing fields", "fields", missing)
		return nil, apperr.ErrMissingFields.With(missing...)
	}
	if in.Price < 0 || in.Stock < 0 {
		l.Warn("create_product_error", "status", 400, "reason", "negative price or stock")
		return nil, apperr.ErrValidation.With("price and stock must not be negative")
	}

	product := &models.Product{
		Title:              in.Title,
		Description:        in.Description,
		Price:              in.Price,
		DiscountPercentage: in.DiscountPercentage,
		Rating:             in.Rating,
		Stock:              in.Stock,
		Brand:              in.Brand,
		Category:           in.Category,
		Thumbnail:          in.Thumbnail,
		Images:             in.Images,
	}
	if err := s.Products.CreateProduct(ctx, product); err != nil {
		l.Error("create_product_error", "status", 500, "error", err)
		return nil, apperr.Internal(fmt.Errorf("create product: %w", err))
	}

	if s.Index != nil {
		if err := s.Index.IndexProduct(ctx, *product); err != nil {
			l.Warn("index_product_failed", "product_id", product.ID, "error", err)
		}
	}
	publish(ctx, s.Events, events.TopicProducts, product.ID.String(), "product_created", product)

	return product, nil
}

// BulkReplace fetches the feed, then deletes and reinserts the catalog. The
// fetch happens first so a feed failure leaves the catalog untouched.
func (s *CatalogService) BulkReplace(ctx context.Context) (int, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.seed")

	feed, err := s.Feed.Fetch(ctx)
	if err != nil {
		l.Error("seed_products_error", "status", 500, "reason", "catalog feed failed", "error", err)
		return 0, apperr.ErrUpstream.Wrap(err)
	}

	items := make([]models.Product, 0, len(feed))
	for _, fp := range feed {
		items = append(items, fromFeed(fp))
	}

	n, err := s.Products.ReplaceAllProducts(ctx, items)
	if err != nil {
		l.Error("seed_products_error", "status", 500, "reason", "replace failed", "error", err)
		return 0, apperr.Internal(fmt.Errorf("replace products: %w", err))
	}

	if s.Index != nil {
		if err := s.Index.ReindexAll(ctx, items); err != nil {
			l.Warn("reindex_products_failed", "error", err)
		}
	}
	publish(ctx, s.Events, events.TopicProducts, "catalog", "products_seeded", map[string]any{"count": n})
	l.Info("products_seeded", "count", n)

	return n, nil
}

func (s *CatalogService) Search(ctx context.Context, query string, page, size int) (int64, []models.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return 0, nil, apperr.ErrValidation.With("q is required")
	}
	if s.Index == nil {
		return 0, nil, apperr.ErrUpstream.Wrap(search.ErrDisabled)
	}

	from, limit := util.Calculate(page, size)
	total, items, err := s.Index.Search(ctx, query, from, limit)
	if err != nil {
		logging.FromContext(ctx).Error("search_products_error", "status", 502, "error", err)
		return 0, nil, apperr.ErrUpstream.Wrap(err)
	}
	return total, items, nil
}

func fromFeed(fp catalogfeed.Product) models.Product {
	return models.Product{
		Title:              fp.Title,
		Description:        fp.Description,
		Price:              fp.Price,
		DiscountPercentage: fp.DiscountPercentage,
		Rating:             fp.Rating,
		Stock:              fp.Stock,
		Brand:              fp.Brand,
		Category:           fp.Category,
		Thumbnail:          fp.Thumbnail,
		Images:             fp.Images,
	}
}
