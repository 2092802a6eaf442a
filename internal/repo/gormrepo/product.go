package gormrepo

import (
	"context"

	"github.com/google/uuid"

	"github.com/Skotchmaster/storefront/internal/models"
)

const seedBatchSize = 100

func (r *GormRepo) ListProducts(ctx context.Context, category string) ([]models.Product, error) {
	q := r.DB.WithContext(ctx).Model(&models.Product{})
	if category != "" {
		q = q.Where("category = ?", category)
	}

	items := make([]models.Product, 0)
	if err := q.Order("created_at ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *GormRepo) GetProductsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	items := make([]models.Product, 0, len(ids))
	if len(ids) == 0 {
		return items, nil
	}
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return translate(r.DB.WithContext(ctx).Create(p).Error)
}

// ReplaceAllProducts deletes every product and inserts items. The two steps are
// separate statements; a failed insert leaves the table empty or partial.
func (r *GormRepo) ReplaceAllProducts(ctx context.Context, items []models.Product) (int, error) {
	if err := r.DB.WithContext(ctx).Where("1 = 1").Delete(&models.Product{}).Error; err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, nil
	}
	if err := r.DB.WithContext(ctx).CreateInBatches(&items, seedBatchSize).Error; err != nil {
		return 0, translate(err)
	}
	return len(items), nil
}
