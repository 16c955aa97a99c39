package products

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/wangpython/gogroupbuy-backend/pkg/db/models"
)

// Repository exposes persistence helpers for the store catalog. Every mutating
// statement re-states the store scope in its WHERE clause.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, productID int64) (*models.Product, error)
	ListByStore(ctx context.Context, storeID string) ([]models.Product, error)
	ExistsByName(ctx context.Context, storeID, productName string) (bool, error)
	UpdatePurchaseQuantity(ctx context.Context, productID int64, storeID string, quantity int) (int64, error)
	UpdateArrival(ctx context.Context, productID int64, storeID string, arrivalDate time.Time, dueDays int) (int64, error)
	UpdateStatementDate(ctx context.Context, productID int64, storeID string, statementDate time.Time) (int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a products repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, productID int64) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repositoryImpl) ListByStore(ctx context.Context, storeID string) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("created_at DESC, product_id DESC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repositoryImpl) ExistsByName(ctx context.Context, storeID, productName string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("store_id = ? AND product_name = ?", storeID, productName).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repositoryImpl) UpdatePurchaseQuantity(ctx context.Context, productID int64, storeID string, quantity int) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("product_id = ? AND store_id = ?", productID, storeID).
		UpdateColumn("purchase_quantity", quantity)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repositoryImpl) UpdateArrival(ctx context.Context, productID int64, storeID string, arrivalDate time.Time, dueDays int) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("product_id = ? AND store_id = ?", productID, storeID).
		Updates(map[string]any{"arrival_date": arrivalDate, "due_days": dueDays})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repositoryImpl) UpdateStatementDate(ctx context.Context, productID int64, storeID string, statementDate time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("product_id = ? AND store_id = ?", productID, storeID).
		UpdateColumn("statement_date", statementDate)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
