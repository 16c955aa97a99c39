package auth

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/wangpython/gogroupbuy-backend/pkg/db/models"
)

// Repository exposes the identity lookups needed to resolve a caller's role.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindMerchant(ctx context.Context, storeID string) (*models.Merchant, error)
	FindCustomer(ctx context.Context, storeID, userID string) (*models.Customer, error)
	CreateCustomer(ctx context.Context, customer *models.Customer) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an auth repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) FindMerchant(ctx context.Context, storeID string) (*models.Merchant, error) {
	var merchant models.Merchant
	err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		First(&merchant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &merchant, nil
}

func (r *repositoryImpl) FindCustomer(ctx context.Context, storeID, userID string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Where("userid = ? AND store_id = ?", userID, storeID).
		First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *repositoryImpl) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}
