package customers

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/wangpython/gogroupbuy-backend/pkg/db/models"
)

// Repository exposes persistence helpers for store-scoped customers.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, storeID, userID string) (*models.Customer, error)
	MerchantUserID(ctx context.Context, storeID string) (string, error)
	UpdateProfile(ctx context.Context, storeID, userID, userName, phone string) (int64, error)
	UpdateBlacklist(ctx context.Context, storeID, userID string, value int) (int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a customers repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) FindByID(ctx context.Context, storeID, userID string) (*models.Customer, error) {
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

func (r *repositoryImpl) MerchantUserID(ctx context.Context, storeID string) (string, error) {
	var merchant models.Merchant
	err := r.db.WithContext(ctx).
		Select("merchant_userid").
		Where("store_id = ?", storeID).
		First(&merchant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return merchant.MerchantUserID, nil
}

func (r *repositoryImpl) UpdateProfile(ctx context.Context, storeID, userID, userName, phone string) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("userid = ? AND store_id = ?", userID, storeID).
		Updates(map[string]any{"user_name": userName, "phone": phone})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

func (r *repositoryImpl) UpdateBlacklist(ctx context.Context, storeID, userID string, value int) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("userid = ? AND store_id = ?", userID, storeID).
		UpdateColumn("blacklist", value)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
