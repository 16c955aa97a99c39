package orders

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wangpython/gogroupbuy-backend/pkg/db/models"
)

// Repository exposes persistence helpers for the order ledger. Listing
// queries join the catalog so store scoping always runs through the product.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	CustomerPhone(ctx context.Context, storeID, userID string) (*string, error)
	ListForUser(ctx context.Context, storeID, userID string) ([]OrderRow, error)
	ListByPhone(ctx context.Context, storeID, phone string) ([]OrderRow, error)
	ListByStore(ctx context.Context, storeID string) ([]OrderRow, error)
	FindReceiveInfo(ctx context.Context, orderID int64) (*ReceiveInfo, error)
	MarkReceived(ctx context.Context, orderID int64) (int64, error)
}

// OrderRow is an order joined with its product fields.
type OrderRow struct {
	OrderID       int64           `gorm:"column:order_id"`
	UserID        string          `gorm:"column:userid"`
	ProductID     int64           `gorm:"column:product_id"`
	ProductName   string          `gorm:"column:product_name"`
	Quantity      int             `gorm:"column:quantity"`
	Price         decimal.Decimal `gorm:"column:price"`
	ReceiveStatus bool            `gorm:"column:receive_status"`
	ArrivalDate   *time.Time      `gorm:"column:arrival_date"`
	DueDays       *int            `gorm:"column:due_days"`
	CreatedAt     time.Time       `gorm:"column:created_at"`
}

// ReceiveInfo carries the ownership and state needed to mark an order received.
type ReceiveInfo struct {
	OrderID       int64  `gorm:"column:order_id"`
	StoreID       string `gorm:"column:store_id"`
	ReceiveStatus bool   `gorm:"column:receive_status"`
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns an orders repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *repositoryImpl) CustomerPhone(ctx context.Context, storeID, userID string) (*string, error) {
	var customer models.Customer
	err := r.db.WithContext(ctx).
		Select("phone").
		Where("userid = ? AND store_id = ?", userID, storeID).
		First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return customer.Phone, nil
}

const orderRowColumns = "orders.order_id, orders.userid, orders.product_id, orders.quantity, orders.receive_status, orders.created_at, products.product_name, products.price, products.arrival_date, products.due_days"

func (r *repositoryImpl) ListForUser(ctx context.Context, storeID, userID string) ([]OrderRow, error) {
	var rows []OrderRow
	err := r.db.WithContext(ctx).
		Table("orders").
		Select(orderRowColumns).
		Joins("JOIN products ON products.product_id = orders.product_id").
		Where("products.store_id = ? AND orders.userid = ?", storeID, userID).
		Order("orders.created_at DESC, orders.order_id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) ListByPhone(ctx context.Context, storeID, phone string) ([]OrderRow, error) {
	var rows []OrderRow
	err := r.db.WithContext(ctx).
		Table("orders").
		Select(orderRowColumns).
		Joins("JOIN products ON products.product_id = orders.product_id").
		Joins("JOIN customers ON customers.userid = orders.userid AND customers.store_id = products.store_id").
		Where("products.store_id = ? AND customers.phone = ?", storeID, phone).
		Order("orders.created_at DESC, orders.order_id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) ListByStore(ctx context.Context, storeID string) ([]OrderRow, error) {
	var rows []OrderRow
	err := r.db.WithContext(ctx).
		Table("orders").
		Select(orderRowColumns).
		Joins("JOIN products ON products.product_id = orders.product_id").
		Where("products.store_id = ?", storeID).
		Order("orders.created_at DESC, orders.order_id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repositoryImpl) FindReceiveInfo(ctx context.Context, orderID int64) (*ReceiveInfo, error) {
	var info ReceiveInfo
	result := r.db.WithContext(ctx).
		Table("orders").
		Select("orders.order_id, orders.receive_status, products.store_id").
		Joins("JOIN products ON products.product_id = orders.product_id").
		Where("orders.order_id = ?", orderID).
		Scan(&info)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &info, nil
}

func (r *repositoryImpl) MarkReceived(ctx context.Context, orderID int64) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("order_id = ? AND receive_status = ?", orderID, false).
		UpdateColumn("receive_status", true)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
