package notifications

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Repository loads the recipients of an arrival notification batch.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListUnreceived(ctx context.Context, productID int64) ([]Recipient, error)
}

// Recipient is an unreceived order joined with the product fields that feed
// the notification message.
type Recipient struct {
	UserID      string          `gorm:"column:userid"`
	ProductName string          `gorm:"column:product_name"`
	Quantity    int             `gorm:"column:quantity"`
	Price       decimal.Decimal `gorm:"column:price"`
	ArrivalDate *time.Time      `gorm:"column:arrival_date"`
	DueDays     *int            `gorm:"column:due_days"`
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a notifications repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) ListUnreceived(ctx context.Context, productID int64) ([]Recipient, error) {
	var recipients []Recipient
	err := r.db.WithContext(ctx).
		Table("orders").
		Select("orders.userid, orders.quantity, products.product_name, products.price, products.arrival_date, products.due_days").
		Joins("JOIN products ON products.product_id = orders.product_id").
		Where("orders.product_id = ? AND orders.receive_status = ?", productID, false).
		Order("orders.order_id ASC").
		Scan(&recipients).Error
	if err != nil {
		return nil, err
	}
	return recipients, nil
}
