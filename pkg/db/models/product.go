package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a group-buy listing owned by a single store. Arrival
// fields stay unset until the goods physically arrive; due days is bounded to
// [0,255] at the API boundary to match the smallint column.
type Product struct {
	ProductID        int64           `gorm:"column:product_id;primaryKey;autoIncrement"`
	StoreID          string          `gorm:"column:store_id;not null;uniqueIndex:idx_products_store_name"`
	ProductName      string          `gorm:"column:product_name;not null;uniqueIndex:idx_products_store_name"`
	Price            decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Cost             decimal.Decimal `gorm:"column:cost;type:numeric(10,2);not null"`
	Unit             string          `gorm:"column:unit;not null"`
	ProductDescribe  string          `gorm:"column:product_describe;not null"`
	SupplierName     string          `gorm:"column:supplier_name;not null"`
	ProductPicture   string          `gorm:"column:product_picture;not null"`
	LaunchDate       time.Time       `gorm:"column:launch_date;type:date;not null"`
	StatementDate    time.Time       `gorm:"column:statement_date;type:date;not null"`
	ArrivalDate      *time.Time      `gorm:"column:arrival_date;type:date"`
	DueDays          *int            `gorm:"column:due_days;type:smallint"`
	PurchaseQuantity *int            `gorm:"column:purchase_quantity"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
