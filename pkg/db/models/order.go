package models

import "time"

// Order links a customer to a product within one store (transitively via the
// product's store id). ReceiveStatus transitions false to true exactly once.
type Order struct {
	OrderID       int64     `gorm:"column:order_id;primaryKey;autoIncrement"`
	UserID        string    `gorm:"column:userid;not null;index"`
	ProductID     int64     `gorm:"column:product_id;not null;index"`
	Quantity      int       `gorm:"column:quantity;not null"`
	ReceiveStatus bool      `gorm:"column:receive_status;not null;default:false"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
