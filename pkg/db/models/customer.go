package models

import "time"

// Customer represents a store-scoped shopper. Rows are created implicitly on
// first login; name and phone stay unset until the customer completes their
// profile. Blacklist is a non-negative penalty counter maintained by the
// merchant.
type Customer struct {
	UserID    string    `gorm:"column:userid;primaryKey"`
	StoreID   string    `gorm:"column:store_id;primaryKey"`
	UserName  *string   `gorm:"column:user_name"`
	Phone     *string   `gorm:"column:phone"`
	Blacklist int       `gorm:"column:blacklist;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
