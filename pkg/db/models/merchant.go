package models

import "time"

// Merchant represents the owner relation of a group-buying store. One row per
// store; the store id doubles as the tenant boundary for every other table.
type Merchant struct {
	StoreID        string    `gorm:"column:store_id;primaryKey"`
	MerchantUserID string    `gorm:"column:merchant_userid;not null"`
	StoreName      *string   `gorm:"column:store_name"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName preserves the legacy table name.
func (Merchant) TableName() string {
	return "group_buying_merchants"
}
