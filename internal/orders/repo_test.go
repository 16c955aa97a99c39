package orders

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/wangpython/gogroupbuy-backend/pkg/db/models"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	customers := `
CREATE TABLE IF NOT EXISTS customers (
  userid TEXT NOT NULL,
  store_id TEXT NOT NULL,
  user_name TEXT,
  phone TEXT,
  blacklist INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME,
  PRIMARY KEY (userid, store_id)
);`
	products := `
CREATE TABLE IF NOT EXISTS products (
  product_id INTEGER PRIMARY KEY AUTOINCREMENT,
  store_id TEXT NOT NULL,
  product_name TEXT NOT NULL,
  price NUMERIC NOT NULL,
  cost NUMERIC NOT NULL,
  unit TEXT NOT NULL,
  product_describe TEXT NOT NULL,
  supplier_name TEXT NOT NULL,
  product_picture TEXT NOT NULL,
  launch_date DATE NOT NULL,
  statement_date DATE NOT NULL,
  arrival_date DATE,
  due_days INTEGER,
  purchase_quantity INTEGER,
  created_at DATETIME,
  updated_at DATETIME
);`
	orders := `
CREATE TABLE IF NOT EXISTS orders (
  order_id INTEGER PRIMARY KEY AUTOINCREMENT,
  userid TEXT NOT NULL,
  product_id INTEGER NOT NULL,
  quantity INTEGER NOT NULL,
  receive_status INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(customers).Error)
	require.NoError(t, db.Exec(products).Error)
	require.NoError(t, db.Exec(orders).Error)

	require.NoError(t, db.Exec("DELETE FROM customers").Error)
	require.NoError(t, db.Exec("DELETE FROM products").Error)
	require.NoError(t, db.Exec("DELETE FROM orders").Error)
	return db
}

func seedCustomer(t *testing.T, db *gorm.DB, storeID, userID, phone string) {
	t.Helper()

	customer := &models.Customer{UserID: userID, StoreID: storeID}
	if phone != "" {
		customer.Phone = &phone
	}
	require.NoError(t, db.Create(customer).Error)
}

func seedProduct(t *testing.T, db *gorm.DB, storeID, name string, price int64) *models.Product {
	t.Helper()

	product := &models.Product{
		StoreID:         storeID,
		ProductName:     name,
		Price:           decimal.NewFromInt(price),
		Cost:            decimal.NewFromInt(price / 2),
		Unit:            "box",
		ProductDescribe: "test product",
		SupplierName:    "test supplier",
		ProductPicture:  "https://assets.test/pic.png",
		LaunchDate:      time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		StatementDate:   time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func seedOrder(t *testing.T, db *gorm.DB, userID string, productID int64, quantity int) *models.Order {
	t.Helper()

	order := &models.Order{UserID: userID, ProductID: productID, Quantity: quantity}
	require.NoError(t, db.Create(order).Error)
	return order
}

func TestRepositoryListForUser(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedCustomer(t, db, "store-1", "cust-9", "0912345678")
	mango := seedProduct(t, db, "store-1", "Mango Box", 350)
	foreign := seedProduct(t, db, "store-2", "Other Box", 100)
	seedOrder(t, db, "cust-9", mango.ProductID, 2)
	seedOrder(t, db, "cust-9", foreign.ProductID, 1)
	seedOrder(t, db, "cust-8", mango.ProductID, 1)

	rows, err := repo.ListForUser(ctx, "store-1", "cust-9")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "cust-9", rows[0].UserID)
	assert.Equal(t, "Mango Box", rows[0].ProductName)
	assert.Equal(t, 2, rows[0].Quantity)
	assert.True(t, rows[0].Price.Equal(decimal.NewFromInt(350)))
	assert.False(t, rows[0].ReceiveStatus)
}

func TestRepositoryListByPhone(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedCustomer(t, db, "store-1", "cust-9", "0912345678")
	seedCustomer(t, db, "store-1", "cust-8", "0987654321")
	mango := seedProduct(t, db, "store-1", "Mango Box", 350)
	seedOrder(t, db, "cust-9", mango.ProductID, 2)
	seedOrder(t, db, "cust-8", mango.ProductID, 1)

	rows, err := repo.ListByPhone(ctx, "store-1", "0912345678")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "cust-9", rows[0].UserID)

	rows, err = repo.ListByPhone(ctx, "store-1", "0900000000")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRepositoryListByStore(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	mango := seedProduct(t, db, "store-1", "Mango Box", 350)
	foreign := seedProduct(t, db, "store-2", "Other Box", 100)
	seedOrder(t, db, "cust-9", mango.ProductID, 2)
	seedOrder(t, db, "cust-8", mango.ProductID, 1)
	seedOrder(t, db, "cust-7", foreign.ProductID, 3)

	rows, err := repo.ListByStore(ctx, "store-1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.NotZero(t, row.OrderID)
		assert.Equal(t, "Mango Box", row.ProductName)
	}
}

func TestRepositoryMarkReceived(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	mango := seedProduct(t, db, "store-1", "Mango Box", 350)
	order := seedOrder(t, db, "cust-9", mango.ProductID, 2)

	info, err := repo.FindReceiveInfo(ctx, order.OrderID)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, "store-1", info.StoreID)
	assert.False(t, info.ReceiveStatus)

	affected, err := repo.MarkReceived(ctx, order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	affected, err = repo.MarkReceived(ctx, order.OrderID)
	require.NoError(t, err)
	assert.Zero(t, affected)

	info, err = repo.FindReceiveInfo(ctx, order.OrderID)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.True(t, info.ReceiveStatus)

	missing, err := repo.FindReceiveInfo(ctx, order.OrderID+999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRepositoryCustomerPhone(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedCustomer(t, db, "store-1", "cust-9", "0912345678")
	seedCustomer(t, db, "store-1", "cust-8", "")

	phone, err := repo.CustomerPhone(ctx, "store-1", "cust-9")
	require.NoError(t, err)
	require.NotNil(t, phone)
	assert.Equal(t, "0912345678", *phone)

	phone, err = repo.CustomerPhone(ctx, "store-1", "cust-8")
	require.NoError(t, err)
	assert.Nil(t, phone)

	phone, err = repo.CustomerPhone(ctx, "store-1", "ghost")
	require.NoError(t, err)
	assert.Nil(t, phone)
}
