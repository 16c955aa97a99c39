package orders

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wangpython/gogroupbuy-backend/internal/products"
	pkgauth "github.com/wangpython/gogroupbuy-backend/pkg/auth"
	"github.com/wangpython/gogroupbuy-backend/pkg/db/models"
	"github.com/wangpython/gogroupbuy-backend/pkg/enums"
	pkgerrors "github.com/wangpython/gogroupbuy-backend/pkg/errors"
	"github.com/wangpython/gogroupbuy-backend/pkg/logger"
)

// Service defines order ledger operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Order, error)
	ListForUser(ctx context.Context, requester pkgauth.AccessTokenPayload, targetUserID string) ([]OrderView, error)
	ListByPhone(ctx context.Context, requester pkgauth.AccessTokenPayload, phone string) ([]OrderView, error)
	ListByStore(ctx context.Context, requester pkgauth.AccessTokenPayload) ([]OrderView, error)
	MarkReceived(ctx context.Context, requester pkgauth.AccessTokenPayload, orderID int64) error
}

type service struct {
	repo        Repository
	productRepo products.Repository
	logg        *logger.Logger
}

// CreateInput carries a customer's new order.
type CreateInput struct {
	Requester pkgauth.AccessTokenPayload
	ProductID int64
	Quantity  int
}

// OrderView is the customer-facing projection of an order joined with its
// product. OrderID is populated only on the store-wide listing.
type OrderView struct {
	OrderID       int64           `json:"order_id,omitempty"`
	UserID        string          `json:"userid"`
	ProductName   string          `json:"product_name"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	ReceiveStatus bool            `json:"receive_status"`
	DueDate       *time.Time      `json:"due_date"`
	CreatedAt     time.Time       `json:"created_at"`
}

// NewService wires order ledger dependencies.
func NewService(repo Repository, productRepo products.Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "orders repository required")
	}
	if productRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "products repository required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{repo: repo, productRepo: productRepo, logg: logg}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Order, error) {
	if input.Requester.Role != enums.RoleCustomer {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only customers can place orders")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be a positive integer")
	}

	phone, err := s.repo.CustomerPhone(ctx, input.Requester.StoreID, input.Requester.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer phone")
	}
	if phone == nil || strings.TrimSpace(*phone) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone number is not set")
	}

	// Products outside the caller's store read as missing so order attempts
	// cannot probe other stores' catalogs.
	if _, err := products.AssertOwnedByStore(ctx, s.productRepo, input.ProductID, input.Requester.StoreID); err != nil {
		if coded := pkgerrors.As(err); coded != nil && coded.Code() == pkgerrors.CodeForbidden {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, err
	}

	order := &models.Order{
		UserID:        input.Requester.UserID,
		ProductID:     input.ProductID,
		Quantity:      input.Quantity,
		ReceiveStatus: false,
	}
	if err := s.repo.Create(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	s.logg.Info(ctx, "order created")
	return order, nil
}

func (s *service) ListForUser(ctx context.Context, requester pkgauth.AccessTokenPayload, targetUserID string) ([]OrderView, error) {
	if requester.UserID != targetUserID && requester.Role != enums.RoleMerchant {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "orders of another user are not visible")
	}

	rows, err := s.repo.ListForUser(ctx, requester.StoreID, targetUserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	if len(rows) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no orders found")
	}

	return s.project(rows, false)
}

func (s *service) ListByPhone(ctx context.Context, requester pkgauth.AccessTokenPayload, phone string) ([]OrderView, error) {
	if requester.Role != enums.RoleMerchant {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the merchant can search orders by phone")
	}
	if strings.TrimSpace(phone) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}

	rows, err := s.repo.ListByPhone(ctx, requester.StoreID, strings.TrimSpace(phone))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders by phone")
	}
	if len(rows) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no orders found")
	}

	return s.project(rows, false)
}

func (s *service) ListByStore(ctx context.Context, requester pkgauth.AccessTokenPayload) ([]OrderView, error) {
	if requester.Role != enums.RoleMerchant {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the merchant can list store orders")
	}

	rows, err := s.repo.ListByStore(ctx, requester.StoreID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list store orders")
	}
	if len(rows) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no orders found")
	}

	// A bad pickup window on one product should not hide the rest of the
	// store's ledger; the row is logged and skipped.
	views := make([]OrderView, 0, len(rows))
	for _, row := range rows {
		due, err := DueDate(row.ArrivalDate, row.DueDays)
		if err != nil {
			ctx := s.logg.WithField(ctx, "order_id", row.OrderID)
			s.logg.Error(ctx, "skipping order with invalid pickup window", err)
			continue
		}
		views = append(views, s.view(row, due, true))
	}
	if len(views) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no orders found")
	}
	return views, nil
}

func (s *service) MarkReceived(ctx context.Context, requester pkgauth.AccessTokenPayload, orderID int64) error {
	if requester.Role != enums.RoleMerchant {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the merchant can mark orders received")
	}

	info, err := s.repo.FindReceiveInfo(ctx, orderID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find order")
	}
	if info == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	if info.StoreID != requester.StoreID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "order belongs to another store")
	}
	if info.ReceiveStatus {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "order already received")
	}

	affected, err := s.repo.MarkReceived(ctx, orderID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark order received")
	}
	if affected == 0 {
		// Lost the race against a concurrent mark; re-read to report the
		// right condition.
		current, err := s.repo.FindReceiveInfo(ctx, orderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "re-check order")
		}
		if current != nil && current.ReceiveStatus {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order already received")
		}
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return nil
}

func (s *service) project(rows []OrderRow, withOrderID bool) ([]OrderView, error) {
	views := make([]OrderView, 0, len(rows))
	for _, row := range rows {
		due, err := DueDate(row.ArrivalDate, row.DueDays)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "derive due date")
		}
		views = append(views, s.view(row, due, withOrderID))
	}
	return views, nil
}

func (s *service) view(row OrderRow, due *time.Time, withOrderID bool) OrderView {
	view := OrderView{
		UserID:        row.UserID,
		ProductName:   row.ProductName,
		Quantity:      row.Quantity,
		Price:         row.Price,
		TotalPrice:    row.Price.Mul(decimal.NewFromInt(int64(row.Quantity))),
		ReceiveStatus: row.ReceiveStatus,
		DueDate:       due,
		CreatedAt:     row.CreatedAt,
	}
	if withOrderID {
		view.OrderID = row.OrderID
	}
	return view
}
