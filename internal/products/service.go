package products

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	pkgauth "github.com/wangpython/gogroupbuy-backend/pkg/auth"
	"github.com/wangpython/gogroupbuy-backend/pkg/db"
	"github.com/wangpython/gogroupbuy-backend/pkg/db/models"
	"github.com/wangpython/gogroupbuy-backend/pkg/enums"
	pkgerrors "github.com/wangpython/gogroupbuy-backend/pkg/errors"
	"github.com/wangpython/gogroupbuy-backend/pkg/logger"
)

const (
	dueDaysMin = 0
	dueDaysMax = 255
)

// Uploader pushes product pictures to the asset host before the catalog row
// is written.
type Uploader interface {
	UploadImage(ctx context.Context, filename string, content io.Reader) (string, error)
}

// Service defines catalog operations for one store.
type Service interface {
	List(ctx context.Context, requester pkgauth.AccessTokenPayload) ([]models.Product, error)
	Create(ctx context.Context, input CreateInput) (*models.Product, error)
	UpdatePurchaseQuantity(ctx context.Context, input UpdateQuantityInput) error
	UpdateArrival(ctx context.Context, input UpdateArrivalInput) error
	UpdateStatementDate(ctx context.Context, input UpdateStatementDateInput) error
}

type service struct {
	repo     Repository
	uploader Uploader
	logg     *logger.Logger
}

// CreateInput carries a new catalog listing plus its picture content.
type CreateInput struct {
	Requester       pkgauth.AccessTokenPayload
	ProductName     string
	Price           decimal.Decimal
	Cost            decimal.Decimal
	Unit            string
	ProductDescribe string
	SupplierName    string
	LaunchDate      time.Time
	StatementDate   time.Time
	ImageFilename   string
	Image           io.Reader
}

// UpdateQuantityInput sets the store's own purchase quantity for a product.
type UpdateQuantityInput struct {
	Requester pkgauth.AccessTokenPayload
	ProductID int64
	Quantity  int
}

// UpdateArrivalInput records the arrival date and the pickup window length.
type UpdateArrivalInput struct {
	Requester   pkgauth.AccessTokenPayload
	ProductID   int64
	ArrivalDate time.Time
	DueDays     int
}

// UpdateStatementDateInput moves the order cutoff date.
type UpdateStatementDateInput struct {
	Requester     pkgauth.AccessTokenPayload
	ProductID     int64
	StatementDate time.Time
}

// NewService wires catalog dependencies.
func NewService(repo Repository, uploader Uploader, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "products repository required")
	}
	if uploader == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "asset uploader required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{repo: repo, uploader: uploader, logg: logg}, nil
}

func (s *service) List(ctx context.Context, requester pkgauth.AccessTokenPayload) ([]models.Product, error) {
	products, err := s.repo.ListByStore(ctx, requester.StoreID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	if len(products) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no products found")
	}
	return products, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Product, error) {
	if input.Requester.Role != enums.RoleMerchant {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the merchant can create products")
	}

	name := strings.TrimSpace(input.ProductName)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if strings.TrimSpace(input.Unit) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit is required")
	}
	if strings.TrimSpace(input.SupplierName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if input.Cost.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cost must not be negative")
	}
	if input.LaunchDate.IsZero() || input.StatementDate.IsZero() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "launch date and statement date are required")
	}
	if input.LaunchDate.After(input.StatementDate) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "launch date must not be after statement date")
	}
	if input.Image == nil || strings.TrimSpace(input.ImageFilename) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product picture is required")
	}

	exists, err := s.repo.ExistsByName(ctx, input.Requester.StoreID, name)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check product name")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "product name already exists")
	}

	pictureURL, err := s.uploader.UploadImage(ctx, input.ImageFilename, input.Image)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload product picture")
	}

	product := &models.Product{
		StoreID:         input.Requester.StoreID,
		ProductName:     name,
		Price:           input.Price,
		Cost:            input.Cost,
		Unit:            strings.TrimSpace(input.Unit),
		ProductDescribe: strings.TrimSpace(input.ProductDescribe),
		SupplierName:    strings.TrimSpace(input.SupplierName),
		ProductPicture:  pictureURL,
		LaunchDate:      input.LaunchDate,
		StatementDate:   input.StatementDate,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "idx_products_store_name") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	s.logg.Info(ctx, "product created")
	return product, nil
}

func (s *service) UpdatePurchaseQuantity(ctx context.Context, input UpdateQuantityInput) error {
	if input.Requester.Role != enums.RoleMerchant {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the merchant can update products")
	}
	if input.Quantity < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	}

	if _, err := AssertOwnedByStore(ctx, s.repo, input.ProductID, input.Requester.StoreID); err != nil {
		return err
	}

	affected, err := s.repo.UpdatePurchaseQuantity(ctx, input.ProductID, input.Requester.StoreID, input.Quantity)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update purchase quantity")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

func (s *service) UpdateArrival(ctx context.Context, input UpdateArrivalInput) error {
	if input.Requester.Role != enums.RoleMerchant {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the merchant can update products")
	}
	if input.ArrivalDate.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "arrival date is required")
	}
	if input.DueDays < dueDaysMin || input.DueDays > dueDaysMax {
		return pkgerrors.New(pkgerrors.CodeValidation, "due days must be between 0 and 255")
	}

	if _, err := AssertOwnedByStore(ctx, s.repo, input.ProductID, input.Requester.StoreID); err != nil {
		return err
	}

	affected, err := s.repo.UpdateArrival(ctx, input.ProductID, input.Requester.StoreID, input.ArrivalDate, input.DueDays)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update arrival")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

func (s *service) UpdateStatementDate(ctx context.Context, input UpdateStatementDateInput) error {
	if input.Requester.Role != enums.RoleMerchant {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only the merchant can update products")
	}
	if input.StatementDate.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "statement date is required")
	}

	if _, err := AssertOwnedByStore(ctx, s.repo, input.ProductID, input.Requester.StoreID); err != nil {
		return err
	}

	affected, err := s.repo.UpdateStatementDate(ctx, input.ProductID, input.Requester.StoreID, input.StatementDate)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update statement date")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}
