package controllers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wangpython/gogroupbuy-backend/internal/products"
	pkgauth "github.com/wangpython/gogroupbuy-backend/pkg/auth"
	"github.com/wangpython/gogroupbuy-backend/pkg/db/models"
	"github.com/wangpython/gogroupbuy-backend/pkg/enums"
	pkgerrors "github.com/wangpython/gogroupbuy-backend/pkg/errors"
)

type testProductsService struct {
	listFn              func(ctx context.Context, requester pkgauth.AccessTokenPayload) ([]models.Product, error)
	createFn            func(ctx context.Context, input products.CreateInput) (*models.Product, error)
	updateQuantityFn    func(ctx context.Context, input products.UpdateQuantityInput) error
	updateArrivalFn     func(ctx context.Context, input products.UpdateArrivalInput) error
	updateStatementDate func(ctx context.Context, input products.UpdateStatementDateInput) error
}

func (s *testProductsService) List(ctx context.Context, requester pkgauth.AccessTokenPayload) ([]models.Product, error) {
	if s.listFn != nil {
		return s.listFn(ctx, requester)
	}
	return nil, nil
}

func (s *testProductsService) Create(ctx context.Context, input products.CreateInput) (*models.Product, error) {
	if s.createFn != nil {
		return s.createFn(ctx, input)
	}
	return nil, nil
}

func (s *testProductsService) UpdatePurchaseQuantity(ctx context.Context, input products.UpdateQuantityInput) error {
	if s.updateQuantityFn != nil {
		return s.updateQuantityFn(ctx, input)
	}
	return nil
}

func (s *testProductsService) UpdateArrival(ctx context.Context, input products.UpdateArrivalInput) error {
	if s.updateArrivalFn != nil {
		return s.updateArrivalFn(ctx, input)
	}
	return nil
}

func (s *testProductsService) UpdateStatementDate(ctx context.Context, input products.UpdateStatementDateInput) error {
	if s.updateStatementDate != nil {
		return s.updateStatementDate(ctx, input)
	}
	return nil
}

func TestListProducts(t *testing.T) {
	svc := &testProductsService{
		listFn: func(ctx context.Context, requester pkgauth.AccessTokenPayload) ([]models.Product, error) {
			if requester.StoreID != "store-1" {
				t.Fatalf("unexpected requester %+v", requester)
			}
			return []models.Product{{ProductID: 7, StoreID: "store-1", ProductName: "mango box"}}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req = withIdentity(req, "store-1", "cust-9", enums.RoleCustomer)
	resp := httptest.NewRecorder()

	ListProducts(svc, testLogger())(resp, req)

	requireStatus(t, resp.Code, http.StatusOK)
	if !strings.Contains(resp.Body.String(), "mango box") {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}

func newProductForm(t *testing.T, fields map[string]string, withPicture bool) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write field %s: %v", key, err)
		}
	}
	if withPicture {
		part, err := writer.CreateFormFile(productPictureField, "mango.jpg")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := io.WriteString(part, "fake image bytes"); err != nil {
			t.Fatalf("write image: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, writer.FormDataContentType()
}

func TestCreateProduct(t *testing.T) {
	var got products.CreateInput
	svc := &testProductsService{
		createFn: func(ctx context.Context, input products.CreateInput) (*models.Product, error) {
			got = input
			return &models.Product{ProductID: 7, StoreID: input.Requester.StoreID, ProductName: input.ProductName}, nil
		},
	}

	body, contentType := newProductForm(t, map[string]string{
		"product_name":   "mango box",
		"price":          "350",
		"cost":           "200.50",
		"unit":           "box",
		"supplier_name":  "chen farm",
		"launch_date":    "2024-06-01",
		"statement_date": "2024-06-10",
	}, true)

	req := httptest.NewRequest(http.MethodPost, "/api/products", body)
	req.Header.Set("Content-Type", contentType)
	req = withIdentity(req, "store-1", "boss", enums.RoleMerchant)
	resp := httptest.NewRecorder()

	CreateProduct(svc, testLogger())(resp, req)

	requireStatus(t, resp.Code, http.StatusCreated)
	if got.ProductName != "mango box" || got.Unit != "box" || got.SupplierName != "chen farm" {
		t.Fatalf("unexpected input %+v", got)
	}
	if !got.Price.Equal(decimalFromString(t, "350")) || !got.Cost.Equal(decimalFromString(t, "200.50")) {
		t.Fatalf("unexpected amounts price=%s cost=%s", got.Price, got.Cost)
	}
	if got.ImageFilename != "mango.jpg" || got.Image == nil {
		t.Fatalf("picture not forwarded: %+v", got)
	}
}

func TestCreateProductMissingPicture(t *testing.T) {
	body, contentType := newProductForm(t, map[string]string{
		"product_name":   "mango box",
		"price":          "350",
		"cost":           "200",
		"unit":           "box",
		"supplier_name":  "chen farm",
		"launch_date":    "2024-06-01",
		"statement_date": "2024-06-10",
	}, false)

	req := httptest.NewRequest(http.MethodPost, "/api/products", body)
	req.Header.Set("Content-Type", contentType)
	req = withIdentity(req, "store-1", "boss", enums.RoleMerchant)
	resp := httptest.NewRecorder()

	CreateProduct(&testProductsService{}, testLogger())(resp, req)

	requireStatus(t, resp.Code, http.StatusBadRequest)
	if !strings.Contains(resp.Body.String(), "product picture is required") {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}

func TestCreateProductBadPrice(t *testing.T) {
	body, contentType := newProductForm(t, map[string]string{
		"product_name":   "mango box",
		"price":          "not-a-number",
		"cost":           "200",
		"unit":           "box",
		"supplier_name":  "chen farm",
		"launch_date":    "2024-06-01",
		"statement_date": "2024-06-10",
	}, true)

	req := httptest.NewRequest(http.MethodPost, "/api/products", body)
	req.Header.Set("Content-Type", contentType)
	req = withIdentity(req, "store-1", "boss", enums.RoleMerchant)
	resp := httptest.NewRecorder()

	CreateProduct(&testProductsService{}, testLogger())(resp, req)

	requireStatus(t, resp.Code, http.StatusBadRequest)
}

func TestUpdateProductQuantity(t *testing.T) {
	svc := &testProductsService{
		updateQuantityFn: func(ctx context.Context, input products.UpdateQuantityInput) error {
			if input.ProductID != 7 || input.Quantity != 30 {
				t.Fatalf("unexpected input %+v", input)
			}
			return nil
		},
	}

	body := strings.NewReader(`{"purchase_quantity":30}`)
	req := httptest.NewRequest(http.MethodPut, "/api/products/7/quantity", body)
	req = withIdentity(req, "store-1", "boss", enums.RoleMerchant)
	req = addRouteParam(req, "id", "7")
	resp := httptest.NewRecorder()

	UpdateProductQuantity(svc, testLogger())(resp, req)

	requireStatus(t, resp.Code, http.StatusOK)
}

func TestUpdateProductQuantityInvalidID(t *testing.T) {
	body := strings.NewReader(`{"purchase_quantity":30}`)
	req := httptest.NewRequest(http.MethodPut, "/api/products/abc/quantity", body)
	req = withIdentity(req, "store-1", "boss", enums.RoleMerchant)
	req = addRouteParam(req, "id", "abc")
	resp := httptest.NewRecorder()

	UpdateProductQuantity(&testProductsService{}, testLogger())(resp, req)

	requireStatus(t, resp.Code, http.StatusBadRequest)
}

func TestUpdateProductArrival(t *testing.T) {
	var got products.UpdateArrivalInput
	svc := &testProductsService{
		updateArrivalFn: func(ctx context.Context, input products.UpdateArrivalInput) error {
			got = input
			return nil
		},
	}

	body := strings.NewReader(`{"arrival_date":"2024-06-15","due_days":7}`)
	req := httptest.NewRequest(http.MethodPut, "/api/products/7/arrival", body)
	req = withIdentity(req, "store-1", "boss", enums.RoleMerchant)
	req = addRouteParam(req, "id", "7")
	resp := httptest.NewRecorder()

	UpdateProductArrival(svc, testLogger())(resp, req)

	requireStatus(t, resp.Code, http.StatusOK)
	if got.ProductID != 7 || got.DueDays != 7 {
		t.Fatalf("unexpected input %+v", got)
	}
	if got.ArrivalDate.Format(dateLayout) != "2024-06-15" {
		t.Fatalf("unexpected arrival date %s", got.ArrivalDate)
	}
}

func TestUpdateProductArrivalForeignStore(t *testing.T) {
	svc := &testProductsService{
		updateArrivalFn: func(ctx context.Context, input products.UpdateArrivalInput) error {
			return pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another store")
		},
	}

	body := strings.NewReader(`{"arrival_date":"2024-06-15","due_days":7}`)
	req := httptest.NewRequest(http.MethodPut, "/api/products/7/arrival", body)
	req = withIdentity(req, "store-2", "boss2", enums.RoleMerchant)
	req = addRouteParam(req, "id", "7")
	resp := httptest.NewRecorder()

	UpdateProductArrival(svc, testLogger())(resp, req)

	requireStatus(t, resp.Code, http.StatusForbidden)
}

func TestUpdateProductStatementDate(t *testing.T) {
	svc := &testProductsService{
		updateStatementDate: func(ctx context.Context, input products.UpdateStatementDateInput) error {
			if input.ProductID != 7 || input.StatementDate.Format(dateLayout) != "2024-06-20" {
				t.Fatalf("unexpected input %+v", input)
			}
			return nil
		},
	}

	body := strings.NewReader(`{"statement_date":"2024-06-20"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/products/7/statementdate", body)
	req = withIdentity(req, "store-1", "boss", enums.RoleMerchant)
	req = addRouteParam(req, "id", "7")
	resp := httptest.NewRecorder()

	UpdateProductStatementDate(svc, testLogger())(resp, req)

	requireStatus(t, resp.Code, http.StatusOK)
}
