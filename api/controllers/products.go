package controllers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/wangpython/gogroupbuy-backend/api/middleware"
	"github.com/wangpython/gogroupbuy-backend/api/responses"
	"github.com/wangpython/gogroupbuy-backend/api/validators"
	"github.com/wangpython/gogroupbuy-backend/internal/products"
	pkgerrors "github.com/wangpython/gogroupbuy-backend/pkg/errors"
	"github.com/wangpython/gogroupbuy-backend/pkg/logger"
)

const (
	dateLayout            = "2006-01-02"
	productPictureField   = "product_picture"
	maxProductUploadBytes = 10 << 20
)

// ListProducts returns the catalog of the caller's store, newest first.
func ListProducts(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		items, err := svc.List(r.Context(), middleware.RequesterFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// CreateProduct accepts a multipart listing form with the picture attached and
// creates the catalog row once the picture has been uploaded.
func CreateProduct(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		if err := r.ParseMultipartForm(maxProductUploadBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form"))
			return
		}

		price, err := parseDecimalField(r, "price")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cost, err := parseDecimalField(r, "cost")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		launchDate, err := parseDateField(r, "launch_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		statementDate, err := parseDateField(r, "statement_date")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		file, header, err := r.FormFile(productPictureField)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "product picture is required"))
			return
		}
		defer func() { _ = file.Close() }()

		product, err := svc.Create(r.Context(), products.CreateInput{
			Requester:       middleware.RequesterFromContext(r.Context()),
			ProductName:     r.FormValue("product_name"),
			Price:           price,
			Cost:            cost,
			Unit:            r.FormValue("unit"),
			ProductDescribe: r.FormValue("product_describe"),
			SupplierName:    r.FormValue("supplier_name"),
			LaunchDate:      launchDate,
			StatementDate:   statementDate,
			ImageFilename:   header.Filename,
			Image:           file,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

type updateQuantityRequest struct {
	PurchaseQuantity *int `json:"purchase_quantity" validate:"required"`
}

// UpdateProductQuantity sets the quantity the store itself purchased.
func UpdateProductQuantity(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		productID, err := parseProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		err = svc.UpdatePurchaseQuantity(r.Context(), products.UpdateQuantityInput{
			Requester: middleware.RequesterFromContext(r.Context()),
			ProductID: productID,
			Quantity:  *payload.PurchaseQuantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"product_id": productID, "purchase_quantity": *payload.PurchaseQuantity})
	}
}

type updateArrivalRequest struct {
	ArrivalDate string `json:"arrival_date" validate:"required"`
	DueDays     *int   `json:"due_days" validate:"required"`
}

// UpdateProductArrival records the arrival date and the pickup window length.
func UpdateProductArrival(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		productID, err := parseProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateArrivalRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		arrivalDate, err := parseDate("arrival_date", payload.ArrivalDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		err = svc.UpdateArrival(r.Context(), products.UpdateArrivalInput{
			Requester:   middleware.RequesterFromContext(r.Context()),
			ProductID:   productID,
			ArrivalDate: arrivalDate,
			DueDays:     *payload.DueDays,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"product_id": productID, "arrival_date": payload.ArrivalDate, "due_days": *payload.DueDays})
	}
}

type updateStatementDateRequest struct {
	StatementDate string `json:"statement_date" validate:"required"`
}

// UpdateProductStatementDate moves the order cutoff date.
func UpdateProductStatementDate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "products service unavailable"))
			return
		}

		productID, err := parseProductID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateStatementDateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		statementDate, err := parseDate("statement_date", payload.StatementDate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		err = svc.UpdateStatementDate(r.Context(), products.UpdateStatementDateInput{
			Requester:     middleware.RequesterFromContext(r.Context()),
			ProductID:     productID,
			StatementDate: statementDate,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"product_id": productID, "statement_date": payload.StatementDate})
	}
}

func parseProductID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid product id")
	}
	return id, nil
}

func parseDecimalField(r *http.Request, field string) (decimal.Decimal, error) {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return decimal.Decimal{}, pkgerrors.New(pkgerrors.CodeValidation, field+" is required")
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, field+" must be a number")
	}
	return value, nil
}

func parseDateField(r *http.Request, field string) (time.Time, error) {
	return parseDate(field, r.FormValue(field))
}

func parseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, pkgerrors.New(pkgerrors.CodeValidation, field+" is required")
	}
	value, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, field+" must be a date in YYYY-MM-DD form")
	}
	return value, nil
}
