package controllers

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/wangpython/gogroupbuy-backend/api/middleware"
	"github.com/wangpython/gogroupbuy-backend/pkg/enums"
	"github.com/wangpython/gogroupbuy-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
}

func addRouteParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func withIdentity(req *http.Request, storeID, userID string, role enums.Role) *http.Request {
	ctx := middleware.WithStoreID(req.Context(), storeID)
	ctx = middleware.WithUserID(ctx, userID)
	ctx = middleware.WithRole(ctx, role.String())
	return req.WithContext(ctx)
}

func decimalFromString(t *testing.T, raw string) decimal.Decimal {
	t.Helper()
	value, err := decimal.NewFromString(raw)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", raw, err)
	}
	return value
}

func requireStatus(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Fatalf("unexpected status %d, want %d", got, want)
	}
}
