package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wangpython/gogroupbuy-backend/internal/customers"
	"github.com/wangpython/gogroupbuy-backend/pkg/enums"
	pkgerrors "github.com/wangpython/gogroupbuy-backend/pkg/errors"
)

type testCustomersService struct {
	updateProfileFn   func(ctx context.Context, input customers.UpdateProfileInput) error
	adjustBlacklistFn func(ctx context.Context, input customers.AdjustBlacklistInput) (int, error)
}

func (s *testCustomersService) UpdateProfile(ctx context.Context, input customers.UpdateProfileInput) error {
	if s.updateProfileFn != nil {
		return s.updateProfileFn(ctx, input)
	}
	return nil
}

func (s *testCustomersService) AdjustBlacklist(ctx context.Context, input customers.AdjustBlacklistInput) (int, error) {
	if s.adjustBlacklistFn != nil {
		return s.adjustBlacklistFn(ctx, input)
	}
	return 0, nil
}

func TestUpdateUserProfile(t *testing.T) {
	var got customers.UpdateProfileInput
	svc := &testCustomersService{
		updateProfileFn: func(ctx context.Context, input customers.UpdateProfileInput) error {
			got = input
			return nil
		},
	}

	body := strings.NewReader(`{"user_name":"Amy","phone":"0912345678"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/users/cust-9", body)
	req = withIdentity(req, "store-1", "cust-9", enums.RoleCustomer)
	req = addRouteParam(req, "userid", "cust-9")
	resp := httptest.NewRecorder()

	UpdateUserProfile(svc, testLogger())(resp, req)

	requireStatus(t, resp.Code, http.StatusOK)
	if got.TargetUserID != "cust-9" || got.UserName != "Amy" || got.Phone != "0912345678" {
		t.Fatalf("unexpected input %+v", got)
	}
	if got.Requester.StoreID != "store-1" || got.Requester.Role != enums.RoleCustomer {
		t.Fatalf("unexpected requester %+v", got.Requester)
	}
}

func TestUpdateUserProfileValidation(t *testing.T) {
	body := strings.NewReader(`{"user_name":"Amy"}`)
	req := httptest.NewRequest(http.MethodPut, "/api/users/cust-9", body)
	req = withIdentity(req, "store-1", "cust-9", enums.RoleCustomer)
	req = addRouteParam(req, "userid", "cust-9")
	resp := httptest.NewRecorder()

	UpdateUserProfile(&testCustomersService{}, testLogger())(resp, req)

	requireStatus(t, resp.Code, http.StatusBadRequest)
}

func TestAdjustUserBlacklist(t *testing.T) {
	svc := &testCustomersService{
		adjustBlacklistFn: func(ctx context.Context, input customers.AdjustBlacklistInput) (int, error) {
			if input.TargetUserID != "cust-9" || input.Delta != 1 {
				t.Fatalf("unexpected input %+v", input)
			}
			return 4, nil
		},
	}

	body := strings.NewReader(`{"delta":1}`)
	req := httptest.NewRequest(http.MethodPut, "/api/users/cust-9/blacklist", body)
	req = withIdentity(req, "store-1", "boss", enums.RoleMerchant)
	req = addRouteParam(req, "userid", "cust-9")
	resp := httptest.NewRecorder()

	AdjustUserBlacklist(svc, testLogger())(resp, req)

	requireStatus(t, resp.Code, http.StatusOK)

	var envelope struct {
		Data struct {
			UserID    string `json:"userid"`
			Blacklist int    `json:"blacklist"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.UserID != "cust-9" || envelope.Data.Blacklist != 4 {
		t.Fatalf("unexpected payload %+v", envelope.Data)
	}
}

func TestAdjustUserBlacklistZeroDelta(t *testing.T) {
	called := false
	svc := &testCustomersService{
		adjustBlacklistFn: func(ctx context.Context, input customers.AdjustBlacklistInput) (int, error) {
			called = true
			if input.Delta != 0 {
				t.Fatalf("unexpected delta %d", input.Delta)
			}
			return 0, nil
		},
	}

	body := strings.NewReader(`{"delta":0}`)
	req := httptest.NewRequest(http.MethodPut, "/api/users/cust-9/blacklist", body)
	req = withIdentity(req, "store-1", "boss", enums.RoleMerchant)
	req = addRouteParam(req, "userid", "cust-9")
	resp := httptest.NewRecorder()

	AdjustUserBlacklist(svc, testLogger())(resp, req)

	requireStatus(t, resp.Code, http.StatusOK)
	if !called {
		t.Fatal("zero delta must reach the service")
	}
}

func TestAdjustUserBlacklistMissingDelta(t *testing.T) {
	body := strings.NewReader(`{}`)
	req := httptest.NewRequest(http.MethodPut, "/api/users/cust-9/blacklist", body)
	req = withIdentity(req, "store-1", "boss", enums.RoleMerchant)
	req = addRouteParam(req, "userid", "cust-9")
	resp := httptest.NewRecorder()

	AdjustUserBlacklist(&testCustomersService{}, testLogger())(resp, req)

	requireStatus(t, resp.Code, http.StatusBadRequest)
}

func TestAdjustUserBlacklistTargetMerchant(t *testing.T) {
	svc := &testCustomersService{
		adjustBlacklistFn: func(ctx context.Context, input customers.AdjustBlacklistInput) (int, error) {
			return 0, pkgerrors.New(pkgerrors.CodeValidation, "merchants do not have a blacklist score")
		},
	}

	body := strings.NewReader(`{"delta":1}`)
	req := httptest.NewRequest(http.MethodPut, "/api/users/boss/blacklist", body)
	req = withIdentity(req, "store-1", "boss", enums.RoleMerchant)
	req = addRouteParam(req, "userid", "boss")
	resp := httptest.NewRecorder()

	AdjustUserBlacklist(svc, testLogger())(resp, req)

	requireStatus(t, resp.Code, http.StatusBadRequest)
	if !strings.Contains(resp.Body.String(), "merchants do not have a blacklist score") {
		t.Fatalf("unexpected body %s", resp.Body.String())
	}
}
