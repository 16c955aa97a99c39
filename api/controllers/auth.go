package controllers

import (
	"net/http"

	"github.com/wangpython/gogroupbuy-backend/api/responses"
	"github.com/wangpython/gogroupbuy-backend/api/validators"
	"github.com/wangpython/gogroupbuy-backend/internal/auth"
	pkgerrors "github.com/wangpython/gogroupbuy-backend/pkg/errors"
	"github.com/wangpython/gogroupbuy-backend/pkg/logger"
)

type loginRequest struct {
	StoreID string `json:"store_id" validate:"required"`
	UserID  string `json:"userid" validate:"required"`
}

// AuthLogin resolves the caller within a store and returns an access token.
// A first-time caller is enrolled as a customer, which reads as a 201.
func AuthLogin(svc auth.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "auth service unavailable"))
			return
		}

		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Login(r.Context(), auth.LoginInput{
			StoreID: payload.StoreID,
			UserID:  payload.UserID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := http.StatusOK
		if result.Enrolled {
			status = http.StatusCreated
		}
		responses.WriteSuccessStatus(w, status, result)
	}
}
