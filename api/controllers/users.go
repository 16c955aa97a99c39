package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wangpython/gogroupbuy-backend/api/middleware"
	"github.com/wangpython/gogroupbuy-backend/api/responses"
	"github.com/wangpython/gogroupbuy-backend/api/validators"
	"github.com/wangpython/gogroupbuy-backend/internal/customers"
	pkgerrors "github.com/wangpython/gogroupbuy-backend/pkg/errors"
	"github.com/wangpython/gogroupbuy-backend/pkg/logger"
)

type updateProfileRequest struct {
	UserName string `json:"user_name" validate:"required"`
	Phone    string `json:"phone" validate:"required"`
}

// UpdateUserProfile completes a customer's own contact profile.
func UpdateUserProfile(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customers service unavailable"))
			return
		}

		targetUserID := chi.URLParam(r, "userid")
		if targetUserID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "userid is required"))
			return
		}

		var payload updateProfileRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		err := svc.UpdateProfile(r.Context(), customers.UpdateProfileInput{
			Requester:    middleware.RequesterFromContext(r.Context()),
			TargetUserID: targetUserID,
			UserName:     payload.UserName,
			Phone:        payload.Phone,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"userid": targetUserID, "updated": true})
	}
}

type adjustBlacklistRequest struct {
	Delta *int `json:"delta" validate:"required"`
}

// AdjustUserBlacklist applies a merchant's blacklist delta to one customer and
// returns the new score.
func AdjustUserBlacklist(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customers service unavailable"))
			return
		}

		targetUserID := chi.URLParam(r, "userid")
		if targetUserID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "userid is required"))
			return
		}

		var payload adjustBlacklistRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		next, err := svc.AdjustBlacklist(r.Context(), customers.AdjustBlacklistInput{
			Requester:    middleware.RequesterFromContext(r.Context()),
			TargetUserID: targetUserID,
			Delta:        *payload.Delta,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"userid": targetUserID, "blacklist": next})
	}
}
