package customers

import (
	"context"
	"strings"

	pkgauth "github.com/wangpython/gogroupbuy-backend/pkg/auth"
	"github.com/wangpython/gogroupbuy-backend/pkg/enums"
	pkgerrors "github.com/wangpython/gogroupbuy-backend/pkg/errors"
	"github.com/wangpython/gogroupbuy-backend/pkg/logger"
)

// Service defines customer profile and blacklist operations.
type Service interface {
	UpdateProfile(ctx context.Context, input UpdateProfileInput) error
	AdjustBlacklist(ctx context.Context, input AdjustBlacklistInput) (int, error)
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// UpdateProfileInput carries a customer's own profile update.
type UpdateProfileInput struct {
	Requester    pkgauth.AccessTokenPayload
	TargetUserID string
	UserName     string
	Phone        string
}

// AdjustBlacklistInput carries a merchant's blacklist adjustment for one
// customer of their store.
type AdjustBlacklistInput struct {
	Requester    pkgauth.AccessTokenPayload
	TargetUserID string
	Delta        int
}

// NewService wires customers dependencies.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "customers repository required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) UpdateProfile(ctx context.Context, input UpdateProfileInput) error {
	if input.Requester.Role != enums.RoleCustomer {
		return pkgerrors.New(pkgerrors.CodeForbidden, "only customers can update a profile")
	}
	if input.TargetUserID != input.Requester.UserID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "customers can only update their own profile")
	}

	userName := strings.TrimSpace(input.UserName)
	phone := strings.TrimSpace(input.Phone)
	if userName == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "user name is required")
	}
	if phone == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "phone is required")
	}

	affected, err := s.repo.UpdateProfile(ctx, input.Requester.StoreID, input.TargetUserID, userName, phone)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}
	return nil
}

func (s *service) AdjustBlacklist(ctx context.Context, input AdjustBlacklistInput) (int, error) {
	if input.Requester.Role != enums.RoleMerchant {
		return 0, pkgerrors.New(pkgerrors.CodeForbidden, "only the merchant can adjust the blacklist")
	}
	if input.Delta < -1 || input.Delta > 1 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "delta must be -1, 0 or 1")
	}

	merchantUserID, err := s.repo.MerchantUserID(ctx, input.Requester.StoreID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "resolve merchant")
	}
	if merchantUserID != "" && merchantUserID == input.TargetUserID {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "merchants do not have a blacklist score")
	}

	customer, err := s.repo.FindByID(ctx, input.Requester.StoreID, input.TargetUserID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find customer")
	}
	if customer == nil {
		return 0, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}

	next := Adjust(customer.Blacklist, input.Delta)
	affected, err := s.repo.UpdateBlacklist(ctx, input.Requester.StoreID, input.TargetUserID, next)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update blacklist")
	}
	if affected == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}

	return next, nil
}
