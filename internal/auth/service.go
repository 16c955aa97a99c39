package auth

import (
	"context"
	"strings"
	"time"

	pkgauth "github.com/wangpython/gogroupbuy-backend/pkg/auth"
	"github.com/wangpython/gogroupbuy-backend/pkg/config"
	"github.com/wangpython/gogroupbuy-backend/pkg/db/models"
	"github.com/wangpython/gogroupbuy-backend/pkg/enums"
	pkgerrors "github.com/wangpython/gogroupbuy-backend/pkg/errors"
	"github.com/wangpython/gogroupbuy-backend/pkg/logger"
)

// Service resolves caller roles and issues access tokens.
type Service interface {
	Resolve(ctx context.Context, storeID, userID string) (enums.Role, bool, error)
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
}

type service struct {
	repo   Repository
	jwtCfg config.JWTConfig
	logg   *logger.Logger
	now    func() time.Time
}

// LoginInput identifies the caller within one store.
type LoginInput struct {
	StoreID string
	UserID  string
}

// LoginResult carries the issued token. Enrolled is true when the login
// created the customer row as a side effect.
type LoginResult struct {
	Token    string     `json:"token"`
	Role     enums.Role `json:"role"`
	Enrolled bool       `json:"-"`
}

// NewService wires auth dependencies.
func NewService(repo Repository, jwtCfg config.JWTConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "auth repository required")
	}
	if jwtCfg.Secret == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "jwt secret required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{repo: repo, jwtCfg: jwtCfg, logg: logg, now: time.Now}, nil
}

// Resolve determines the caller's role within the store. The merchant relation
// wins over a customer row with the same id.
func (s *service) Resolve(ctx context.Context, storeID, userID string) (enums.Role, bool, error) {
	merchant, err := s.repo.FindMerchant(ctx, storeID)
	if err != nil {
		return "", false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find merchant")
	}
	if merchant != nil && merchant.MerchantUserID == userID {
		return enums.RoleMerchant, true, nil
	}

	customer, err := s.repo.FindCustomer(ctx, storeID, userID)
	if err != nil {
		return "", false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find customer")
	}
	if customer != nil {
		return enums.RoleCustomer, true, nil
	}

	return "", false, nil
}

// Login resolves the caller and issues an access token. Unknown callers are
// enrolled as customers of the store on the spot.
func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	storeID := strings.TrimSpace(input.StoreID)
	userID := strings.TrimSpace(input.UserID)
	if storeID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}
	if userID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	role, found, err := s.Resolve(ctx, storeID, userID)
	if err != nil {
		return nil, err
	}

	enrolled := false
	if !found {
		customer := &models.Customer{
			UserID:    userID,
			StoreID:   storeID,
			Blacklist: 0,
		}
		if err := s.repo.CreateCustomer(ctx, customer); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "enroll customer")
		}
		role = enums.RoleCustomer
		enrolled = true
		s.logg.Info(ctx, "customer enrolled at login")
	}

	token, err := pkgauth.MintAccessToken(s.jwtCfg, s.now().UTC(), pkgauth.AccessTokenPayload{
		StoreID: storeID,
		UserID:  userID,
		Role:    role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	return &LoginResult{Token: token, Role: role, Enrolled: enrolled}, nil
}
