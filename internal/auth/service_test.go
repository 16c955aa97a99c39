package auth

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	pkgauth "github.com/wangpython/gogroupbuy-backend/pkg/auth"
	"github.com/wangpython/gogroupbuy-backend/pkg/config"
	"github.com/wangpython/gogroupbuy-backend/pkg/db/models"
	"github.com/wangpython/gogroupbuy-backend/pkg/enums"
	pkgerrors "github.com/wangpython/gogroupbuy-backend/pkg/errors"
	"github.com/wangpython/gogroupbuy-backend/pkg/logger"
)

type fakeRepo struct {
	findMerchantFn   func(ctx context.Context, storeID string) (*models.Merchant, error)
	findCustomerFn   func(ctx context.Context, storeID, userID string) (*models.Customer, error)
	createCustomerFn func(ctx context.Context, customer *models.Customer) error
}

func (f *fakeRepo) WithTx(tx *gorm.DB) Repository { return f }

func (f *fakeRepo) FindMerchant(ctx context.Context, storeID string) (*models.Merchant, error) {
	if f.findMerchantFn == nil {
		return nil, nil
	}
	return f.findMerchantFn(ctx, storeID)
}

func (f *fakeRepo) FindCustomer(ctx context.Context, storeID, userID string) (*models.Customer, error) {
	if f.findCustomerFn == nil {
		return nil, nil
	}
	return f.findCustomerFn(ctx, storeID, userID)
}

func (f *fakeRepo) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	if f.createCustomerFn == nil {
		return nil
	}
	return f.createCustomerFn(ctx, customer)
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "groupbuy-test", ExpirationMinutes: 60}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled, Output: io.Discard})
}

func TestLoginMerchant(t *testing.T) {
	repo := &fakeRepo{
		findMerchantFn: func(ctx context.Context, storeID string) (*models.Merchant, error) {
			return &models.Merchant{StoreID: storeID, MerchantUserID: "boss"}, nil
		},
	}
	svc, err := NewService(repo, testJWTConfig(), testLogger())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	result, err := svc.Login(context.Background(), LoginInput{StoreID: "store-1", UserID: "boss"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Role != enums.RoleMerchant {
		t.Fatalf("expected merchant role, got %s", result.Role)
	}
	if result.Enrolled {
		t.Fatalf("merchant login should not enroll")
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), result.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.StoreID != "store-1" || claims.UserID != "boss" || claims.Role != enums.RoleMerchant {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestLoginExistingCustomer(t *testing.T) {
	repo := &fakeRepo{
		findMerchantFn: func(ctx context.Context, storeID string) (*models.Merchant, error) {
			return &models.Merchant{StoreID: storeID, MerchantUserID: "boss"}, nil
		},
		findCustomerFn: func(ctx context.Context, storeID, userID string) (*models.Customer, error) {
			return &models.Customer{UserID: userID, StoreID: storeID}, nil
		},
		createCustomerFn: func(ctx context.Context, customer *models.Customer) error {
			t.Fatalf("existing customer must not be re-enrolled")
			return nil
		},
	}
	svc, err := NewService(repo, testJWTConfig(), testLogger())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	result, err := svc.Login(context.Background(), LoginInput{StoreID: "store-1", UserID: "cust-9"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Role != enums.RoleCustomer || result.Enrolled {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestLoginEnrollsUnknownUser(t *testing.T) {
	var created *models.Customer
	repo := &fakeRepo{
		createCustomerFn: func(ctx context.Context, customer *models.Customer) error {
			created = customer
			return nil
		},
	}
	svc, err := NewService(repo, testJWTConfig(), testLogger())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	result, err := svc.Login(context.Background(), LoginInput{StoreID: "store-1", UserID: "newbie"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !result.Enrolled || result.Role != enums.RoleCustomer {
		t.Fatalf("unexpected result %+v", result)
	}
	if created == nil || created.UserID != "newbie" || created.StoreID != "store-1" {
		t.Fatalf("unexpected enrollment %+v", created)
	}
	if created.Blacklist != 0 || created.UserName != nil || created.Phone != nil {
		t.Fatalf("enrollment must start with a blank profile, got %+v", created)
	}
}

func TestLoginEnrollFailure(t *testing.T) {
	repo := &fakeRepo{
		createCustomerFn: func(ctx context.Context, customer *models.Customer) error {
			return errors.New("insert failed")
		},
	}
	svc, err := NewService(repo, testJWTConfig(), testLogger())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, err = svc.Login(context.Background(), LoginInput{StoreID: "store-1", UserID: "newbie"})
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestLoginValidatesInput(t *testing.T) {
	svc, err := NewService(&fakeRepo{}, testJWTConfig(), testLogger())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if _, err := svc.Login(context.Background(), LoginInput{StoreID: " ", UserID: "u"}); pkgerrors.As(err) == nil {
		t.Fatalf("expected store id validation error")
	}
	if _, err := svc.Login(context.Background(), LoginInput{StoreID: "s", UserID: ""}); pkgerrors.As(err) == nil {
		t.Fatalf("expected user id validation error")
	}
}

func TestResolveMerchantWinsOverCustomer(t *testing.T) {
	repo := &fakeRepo{
		findMerchantFn: func(ctx context.Context, storeID string) (*models.Merchant, error) {
			return &models.Merchant{StoreID: storeID, MerchantUserID: "boss"}, nil
		},
		findCustomerFn: func(ctx context.Context, storeID, userID string) (*models.Customer, error) {
			return &models.Customer{UserID: userID, StoreID: storeID}, nil
		},
	}
	svc, err := NewService(repo, testJWTConfig(), testLogger())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	role, found, err := svc.Resolve(context.Background(), "store-1", "boss")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !found || role != enums.RoleMerchant {
		t.Fatalf("unexpected resolution role=%s found=%v", role, found)
	}
}
