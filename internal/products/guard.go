package products

import (
	"context"

	"github.com/wangpython/gogroupbuy-backend/pkg/db/models"
	pkgerrors "github.com/wangpython/gogroupbuy-backend/pkg/errors"
)

// AssertOwnedByStore loads the product and verifies it belongs to the store.
// A missing product is NotFound; a product owned by another store is
// Forbidden. Callers that must not leak cross-store existence downgrade the
// Forbidden to NotFound at their boundary.
func AssertOwnedByStore(ctx context.Context, repo Repository, productID int64, storeID string) (*models.Product, error) {
	product, err := repo.FindByID(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "find product")
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if product.StoreID != storeID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another store")
	}
	return product, nil
}
