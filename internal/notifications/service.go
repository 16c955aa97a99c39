package notifications

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/wangpython/gogroupbuy-backend/internal/orders"
	"github.com/wangpython/gogroupbuy-backend/internal/products"
	pkgauth "github.com/wangpython/gogroupbuy-backend/pkg/auth"
	"github.com/wangpython/gogroupbuy-backend/pkg/enums"
	pkgerrors "github.com/wangpython/gogroupbuy-backend/pkg/errors"
	"github.com/wangpython/gogroupbuy-backend/pkg/logger"
)

// OutcomeStatus labels one recipient's delivery result.
type OutcomeStatus string

const (
	OutcomeSuccess OutcomeStatus = "success"
	OutcomeFailed  OutcomeStatus = "failed"
)

// Gateway delivers one text message to one recipient.
type Gateway interface {
	Push(ctx context.Context, to, text string) error
}

// Service dispatches arrival notifications to everyone still waiting on a
// product. Dispatch is per pending order, not per user: a customer holding
// two unreceived orders of the product gets two messages.
type Service interface {
	NotifyUnreceived(ctx context.Context, input NotifyInput) (*Report, error)
}

type service struct {
	repo        Repository
	productRepo products.Repository
	gateway     Gateway
	logg        *logger.Logger
}

// NotifyInput identifies the product whose pending orders get notified.
type NotifyInput struct {
	Requester pkgauth.AccessTokenPayload
	ProductID int64
}

// Outcome is the per-recipient delivery result.
type Outcome struct {
	UserID string        `json:"userid"`
	Status OutcomeStatus `json:"status"`
	Error  string        `json:"error,omitempty"`
}

// Report aggregates a dispatch batch. Counts stay meaningful even when the
// batch is cut short by context cancellation.
type Report struct {
	SuccessCount int       `json:"success_count"`
	FailureCount int       `json:"failure_count"`
	Outcomes     []Outcome `json:"outcomes"`
}

// NewService wires dispatcher dependencies.
func NewService(repo Repository, productRepo products.Repository, gateway Gateway, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications repository required")
	}
	if productRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "products repository required")
	}
	if gateway == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "message gateway required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{repo: repo, productRepo: productRepo, gateway: gateway, logg: logg}, nil
}

func (s *service) NotifyUnreceived(ctx context.Context, input NotifyInput) (*Report, error) {
	if input.Requester.Role != enums.RoleMerchant {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the merchant can send arrival notifications")
	}

	if _, err := products.AssertOwnedByStore(ctx, s.productRepo, input.ProductID, input.Requester.StoreID); err != nil {
		return nil, err
	}

	recipients, err := s.repo.ListUnreceived(ctx, input.ProductID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending orders")
	}
	if len(recipients) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no pending orders")
	}

	report := &Report{Outcomes: make([]Outcome, 0, len(recipients))}
	var pushErrs []error
	for _, recipient := range recipients {
		// A canceled batch stops before the next send; recipients already
		// attempted keep their outcomes.
		if ctx.Err() != nil {
			break
		}

		total := recipient.Price.Mul(decimal.NewFromInt(int64(recipient.Quantity)))
		due, derr := orders.DueDate(recipient.ArrivalDate, recipient.DueDays)
		if derr != nil {
			rctx := s.logg.WithField(ctx, "userid", recipient.UserID)
			s.logg.Warn(rctx, "pickup window unreadable, using fallback date text")
			due = nil
		}
		text := arrivalMessage(recipient.ProductName, total, due)

		if err := s.gateway.Push(ctx, recipient.UserID, text); err != nil {
			pushErrs = append(pushErrs, fmt.Errorf("notify %s: %w", recipient.UserID, err))
			report.FailureCount++
			report.Outcomes = append(report.Outcomes, Outcome{
				UserID: recipient.UserID,
				Status: OutcomeFailed,
				Error:  err.Error(),
			})
			continue
		}

		report.SuccessCount++
		report.Outcomes = append(report.Outcomes, Outcome{
			UserID: recipient.UserID,
			Status: OutcomeSuccess,
		})
	}

	if err := multierr.Combine(pushErrs...); err != nil {
		s.logg.Error(ctx, "arrival notification batch had failures", err)
	}

	return report, nil
}
