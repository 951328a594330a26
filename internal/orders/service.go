package orders

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/sonalikodikara/cloudretail/internal/errors"
	"github.com/sonalikodikara/cloudretail/internal/middleware"
)

// Repository is the order record store the orchestrator writes to.
type Repository interface {
	Create(ctx context.Context, order *Order) (*Order, error)
	Get(ctx context.Context, id int64) (*Order, error)
	SetStatus(ctx context.Context, id int64, status Status) (*Order, error)
}

// Service orchestrates the one multi-service write path in the system.
// Within a single placement the steps run strictly sequentially: reserve,
// then commit, then notify.
type Service struct {
	repo     Repository
	catalog  CatalogClient
	notifier NotifierClient
	logger   *zap.Logger

	notifyTimeout time.Duration

	// notifyWG tracks detached notification sends, so tests and shutdown
	// can wait for them.
	notifyWG sync.WaitGroup
}

// NewService creates the placement orchestrator.
func NewService(repo Repository, catalog CatalogClient, notifier NotifierClient, notifyTimeout time.Duration, logger *zap.Logger) *Service {
	if notifyTimeout == 0 {
		notifyTimeout = 5 * time.Second
	}
	return &Service{
		repo:          repo,
		catalog:       catalog,
		notifier:      notifier,
		notifyTimeout: notifyTimeout,
		logger:        logger,
	}
}

// PlaceOrder reserves inventory, commits the order record and fires the
// best-effort notification. No order record ever exists for a quantity that
// was not successfully reserved; a notification failure never fails an
// already-committed order.
func (s *Service) PlaceOrder(ctx context.Context, identity *middleware.Identity, bearer string, productID int64, quantity int) (*Order, error) {
	if quantity <= 0 {
		return nil, apperrors.Validation("Invalid quantity")
	}

	if err := s.catalog.Reserve(ctx, bearer, productID, quantity); err != nil {
		// Abort before any order state exists. Transport failures and
		// explicit refusals both leave the store untouched.
		return nil, err
	}

	order, err := New(identity.ID, productID, quantity)
	if err != nil {
		return nil, apperrors.Validation("Invalid quantity")
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		// The reservation already committed and no compensation exists:
		// log the inconsistency so operators can reconcile stock.
		s.logger.Error("order commit failed after successful reservation",
			zap.Int64("user_id", identity.ID),
			zap.Int64("product_id", productID),
			zap.Int("quantity", quantity),
			zap.Error(err),
		)
		return nil, apperrors.Internal("Order could not be recorded after reservation", err)
	}

	s.dispatchNotification(ctx, created)

	return created, nil
}

// dispatchNotification fires the notifier call detached from the request:
// the caller never observes its outcome, and client disconnects do not
// cancel it.
func (s *Service) dispatchNotification(ctx context.Context, order *Order) {
	detached, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.notifyTimeout)

	s.notifyWG.Add(1)
	go func() {
		defer s.notifyWG.Done()
		defer cancel()

		if err := s.notifier.Notify(detached, order.ID, order.Status); err != nil {
			s.logger.Warn("order notification failed",
				zap.Int64("order_id", order.ID),
				zap.Error(err),
			)
			return
		}
		s.logger.Info("order notification sent", zap.Int64("order_id", order.ID))
	}()
}

// WaitForNotifications blocks until in-flight notification sends finish.
func (s *Service) WaitForNotifications() {
	s.notifyWG.Wait()
}

// Get returns an order by id.
func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	order, err := s.repo.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, apperrors.NotFound("Order not found")
	}
	return order, err
}

// UpdateStatus applies an administrative status change.
func (s *Service) UpdateStatus(ctx context.Context, id int64, raw string) (*Order, error) {
	status, err := ParseStatus(raw)
	if err != nil {
		return nil, apperrors.Validation("Status must be one of CREATED, CONFIRMED, SHIPPED, DELIVERED, CANCELLED")
	}

	order, err := s.repo.SetStatus(ctx, id, status)
	switch {
	case errors.Is(err, ErrNotFound):
		return nil, apperrors.NotFound("Order not found")
	case errors.Is(err, ErrInvalidTransition):
		return nil, apperrors.Validation("Invalid status transition").WithDetails("status", string(status))
	case err != nil:
		return nil, apperrors.Internal("Failed to update order status", err)
	}
	return order, nil
}
