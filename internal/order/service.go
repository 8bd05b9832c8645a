package order

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"craftconnect-be/internal/catalog"
	"craftconnect-be/internal/events"
	"craftconnect-be/internal/identity"
	"craftconnect-be/internal/logger"
	"craftconnect-be/internal/payment"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

const maxRetries = 3

type Service interface {
	Create(ctx context.Context, actor identity.Actor, in CreateInput) (*Order, error)
	Transition(ctx context.Context, actor identity.Actor, orderID int64, target Status) (*Order, error)
	Get(ctx context.Context, actor identity.Actor, orderID int64) (*Order, error)
}

type service struct {
	repo       Repository
	catalog    catalog.Repository
	authorizer payment.Authorizer
	publisher  events.Publisher
}

func NewService(repo Repository, catalogRepo catalog.Repository, authorizer payment.Authorizer, publisher events.Publisher) Service {
	return &service{
		repo:       repo,
		catalog:    catalogRepo,
		authorizer: authorizer,
		publisher:  publisher,
	}
}

func (s *service) Create(ctx context.Context, actor identity.Actor, in CreateInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("method", "CreateOrder"),
		zap.String("buyer_id", actor.ID),
		zap.Int64("product_id", in.ProductID),
	)

	if in.ProductID <= 0 {
		return nil, fmt.Errorf("%w: product id is required", ErrInvalidOrder)
	}
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrInvalidOrder)
	}

	// Read the product up front to price the authorization. The create
	// transaction revalidates stock and price under the row lock.
	product, err := s.catalog.GetActive(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product.StockQuantity < in.Quantity {
		return nil, catalog.ErrInsufficientStock
	}

	intent := payment.OrderIntent{
		BuyerID:     actor.ID,
		ProductID:   in.ProductID,
		Quantity:    in.Quantity,
		AmountCents: product.PriceCents * int64(in.Quantity),
	}
	auth, err := s.authorizer.Authorize(ctx, intent)
	if err != nil {
		log.Warn("payment authorization failed", zap.Error(err))
		return nil, err
	}

	o := &Order{
		BuyerID:         actor.ID,
		ProductID:       in.ProductID,
		Quantity:        in.Quantity,
		ShippingAddress: in.ShippingAddress,
	}

	if err := s.withRetry(ctx, func() error {
		return s.repo.Create(ctx, o)
	}); err != nil {
		return nil, err
	}

	log.Info("order placed",
		zap.Int64("order_id", o.ID),
		zap.Int64("total_amount_cents", o.TotalAmountCents),
		zap.String("payment_ref", auth.Reference),
	)

	s.publishOrderCreated(ctx, o)
	return o, nil
}

func (s *service) Transition(ctx context.Context, actor identity.Actor, orderID int64, target Status) (*Order, error) {
	if !target.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidOrder, target)
	}

	var o *Order
	var prev Status
	if err := s.withRetry(ctx, func() error {
		var err error
		o, prev, err = s.repo.Transition(ctx, orderID, actor, target)
		return err
	}); err != nil {
		return nil, err
	}

	if prev != target {
		s.publishStatusChanged(ctx, o, prev, actor)
	}
	return o, nil
}

func (s *service) Get(ctx context.Context, actor identity.Actor, orderID int64) (*Order, error) {
	o, err := s.repo.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if actor.ID != o.BuyerID && actor.ID != o.ArtisanID {
		return nil, ErrForbidden
	}
	return o, nil
}

// withRetry runs fn, retrying serialization and deadlock failures a bounded
// number of times before surfacing ErrConflict.
func (s *service) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(25*attempt+rand.Intn(25)) * time.Millisecond
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
		err = fn()
		if err == nil || !isRetryable(err) {
			return err
		}
		logger.FromCtx(ctx).Warn("transient db conflict, retrying",
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}
	return fmt.Errorf("%w: %v", ErrConflict, err)
}

func isRetryable(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}
	// serialization_failure, deadlock_detected
	return pqErr.Code == "40001" || pqErr.Code == "40P01"
}

func (s *service) publishOrderCreated(ctx context.Context, o *Order) {
	env, err := events.NewEnvelope(events.EventOrderCreated, strconv.FormatInt(o.ID, 10), events.OrderCreatedPayload{
		OrderID:          o.ID,
		BuyerID:          o.BuyerID,
		ArtisanID:        o.ArtisanID,
		ProductID:        o.ProductID,
		Quantity:         o.Quantity,
		TotalAmountCents: o.TotalAmountCents,
	})
	if err != nil {
		logger.FromCtx(ctx).Error("failed to build order created event", zap.Error(err))
		return
	}
	s.publisher.Publish(ctx, env)
}

func (s *service) publishStatusChanged(ctx context.Context, o *Order, prev Status, actor identity.Actor) {
	env, err := events.NewEnvelope(events.EventOrderStatusChanged, strconv.FormatInt(o.ID, 10), events.OrderStatusChangedPayload{
		OrderID:    o.ID,
		FromStatus: string(prev),
		ToStatus:   string(o.Status),
		ActorID:    actor.ID,
	})
	if err != nil {
		logger.FromCtx(ctx).Error("failed to build status changed event", zap.Error(err))
		return
	}
	s.publisher.Publish(ctx, env)
}
