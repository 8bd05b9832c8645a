package order

import (
	"context"
	"database/sql"
	"errors"

	"craftconnect-be/internal/catalog"
	"craftconnect-be/internal/identity"
	"craftconnect-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	// Create reserves stock and inserts the order in one transaction.
	// Either both happen or neither does.
	Create(ctx context.Context, o *Order) error

	// Transition moves the order to target under a row lock, releasing
	// stock when the target is cancelled. The returned Status is the one
	// the order held before the call; when it already equals target the
	// call is a no-op success.
	Transition(ctx context.Context, orderID int64, actor identity.Actor, target Status) (*Order, Status, error)

	Get(ctx context.Context, orderID int64) (*Order, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const orderColumns = `
	id, buyer_id, artisan_id, product_id, quantity, total_amount_cents,
	status, shipping_address, created_at, updated_at
`

func (r *repository) Create(ctx context.Context, o *Order) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Create"),
		zap.Int64("product_id", o.ProductID),
		zap.Int("quantity", o.Quantity),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Error("failed to begin transaction", zap.Error(err))
		return err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	// Lock the product row so price and stock stay fixed for the rest of
	// the transaction.
	var artisanID string
	var priceCents int64
	err = tx.QueryRowContext(ctx, `
		SELECT artisan_id, price_cents
		FROM products
		WHERE id = $1 AND is_active = TRUE
		FOR UPDATE
	`, o.ProductID).Scan(&artisanID, &priceCents)
	if errors.Is(err, sql.ErrNoRows) {
		return catalog.ErrProductNotFound
	}
	if err != nil {
		log.Error("failed to lock product row", zap.Error(err))
		return err
	}

	if err := catalog.ReserveStock(ctx, tx, o.ProductID, o.Quantity); err != nil {
		return err
	}

	o.ArtisanID = artisanID
	o.TotalAmountCents = priceCents * int64(o.Quantity)
	o.Status = StatusPending

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (
			buyer_id, artisan_id, product_id, quantity, total_amount_cents,
			status, shipping_address, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`,
		o.BuyerID, o.ArtisanID, o.ProductID, o.Quantity, o.TotalAmountCents,
		o.Status, o.ShippingAddress,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		log.Error("failed to insert order", zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit order transaction", zap.Error(err))
		return err
	}
	committed = true

	log.Info("order created", zap.Int64("order_id", o.ID))
	return nil
}

func (r *repository) Transition(ctx context.Context, orderID int64, actor identity.Actor, target Status) (*Order, Status, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "Transition"),
		zap.Int64("order_id", orderID),
		zap.String("target", string(target)),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, "", err
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(); rbErr != nil {
				log.Error("failed to rollback transaction", zap.Error(rbErr))
			}
		}
	}()

	var o Order
	err = tx.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1
		FOR UPDATE
	`, orderID).Scan(
		&o.ID, &o.BuyerID, &o.ArtisanID, &o.ProductID, &o.Quantity,
		&o.TotalAmountCents, &o.Status, &o.ShippingAddress,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", ErrOrderNotFound
	}
	if err != nil {
		log.Error("failed to lock order row", zap.Error(err))
		return nil, "", err
	}

	prev := o.Status

	// Ownership is checked before the idempotent short-circuit so a
	// stranger probing an order's current status gets ErrForbidden, not
	// the order body.
	if err := authorizeTransition(actor, &o, target); err != nil {
		return nil, "", err
	}

	// Repeated requests for the current status by an order party are
	// treated as success. The row lock guarantees a concurrent duplicate
	// cancel observes the already-cancelled state and skips the stock
	// release.
	if prev == target {
		if err := tx.Commit(); err != nil {
			return nil, "", err
		}
		committed = true
		return &o, prev, nil
	}

	if !CanTransition(prev, target) {
		return nil, "", ErrInvalidTransition
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE orders
		SET status = $1, updated_at = NOW()
		WHERE id = $2
	`, target, orderID); err != nil {
		log.Error("failed to update order status", zap.Error(err))
		return nil, "", err
	}

	if target == StatusCancelled {
		if err := catalog.ReleaseStock(ctx, tx, o.ProductID, o.Quantity); err != nil {
			return nil, "", err
		}
	}

	if err := tx.Commit(); err != nil {
		log.Error("failed to commit transition", zap.Error(err))
		return nil, "", err
	}
	committed = true

	o.Status = target
	log.Info("order transitioned", zap.String("from", string(prev)))
	return &o, prev, nil
}

func (r *repository) Get(ctx context.Context, orderID int64) (*Order, error) {
	var o Order
	err := r.db.QueryRowContext(ctx, `
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = $1
	`, orderID).Scan(
		&o.ID, &o.BuyerID, &o.ArtisanID, &o.ProductID, &o.Quantity,
		&o.TotalAmountCents, &o.Status, &o.ShippingAddress,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}
