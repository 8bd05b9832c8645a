package orderview

import (
	"context"
	"database/sql"
	"fmt"

	"craftconnect-be/internal/identity"
	"craftconnect-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	List(ctx context.Context, viewer identity.Actor, filter Filter, limit, offset int32) ([]*OrderView, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// List reads committed order state only; it never mutates.
func (r *repository) List(ctx context.Context, viewer identity.Actor, filter Filter, limit, offset int32) ([]*OrderView, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("method", "ListOrders"),
		zap.String("viewer_id", viewer.ID),
		zap.String("role", string(viewer.Role)),
	)

	query := `
		SELECT
			o.id, o.product_id, p.name,
			o.buyer_id, b.full_name,
			o.artisan_id, a.full_name,
			o.quantity, o.total_amount_cents, o.status,
			o.created_at, o.updated_at
		FROM orders o
		JOIN products p ON p.id = o.product_id
		JOIN users b ON b.id = o.buyer_id
		JOIN users a ON a.id = o.artisan_id
		WHERE 1=1
	`

	args := []any{}
	argIndex := 1

	// Each dashboard only sees its own side of the order.
	if viewer.Role == identity.RoleArtisan {
		query += fmt.Sprintf(" AND o.artisan_id = $%d", argIndex)
	} else {
		query += fmt.Sprintf(" AND o.buyer_id = $%d", argIndex)
	}
	args = append(args, viewer.ID)
	argIndex++

	if filter.Status != nil && *filter.Status != "" {
		query += fmt.Sprintf(" AND o.status = $%d", argIndex)
		args = append(args, *filter.Status)
		argIndex++
	}

	if filter.Search != nil && *filter.Search != "" {
		query += fmt.Sprintf(
			" AND (p.name ILIKE $%d OR b.full_name ILIKE $%d OR a.full_name ILIKE $%d)",
			argIndex, argIndex, argIndex,
		)
		args = append(args, "%"+*filter.Search+"%")
		argIndex++
	}

	// Most recent first, ties broken by id.
	query += " ORDER BY o.created_at DESC, o.id DESC"

	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
	args = append(args, limit, offset)

	log.Debug("executing order list query", zap.String("query", query))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var views []*OrderView
	for rows.Next() {
		var v OrderView
		if err := rows.Scan(
			&v.ID, &v.ProductID, &v.ProductName,
			&v.BuyerID, &v.BuyerName,
			&v.ArtisanID, &v.ArtisanName,
			&v.Quantity, &v.TotalAmountCents, &v.Status,
			&v.CreatedAt, &v.UpdatedAt,
		); err != nil {
			log.Error("failed to scan order view row", zap.Error(err))
			return nil, err
		}
		views = append(views, &v)
	}
	if err := rows.Err(); err != nil {
		log.Error("rows iteration error", zap.Error(err))
		return nil, err
	}

	log.Info("order list fetched", zap.Int("count", len(views)))
	return views, nil
}
