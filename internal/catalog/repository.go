package catalog

import (
	"context"
	"database/sql"
	"errors"

	"craftconnect-be/internal/logger"

	"go.uber.org/zap"
)

// Execer is the subset of *sql.DB and *sql.Tx the stock primitives need.
// The order workflow runs them inside its own transaction.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ReserveStock decrements stock_quantity by qty only when the product is
// active and has at least qty in stock. The conditional UPDATE makes the
// check-and-decrement atomic; concurrent reservations can never oversell.
func ReserveStock(ctx context.Context, ex Execer, productID int64, qty int) error {
	res, err := ex.ExecContext(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity - $1, updated_at = NOW()
		WHERE id = $2 AND is_active = TRUE AND stock_quantity >= $1
	`, qty, productID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	var exists bool
	err = ex.QueryRowContext(ctx, `
		SELECT EXISTS(SELECT 1 FROM products WHERE id = $1 AND is_active = TRUE)
	`, productID).Scan(&exists)
	if err != nil {
		return err
	}
	if !exists {
		return ErrProductNotFound
	}
	return ErrInsufficientStock
}

// ReleaseStock returns qty to the product. Once-only semantics for a given
// order are the workflow engine's job, not the store's.
func ReleaseStock(ctx context.Context, ex Execer, productID int64, qty int) error {
	res, err := ex.ExecContext(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity + $1, updated_at = NOW()
		WHERE id = $2
	`, qty, productID)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

type Repository interface {
	GetProduct(ctx context.Context, id int64) (*Product, error)
	GetActive(ctx context.Context, id int64) (*Product, error)
	ListActive(ctx context.Context, limit, offset int32) ([]*Product, error)
	ListByArtisan(ctx context.Context, artisanID string) ([]*Product, error)
	Create(ctx context.Context, p *Product) (int64, error)
	Update(ctx context.Context, p *Product) error
	Deactivate(ctx context.Context, id int64, artisanID string) error
	ReserveStock(ctx context.Context, productID int64, qty int) error
	ReleaseStock(ctx context.Context, productID int64, qty int) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const productColumns = `
	id, artisan_id, name, description, price_cents, category, images,
	stock_quantity, is_active, created_at, updated_at
`

func scanProduct(row *sql.Row) (*Product, error) {
	var p Product
	err := row.Scan(
		&p.ID, &p.ArtisanID, &p.Name, &p.Description, &p.PriceCents,
		&p.Category, &p.Images, &p.StockQuantity, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) GetProduct(ctx context.Context, id int64) (*Product, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = $1
	`, id)
	return scanProduct(row)
}

func (r *repository) GetActive(ctx context.Context, id int64) (*Product, error) {
	var p Product
	err := r.db.QueryRowContext(ctx, `
		SELECT
			p.id, p.artisan_id, p.name, p.description, p.price_cents,
			p.category, p.images, p.stock_quantity, p.is_active,
			p.created_at, p.updated_at,
			u.full_name, u.profile_image
		FROM products p
		JOIN users u ON u.id = p.artisan_id
		WHERE p.id = $1 AND p.is_active = TRUE
	`, id).Scan(
		&p.ID, &p.ArtisanID, &p.Name, &p.Description, &p.PriceCents,
		&p.Category, &p.Images, &p.StockQuantity, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt,
		&p.ArtisanName, &p.ArtisanImage,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) ListActive(ctx context.Context, limit, offset int32) ([]*Product, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListActive"),
	)

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			p.id, p.artisan_id, p.name, p.description, p.price_cents,
			p.category, p.images, p.stock_quantity, p.is_active,
			p.created_at, p.updated_at,
			u.full_name
		FROM products p
		JOIN users u ON u.id = p.artisan_id
		WHERE p.is_active = TRUE
		ORDER BY p.created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		log.Error("failed to query products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(
			&p.ID, &p.ArtisanID, &p.Name, &p.Description, &p.PriceCents,
			&p.Category, &p.Images, &p.StockQuantity, &p.IsActive,
			&p.CreatedAt, &p.UpdatedAt,
			&p.ArtisanName,
		); err != nil {
			log.Error("failed to scan product row", zap.Error(err))
			return nil, err
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}

func (r *repository) ListByArtisan(ctx context.Context, artisanID string) ([]*Product, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+productColumns+`
		FROM products
		WHERE artisan_id = $1 AND is_active = TRUE
		ORDER BY created_at DESC
	`, artisanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(
			&p.ID, &p.ArtisanID, &p.Name, &p.Description, &p.PriceCents,
			&p.Category, &p.Images, &p.StockQuantity, &p.IsActive,
			&p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		products = append(products, &p)
	}
	return products, rows.Err()
}

func (r *repository) Create(ctx context.Context, p *Product) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO products (
			artisan_id, name, description, price_cents, category, images,
			stock_quantity, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, NOW(), NOW())
		RETURNING id
	`,
		p.ArtisanID, p.Name, p.Description, p.PriceCents,
		p.Category, p.Images, p.StockQuantity,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) Update(ctx context.Context, p *Product) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET name = $1, description = $2, price_cents = $3, category = $4,
			images = $5, updated_at = NOW()
		WHERE id = $6 AND artisan_id = $7
	`,
		p.Name, p.Description, p.PriceCents, p.Category, p.Images,
		p.ID, p.ArtisanID,
	)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *repository) Deactivate(ctx context.Context, id int64, artisanID string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE products
		SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1 AND artisan_id = $2
	`, id, artisanID)
	if err != nil {
		return err
	}

	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *repository) ReserveStock(ctx context.Context, productID int64, qty int) error {
	return ReserveStock(ctx, r.db, productID, qty)
}

func (r *repository) ReleaseStock(ctx context.Context, productID int64, qty int) error {
	return ReleaseStock(ctx, r.db, productID, qty)
}
