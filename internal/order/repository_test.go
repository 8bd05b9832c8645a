package order

import (
	"context"
	"testing"
	"time"

	"craftconnect-be/internal/catalog"
	"craftconnect-be/internal/identity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	buyer   = identity.Actor{ID: "buyer-1", Role: identity.RoleBuyer}
	artisan = identity.Actor{ID: "artisan-1", Role: identity.RoleArtisan}
)

func newOrderRows(status Status) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "buyer_id", "artisan_id", "product_id", "quantity",
		"total_amount_cents", "status", "shipping_address",
		"created_at", "updated_at",
	}).AddRow(
		10, "buyer-1", "artisan-1", 1, 2,
		int64(5000), string(status), nil,
		time.Now(), time.Now(),
	)
}

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT artisan_id, price_cents FROM products WHERE id = \$1 AND is_active = TRUE FOR UPDATE`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"artisan_id", "price_cents"}).
				AddRow("artisan-1", int64(2500)))
		mock.ExpectExec(`UPDATE products SET stock_quantity = stock_quantity - \$1`).
			WithArgs(2, int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(`INSERT INTO orders`).
			WithArgs("buyer-1", "artisan-1", int64(1), 2, int64(5000), StatusPending, nil).
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
				AddRow(10, time.Now(), time.Now()))
		mock.ExpectCommit()

		o := &Order{BuyerID: "buyer-1", ProductID: 1, Quantity: 2}
		err := repo.Create(ctx, o)
		assert.NoError(t, err)
		assert.Equal(t, int64(10), o.ID)
		assert.Equal(t, "artisan-1", o.ArtisanID)
		assert.Equal(t, int64(5000), o.TotalAmountCents)
		assert.Equal(t, StatusPending, o.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("ProductMissingRollsBack", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT artisan_id, price_cents FROM products`).
			WithArgs(int64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"artisan_id", "price_cents"}))
		mock.ExpectRollback()

		o := &Order{BuyerID: "buyer-1", ProductID: 99, Quantity: 1}
		err := repo.Create(ctx, o)
		assert.ErrorIs(t, err, catalog.ErrProductNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("InsufficientStockRollsBack", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT artisan_id, price_cents FROM products`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"artisan_id", "price_cents"}).
				AddRow("artisan-1", int64(2500)))
		mock.ExpectExec(`UPDATE products SET stock_quantity = stock_quantity - \$1`).
			WithArgs(3, int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
		mock.ExpectRollback()

		o := &Order{BuyerID: "buyer-1", ProductID: 1, Quantity: 3}
		err := repo.Create(ctx, o)
		assert.ErrorIs(t, err, catalog.ErrInsufficientStock)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRepository_Transition(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	lockQuery := `SELECT .* FROM orders WHERE id = \$1 FOR UPDATE`

	t.Run("ArtisanConfirms", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).
			WithArgs(int64(10)).
			WillReturnRows(newOrderRows(StatusPending))
		mock.ExpectExec(`UPDATE orders SET status = \$1, updated_at = NOW\(\) WHERE id = \$2`).
			WithArgs(StatusConfirmed, int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		o, prev, err := repo.Transition(ctx, 10, artisan, StatusConfirmed)
		assert.NoError(t, err)
		assert.Equal(t, StatusPending, prev)
		assert.Equal(t, StatusConfirmed, o.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CancelReleasesStock", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).
			WithArgs(int64(10)).
			WillReturnRows(newOrderRows(StatusPending))
		mock.ExpectExec(`UPDATE orders SET status = \$1`).
			WithArgs(StatusCancelled, int64(10)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE products SET stock_quantity = stock_quantity \+ \$1`).
			WithArgs(2, int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		o, prev, err := repo.Transition(ctx, 10, buyer, StatusCancelled)
		assert.NoError(t, err)
		assert.Equal(t, StatusPending, prev)
		assert.Equal(t, StatusCancelled, o.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DuplicateCancelIsNoop", func(t *testing.T) {
		// Already cancelled: no status update, no stock release.
		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).
			WithArgs(int64(10)).
			WillReturnRows(newOrderRows(StatusCancelled))
		mock.ExpectCommit()

		o, prev, err := repo.Transition(ctx, 10, buyer, StatusCancelled)
		assert.NoError(t, err)
		assert.Equal(t, StatusCancelled, prev)
		assert.Equal(t, StatusCancelled, o.Status)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("StrangerCannotProbeCurrentStatus", func(t *testing.T) {
		// Requesting the status the order already has must not skip the
		// ownership check, or any actor could read the order body by
		// cycling through the five statuses.
		stranger := identity.Actor{ID: "stranger-9", Role: identity.RoleBuyer}

		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).
			WithArgs(int64(10)).
			WillReturnRows(newOrderRows(StatusPending))
		mock.ExpectRollback()

		o, _, err := repo.Transition(ctx, 10, stranger, StatusPending)
		assert.ErrorIs(t, err, ErrForbidden)
		assert.Nil(t, o)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("StrangerDuplicateCancelForbidden", func(t *testing.T) {
		stranger := identity.Actor{ID: "stranger-9", Role: identity.RoleBuyer}

		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).
			WithArgs(int64(10)).
			WillReturnRows(newOrderRows(StatusCancelled))
		mock.ExpectRollback()

		o, _, err := repo.Transition(ctx, 10, stranger, StatusCancelled)
		assert.ErrorIs(t, err, ErrForbidden)
		assert.Nil(t, o)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CancelAfterShipmentRejected", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).
			WithArgs(int64(10)).
			WillReturnRows(newOrderRows(StatusShipped))
		mock.ExpectRollback()

		_, _, err := repo.Transition(ctx, 10, buyer, StatusCancelled)
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("BuyerCannotConfirm", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).
			WithArgs(int64(10)).
			WillReturnRows(newOrderRows(StatusPending))
		mock.ExpectRollback()

		_, _, err := repo.Transition(ctx, 10, buyer, StatusConfirmed)
		assert.ErrorIs(t, err, ErrForbidden)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).
			WithArgs(int64(404)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectRollback()

		_, _, err := repo.Transition(ctx, 404, buyer, StatusCancelled)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestRepository_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM orders WHERE id = \$1`).
			WithArgs(int64(10)).
			WillReturnRows(newOrderRows(StatusConfirmed))

		o, err := repo.Get(ctx, 10)
		assert.NoError(t, err)
		assert.Equal(t, StatusConfirmed, o.Status)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .* FROM orders WHERE id = \$1`).
			WithArgs(int64(404)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		_, err := repo.Get(ctx, 404)
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}
