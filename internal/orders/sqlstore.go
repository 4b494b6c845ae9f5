package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/cartbound/storefront-golang/internal/models"
	"github.com/cartbound/storefront-golang/internal/payment"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY, raised when the unique index on
// external_session_id rejects a second insert for the same session.
const mysqlDuplicateEntry = 1062

// SQLStore is the MySQL-backed order store.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) FindBySessionID(ctx context.Context, sessionID string) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		"SELECT id FROM orders WHERE external_session_id = ?", sessionID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Create runs the finalization transaction:
//
//  1. insert the order row (status PAID, total from the event amount)
//  2. insert one order_items row per purchased item
//  3. decrement each product's stock, guarded so it cannot go negative
//
// A duplicate session id maps to ErrDuplicateSession, a failed stock
// decrement to ErrInsufficientStock; both roll everything back.
func (s *SQLStore) Create(ctx context.Context, ev *payment.Event) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback() // no-op after Commit

	now := time.Now()

	var shipName, shipLine1, shipLine2, shipCity, shipPostcode, shipCountry sql.NullString
	if addr := ev.Shipping; addr != nil {
		shipName = sql.NullString{String: addr.Name, Valid: true}
		shipLine1 = sql.NullString{String: addr.Line1, Valid: true}
		shipLine2 = sql.NullString{String: addr.Line2, Valid: addr.Line2 != ""}
		shipCity = sql.NullString{String: addr.City, Valid: true}
		shipPostcode = sql.NullString{String: addr.Postcode, Valid: true}
		shipCountry = sql.NullString{String: addr.Country, Valid: true}
	}

	orderQuery := `
		INSERT INTO orders
			(external_session_id, user_id, status, total,
			 ship_name, ship_line1, ship_line2, ship_city, ship_postcode, ship_country,
			 created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := tx.ExecContext(ctx, orderQuery,
		ev.SessionID, ev.UserID, models.OrderPaid, ev.TotalDecimal(),
		shipName, shipLine1, shipLine2, shipCity, shipPostcode, shipCountry,
		now, now,
	)
	if err != nil {
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return 0, ErrDuplicateSession
		}
		return 0, err
	}
	orderID, err := result.LastInsertId()
	if err != nil {
		return 0, err
	}

	itemQuery := `
		INSERT INTO order_items
			(order_id, product_id, product_name, product_image, quantity, unit_price, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	stockQuery := `
		UPDATE products
		SET stock_quantity = stock_quantity - ?, updated_at = ?
		WHERE id = ? AND stock_quantity >= ?`

	for _, item := range ev.Items {
		if _, err := tx.ExecContext(ctx, itemQuery,
			orderID, item.ProductID, item.ProductName, item.ProductImage,
			item.Quantity, item.UnitPrice, now,
		); err != nil {
			return 0, err
		}

		// Relative decrement: the row-level write is serialized by the
		// database, so concurrent orders for the same product are safe.
		res, err := tx.ExecContext(ctx, stockQuery,
			item.Quantity, now, item.ProductID, item.Quantity)
		if err != nil {
			return 0, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		if affected == 0 {
			return 0, fmt.Errorf("%w: product %d, quantity %d",
				ErrInsufficientStock, item.ProductID, item.Quantity)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return orderID, nil
}
