package order

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	orderColumns = `order_id, user_id, status, shipping_address_id, total_amount, created_at::text, updated_at::text`

	insertOrderQuery = `
        INSERT INTO orders (user_id, status, shipping_address_id, total_amount)
        VALUES ($1, $2, $3, $4)
        RETURNING order_id, created_at::text, updated_at::text
    `
	insertLineQuery = `
        INSERT INTO order_lines (order_id, product_id, quantity, price_at_purchase)
        VALUES ($1, $2, $3, $4)
        RETURNING order_line_id
    `
	getOrderQuery = `
        SELECT ` + orderColumns + `
        FROM orders
        WHERE order_id = $1
    `
	getLinesQuery = `
        SELECT order_line_id, order_id, product_id, quantity, price_at_purchase
        FROM order_lines
        WHERE order_id = $1
        ORDER BY order_line_id
    `
	listByUserQuery = `
        SELECT ` + orderColumns + `
        FROM orders
        WHERE user_id = $1
        ORDER BY created_at DESC
    `
	updateStatusIfQuery = `
        UPDATE orders
        SET status = $3, updated_at = NOW()
        WHERE order_id = $1 AND status = $2
    `
	// Total is derived from the order's own lines only, never from the
	// catalog. COALESCE keeps a line-less order at 0.00.
	recalculateTotalQuery = `
        UPDATE orders
        SET total_amount = COALESCE((
                SELECT SUM(price_at_purchase * quantity)
                FROM order_lines
                WHERE order_id = $1
            ), 0),
            updated_at = NOW()
        WHERE order_id = $1
        RETURNING total_amount
    `
	removeOrderLineQuery = `DELETE FROM order_lines WHERE order_id = $1 AND product_id = $2`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create writes the order and all of its lines in one transaction.
func (r *PostgresRepository) Create(o Order, lines []Line) (Order, []Line, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return Order{}, nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if o.Status == "" {
		o.Status = StatusPending
	}
	err = tx.QueryRow(insertOrderQuery, o.UserID, o.Status, o.ShippingAddressID, o.TotalAmount).
		Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return Order{}, nil, err
	}

	stored := make([]Line, 0, len(lines))
	for _, l := range lines {
		l.OrderID = o.ID
		if err := tx.QueryRow(insertLineQuery, o.ID, l.ProductID, l.Quantity, l.PriceAtPurchase).Scan(&l.ID); err != nil {
			return Order{}, nil, err
		}
		stored = append(stored, l)
	}

	if err := tx.Commit(); err != nil {
		return Order{}, nil, err
	}
	return o, stored, nil
}

func (r *PostgresRepository) GetByID(id int) (Order, []Line, error) {
	var o Order
	err := r.db.QueryRow(getOrderQuery, id).
		Scan(&o.ID, &o.UserID, &o.Status, &o.ShippingAddressID, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt)
	if err == sql.ErrNoRows {
		return Order{}, nil, ErrNotFound
	}
	if err != nil {
		return Order{}, nil, err
	}

	rows, err := r.db.Query(getLinesQuery, id)
	if err != nil {
		return Order{}, nil, err
	}
	defer rows.Close()

	lines := make([]Line, 0)
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Quantity, &l.PriceAtPurchase); err != nil {
			return Order{}, nil, err
		}
		lines = append(lines, l)
	}
	return o, lines, rows.Err()
}

func (r *PostgresRepository) ListByUser(userID int) ([]Order, error) {
	rows, err := r.db.Query(listByUserQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Order, 0)
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Status, &o.ShippingAddressID, &o.TotalAmount, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) UpdateStatusIf(id int, fromStatus, toStatus string) (bool, error) {
	res, err := r.db.Exec(updateStatusIfQuery, id, fromStatus, toStatus)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PostgresRepository) RecalculateTotal(id int) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRow(recalculateTotalQuery, id).Scan(&total)
	if err == sql.ErrNoRows {
		return decimal.Decimal{}, ErrNotFound
	}
	return total, err
}

func (r *PostgresRepository) RemoveLine(orderID, productID int) error {
	res, err := r.db.Exec(removeOrderLineQuery, orderID, productID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLineNotFound
	}
	return nil
}
