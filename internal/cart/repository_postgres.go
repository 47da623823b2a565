package cart

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	lineColumns = `cart_line_id, cart_id, product_id, quantity, price_at_addition, created_at::text, updated_at::text`

	// Upsert keyed on the carts.user_id unique constraint so two
	// concurrent first-accesses converge on one cart row.
	getOrCreateCartQuery = `
        INSERT INTO carts (user_id)
        VALUES ($1)
        ON CONFLICT (user_id) DO UPDATE SET updated_at = NOW()
        RETURNING cart_id, user_id, created_at::text, updated_at::text
    `

	// Upsert keyed on the (cart_id, product_id) unique constraint.
	// Concurrent adds for the same pair serialize on the row, so the
	// final quantity is the sum of all added quantities.
	addLineQuery = `
        INSERT INTO cart_lines (cart_id, product_id, quantity, price_at_addition)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (cart_id, product_id)
        DO UPDATE SET quantity = cart_lines.quantity + EXCLUDED.quantity, updated_at = NOW()
        RETURNING ` + lineColumns + `
    `
	updateLineQuery = `
        UPDATE cart_lines
        SET quantity = $3, updated_at = NOW()
        WHERE cart_id = $1 AND product_id = $2
        RETURNING ` + lineColumns + `
    `
	removeLineQuery = `DELETE FROM cart_lines WHERE cart_id = $1 AND product_id = $2`
	linesQuery      = `
        SELECT ` + lineColumns + `
        FROM cart_lines
        WHERE cart_id = $1
        ORDER BY cart_line_id
    `
	clearCartQuery = `DELETE FROM cart_lines WHERE cart_id = $1`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLine(row rowScanner) (Line, error) {
	var l Line
	err := row.Scan(&l.ID, &l.CartID, &l.ProductID, &l.Quantity,
		&l.PriceAtAddition, &l.CreatedAt, &l.UpdatedAt)
	if err == sql.ErrNoRows {
		return Line{}, ErrLineNotFound
	}
	return l, err
}

func (r *PostgresRepository) GetOrCreate(userID int) (Cart, error) {
	var c Cart
	err := r.db.QueryRow(getOrCreateCartQuery, userID).
		Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return Cart{}, err
	}
	return c, nil
}

func (r *PostgresRepository) AddLine(cartID, productID, qty int, price decimal.Decimal) (Line, error) {
	return scanLine(r.db.QueryRow(addLineQuery, cartID, productID, qty, price))
}

func (r *PostgresRepository) UpdateLine(cartID, productID, qty int) (Line, error) {
	return scanLine(r.db.QueryRow(updateLineQuery, cartID, productID, qty))
}

func (r *PostgresRepository) RemoveLine(cartID, productID int) error {
	res, err := r.db.Exec(removeLineQuery, cartID, productID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLineNotFound
	}
	return nil
}

func (r *PostgresRepository) Lines(cartID int) ([]Line, error) {
	rows, err := r.db.Query(linesQuery, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Line, 0)
	for rows.Next() {
		l, err := scanLine(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Clear(cartID int) error {
	_, err := r.db.Exec(clearCartQuery, cartID)
	return err
}
