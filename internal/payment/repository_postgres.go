package payment

import (
	"database/sql"
	"errors"
)

const paymentColumns = `payment_id, order_id, payer_id, payer_email, payer_phone, amount, status, gateway, transaction_id, order_number, booking_reference, currency, created_at::text, updated_at::text`

const (
	getOrCreateQuery = `
		INSERT INTO payments (order_id, payer_id, payer_email, payer_phone, amount, gateway, order_number, booking_reference, currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (order_id) DO UPDATE SET
			payer_id = EXCLUDED.payer_id,
			payer_email = EXCLUDED.payer_email,
			payer_phone = EXCLUDED.payer_phone,
			amount = EXCLUDED.amount,
			gateway = EXCLUDED.gateway,
			currency = EXCLUDED.currency,
			updated_at = NOW()
		RETURNING ` + paymentColumns

	getByOrderIDQuery = `SELECT ` + paymentColumns + ` FROM payments WHERE order_id = $1`

	getByTransactionIDQuery = `SELECT ` + paymentColumns + ` FROM payments WHERE transaction_id = $1`

	setTransactionIDQuery = `UPDATE payments SET transaction_id = $2, updated_at = NOW() WHERE payment_id = $1`

	updateStatusQuery = `UPDATE payments SET status = $2, updated_at = NOW() WHERE payment_id = $1`

	lockStatusQuery = `SELECT status FROM payments WHERE payment_id = $1 FOR UPDATE`

	markSuccessfulQuery = `UPDATE payments SET status = 'successful', updated_at = NOW() WHERE payment_id = $1`

	markOrderPaidQuery = `UPDATE orders SET status = 'paid', updated_at = NOW() WHERE order_id = $1 AND status <> 'paid'`
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanPayment(row interface{ Scan(dest ...any) error }) (Payment, error) {
	var p Payment
	err := row.Scan(
		&p.ID,
		&p.OrderID,
		&p.PayerID,
		&p.PayerEmail,
		&p.PayerPhone,
		&p.Amount,
		&p.Status,
		&p.Gateway,
		&p.TransactionID,
		&p.OrderNumber,
		&p.BookingReference,
		&p.Currency,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

// GetOrCreate relies on the unique constraint on payments.order_id:
// concurrent calls for the same order all land on the same row, and the
// row's order_number, booking_reference and status are left untouched
// when it already exists.
func (r *PostgresRepository) GetOrCreate(p Payment) (Payment, error) {
	row := r.db.QueryRow(getOrCreateQuery,
		p.OrderID,
		p.PayerID,
		p.PayerEmail,
		p.PayerPhone,
		p.Amount,
		p.Gateway,
		p.OrderNumber,
		p.BookingReference,
		p.Currency,
	)
	return scanPayment(row)
}

func (r *PostgresRepository) GetByOrderID(orderID int) (Payment, error) {
	p, err := scanPayment(r.db.QueryRow(getByOrderIDQuery, orderID))
	if errors.Is(err, sql.ErrNoRows) {
		return Payment{}, ErrNotFound
	}
	return p, err
}

func (r *PostgresRepository) GetByTransactionID(trx string) (Payment, error) {
	p, err := scanPayment(r.db.QueryRow(getByTransactionIDQuery, trx))
	if errors.Is(err, sql.ErrNoRows) {
		return Payment{}, ErrNotFound
	}
	return p, err
}

func (r *PostgresRepository) SetTransactionID(id int, trx string) error {
	res, err := r.db.Exec(setTransactionIDQuery, id, trx)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (r *PostgresRepository) UpdateStatus(id int, status string) error {
	res, err := r.db.Exec(updateStatusQuery, id, status)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

// ApplySuccess locks the payment row, so two verify calls racing on the
// same reference serialize: the second sees the successful status and
// commits without touching anything.
func (r *PostgresRepository) ApplySuccess(paymentID, orderID int) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var status string
	if err := tx.QueryRow(lockStatusQuery, paymentID).Scan(&status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if status == StatusSuccessful {
		return tx.Commit()
	}

	if _, err := tx.Exec(markSuccessfulQuery, paymentID); err != nil {
		return err
	}
	if _, err := tx.Exec(markOrderPaidQuery, orderID); err != nil {
		return err
	}
	return tx.Commit()
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
