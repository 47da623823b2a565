package address

import (
	"database/sql"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	addressColumns = `address_id, user_id, address_desc, phone, address_name, created_at::text, updated_at::text`

	getAddressesQuery = `
		SELECT ` + addressColumns + `
		FROM addresses
		WHERE user_id = $1
		ORDER BY address_id
	`
	getAddressQuery = `
		SELECT ` + addressColumns + `
		FROM addresses
		WHERE user_id = $1 AND address_id = $2
	`
	insertAddressQuery = `
		INSERT INTO addresses (user_id, address_desc, phone, address_name)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + addressColumns + `
	`
	updateAddressQuery = `
		UPDATE addresses
		SET address_desc = $3, phone = $4, address_name = $5, updated_at = NOW()
		WHERE user_id = $1 AND address_id = $2
		RETURNING ` + addressColumns + `
	`
	deleteAddressQuery = `DELETE FROM addresses WHERE user_id = $1 AND address_id = $2`
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanAddress(row interface{ Scan(...any) error }) (Address, error) {
	var a Address
	err := row.Scan(&a.AddressID, &a.UserID, &a.AddressDesc, &a.Phone,
		&a.AddressName, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return Address{}, ErrNotFound
	}
	return a, err
}

func (r *PostgresRepository) GetAddresses(userID int) ([]Address, error) {
	rows, err := r.db.Query(getAddressesQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Address, 0)
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) GetAddress(userID, addressID int) (Address, error) {
	return scanAddress(r.db.QueryRow(getAddressQuery, userID, addressID))
}

func (r *PostgresRepository) AddAddress(userID int, addressDesc, phone, addressName string) (Address, error) {
	return scanAddress(r.db.QueryRow(insertAddressQuery, userID, addressDesc, phone, addressName))
}

func (r *PostgresRepository) UpdateAddress(userID, addressID int, addressDesc, phone, addressName string) (Address, error) {
	return scanAddress(r.db.QueryRow(updateAddressQuery, userID, addressID, addressDesc, phone, addressName))
}

func (r *PostgresRepository) DeleteAddress(userID, addressID int) error {
	res, err := r.db.Exec(deleteAddressQuery, userID, addressID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
