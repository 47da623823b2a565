package product

import (
	"database/sql"

	"github.com/lib/pq"
)

type PostgresRepository struct {
	db *sql.DB
}

const (
	productColumns = `product_id, name, description, manufacturer, original_price, discount, stock, created_at::text, updated_at::text`

	listProductsQuery = `
        SELECT ` + productColumns + `
        FROM products
        ORDER BY product_id
    `
	getProductByIDQuery = `
        SELECT ` + productColumns + `
        FROM products
        WHERE product_id = $1
    `
	listProductsByIDsQuery = `
        SELECT ` + productColumns + `
        FROM products
        WHERE product_id = ANY($1::int[])
        ORDER BY array_position($1::int[], product_id)
    `
	insertProductQuery = `
        INSERT INTO products (name, description, manufacturer, original_price, discount, stock)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING product_id, created_at::text, updated_at::text
    `
)

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List() []Product {
	rows, err := r.db.Query(listProductsQuery)
	if err != nil {
		return []Product{}
	}
	defer rows.Close()

	out := make([]Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (r *PostgresRepository) GetByID(id int) (Product, error) {
	p, err := scanProduct(r.db.QueryRow(getProductByIDQuery, id))
	if err == sql.ErrNoRows {
		return Product{}, ErrNotFound
	}
	return p, err
}

func (r *PostgresRepository) ListByIDs(ids []int) ([]Product, error) {
	if len(ids) == 0 {
		return []Product{}, nil
	}

	rows, err := r.db.Query(listProductsByIDsQuery, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Product, 0, len(ids))
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PostgresRepository) Create(p Product) (Product, error) {
	err := r.db.QueryRow(insertProductQuery,
		p.Name, p.Description, p.Manufacturer, p.OriginalPrice, p.Discount, p.Stock).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Product{}, err
	}
	return p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Manufacturer,
		&p.OriginalPrice, &p.Discount, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}
