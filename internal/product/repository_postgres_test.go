package product

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

func productRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"product_id", "name", "description", "manufacturer", "original_price", "discount", "stock", "created_at", "updated_at",
	})
}

func TestGetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM products").
		WithArgs(999).
		WillReturnRows(productRows())

	if _, err := repo.GetByID(999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestListByIDs_ArrayLookup(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	// rows come back in the requested order via array_position
	mock.ExpectQuery("SELECT (.+) FROM products").
		WithArgs(pq.Array([]int{3, 1})).
		WillReturnRows(productRows().
			AddRow(3, "Silk scarf", "", "Atelier Noir", "40.00", "0", 5, "t", "u").
			AddRow(1, "Wool coat", "", "Atelier Noir", "120.00", "25", 3, "t", "u"))

	out, err := repo.ListByIDs([]int{3, 1})
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 products, got %d", len(out))
	}
	if out[0].ID != 3 || out[1].ID != 1 {
		t.Fatalf("expected requested order [3 1], got [%d %d]", out[0].ID, out[1].ID)
	}
	if !out[1].OriginalPrice.Equal(decimal.RequireFromString("120.00")) {
		t.Fatalf("unexpected price %s", out[1].OriginalPrice)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestListByIDs_EmptySkipsQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	out, err := repo.ListByIDs(nil)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if len(out) != 0 {
		t.Fatalf("expected no products, got %d", len(out))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
