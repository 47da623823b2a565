package cart

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
)

func lineRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"cart_line_id", "cart_id", "product_id", "quantity", "price_at_addition", "created_at", "updated_at",
	})
}

func TestGetOrCreate_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("INSERT INTO carts").
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"cart_id", "user_id", "created_at", "updated_at"}).
			AddRow(9, 42, "t", "u"))

	c, err := repo.GetOrCreate(42)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if c.ID != 9 || c.UserID != 42 {
		t.Fatalf("unexpected cart %+v", c)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestAddLine_UpsertReturnsSummedQuantity(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	// the database resolves the conflict and returns the summed line
	mock.ExpectQuery("INSERT INTO cart_lines").
		WithArgs(9, 3, 2, decimal.RequireFromString("4.50")).
		WillReturnRows(lineRows().AddRow(1, 9, 3, 5, "4.50", "t", "u"))

	l, err := repo.AddLine(9, 3, 2, decimal.RequireFromString("4.50"))
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if l.Quantity != 5 {
		t.Fatalf("expected summed quantity 5, got %d", l.Quantity)
	}
	if !l.PriceAtAddition.Equal(decimal.RequireFromString("4.50")) {
		t.Fatalf("expected snapshot price 4.50, got %s", l.PriceAtAddition)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpdateLine_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectQuery("UPDATE cart_lines").
		WithArgs(9, 3, 4).
		WillReturnRows(lineRows())

	if _, err := repo.UpdateLine(9, 3, 4); !errors.Is(err, ErrLineNotFound) {
		t.Fatalf("expected ErrLineNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestRemoveLine_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	mock.ExpectExec("DELETE FROM cart_lines").
		WithArgs(9, 3).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.RemoveLine(9, 3); !errors.Is(err, ErrLineNotFound) {
		t.Fatalf("expected ErrLineNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
