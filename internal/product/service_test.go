package product

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestDiscountedPrice(t *testing.T) {
	cases := []struct {
		name     string
		original string
		discount string
		want     string
	}{
		{"no discount", "10.00", "0", "10.00"},
		{"ten percent", "10.00", "10", "9.00"},
		{"rounds half up", "19.99", "15", "16.99"},
		{"full discount", "5.00", "100", "0.00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Product{
				OriginalPrice: decimal.RequireFromString(tc.original),
				Discount:      decimal.RequireFromString(tc.discount),
			}
			got := p.DiscountedPrice()
			if !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestServiceDiscountedPrice(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	created, err := repo.Create(Product{
		Name:          "Wool coat",
		OriginalPrice: decimal.RequireFromString("120.00"),
		Discount:      decimal.RequireFromString("25"),
		Stock:         3,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	svc := NewService(repo)
	price, err := svc.DiscountedPrice(created.ID)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if !price.Equal(decimal.RequireFromString("90.00")) {
		t.Fatalf("expected 90.00, got %s", price)
	}

	if _, err := svc.DiscountedPrice(999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestServiceDiscountedPrices(t *testing.T) {
	repo := NewInMemoryRepository(nil)
	coat, err := repo.Create(Product{
		Name:          "Wool coat",
		OriginalPrice: decimal.RequireFromString("120.00"),
		Discount:      decimal.RequireFromString("25"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	scarf, err := repo.Create(Product{
		Name:          "Silk scarf",
		OriginalPrice: decimal.RequireFromString("40.00"),
		Discount:      decimal.RequireFromString("0"),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	svc := NewService(repo)
	prices, err := svc.DiscountedPrices([]int{coat.ID, scarf.ID})
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if !prices[coat.ID].Equal(decimal.RequireFromString("90.00")) {
		t.Fatalf("expected 90.00 for the coat, got %s", prices[coat.ID])
	}
	if !prices[scarf.ID].Equal(decimal.RequireFromString("40.00")) {
		t.Fatalf("expected 40.00 for the scarf, got %s", prices[scarf.ID])
	}

	// one missing id fails the whole batch
	if _, err := svc.DiscountedPrices([]int{coat.ID, 999}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
