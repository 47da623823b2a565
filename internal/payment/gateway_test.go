package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestPaystack_InitializeSendsMinorUnits(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/initialize" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk_test" {
			t.Errorf("unexpected auth header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Write([]byte(`{"status":true,"message":"ok","data":{"authorization_url":"https://checkout.paystack.com/abc"}}`))
	}))
	defer srv.Close()

	gw := NewPaystack("sk_test", srv.URL, 5*time.Second)
	res, err := gw.Initialize(context.Background(), InitializeRequest{
		Amount:    decimal.RequireFromString("25.50"),
		Email:     "jane@example.com",
		Reference: "ORD-7-2026-ABCDEFG",
	})
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if res.CheckoutURL != "https://checkout.paystack.com/abc" {
		t.Fatalf("unexpected checkout url %q", res.CheckoutURL)
	}
	if got["amount"] != "2550" {
		t.Fatalf("expected amount in minor units 2550, got %v", got["amount"])
	}
	if got["currency"] != "NGN" {
		t.Fatalf("expected NGN, got %v", got["currency"])
	}
	if got["reference"] != "ORD-7-2026-ABCDEFG" {
		t.Fatalf("unexpected reference %v", got["reference"])
	}
}

func TestPaystack_InitializeRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"status":false,"message":"Invalid key"}`))
	}))
	defer srv.Close()

	gw := NewPaystack("sk_bad", srv.URL, 5*time.Second)
	_, err := gw.Initialize(context.Background(), InitializeRequest{Amount: decimal.New(1, 0)})
	var gwErr *GatewayError
	if !errors.As(err, &gwErr) {
		t.Fatalf("expected GatewayError, got %v", err)
	}
	if gwErr.Gateway != "paystack" || gwErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("unexpected gateway error %+v", gwErr)
	}
}

func TestPaystack_VerifyStatuses(t *testing.T) {
	cases := []struct {
		name string
		body string
		want ProviderStatus
	}{
		{"success", `{"status":true,"data":{"status":"success"}}`, ProviderSuccess},
		{"ongoing", `{"status":true,"data":{"status":"ongoing"}}`, ProviderPending},
		{"abandoned", `{"status":true,"data":{"status":"abandoned"}}`, ProviderFailure},
		{"top level false", `{"status":false,"data":{"status":"success"}}`, ProviderFailure},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/verify/REF-1" {
					t.Errorf("unexpected path %q", r.URL.Path)
				}
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			gw := NewPaystack("sk_test", srv.URL, 5*time.Second)
			res, err := gw.Verify(context.Background(), "REF-1")
			if err != nil {
				t.Fatalf("expected nil err, got %v", err)
			}
			if res.Status != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, res.Status)
			}
		})
	}
}

func TestChapa_InitializeSendsDecimalString(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Write([]byte(`{"status":"success","data":{"checkout_url":"https://checkout.chapa.co/xyz"}}`))
	}))
	defer srv.Close()

	gw := NewChapa("csk_test", srv.URL, 5*time.Second)
	res, err := gw.Initialize(context.Background(), InitializeRequest{
		Amount:    decimal.RequireFromString("25.5"),
		Reference: "ORD-7-2026-ABCDEFG",
	})
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if res.CheckoutURL != "https://checkout.chapa.co/xyz" {
		t.Fatalf("unexpected checkout url %q", res.CheckoutURL)
	}
	if got["amount"] != "25.50" {
		t.Fatalf("expected decimal string amount 25.50, got %v", got["amount"])
	}
	if got["tx_ref"] != "ORD-7-2026-ABCDEFG" {
		t.Fatalf("unexpected tx_ref %v", got["tx_ref"])
	}
}

func TestChapa_VerifyStatuses(t *testing.T) {
	cases := []struct {
		name string
		body string
		want ProviderStatus
	}{
		{"success", `{"status":"success","data":{"status":"success"}}`, ProviderSuccess},
		{"pending", `{"status":"success","data":{"status":"pending"}}`, ProviderPending},
		{"failed", `{"status":"success","data":{"status":"failed"}}`, ProviderFailure},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			gw := NewChapa("csk_test", srv.URL, 5*time.Second)
			res, err := gw.Verify(context.Background(), "REF-1")
			if err != nil {
				t.Fatalf("expected nil err, got %v", err)
			}
			if res.Status != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, res.Status)
			}
		})
	}
}

func TestRegistry_DefaultAndLookup(t *testing.T) {
	r := NewRegistry()
	pay := NewPaystack("k", "http://x", time.Second)
	cha := NewChapa("k", "http://x", time.Second)
	r.Register(pay)
	r.Register(cha)

	g, err := r.Get("")
	if err != nil {
		t.Fatalf("expected default gateway, got %v", err)
	}
	if g.Name() != "paystack" {
		t.Fatalf("expected first registered as default, got %q", g.Name())
	}

	g, err = r.Get("CHAPA")
	if err != nil || g.Name() != "chapa" {
		t.Fatalf("lookup should be case insensitive, got %v %v", g, err)
	}

	if _, err := r.Get("moneygram"); !errors.Is(err, ErrUnknownGateway) {
		t.Fatalf("expected ErrUnknownGateway, got %v", err)
	}
}

func TestGenerateOrderNumber(t *testing.T) {
	n := GenerateOrderNumber(7)
	if len(n) < len("ORD-7-2026-XXXXXXX") {
		t.Fatalf("unexpectedly short order number %q", n)
	}
	for _, c := range n[len(n)-7:] {
		if c == '0' || c == 'O' || c == '1' || c == 'I' || c == 'L' {
			t.Fatalf("ambiguous character %q in %q", c, n)
		}
	}
	if n == GenerateOrderNumber(7) {
		t.Fatal("consecutive order numbers collided")
	}
}
