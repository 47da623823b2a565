package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// Paystack talks to the Paystack transaction API. Amounts are sent in
// minor units (kobo); the success signal is a boolean status field plus
// a nested data.status string on verify.
type Paystack struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

func NewPaystack(secretKey, baseURL string, timeout time.Duration) *Paystack {
	return &Paystack{
		secretKey: secretKey,
		baseURL:   baseURL,
		client:    &http.Client{Timeout: timeout},
	}
}

func (p *Paystack) Name() string     { return "paystack" }
func (p *Paystack) Currency() string { return "NGN" }

type paystackInitializeBody struct {
	Amount      string            `json:"amount"`
	Currency    string            `json:"currency"`
	Email       string            `json:"email"`
	FirstName   string            `json:"first_name"`
	LastName    string            `json:"last_name"`
	Channels    []string          `json:"channels"`
	Reference   string            `json:"reference"`
	CallbackURL string            `json:"callback_url"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

type paystackResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		Status           string `json:"status"`
	} `json:"data"`
}

func (p *Paystack) Initialize(ctx context.Context, req InitializeRequest) (InitializeResult, error) {
	body := paystackInitializeBody{
		// minor units: 10.00 -> "1000"
		Amount:      req.Amount.Mul(decimal.NewFromInt(100)).Round(0).String(),
		Currency:    p.Currency(),
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Channels:    []string{"card", "bank_transfer", "ussd", "bank", "qr", "mobile_money"},
		Reference:   req.Reference,
		CallbackURL: req.CallbackURL,
		Metadata:    req.Metadata,
	}

	raw, status, err := p.do(ctx, http.MethodPost, p.baseURL+"/initialize", body)
	if err != nil {
		return InitializeResult{}, err
	}

	var res paystackResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return InitializeResult{}, fmt.Errorf("paystack: decoding initialize response: %w", err)
	}
	if !res.Status {
		return InitializeResult{}, &GatewayError{Gateway: p.Name(), StatusCode: status, Payload: raw}
	}
	return InitializeResult{CheckoutURL: res.Data.AuthorizationURL, Raw: raw}, nil
}

func (p *Paystack) Verify(ctx context.Context, reference string) (VerifyResult, error) {
	raw, _, err := p.do(ctx, http.MethodGet, p.baseURL+"/verify/"+reference, nil)
	if err != nil {
		return VerifyResult{}, err
	}

	var res paystackResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return VerifyResult{}, fmt.Errorf("paystack: decoding verify response: %w", err)
	}

	out := VerifyResult{Raw: raw}
	switch {
	case res.Status && res.Data.Status == "success":
		out.Status = ProviderSuccess
	case res.Data.Status == "ongoing" || res.Data.Status == "pending" || res.Data.Status == "processing":
		out.Status = ProviderPending
	default:
		out.Status = ProviderFailure
	}
	return out, nil
}

func (p *Paystack) do(ctx context.Context, method, url string, body any) (json.RawMessage, int, error) {
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, 0, err
		}
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, buf)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Authorization", "Bearer "+p.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("paystack: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("paystack: reading response: %w", err)
	}
	return raw, resp.StatusCode, nil
}
