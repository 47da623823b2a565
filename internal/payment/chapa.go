package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Chapa talks to the Chapa transaction API. Amounts are sent as decimal
// strings; the success signal is a "success" status string.
type Chapa struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

func NewChapa(secretKey, baseURL string, timeout time.Duration) *Chapa {
	return &Chapa{
		secretKey: secretKey,
		baseURL:   baseURL,
		client:    &http.Client{Timeout: timeout},
	}
}

func (c *Chapa) Name() string     { return "chapa" }
func (c *Chapa) Currency() string { return "USD" }

type chapaInitializeBody struct {
	Amount        string            `json:"amount"`
	Currency      string            `json:"currency"`
	Email         string            `json:"email"`
	FirstName     string            `json:"first_name"`
	LastName      string            `json:"last_name"`
	TxRef         string            `json:"tx_ref"`
	CallbackURL   string            `json:"callback_url"`
	Customization map[string]string `json:"customization,omitempty"`
}

type chapaResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		CheckoutURL string `json:"checkout_url"`
		Status      string `json:"status"`
	} `json:"data"`
}

func (c *Chapa) Initialize(ctx context.Context, req InitializeRequest) (InitializeResult, error) {
	body := chapaInitializeBody{
		Amount:        req.Amount.StringFixed(2),
		Currency:      c.Currency(),
		Email:         req.Email,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		TxRef:         req.Reference,
		CallbackURL:   req.CallbackURL,
		Customization: req.Metadata,
	}

	raw, status, err := c.do(ctx, http.MethodPost, c.baseURL+"/initialize", body)
	if err != nil {
		return InitializeResult{}, err
	}

	var res chapaResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return InitializeResult{}, fmt.Errorf("chapa: decoding initialize response: %w", err)
	}
	if res.Status != "success" {
		return InitializeResult{}, &GatewayError{Gateway: c.Name(), StatusCode: status, Payload: raw}
	}
	return InitializeResult{CheckoutURL: res.Data.CheckoutURL, Raw: raw}, nil
}

func (c *Chapa) Verify(ctx context.Context, reference string) (VerifyResult, error) {
	raw, _, err := c.do(ctx, http.MethodGet, c.baseURL+"/verify/"+reference, nil)
	if err != nil {
		return VerifyResult{}, err
	}

	var res chapaResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return VerifyResult{}, fmt.Errorf("chapa: decoding verify response: %w", err)
	}

	out := VerifyResult{Raw: raw}
	switch {
	case res.Status == "success" && res.Data.Status == "success":
		out.Status = ProviderSuccess
	case res.Data.Status == "pending":
		out.Status = ProviderPending
	default:
		out.Status = ProviderFailure
	}
	return out, nil
}

func (c *Chapa) do(ctx context.Context, method, url string, body any) (json.RawMessage, int, error) {
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
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("chapa: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("chapa: reading response: %w", err)
	}
	return raw, resp.StatusCode, nil
}
