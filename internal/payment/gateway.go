package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrUnknownGateway = errors.New("unknown payment gateway")
)

// ProviderStatus is the normalized tri-state every adapter reduces its
// provider's signal shape to. Callers never interpret raw payloads.
type ProviderStatus string

const (
	ProviderSuccess ProviderStatus = "success"
	ProviderFailure ProviderStatus = "failure"
	ProviderPending ProviderStatus = "pending"
)

type InitializeRequest struct {
	Amount      decimal.Decimal
	Currency    string
	Email       string
	FirstName   string
	LastName    string
	Reference   string
	CallbackURL string
	Metadata    map[string]string
}

type InitializeResult struct {
	CheckoutURL string
	Raw         json.RawMessage
}

type VerifyResult struct {
	Status ProviderStatus
	Raw    json.RawMessage
}

// Gateway is the uniform interface over one external payment provider.
// Both calls are blocking network I/O with a bounded timeout and must be
// made before any local transaction is opened.
type Gateway interface {
	Name() string
	// Currency is the ISO code this provider is charged in.
	Currency() string
	Initialize(ctx context.Context, req InitializeRequest) (InitializeResult, error)
	Verify(ctx context.Context, reference string) (VerifyResult, error)
}

// GatewayError carries the provider's rejection payload back to the
// caller; the payment stays pending so the attempt can be retried.
type GatewayError struct {
	Gateway    string
	StatusCode int
	Payload    json.RawMessage
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s rejected the request (HTTP %d)", e.Gateway, e.StatusCode)
}

// Registry holds the configured gateway adapters keyed by name.
type Registry struct {
	gateways map[string]Gateway
	fallback string
}

func NewRegistry() *Registry {
	return &Registry{gateways: map[string]Gateway{}}
}

// Register adds a gateway. The first registered becomes the default for
// initiate calls that name none.
func (r *Registry) Register(g Gateway) {
	name := strings.ToLower(g.Name())
	if len(r.gateways) == 0 {
		r.fallback = name
	}
	r.gateways[name] = g
}

// Get resolves a gateway by name; empty picks the default.
func (r *Registry) Get(name string) (Gateway, error) {
	if name == "" {
		name = r.fallback
	}
	g, ok := r.gateways[strings.ToLower(name)]
	if !ok {
		return nil, ErrUnknownGateway
	}
	return g, nil
}
