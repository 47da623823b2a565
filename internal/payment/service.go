package payment

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ateliernoir/storefront-backend/internal/order"
	"github.com/ateliernoir/storefront-backend/internal/user"
)

// Orders is the slice of the order service the checkout flow needs.
type Orders interface {
	Get(orderID int) (order.Order, error)
}

// Users supplies payer defaults for the initiate call.
type Users interface {
	GetByID(userID int) (user.User, error)
}

// Notifier delivers the confirmation message after a verified payment.
// Delivery is best effort and never affects the payment outcome.
type Notifier interface {
	SendPaymentConfirmation(ctx context.Context, recipient string, p Payment) error
}

type Service struct {
	repo        Repository
	orders      Orders
	users       Users
	gateways    *Registry
	notifier    Notifier
	callbackURL string
	log         *slog.Logger
}

func NewService(repo Repository, orders Orders, users Users, gateways *Registry, notifier Notifier, callbackURL string, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		repo:        repo,
		orders:      orders,
		users:       users,
		gateways:    gateways,
		notifier:    notifier,
		callbackURL: callbackURL,
		log:         log,
	}
}

type InitiateResult struct {
	CheckoutURL string  `json:"checkout_url"`
	Payment     Payment `json:"payment"`
}

// InitiateInput carries the initiate request. Email and Phone override
// the payer's profile values when set.
type InitiateInput struct {
	OrderID int
	Gateway string
	Email   string
	Phone   string
}

// Initiate starts (or resumes) collection for a pending order. The
// payment row is upserted before the provider call, so every retry and
// every concurrent attempt reuses the same order number and booking
// reference. The provider is contacted outside any transaction; a
// provider rejection leaves the payment pending and retryable.
func (s *Service) Initiate(ctx context.Context, userID int, in InitiateInput) (InitiateResult, error) {
	o, err := s.orders.Get(in.OrderID)
	if err != nil {
		return InitiateResult{}, err
	}
	if o.UserID != userID {
		return InitiateResult{}, order.ErrNotFound
	}
	if o.Status != order.StatusPending {
		return InitiateResult{}, &order.StateConflictError{OrderID: o.ID, Status: o.Status}
	}

	g, err := s.gateways.Get(in.Gateway)
	if err != nil {
		return InitiateResult{}, err
	}

	payer, err := s.users.GetByID(userID)
	if err != nil {
		return InitiateResult{}, err
	}
	email, phone := payer.Email, payer.Phone
	if in.Email != "" {
		email = in.Email
	}
	if in.Phone != "" {
		phone = in.Phone
	}
	firstName, lastName := payer.FirstName, payer.LastName
	if firstName == "" {
		firstName = "Guest"
	}

	p, err := s.repo.GetOrCreate(Payment{
		OrderID:          o.ID,
		PayerID:          &userID,
		PayerEmail:       email,
		PayerPhone:       phone,
		Amount:           o.TotalAmount,
		Gateway:          g.Name(),
		OrderNumber:      GenerateOrderNumber(o.ID),
		BookingReference: uuid.NewString(),
		Currency:         g.Currency(),
	})
	if err != nil {
		return InitiateResult{}, err
	}

	// a failed attempt becomes retryable again; the stored reference
	// is kept so the provider keeps seeing one reference per order
	if p.Status == StatusFailed {
		if err := s.repo.UpdateStatus(p.ID, StatusPending); err != nil {
			return InitiateResult{}, err
		}
		p.Status = StatusPending
	}

	res, err := g.Initialize(ctx, InitializeRequest{
		Amount:      p.Amount,
		Currency:    p.Currency,
		Email:       p.PayerEmail,
		FirstName:   firstName,
		LastName:    lastName,
		Reference:   p.OrderNumber,
		CallbackURL: s.callbackURL + "/api/v1/payments/verify",
		Metadata: map[string]string{
			"booking_reference": p.BookingReference,
		},
	})
	if err != nil {
		return InitiateResult{}, err
	}

	if err := s.repo.SetTransactionID(p.ID, p.OrderNumber); err != nil {
		return InitiateResult{}, err
	}
	trx := p.OrderNumber
	p.TransactionID = &trx

	s.log.Info("payment initiated",
		slog.Int("order_id", o.ID),
		slog.String("gateway", g.Name()),
		slog.String("order_number", p.OrderNumber),
	)
	return InitiateResult{CheckoutURL: res.CheckoutURL, Payment: p}, nil
}

// Verify settles a payment by its transaction reference. Only the
// gateway recorded on the payment is consulted. A successful outcome is
// applied atomically with the order transition and is idempotent: once
// successful, repeated calls return without contacting the provider. A
// failure never moves a successful payment or a paid order backwards.
func (s *Service) Verify(ctx context.Context, reference string) (Payment, error) {
	if reference == "" {
		return Payment{}, ErrMissingReference
	}

	p, err := s.repo.GetByTransactionID(reference)
	if err != nil {
		return Payment{}, err
	}
	if p.Status == StatusSuccessful {
		return p, nil
	}

	g, err := s.gateways.Get(p.Gateway)
	if err != nil {
		return Payment{}, err
	}

	res, err := g.Verify(ctx, reference)
	if err != nil {
		return Payment{}, err
	}

	switch res.Status {
	case ProviderSuccess:
		if err := s.repo.ApplySuccess(p.ID, p.OrderID); err != nil {
			return Payment{}, err
		}
		p.Status = StatusSuccessful
		s.log.Info("payment verified",
			slog.Int("payment_id", p.ID),
			slog.Int("order_id", p.OrderID),
			slog.String("gateway", p.Gateway),
		)
		s.notify(p)
		return p, nil
	case ProviderPending:
		return p, ErrPaymentPending
	default:
		if err := s.repo.UpdateStatus(p.ID, StatusFailed); err != nil {
			return Payment{}, err
		}
		p.Status = StatusFailed
		s.log.Warn("payment failed",
			slog.Int("payment_id", p.ID),
			slog.String("gateway", p.Gateway),
		)
		return p, ErrPaymentFailed
	}
}

func (s *Service) notify(p Payment) {
	if s.notifier == nil || p.PayerEmail == "" {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.notifier.SendPaymentConfirmation(ctx, p.PayerEmail, p); err != nil {
			s.log.Error("sending payment confirmation",
				slog.Int("payment_id", p.ID),
				slog.String("error", err.Error()),
			)
		}
	}()
}
