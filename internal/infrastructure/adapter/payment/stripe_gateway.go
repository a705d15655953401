package payment

import (
	"context"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"

	errs "github.com/blockforge/credit-ledger/internal/domain/error"
	coreport "github.com/blockforge/credit-ledger/internal/domain/port/core"
	paymentport "github.com/blockforge/credit-ledger/internal/domain/port/payment"
)

// StripeGateway implements the payment gateway port on Stripe Checkout.
// Credit amounts map 1:1 to the smallest currency unit (cents for USD).
type StripeGateway struct {
	api         *client.API
	logger      coreport.Logger
	productName string
	successURL  string
	cancelURL   string
}

// Options configures the Stripe gateway adapter
type Options struct {
	APIKey      string
	ProductName string // Display name on the hosted checkout page
	SuccessURL  string
	CancelURL   string
}

// NewStripeGateway creates a gateway adapter backed by the Stripe API
func NewStripeGateway(opts Options, logger coreport.Logger) *StripeGateway {
	api := &client.API{}
	api.Init(opts.APIKey, nil)

	return &StripeGateway{
		api:         api,
		logger:      logger,
		productName: opts.ProductName,
		successURL:  opts.SuccessURL,
		cancelURL:   opts.CancelURL,
	}
}

// CreateCustomer registers a customer at Stripe and returns its ID
func (g *StripeGateway) CreateCustomer(ctx context.Context, name, email string) (string, error) {
	params := &stripe.CustomerParams{
		Params: stripe.Params{Context: ctx},
		Name:   stripe.String(name),
		Email:  stripe.String(email),
	}

	customer, err := g.api.Customers.New(params)
	if err != nil {
		g.logger.Error("Stripe customer creation failed", map[string]any{
			"email": email,
			"error": err.Error(),
		})
		return "", errs.NewPaymentGatewayError("create customer", err)
	}
	return customer.ID, nil
}

// CreateCheckoutSession creates a hosted checkout for the given credit amount
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, customerID string, amount int64) (*paymentport.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Params:   stripe.Params{Context: ctx},
		Customer: stripe.String(customerID),
		Mode:     stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyUSD)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(g.productName),
					},
					UnitAmount: stripe.Int64(amount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(g.successURL),
		CancelURL:  stripe.String(g.cancelURL),
	}

	session, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		g.logger.Error("Stripe checkout session creation failed", map[string]any{
			"customer_id": customerID,
			"amount":      amount,
			"error":       err.Error(),
		})
		return nil, errs.NewPaymentGatewayError("create checkout session", err)
	}

	return &paymentport.CheckoutSession{
		ID:            session.ID,
		URL:           session.URL,
		PaymentStatus: string(session.PaymentStatus),
	}, nil
}

// RetrieveSession re-queries Stripe for the authoritative payment status
func (g *StripeGateway) RetrieveSession(ctx context.Context, sessionID string) (*paymentport.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Params: stripe.Params{Context: ctx},
	}

	session, err := g.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		g.logger.Error("Stripe checkout session retrieval failed", map[string]any{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		return nil, errs.NewPaymentGatewayError("retrieve checkout session", err)
	}

	return &paymentport.CheckoutSession{
		ID:            session.ID,
		URL:           session.URL,
		PaymentStatus: string(session.PaymentStatus),
	}, nil
}
