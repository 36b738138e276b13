package payment

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"

	"github.com/callumw/snagshare/internal/apperr"
	"github.com/callumw/snagshare/internal/config"
)

// StripeGateway implements Gateway against Stripe Checkout. The API client is
// constructed explicitly and injected here rather than held in package state,
// so tests can swap the whole gateway for a fake.
type StripeGateway struct {
	api *client.API
	cfg config.StripeConfig
}

// NewStripeGateway builds a gateway from the given checkout configuration.
func NewStripeGateway(cfg config.StripeConfig) *StripeGateway {
	api := &client.API{}
	api.Init(cfg.APIKey, nil)
	return &StripeGateway{api: api, cfg: cfg}
}

// CreateSession opens a new checkout session for one share, embedding the
// share identifier as session metadata.
func (g *StripeGateway) CreateSession(_ context.Context, in SessionInput) (Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(g.cfg.SuccessURL),
		CancelURL:         stripe.String(g.cfg.CancelURL),
		ClientReferenceID: stripe.String(in.UserID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Quantity: stripe.Int64(1),
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(g.cfg.Currency),
					UnitAmount: stripe.Int64(g.cfg.UnitAmount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(g.cfg.ProductName),
					},
				},
			},
		},
	}
	params.AddMetadata(MetadataShareID, in.ShareID)

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return Session{}, fmt.Errorf("create checkout session: %w: %w", apperr.ErrGateway, err)
	}
	return fromStripeSession(sess), nil
}

// GetSession fetches the current state of a checkout session.
func (g *StripeGateway) GetSession(_ context.Context, sessionID string) (Session, error) {
	sess, err := g.api.CheckoutSessions.Get(sessionID, nil)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) &&
			(stripeErr.HTTPStatusCode == http.StatusNotFound || stripeErr.Code == stripe.ErrorCodeResourceMissing) {
			return Session{}, fmt.Errorf("checkout session %s: %w", sessionID, apperr.ErrNotFound)
		}
		return Session{}, fmt.Errorf("get checkout session %s: %w: %w", sessionID, apperr.ErrGateway, err)
	}
	return fromStripeSession(sess), nil
}

func fromStripeSession(sess *stripe.CheckoutSession) Session {
	return Session{
		ID:            sess.ID,
		URL:           sess.URL,
		ClientSecret:  sess.ClientSecret,
		PaymentStatus: string(sess.PaymentStatus),
		Metadata:      sess.Metadata,
	}
}
