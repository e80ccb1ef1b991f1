// Package stripetest provides an in-process payment provider for handler tests.
package stripetest

import (
	"context"
	"fmt"
	"sync"

	stripeinfra "subscription-app/internal/infra/stripe"
)

type CheckoutCall struct {
	CustomerID string
	PriceID    string
	Email      string
}

// Provider records every call. Customers are keyed by email, matching the
// lookup-then-create behaviour of the real client.
type Provider struct {
	mu sync.Mutex

	Customers map[string]string
	Checkouts []CheckoutCall
	Canceled  []string
	Portals   []string

	// Err, when set, is returned by every call.
	Err error
}

func New() *Provider {
	return &Provider{Customers: map[string]string{}}
}

func (p *Provider) GetOrCreateCustomer(_ context.Context, email string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return "", p.Err
	}
	if id, ok := p.Customers[email]; ok {
		return id, nil
	}
	id := fmt.Sprintf("cus_%d", len(p.Customers)+1)
	p.Customers[email] = id
	return id, nil
}

func (p *Provider) CreateCheckoutSession(_ context.Context, customerID, priceID, email string) (*stripeinfra.CheckoutSession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return nil, p.Err
	}
	p.Checkouts = append(p.Checkouts, CheckoutCall{CustomerID: customerID, PriceID: priceID, Email: email})
	id := fmt.Sprintf("cs_test_%d", len(p.Checkouts))
	return &stripeinfra.CheckoutSession{ID: id, URL: "https://checkout.stripe.test/" + id}, nil
}

func (p *Provider) CancelSubscription(_ context.Context, subscriptionID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.Canceled = append(p.Canceled, subscriptionID)
	return nil
}

func (p *Provider) CreatePortalSession(_ context.Context, customerID string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if customerID == "" {
		return "", stripeinfra.ErrNoCustomerID
	}
	if p.Err != nil {
		return "", p.Err
	}
	p.Portals = append(p.Portals, customerID)
	return "https://billing.stripe.test/" + customerID, nil
}

var _ stripeinfra.Provider = (*Provider)(nil)
