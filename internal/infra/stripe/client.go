package stripe

import (
	"context"
	"errors"
	"fmt"
	"strings"

	stripego "github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/client"
)

const TrialPeriodDays = 14

var ErrNoCustomerID = errors.New("no Stripe customer ID found")

type CheckoutSession struct {
	ID  string
	URL string
}

// Provider is the subset of the payment API the service depends on.
type Provider interface {
	GetOrCreateCustomer(ctx context.Context, email string) (string, error)
	CreateCheckoutSession(ctx context.Context, customerID, priceID, email string) (*CheckoutSession, error)
	CancelSubscription(ctx context.Context, subscriptionID string) error
	CreatePortalSession(ctx context.Context, customerID string) (string, error)
}

type Client struct {
	api         *client.API
	frontendURL string
}

// NewClient builds a provider bound to secretKey. backends may be nil to talk
// to the live Stripe API.
func NewClient(secretKey, frontendURL string, backends *stripego.Backends) *Client {
	return &Client{
		api:         client.New(secretKey, backends),
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

// GetOrCreateCustomer looks the customer up by email and creates one when
// none exists. Concurrent calls for the same email may create duplicates.
func (c *Client) GetOrCreateCustomer(ctx context.Context, email string) (string, error) {
	params := &stripego.CustomerListParams{Email: stripego.String(email)}
	params.Limit = stripego.Int64(1)
	params.Context = ctx

	it := c.api.Customers.List(params)
	if it.Next() {
		return it.Customer().ID, nil
	}
	if err := it.Err(); err != nil {
		return "", fmt.Errorf("list customers: %w", err)
	}

	createParams := &stripego.CustomerParams{Email: stripego.String(email)}
	createParams.Context = ctx
	cus, err := c.api.Customers.New(createParams)
	if err != nil {
		return "", fmt.Errorf("create customer: %w", err)
	}
	return cus.ID, nil
}

func (c *Client) CreateCheckoutSession(ctx context.Context, customerID, priceID, email string) (*CheckoutSession, error) {
	params := &stripego.CheckoutSessionParams{
		Customer:           stripego.String(customerID),
		Mode:               stripego.String(string(stripego.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripego.StringSlice([]string{"card"}),
		LineItems: []*stripego.CheckoutSessionLineItemParams{
			{Price: stripego.String(priceID), Quantity: stripego.Int64(1)},
		},
		SuccessURL: stripego.String(c.frontendURL + "/dashboard?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripego.String(c.frontendURL + "/pricing"),
		SubscriptionData: &stripego.CheckoutSessionSubscriptionDataParams{
			TrialPeriodDays: stripego.Int64(TrialPeriodDays),
			Metadata:        map[string]string{"email": email},
		},
	}
	params.Context = ctx

	s, err := c.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return &CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

// CancelSubscription schedules cancellation at the end of the current period.
func (c *Client) CancelSubscription(ctx context.Context, subscriptionID string) error {
	params := &stripego.SubscriptionParams{CancelAtPeriodEnd: stripego.Bool(true)}
	params.Context = ctx

	if _, err := c.api.Subscriptions.Update(subscriptionID, params); err != nil {
		return fmt.Errorf("cancel subscription: %w", err)
	}
	return nil
}

func (c *Client) CreatePortalSession(ctx context.Context, customerID string) (string, error) {
	if customerID == "" {
		return "", ErrNoCustomerID
	}
	params := &stripego.BillingPortalSessionParams{
		Customer:  stripego.String(customerID),
		ReturnURL: stripego.String(c.frontendURL + "/account"),
	}
	params.Context = ctx

	s, err := c.api.BillingPortalSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create portal session: %w", err)
	}
	return s.URL, nil
}

// ProviderMessage returns the human-readable message Stripe attached to err.
func ProviderMessage(err error) string {
	var serr *stripego.Error
	if errors.As(err, &serr) && serr.Msg != "" {
		return serr.Msg
	}
	return err.Error()
}
