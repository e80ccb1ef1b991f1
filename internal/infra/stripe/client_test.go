package stripe

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"subscription-app/internal/domain/billing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripego "github.com/stripe/stripe-go/v75"
)

type recordedRequest struct {
	Method string
	Path   string
	Form   map[string]string
}

type fakeStripe struct {
	mu       sync.Mutex
	requests []recordedRequest
	routes   map[string]func(w http.ResponseWriter, r *http.Request)
}

func newFakeStripe(t *testing.T) (*fakeStripe, *Client) {
	t.Helper()
	f := &fakeStripe{routes: map[string]func(http.ResponseWriter, *http.Request){}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		form := map[string]string{}
		for k := range r.Form {
			form[k] = r.Form.Get(k)
		}
		f.mu.Lock()
		f.requests = append(f.requests, recordedRequest{Method: r.Method, Path: r.URL.Path, Form: form})
		handler, ok := f.routes[r.Method+" "+r.URL.Path]
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"error":{"type":"invalid_request_error","message":"unrouted"}}`)
			return
		}
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	backend := stripego.GetBackendWithConfig(stripego.APIBackend, &stripego.BackendConfig{
		URL:               stripego.String(srv.URL),
		MaxNetworkRetries: stripego.Int64(0),
		LeveledLogger:     &stripego.LeveledLogger{Level: stripego.LevelNull},
	})
	backends := &stripego.Backends{API: backend, Connect: backend, Uploads: backend}

	return f, NewClient("sk_test_123", "https://app.example.com/", backends)
}

func (f *fakeStripe) handle(route, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[route] = func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, body)
	}
}

func (f *fakeStripe) fail(route string, status int, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[route] = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		fmt.Fprintf(w, `{"error":{"type":"invalid_request_error","message":%q}}`, message)
	}
}

func (f *fakeStripe) last(path string) (recordedRequest, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.requests) - 1; i >= 0; i-- {
		if f.requests[i].Path == path {
			return f.requests[i], true
		}
	}
	return recordedRequest{}, false
}

func TestGetOrCreateCustomerReturnsExisting(t *testing.T) {
	f, c := newFakeStripe(t)
	f.handle("GET /v1/customers", `{"object":"list","url":"/v1/customers","has_more":false,"data":[{"id":"cus_existing","object":"customer","email":"a@example.com"}]}`)

	id, err := c.GetOrCreateCustomer(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "cus_existing", id)

	list, ok := f.last("/v1/customers")
	require.True(t, ok)
	assert.Equal(t, http.MethodGet, list.Method)
	assert.Equal(t, "a@example.com", list.Form["email"])
	assert.Equal(t, "1", list.Form["limit"])
}

func TestGetOrCreateCustomerCreatesWhenAbsent(t *testing.T) {
	f, c := newFakeStripe(t)
	f.handle("GET /v1/customers", `{"object":"list","url":"/v1/customers","has_more":false,"data":[]}`)
	f.handle("POST /v1/customers", `{"id":"cus_new","object":"customer","email":"b@example.com"}`)

	id, err := c.GetOrCreateCustomer(context.Background(), "b@example.com")
	require.NoError(t, err)
	assert.Equal(t, "cus_new", id)

	created, ok := f.last("/v1/customers")
	require.True(t, ok)
	assert.Equal(t, http.MethodPost, created.Method)
	assert.Equal(t, "b@example.com", created.Form["email"])
}

func TestCreateCheckoutSession(t *testing.T) {
	f, c := newFakeStripe(t)
	f.handle("POST /v1/checkout/sessions", `{"id":"cs_test_1","object":"checkout.session","url":"https://checkout.stripe.com/c/cs_test_1"}`)

	s, err := c.CreateCheckoutSession(context.Background(), "cus_1", "price_pro", "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", s.ID)
	assert.Equal(t, "https://checkout.stripe.com/c/cs_test_1", s.URL)

	req, ok := f.last("/v1/checkout/sessions")
	require.True(t, ok)
	assert.Equal(t, "subscription", req.Form["mode"])
	assert.Equal(t, "cus_1", req.Form["customer"])
	assert.Equal(t, "price_pro", req.Form["line_items[0][price]"])
	assert.Equal(t, "1", req.Form["line_items[0][quantity]"])
	assert.Equal(t, "14", req.Form["subscription_data[trial_period_days]"])
	assert.Equal(t, "https://app.example.com/dashboard?session_id={CHECKOUT_SESSION_ID}", req.Form["success_url"])
	assert.Equal(t, "https://app.example.com/pricing", req.Form["cancel_url"])
}

func TestCancelSubscriptionAtPeriodEnd(t *testing.T) {
	f, c := newFakeStripe(t)
	f.handle("POST /v1/subscriptions/sub_1", `{"id":"sub_1","object":"subscription","cancel_at_period_end":true}`)

	require.NoError(t, c.CancelSubscription(context.Background(), "sub_1"))

	req, ok := f.last("/v1/subscriptions/sub_1")
	require.True(t, ok)
	assert.Equal(t, "true", req.Form["cancel_at_period_end"])
}

func TestCreatePortalSession(t *testing.T) {
	f, c := newFakeStripe(t)
	f.handle("POST /v1/billing_portal/sessions", `{"id":"bps_1","object":"billing_portal.session","url":"https://billing.stripe.com/p/session/bps_1"}`)

	url, err := c.CreatePortalSession(context.Background(), "cus_1")
	require.NoError(t, err)
	assert.Equal(t, "https://billing.stripe.com/p/session/bps_1", url)

	req, ok := f.last("/v1/billing_portal/sessions")
	require.True(t, ok)
	assert.Equal(t, "https://app.example.com/account", req.Form["return_url"])
}

func TestCreatePortalSessionNeedsCustomer(t *testing.T) {
	f, c := newFakeStripe(t)

	_, err := c.CreatePortalSession(context.Background(), "")
	assert.ErrorIs(t, err, ErrNoCustomerID)
	_, called := f.last("/v1/billing_portal/sessions")
	assert.False(t, called)
}

func TestProviderMessagePassesThroughStripeError(t *testing.T) {
	f, c := newFakeStripe(t)
	f.fail("POST /v1/subscriptions/sub_gone", http.StatusNotFound, "No such subscription: 'sub_gone'")

	err := c.CancelSubscription(context.Background(), "sub_gone")
	require.Error(t, err)
	assert.Equal(t, "No such subscription: 'sub_gone'", ProviderMessage(err))
}

func TestLocalStatus(t *testing.T) {
	assert.Equal(t, billing.StatusTrialing, LocalStatus(stripego.SubscriptionStatusTrialing))
	for _, s := range []stripego.SubscriptionStatus{
		stripego.SubscriptionStatusActive,
		stripego.SubscriptionStatusPastDue,
		stripego.SubscriptionStatusIncomplete,
		stripego.SubscriptionStatusCanceled,
		"",
	} {
		assert.Equal(t, billing.StatusActive, LocalStatus(s), string(s))
	}
}

func TestPlanForPrice(t *testing.T) {
	assert.Equal(t, billing.PlanStarter, PlanForPrice("price_starter", "price_starter"))
	assert.Equal(t, billing.PlanPro, PlanForPrice("price_pro", "price_starter"))
	assert.Equal(t, billing.PlanPro, PlanForPrice("price_unknown", "price_starter"))
	assert.Equal(t, billing.PlanPro, PlanForPrice("", ""))
}
