package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"subscription-app/internal/app/http/middleware"
	"subscription-app/internal/domain/billing"
	"subscription-app/internal/domain/users"
	"subscription-app/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(t *testing.T) (*store.Memory, *gin.Engine) {
	t.Helper()
	mem := store.NewMemory()
	h := NewHandler(mem, zerolog.Nop())

	r := gin.New()
	g := r.Group("/admin", func(c *gin.Context) {
		middleware.WithIdentity(c, middleware.Identity{UserID: "admin1", Role: users.RoleAdmin})
		c.Next()
	})
	g.GET("/users", h.ListUsers)
	g.GET("/users/:id", h.GetUser)
	g.POST("/users/:id/grant-pro", h.GrantPro)
	g.POST("/users/:id/revoke-access", h.RevokeAccess)
	g.GET("/stripe-config", h.GetStripeConfig)
	g.POST("/stripe-config", h.UpdateStripeConfig)

	ctx := context.Background()
	require.NoError(t, mem.CreateUser(ctx, &users.User{ID: "admin1", Email: "root@example.com", Role: users.RoleAdmin}, billing.NewDefault("s0", "")))
	require.NoError(t, mem.CreateUser(ctx, &users.User{ID: "u1", Email: "a@example.com", Role: users.RoleUser}, billing.NewDefault("s1", "")))
	return mem, r
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestListUsers(t *testing.T) {
	_, r := newRouter(t)

	w := do(r, http.MethodGet, "/admin/users", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list []users.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 2)
	for _, u := range list {
		require.NotNil(t, u.Subscription)
		assert.Equal(t, billing.PlanFree, u.Subscription.Plan)
		assert.Equal(t, billing.StatusActive, u.Subscription.Status)
	}
	assert.NotContains(t, w.Body.String(), "password")
}

func TestGetUser(t *testing.T) {
	_, r := newRouter(t)

	w := do(r, http.MethodGet, "/admin/users/u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var u users.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &u))
	assert.Equal(t, "a@example.com", u.Email)

	w = do(r, http.MethodGet, "/admin/users/ghost", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGrantProThenRevoke(t *testing.T) {
	mem, r := newRouter(t)
	ctx := context.Background()

	w := do(r, http.MethodPost, "/admin/users/u1/grant-pro", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var returned billing.Subscription
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &returned))
	assert.Equal(t, billing.PlanPro, returned.Plan)

	sub, err := mem.FindSubscription(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, billing.PlanPro, sub.Plan)
	assert.Equal(t, billing.StatusActive, sub.Status)

	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/admin/users/u1/revoke-access", nil).Code)
	sub, err = mem.FindSubscription(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, billing.PlanFree, sub.Plan)
	assert.Equal(t, billing.StatusActive, sub.Status)
}

func TestGrantProUnknownUser(t *testing.T) {
	_, r := newRouter(t)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodPost, "/admin/users/ghost/grant-pro", nil).Code)
}

func TestStripeConfigRoundTrip(t *testing.T) {
	mem, r := newRouter(t)

	w := do(r, http.MethodGet, "/admin/stripe-config", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"publishableKey":"","hasSecretKey":false}`, w.Body.String())

	w = do(r, http.MethodPost, "/admin/stripe-config", map[string]string{
		"publishableKey": "pk_test_1",
		"secretKey":      "sk_test_1",
		"webhookSecret":  "whsec_1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	p, err := mem.FindAdminProfile(context.Background(), "admin1")
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	firstID := p.ID

	w = do(r, http.MethodGet, "/admin/stripe-config", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"publishableKey":"pk_test_1","hasSecretKey":true}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "sk_test_1")

	// partial update keeps the stored secret
	require.Equal(t, http.StatusOK, do(r, http.MethodPost, "/admin/stripe-config", map[string]string{"publishableKey": "pk_test_2"}).Code)
	p, err = mem.FindAdminProfile(context.Background(), "admin1")
	require.NoError(t, err)
	assert.Equal(t, firstID, p.ID)
	assert.Equal(t, "pk_test_2", p.StripePublishableKey)
	assert.Equal(t, "sk_test_1", p.StripeSecretKey)
	assert.Equal(t, "whsec_1", p.StripeWebhookSecret)
}
