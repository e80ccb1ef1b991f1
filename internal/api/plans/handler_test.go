package plans

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"subscription-app/internal/domain/billing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func list(t *testing.T, prices billing.Prices) []PlanDTO {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/plans", NewHandler(prices).ListPlans)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/plans", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var out []PlanDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestListPlans(t *testing.T) {
	out := list(t, billing.Prices{Starter: "price_s", Pro: "price_p"})

	require.Len(t, out, 3)
	assert.Equal(t, billing.PlanFree, out[0].Plan)
	assert.False(t, out[0].Paid)
	assert.Equal(t, PlanDTO{Plan: billing.PlanStarter, Paid: true, PriceID: "price_s", TrialDays: 14}, out[1])
	assert.Equal(t, PlanDTO{Plan: billing.PlanPro, Paid: true, PriceID: "price_p", TrialDays: 14}, out[2])
}

func TestListPlansSkipsUnpricedPlans(t *testing.T) {
	out := list(t, billing.Prices{Pro: "price_p"})

	require.Len(t, out, 2)
	assert.Equal(t, billing.PlanPro, out[1].Plan)
}
