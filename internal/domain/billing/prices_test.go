package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPricesFor(t *testing.T) {
	p := Prices{Starter: "a", Pro: "b"}
	assert.Equal(t, "a", p.For(PlanStarter))
	assert.Equal(t, "b", p.For(PlanPro))
	assert.Equal(t, "", p.For(PlanFree))
	assert.Equal(t, "", p.For(Plan("ENTERPRISE")))
}
