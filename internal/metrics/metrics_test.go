package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMembershipOperationsCounter(t *testing.T) {
	c := MembershipOperations.WithLabelValues("favorite", "add", "ok")
	before := testutil.ToFloat64(c)
	c.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(c))
}

func TestShoppingListDownloadsCounter(t *testing.T) {
	before := testutil.ToFloat64(ShoppingListDownloads)
	ShoppingListDownloads.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(ShoppingListDownloads))
}
