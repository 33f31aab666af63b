package acp

import (
	"testing"

	"github.com/ajitpratap0/afs-connector/pkg/connector"
	"github.com/ajitpratap0/afs-connector/pkg/metrics"
	"github.com/ajitpratap0/afs-connector/pkg/reply"
	"github.com/ajitpratap0/afs-connector/pkg/testutil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const acpReply = `{
  "header": {"query": {"userId": "u1"}},
  "products": ["sho", ["shoes", "shorts", 3], [{"category": "footwear"}, {"category": "clothing"}]],
  "brands": ["sho", ["shoeshop"]]
}`

func TestQuery(t *testing.T) {
	params := Query("sho", 5, "products", "brands")

	assert.Equal(t, []string{ParamQuery, ParamFeed, ParamReplies}, params.Keys())
	assert.Equal(t, "afs:query=sho&afs:feed=products&afs:feed=brands&afs:replies=5", params.Encode())
	assert.False(t, Query("sho", 0).Has(ParamReplies))
}

func TestSuggestions(t *testing.T) {
	server := testutil.NewAFSServer(t, acpReply)

	c, err := New(connector.NewConfig(server.Host(), "42"),
		connector.WithLogger(testutil.TestLogger(t)),
		connector.WithMetrics(metrics.NewCollector(prometheus.NewRegistry())),
	)
	require.NoError(t, err)

	r := c.Send(testutil.TestContext(t), Query("sho", 5, "products", "brands"), connector.Caller{})
	require.False(t, reply.IsError(r))

	req, ok := server.LastRequest()
	require.True(t, ok)
	assert.Equal(t, "/acp", req.Path)
	assert.Equal(t, []string{"products", "brands"}, req.Query["afs:feed"])

	assert.Equal(t, []string{"products", "brands"}, Feeds(r))
	assert.Equal(t, []string{"shoes", "shorts"}, Values(r, "products"))
	assert.Equal(t, []string{"shoeshop"}, Values(r, "brands"))

	suggestions := Suggestions(r, "products")
	require.Len(t, suggestions, 2)
	category, ok := suggestions[1].Options.Get("category")
	require.True(t, ok)
	assert.Equal(t, "clothing", category)
	assert.Nil(t, Suggestions(r, "brands")[0].Options)
}

func TestSuggestionsMalformed(t *testing.T) {
	var m reply.Map
	require.NoError(t, m.UnmarshalJSON([]byte(`{"a": "x", "b": ["q"], "c": ["q", "notalist"]}`)))

	assert.Nil(t, Suggestions(&m, "a"))
	assert.Nil(t, Suggestions(&m, "b"))
	assert.Nil(t, Suggestions(&m, "c"))
	assert.Nil(t, Suggestions(&m, "missing"))
	assert.Empty(t, Values(nil, "a"))
	assert.Nil(t, Feeds(nil))
}
