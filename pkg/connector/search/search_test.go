package search

import (
	"strings"
	"testing"

	"github.com/ajitpratap0/afs-connector/pkg/connector"
	"github.com/ajitpratap0/afs-connector/pkg/facet"
	"github.com/ajitpratap0/afs-connector/pkg/metrics"
	"github.com/ajitpratap0/afs-connector/pkg/reply"
	"github.com/ajitpratap0/afs-connector/pkg/testutil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catalogReply = `{
  "header": {"performance": {"durationMs": 12}},
  "replySet": [{
    "meta": {"uri": "catalog", "totalItems": 2, "totalPages": 1, "pageNo": 1, "totalItemsIsExact": true, "durationMs": 10},
    "facets": {"facet": [
      {"id": "brand", "afs:t": "FacetTree", "layout": "TREE", "labels": [{"lang": "en", "label": "Brand"}],
       "node": [{"key": "\"acme\"", "items": 2, "labels": [{"label": "Acme"}]}]},
      {"id": "color", "afs:t": "FacetTree", "layout": "TREE",
       "node": [{"key": "\"red\"", "items": 1}, {"key": "\"blue\"", "items": 1}]},
      {"id": "size", "afs:t": "FacetInterval", "layout": "INTERVAL"}
    ]},
    "content": {"reply": [
      {"docId": 1, "uri": "doc/1", "title": [{"afs:t": "text", "text": "Red "}, {"afs:t": "match", "text": "shoes"}]},
      {"docId": 2, "uri": "doc/2", "title": [{"afs:t": "text", "text": "Blue boots"}]}
    ]}
  }]
}`

func options(t *testing.T) []connector.Option {
	return []connector.Option{
		connector.WithLogger(testutil.TestLogger(t)),
		connector.WithMetrics(metrics.NewCollector(prometheus.NewRegistry())),
	}
}

func TestQueryParameters(t *testing.T) {
	params := NewQuery("red shoes").
		Page(2).
		Replies(20).
		Feed("catalog").
		Feed("news").
		Filter(`color="red"`).
		Lang("en").
		Sort("price,ASC").
		Parameters()

	assert.Equal(t,
		[]string{ParamQuery, ParamPage, ParamReplies, ParamFeed, ParamFilter, ParamLang, ParamSort},
		params.Keys())
	assert.Equal(t, []string{"catalog", "news"}, params.Values(ParamFeed))
	assert.Contains(t, params.Encode(), "afs:query=red+shoes&afs:page=2&afs:replies=20&afs:feed=catalog&afs:feed=news")
	assert.Contains(t, params.Encode(), "afs:sort=price,ASC")
}

func TestEmptyQueryHasNoQueryParameter(t *testing.T) {
	assert.False(t, NewQuery("").Parameters().Has(ParamQuery))
}

func TestSearchRecordReply(t *testing.T) {
	server := testutil.NewAFSServer(t, catalogReply)

	cfg := connector.NewConfig(server.Host(), "42")
	c, err := New(cfg, options(t)...)
	require.NoError(t, err)
	assert.Equal(t, "search", c.WebServiceName())

	r := c.Send(testutil.TestContext(t), NewQuery("shoes").Feed("catalog").Parameters(), connector.Caller{})
	require.NotNil(t, r)
	assert.Empty(t, r.ErrorMessages())

	req, ok := server.LastRequest()
	require.True(t, ok)
	assert.Equal(t, "/search", req.Path)
	assert.True(t, strings.HasPrefix(req.RawQuery, "afs:service=42&afs:status=stable&afs:output=json,2&"))
	assert.Contains(t, req.RawQuery, "&afs:query=shoes&afs:feed=catalog")

	require.NotNil(t, r.Header.Performance)
	assert.Equal(t, int64(12), r.Header.Performance.DurationMs)

	rs, ok := r.ReplySet("catalog")
	require.True(t, ok)
	assert.Equal(t, 2, rs.Meta.TotalItems)
	assert.Equal(t, []string{"brand", "color", "size"}, rs.FacetIDs())
	require.Len(t, rs.Content.Reply, 2)
	assert.Equal(t, "Red shoes", JoinText(rs.Content.Reply[0].Title))
	assert.Equal(t, "doc/2", rs.Content.Reply[1].URI)

	_, ok = r.ReplySet("news")
	assert.False(t, ok)
}

func TestSearchMapReply(t *testing.T) {
	server := testutil.NewAFSServer(t, catalogReply)

	c, err := NewMap(connector.NewConfig(server.Host(), "42"), options(t)...)
	require.NoError(t, err)

	r := c.Send(testutil.TestContext(t), NewQuery("shoes").Parameters(), connector.Caller{})
	assert.False(t, reply.IsError(r))
	assert.Equal(t, []string{"header", "replySet"}, r.Keys())
}

func TestSearchErrorReply(t *testing.T) {
	server := testutil.NewAFSServer(t, "")

	c, err := New(connector.NewConfig(server.Host(), "42"), options(t)...)
	require.NoError(t, err)

	r := c.Send(testutil.TestContext(t), NewQuery("shoes").Parameters(), connector.Caller{})
	require.NotNil(t, r)
	assert.Equal(t, []string{reply.MessageExecutionFailed}, r.ErrorMessages())
	assert.Empty(t, r.ReplySets)
}

func TestOrderFacets(t *testing.T) {
	tests := []struct {
		name     string
		order    []string
		mode     facet.SortMode
		expected []string
	}{
		{name: "strict", order: []string{"size", "brand"}, mode: facet.Strict, expected: []string{"size", "brand"}},
		{name: "smooth", order: []string{"size", "brand"}, mode: facet.Smooth, expected: []string{"size", "brand", "color"}},
		{name: "strict unknown", order: []string{"price"}, mode: facet.Strict, expected: []string{}},
		{name: "smooth empty order", order: nil, mode: facet.Smooth, expected: []string{"brand", "color", "size"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := ReplySet{Facets: Facets{Facet: []Facet{{ID: "brand"}, {ID: "color"}, {ID: "size"}}}}
			rs.OrderFacets(tt.order, tt.mode)
			assert.Equal(t, tt.expected, rs.FacetIDs())
		})
	}
}

func TestSearchReplyWithClientData(t *testing.T) {
	server := testutil.NewAFSServer(t, `{
  "header": {},
  "replySet": [{
    "meta": {"uri": "catalog", "totalItems": 1},
    "content": {"reply": [{
      "docId": 7,
      "uri": "doc/7",
      "clientData": [
        {"id": "main", "mimeType": "text/xml", "contents": "<x/>"},
        {"id": "extra", "mimeType": "application/json", "contents": {"price": 12.5}}
      ]
    }]}
  }]
}`)

	c, err := New(connector.NewConfig(server.Host(), "42"), options(t)...)
	require.NoError(t, err)

	r := c.Send(testutil.TestContext(t), NewQuery("shoes").Parameters(), connector.Caller{})
	require.NotNil(t, r)
	require.Empty(t, r.ErrorMessages())

	rs, ok := r.ReplySet("catalog")
	require.True(t, ok)
	require.Len(t, rs.Content.Reply, 1)
	result := rs.Content.Reply[0]
	require.Len(t, result.ClientData, 2)

	primary, ok := result.ClientDataByID("main")
	require.True(t, ok)
	assert.Equal(t, "text/xml", primary.MimeType)
	assert.Equal(t, "<x/>", primary.Contents)

	extra, ok := result.ClientDataByID("extra")
	require.True(t, ok)
	assert.Equal(t, map[string]interface{}{"price": 12.5}, extra.Contents)

	_, ok = result.ClientDataByID("missing")
	assert.False(t, ok)
}
