// Package search queries the AFS search web service.
package search

import (
	"strconv"

	"github.com/ajitpratap0/afs-connector/pkg/connector"
	"github.com/ajitpratap0/afs-connector/pkg/reply"
)

// WebService is the name of the search web service.
const WebService connector.WebService = "search"

// Search parameter names.
const (
	ParamQuery   = "afs:query"
	ParamPage    = "afs:page"
	ParamReplies = "afs:replies"
	ParamFeed    = "afs:feed"
	ParamFilter  = "afs:filter"
	ParamFacet   = "afs:facet"
	ParamLang    = "afs:lang"
	ParamSort    = "afs:sort"
)

// New creates a search connector decoding replies into *Reply.
func New(cfg connector.Config, opts ...connector.Option) (*connector.Connector[*Reply], error) {
	return connector.NewRecord[Reply](cfg, WebService, opts...)
}

// NewMap creates a search connector decoding replies into key-ordered maps.
func NewMap(cfg connector.Config, opts ...connector.Option) (*connector.Connector[*reply.Map], error) {
	return connector.NewMap(cfg, WebService, opts...)
}

// Query builds search parameters. Methods can be chained:
//
//	params := search.NewQuery("shoes").Page(2).Replies(20).Feed("catalog").Parameters()
type Query struct {
	params *connector.Parameters
}

// NewQuery starts a query for text. An empty text queries everything.
func NewQuery(text string) *Query {
	q := &Query{params: connector.NewParameters()}
	if text != "" {
		q.params.Set(ParamQuery, text)
	}
	return q
}

// Page selects the reply page, starting at 1.
func (q *Query) Page(page int) *Query {
	q.params.Set(ParamPage, strconv.Itoa(page))
	return q
}

// Replies sets the number of replies per page.
func (q *Query) Replies(n int) *Query {
	q.params.Set(ParamReplies, strconv.Itoa(n))
	return q
}

// Feed adds a feed to query. Several feeds may be queried at once.
func (q *Query) Feed(feed string) *Query {
	q.params.Add(ParamFeed, feed)
	return q
}

// Filter adds a filter expression, e.g. `color="red"`.
func (q *Query) Filter(expr string) *Query {
	q.params.Add(ParamFilter, expr)
	return q
}

// Facet adds a facet option, e.g. "color,sticky=true".
func (q *Query) Facet(option string) *Query {
	q.params.Add(ParamFacet, option)
	return q
}

// Lang sets the query language.
func (q *Query) Lang(lang string) *Query {
	q.params.Set(ParamLang, lang)
	return q
}

// Sort sets the sort order, e.g. "price,ASC".
func (q *Query) Sort(order string) *Query {
	q.params.Set(ParamSort, order)
	return q
}

// Set sets any other parameter.
func (q *Query) Set(key, value string) *Query {
	q.params.Set(key, value)
	return q
}

// Parameters returns a copy of the built parameters.
func (q *Query) Parameters() *connector.Parameters {
	return q.params.Clone()
}
