package search

import (
	"strings"

	"github.com/ajitpratap0/afs-connector/pkg/facet"
	"github.com/ajitpratap0/afs-connector/pkg/reply"
)

// Reply is a search reply. Error replies only carry the header.
type Reply struct {
	reply.Envelope
	ReplySets []ReplySet `json:"replySet,omitempty"`
}

// ErrorMessages returns the header error messages, or nil when r is not an
// error reply.
func (r *Reply) ErrorMessages() []string {
	if r == nil {
		return nil
	}
	return r.Envelope.ErrorMessages()
}

// ReplySet returns the reply set of feed, if any.
func (r *Reply) ReplySet(feed string) (*ReplySet, bool) {
	if r == nil {
		return nil, false
	}
	for i := range r.ReplySets {
		if r.ReplySets[i].Meta.Feed == feed {
			return &r.ReplySets[i], true
		}
	}
	return nil, false
}

// ReplySet holds the replies of one feed.
type ReplySet struct {
	Meta    Meta    `json:"meta"`
	Facets  Facets  `json:"facets"`
	Content Content `json:"content"`
}

// Meta describes a reply set.
type Meta struct {
	Feed              string `json:"uri"`
	TotalItems        int    `json:"totalItems"`
	TotalPages        int    `json:"totalPages"`
	PageNo            int    `json:"pageNo"`
	TotalItemsIsExact bool   `json:"totalItemsIsExact"`
	DurationMs        int64  `json:"durationMs"`
	Producer          string `json:"producer,omitempty"`
}

// Facets wraps the facet list.
type Facets struct {
	Facet []Facet `json:"facet,omitempty"`
}

// Facet is one facet of a reply set.
type Facet struct {
	ID     string      `json:"id"`
	Type   string      `json:"afs:t,omitempty"`
	Layout string      `json:"layout,omitempty"`
	Sticky bool        `json:"sticky,omitempty"`
	Labels []Label     `json:"labels,omitempty"`
	Nodes  []FacetNode `json:"node,omitempty"`
}

// FacetNode is a facet value, possibly with children.
type FacetNode struct {
	Key    string      `json:"key"`
	Items  int         `json:"items"`
	Labels []Label     `json:"labels,omitempty"`
	Nodes  []FacetNode `json:"node,omitempty"`
}

// Label is a localized label.
type Label struct {
	Lang  string `json:"lang,omitempty"`
	Label string `json:"label"`
}

// Content wraps the result list.
type Content struct {
	Reply []Result `json:"reply,omitempty"`
}

// Result is one matching document.
type Result struct {
	DocID      int64        `json:"docId"`
	URI        string       `json:"uri"`
	Title      []Text       `json:"title,omitempty"`
	Abstract   []Text       `json:"abstract,omitempty"`
	ClientData []ClientData `json:"clientData,omitempty"`
}

// ClientData is customer data attached to a result. Contents is kept as
// sent: a string for XML or text data, decoded JSON otherwise.
type ClientData struct {
	ID       string      `json:"id"`
	MimeType string      `json:"mimeType"`
	Contents interface{} `json:"contents"`
}

// ClientDataByID returns the client data entry named id.
func (r *Result) ClientDataByID(id string) (*ClientData, bool) {
	for i := range r.ClientData {
		if r.ClientData[i].ID == id {
			return &r.ClientData[i], true
		}
	}
	return nil, false
}

// Text is a fragment of highlighted text. Type is "text" for plain text or
// "match" for a fragment matching the query.
type Text struct {
	Type string `json:"afs:t"`
	Text string `json:"text"`
}

// JoinText joins the fragments of a highlighted text.
func JoinText(fragments []Text) string {
	var b strings.Builder
	for _, f := range fragments {
		b.WriteString(f.Text)
	}
	return b.String()
}

// FacetIDs returns the facet ids in reply order.
func (rs *ReplySet) FacetIDs() []string {
	ids := make([]string, 0, len(rs.Facets.Facet))
	for _, f := range rs.Facets.Facet {
		ids = append(ids, f.ID)
	}
	return ids
}

// OrderFacets rearranges the facets following order. With facet.Strict the
// facets not listed are dropped; with facet.Smooth they follow the listed
// ones in reply order.
func (rs *ReplySet) OrderFacets(order []string, mode facet.SortMode) {
	byID := make(map[string]Facet, len(rs.Facets.Facet))
	for _, f := range rs.Facets.Facet {
		if _, seen := byID[f.ID]; !seen {
			byID[f.ID] = f
		}
	}

	ordered := make([]Facet, 0, len(rs.Facets.Facet))
	for _, id := range facet.Order(rs.FacetIDs(), order, mode) {
		if f, ok := byID[id]; ok {
			ordered = append(ordered, f)
			delete(byID, id)
		}
	}
	rs.Facets.Facet = ordered
}
