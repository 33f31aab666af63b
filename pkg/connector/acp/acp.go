// Package acp queries the AFS auto-complete (acp) web service.
//
// An acp reply holds one entry per feed besides the header. Each entry is
// an array whose first element echoes the query and whose second element
// lists the suggestions:
//
//	{"header": {...}, "products": ["sho", ["shoes", "shorts"], [{...}, {...}]]}
//
// The third element, when present, carries per-suggestion options.
package acp

import (
	"strconv"

	"github.com/ajitpratap0/afs-connector/pkg/connector"
	"github.com/ajitpratap0/afs-connector/pkg/reply"
)

// WebService is the name of the auto-complete web service.
const WebService connector.WebService = "acp"

// Auto-complete parameter names.
const (
	ParamQuery   = "afs:query"
	ParamFeed    = "afs:feed"
	ParamReplies = "afs:replies"
)

// New creates an auto-complete connector. Feed names are keys of the
// reply, so replies are key-ordered maps.
func New(cfg connector.Config, opts ...connector.Option) (*connector.Connector[*reply.Map], error) {
	return connector.NewMap(cfg, WebService, opts...)
}

// Query returns the parameters completing text on feeds, with at most
// replies suggestions per feed when replies is positive.
func Query(text string, replies int, feeds ...string) *connector.Parameters {
	params := connector.NewParameters().Set(ParamQuery, text)
	for _, feed := range feeds {
		params.Add(ParamFeed, feed)
	}
	if replies > 0 {
		params.Set(ParamReplies, strconv.Itoa(replies))
	}
	return params
}

// Feeds returns the feeds present in r, in reply order.
func Feeds(r *reply.Map) []string {
	var feeds []string
	for _, key := range r.Keys() {
		if key != "header" {
			feeds = append(feeds, key)
		}
	}
	return feeds
}

// Suggestion is one completion of the query.
type Suggestion struct {
	Value   string
	Options *reply.Map
}

// Suggestions returns the suggestions of feed. It returns nil when the feed
// is missing or not shaped like an acp entry.
func Suggestions(r *reply.Map, feed string) []Suggestion {
	raw, ok := r.Get(feed)
	if !ok {
		return nil
	}
	entry, ok := raw.([]interface{})
	if !ok || len(entry) < 2 {
		return nil
	}
	values, ok := entry[1].([]interface{})
	if !ok {
		return nil
	}

	var options []interface{}
	if len(entry) > 2 {
		options, _ = entry[2].([]interface{})
	}

	suggestions := make([]Suggestion, 0, len(values))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		suggestion := Suggestion{Value: s}
		if i < len(options) {
			suggestion.Options, _ = options[i].(*reply.Map)
		}
		suggestions = append(suggestions, suggestion)
	}
	return suggestions
}

// Values returns the suggested strings of feed.
func Values(r *reply.Map, feed string) []string {
	suggestions := Suggestions(r, feed)
	values := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		values = append(values, s.Value)
	}
	return values
}
