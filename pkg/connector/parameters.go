package connector

import (
	"net/url"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Parameters is an insertion-ordered set of query parameters. A key may
// carry several values, which are sent as repeated parameters.
//
// The zero value is not usable; use NewParameters. A nil *Parameters is
// accepted wherever parameters are read and behaves as an empty set.
type Parameters struct {
	values *orderedmap.OrderedMap[string, []string]
}

// NewParameters returns an empty parameter set.
func NewParameters() *Parameters {
	return &Parameters{values: orderedmap.New[string, []string]()}
}

// ParametersOf builds a parameter set from key, value pairs. A trailing key
// without value is ignored.
//
//	p := connector.ParametersOf("afs:query", "shoes", "afs:replies", "10")
func ParametersOf(pairs ...string) *Parameters {
	p := NewParameters()
	for i := 0; i+1 < len(pairs); i += 2 {
		p.Add(pairs[i], pairs[i+1])
	}
	return p
}

// Set replaces the values of key with value. An existing key keeps its
// position.
func (p *Parameters) Set(key, value string) *Parameters {
	p.values.Set(key, []string{value})
	return p
}

// Add appends value to the values of key.
func (p *Parameters) Add(key, value string) *Parameters {
	current, _ := p.values.Get(key)
	p.values.Set(key, append(current, value))
	return p
}

// Del removes key.
func (p *Parameters) Del(key string) *Parameters {
	p.values.Delete(key)
	return p
}

// Get returns the first value of key.
func (p *Parameters) Get(key string) (string, bool) {
	values := p.Values(key)
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// Values returns every value of key.
func (p *Parameters) Values(key string) []string {
	if p == nil {
		return nil
	}
	values, _ := p.values.Get(key)
	return values
}

// Has reports whether key is present.
func (p *Parameters) Has(key string) bool {
	if p == nil {
		return false
	}
	_, ok := p.values.Get(key)
	return ok
}

// Keys returns the keys in insertion order.
func (p *Parameters) Keys() []string {
	if p == nil {
		return nil
	}
	keys := make([]string, 0, p.values.Len())
	for pair := p.values.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Len returns the number of keys.
func (p *Parameters) Len() int {
	if p == nil {
		return 0
	}
	return p.values.Len()
}

// Clone returns a deep copy of p.
func (p *Parameters) Clone() *Parameters {
	out := NewParameters()
	if p == nil {
		return out
	}
	for pair := p.values.Oldest(); pair != nil; pair = pair.Next() {
		out.values.Set(pair.Key, append([]string(nil), pair.Value...))
	}
	return out
}

// AFS parameter names keep ':' and ',' readable, e.g. afs:output=json,2.
var queryUnescaper = strings.NewReplacer("%3A", ":", "%2C", ",")

func escapeQuery(s string) string {
	return queryUnescaper.Replace(url.QueryEscape(s))
}

// Encode serializes the parameters as a query string, in insertion order.
func (p *Parameters) Encode() string {
	if p == nil {
		return ""
	}
	var b strings.Builder
	for pair := p.values.Oldest(); pair != nil; pair = pair.Next() {
		key := escapeQuery(pair.Key)
		for _, value := range pair.Value {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(key)
			b.WriteByte('=')
			b.WriteString(escapeQuery(value))
		}
	}
	return b.String()
}
