// Package reply defines how AFS JSON replies are represented once decoded.
//
// Two representations are available and the choice is made when a connector
// is built, through the Decoder strategy:
//
//   - MapDecoder produces *Map values: nested JSON objects whose keys keep
//     the order in which the engine sent them.
//   - RecordDecoder[T] produces *T values for a caller-defined struct type.
//
// Both strategies decode the synthetic error reply the same way they decode
// a real one, so callers inspect header.error.message in a single place.
package reply

import (
	"fmt"

	jsonpool "github.com/ajitpratap0/afs-connector/pkg/json"
)

// Decoder turns a raw reply body into a reply value of type R.
type Decoder[R any] interface {
	// Decode decodes body. A JSON null body decodes to the empty value
	// without error.
	Decode(body []byte) (R, error)
	// Empty reports whether r carries no content.
	Empty(r R) bool
}

// MapDecoder decodes replies as key-ordered maps.
type MapDecoder struct{}

// Decode implements Decoder.
func (MapDecoder) Decode(body []byte) (*Map, error) {
	if !jsonpool.Valid(body) {
		return nil, fmt.Errorf("reply: invalid JSON body")
	}
	if isNull(body) {
		return nil, nil
	}

	m := NewMap()
	if err := m.UnmarshalJSON(body); err != nil {
		// [] is an empty reply, not a malformed one.
		if isEmptyArray(body) {
			return NewMap(), nil
		}
		return nil, err
	}
	return m, nil
}

// Empty implements Decoder. Objects without keys are empty.
func (MapDecoder) Empty(m *Map) bool {
	return m.Len() == 0
}

// RecordDecoder decodes replies into values of the struct type T.
type RecordDecoder[T any] struct{}

// Decode implements Decoder.
func (RecordDecoder[T]) Decode(body []byte) (*T, error) {
	var out *T
	if err := jsonpool.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Empty implements Decoder. Only an absent record is empty: a decoded
// object stays meaningful even when none of its fields were present.
func (RecordDecoder[T]) Empty(r *T) bool {
	return r == nil
}

func isEmptyArray(body []byte) bool {
	var values []interface{}
	if err := jsonpool.Unmarshal(body, &values); err != nil {
		return false
	}
	return len(values) == 0
}
