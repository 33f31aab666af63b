package reply

import (
	"bytes"
	"fmt"
	"strconv"

	jsonpool "github.com/ajitpratap0/afs-connector/pkg/json"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Map is a JSON object decoded with its keys kept in document order.
//
// Values are *Map for nested objects, []interface{} for arrays, string,
// bool, nil, int64 for integral numbers and float64 for the other numbers.
type Map struct {
	fields *orderedmap.OrderedMap[string, interface{}]
}

// NewMap returns an empty Map.
func NewMap() *Map {
	return &Map{fields: orderedmap.New[string, interface{}]()}
}

// Set stores value under key. An existing key keeps its position.
func (m *Map) Set(key string, value interface{}) {
	m.fields.Set(key, value)
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (interface{}, bool) {
	if m == nil {
		return nil, false
	}
	return m.fields.Get(key)
}

// Len returns the number of keys. A nil Map has length zero.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return m.fields.Len()
}

// Keys returns the keys in document order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, 0, m.fields.Len())
	for pair := m.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Path walks nested objects following keys and returns the value found at
// the end of the path.
//
//	msgs, ok := m.Path("header", "error", "message")
func (m *Map) Path(keys ...string) (interface{}, bool) {
	var current interface{} = m
	for _, key := range keys {
		obj, ok := current.(*Map)
		if !ok {
			return nil, false
		}
		current, ok = obj.Get(key)
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// MarshalJSON encodes the map with its keys in insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}

	buf := jsonpool.GetBuffer()
	defer jsonpool.PutBuffer(buf)

	buf.WriteByte('{')
	first := true
	for pair := m.fields.Oldest(); pair != nil; pair = pair.Next() {
		if !first {
			buf.WriteByte(',')
		}
		first = false

		key, err := jsonpool.Marshal(pair.Key)
		if err != nil {
			return nil, err
		}
		value, err := jsonpool.Marshal(pair.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

// UnmarshalJSON decodes a JSON object, preserving key order at every level.
func (m *Map) UnmarshalJSON(data []byte) error {
	dec := jsonpool.NewDecoder(data)

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(jsonpool.Delim); !ok || delim != '{' {
		return fmt.Errorf("reply: expected JSON object, got %v", tok)
	}

	decoded, err := decodeObject(dec)
	if err != nil {
		return err
	}
	m.fields = decoded.fields
	return nil
}

type tokenReader interface {
	Token() (jsonpool.Token, error)
	More() bool
}

func decodeValue(dec tokenReader) (interface{}, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case jsonpool.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return nil, fmt.Errorf("reply: unexpected delimiter %q", rune(t))
	case jsonpool.Number:
		return convertNumber(string(t))
	case float64:
		return convertNumber(strconv.FormatFloat(t, 'g', -1, 64))
	case string, bool, nil:
		return t, nil
	}
	return nil, fmt.Errorf("reply: unexpected token %T", tok)
}

func decodeObject(dec tokenReader) (*Map, error) {
	m := NewMap()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("reply: expected object key, got %v", tok)
		}
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		m.Set(key, value)
	}
	// closing '}'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeArray(dec tokenReader) ([]interface{}, error) {
	values := make([]interface{}, 0)
	for dec.More() {
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	// closing ']'
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return values, nil
}

func convertNumber(raw string) (interface{}, error) {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("reply: invalid number %q: %w", raw, err)
	}
	return f, nil
}

func isNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}
