// Package json provides JSON serialization backed by goccy/go-json with
// pooled buffers.
package json

import (
	"bytes"
	"io"
	"sync"

	gojson "github.com/goccy/go-json"
)

// Token, Delim and Number mirror the goccy/go-json types so callers do not
// need to import it directly.
type (
	Token  = gojson.Token
	Delim  = gojson.Delim
	Number = gojson.Number
)

var bufferPool = sync.Pool{
	New: func() interface{} {
		return bytes.NewBuffer(make([]byte, 0, 4096))
	},
}

// NewDecoder returns a decoder over data that keeps numbers as Number so
// integral values are not rounded through float64.
func NewDecoder(data []byte) *gojson.Decoder {
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec
}

// GetBuffer gets a pooled bytes.Buffer
func GetBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// PutBuffer returns a buffer to the pool
func PutBuffer(buf *bytes.Buffer) {
	if buf.Cap() > 1024*1024 { // Don't pool very large buffers
		return
	}
	bufferPool.Put(buf)
}

// ReadAll reads r into a pooled buffer and returns a copy of its content.
func ReadAll(r io.Reader) ([]byte, error) {
	buf := GetBuffer()
	defer PutBuffer(buf)

	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

// Marshal is a drop-in replacement for json.Marshal
func Marshal(v interface{}) ([]byte, error) {
	return gojson.Marshal(v)
}

// MarshalIndent is a drop-in replacement for json.MarshalIndent
func MarshalIndent(v interface{}, prefix, indent string) ([]byte, error) {
	return gojson.MarshalIndent(v, prefix, indent)
}

// Unmarshal is a drop-in replacement for json.Unmarshal
func Unmarshal(data []byte, v interface{}) error {
	return gojson.Unmarshal(data, v)
}

// Valid reports whether data is a valid JSON encoding.
func Valid(data []byte) bool {
	return gojson.Valid(data)
}
