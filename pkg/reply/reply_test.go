package reply

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapDecoderKeepsKeyOrder(t *testing.T) {
	m, err := MapDecoder{}.Decode([]byte(`{"z":1,"a":{"y":true,"b":null},"m":[1,2.5,"x"]}`))
	require.NoError(t, err)

	assert.Equal(t, []string{"z", "a", "m"}, m.Keys())

	nested, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, []string{"y", "b"}, nested.(*Map).Keys())

	arr, ok := m.Get("m")
	require.True(t, ok)
	assert.Equal(t, []interface{}{int64(1), 2.5, "x"}, arr)
}

func TestMapDecoderNumbers(t *testing.T) {
	m, err := MapDecoder{}.Decode([]byte(`{"a":1}`))
	require.NoError(t, err)

	v, ok := m.Get("a")
	require.True(t, ok)
	assert.Equal(t, int64(1), v)
}

func TestRecordDecoder(t *testing.T) {
	type record struct {
		A int `json:"a"`
	}

	r, err := RecordDecoder[record]{}.Decode([]byte(`{"a":1}`))
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, 1, r.A)
}

func TestDecodersEmptiness(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		mapEmpty bool
		recEmpty bool
	}{
		{name: "null", body: `null`, mapEmpty: true, recEmpty: true},
		{name: "empty object", body: `{}`, mapEmpty: true, recEmpty: false},
		{name: "object", body: `{"header":{}}`, mapEmpty: false, recEmpty: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := MapDecoder{}.Decode([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.mapEmpty, MapDecoder{}.Empty(m))

			r, err := RecordDecoder[Envelope]{}.Decode([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.recEmpty, RecordDecoder[Envelope]{}.Empty(r))
		})
	}
}

func TestMapDecoderEmptyArrayIsEmpty(t *testing.T) {
	m, err := MapDecoder{}.Decode([]byte(`[]`))
	require.NoError(t, err)
	assert.True(t, MapDecoder{}.Empty(m))
}

func TestDecodersRejectMalformedBodies(t *testing.T) {
	for _, body := range []string{`{"a":`, `not json`, `[1,2]`, `"text"`} {
		_, err := MapDecoder{}.Decode([]byte(body))
		assert.Error(t, err, body)
	}
	for _, body := range []string{`{"header":`, `not json`, `"text"`} {
		_, err := RecordDecoder[Envelope]{}.Decode([]byte(body))
		assert.Error(t, err, body)
	}
}

func TestErrorBody(t *testing.T) {
	assert.JSONEq(t,
		`{"header":{"error":{"message":["Failed to execute request"]}}}`,
		string(ErrorBody(MessageExecutionFailed)))
}

func TestErrorBodyDecodesInBothModes(t *testing.T) {
	body := ErrorBody(MessageCannotConnect)

	m, err := MapDecoder{}.Decode(body)
	require.NoError(t, err)
	assert.Equal(t, []string{MessageCannotConnect}, ErrorMessages(m))
	assert.True(t, IsError(m))

	r, err := RecordDecoder[Envelope]{}.Decode(body)
	require.NoError(t, err)
	assert.Equal(t, []string{MessageCannotConnect}, ErrorMessages(r))
	assert.True(t, IsError(r))
}

func TestErrorMessagesOnRegularReply(t *testing.T) {
	m, err := MapDecoder{}.Decode([]byte(`{"header":{},"reply":{"results":[]}}`))
	require.NoError(t, err)
	assert.False(t, IsError(m))
	assert.Nil(t, ErrorMessages("not a reply"))
}

func TestMapMarshalJSONPreservesOrder(t *testing.T) {
	body := `{"z":1,"a":{"y":true,"b":null},"m":[1,2.5,"x"]}`
	m, err := MapDecoder{}.Decode([]byte(body))
	require.NoError(t, err)

	out, err := m.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, body, string(out))
}

func TestMapPath(t *testing.T) {
	m := NewMap()
	inner := NewMap()
	inner.Set("uri", "Catalog")
	m.Set("meta", inner)

	v, ok := m.Path("meta", "uri")
	require.True(t, ok)
	assert.Equal(t, "Catalog", v)

	_, ok = m.Path("meta", "uri", "deeper")
	assert.False(t, ok)

	var nilMap *Map
	assert.Equal(t, 0, nilMap.Len())
	assert.Nil(t, nilMap.Keys())
}
