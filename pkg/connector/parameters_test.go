package connector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParametersKeepInsertionOrder(t *testing.T) {
	p := NewParameters().
		Set("z", "1").
		Set("a", "2").
		Set("m", "3")

	assert.Equal(t, []string{"z", "a", "m"}, p.Keys())
	assert.Equal(t, "z=1&a=2&m=3", p.Encode())

	p.Set("z", "4")
	assert.Equal(t, []string{"z", "a", "m"}, p.Keys(), "Set keeps the position of an existing key")
	assert.Equal(t, "z=4&a=2&m=3", p.Encode())
}

func TestParametersRepeatedValues(t *testing.T) {
	p := NewParameters().
		Add("afs:filter", "color=red").
		Add("afs:query", "shoes").
		Add("afs:filter", "size=42")

	assert.Equal(t, []string{"color=red", "size=42"}, p.Values("afs:filter"))
	v, ok := p.Get("afs:filter")
	require.True(t, ok)
	assert.Equal(t, "color=red", v)
	assert.Equal(t, "afs:filter=color%3Dred&afs:filter=size%3D42&afs:query=shoes", p.Encode())

	p.Del("afs:filter")
	assert.False(t, p.Has("afs:filter"))
	assert.Equal(t, 1, p.Len())
}

func TestParametersEncoding(t *testing.T) {
	tests := []struct {
		name     string
		params   *Parameters
		expected string
	}{
		{name: "nil", params: nil, expected: ""},
		{name: "empty", params: NewParameters(), expected: ""},
		{name: "space as plus", params: ParametersOf("q", "red shoes"), expected: "q=red+shoes"},
		{name: "colon and comma literal", params: ParametersOf("afs:output", "json,2"), expected: "afs:output=json,2"},
		{name: "reserved characters", params: ParametersOf("q", "a&b=c/d?"), expected: "q=a%26b%3Dc%2Fd%3F"},
		{name: "unicode", params: ParametersOf("q", "été"), expected: "q=%C3%A9t%C3%A9"},
		{name: "empty value", params: ParametersOf("q", ""), expected: "q="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.params.Encode())
		})
	}
}

func TestParametersOfIgnoresTrailingKey(t *testing.T) {
	p := ParametersOf("a", "1", "b")
	assert.Equal(t, []string{"a"}, p.Keys())
}

func TestParametersNilIsEmpty(t *testing.T) {
	var p *Parameters
	assert.Equal(t, 0, p.Len())
	assert.Nil(t, p.Keys())
	assert.False(t, p.Has("a"))
	_, ok := p.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, p.Clone().Len())
}

func TestParametersClone(t *testing.T) {
	p := ParametersOf("a", "1", "a", "2")
	c := p.Clone()
	c.Add("a", "3").Set("b", "4")

	assert.Equal(t, []string{"1", "2"}, p.Values("a"))
	assert.Equal(t, []string{"a"}, p.Keys())
	assert.Equal(t, []string{"1", "2", "3"}, c.Values("a"))
}
