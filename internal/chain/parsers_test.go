package chain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibemint/api/internal/chain"
)

func item(typ, raw string) chain.StackItem {
	return chain.StackItem{Type: typ, Value: json.RawMessage(raw)}
}

func TestParseInteger(t *testing.T) {
	n, err := chain.ParseInteger(item("Integer", `"12345"`))
	require.NoError(t, err)
	assert.Equal(t, int64(12345), n.Int64())

	_, err = chain.ParseInteger(item("Boolean", `true`))
	assert.Error(t, err)

	_, err = chain.ParseInteger(item("Integer", `"not-a-number"`))
	assert.Error(t, err)
}

func TestParseUint64(t *testing.T) {
	n, err := chain.ParseUint64(item("Integer", `"7"`))
	require.NoError(t, err)
	assert.Equal(t, uint64(7), n)

	_, err = chain.ParseUint64(item("Integer", `"-1"`))
	assert.Error(t, err)
}

func TestParseString(t *testing.T) {
	// "hello" hex-encoded.
	s, err := chain.ParseString(item("ByteString", `"68656c6c6f"`))
	require.NoError(t, err)
	assert.Equal(t, "hello", s)

	s, err = chain.ParseString(item("Null", `null`))
	require.NoError(t, err)
	assert.Equal(t, "", s)

	_, err = chain.ParseString(item("Integer", `"1"`))
	assert.Error(t, err)
}

func TestParseBoolean(t *testing.T) {
	b, err := chain.ParseBoolean(item("Boolean", `true`))
	require.NoError(t, err)
	assert.True(t, b)

	_, err = chain.ParseBoolean(item("Integer", `"1"`))
	assert.Error(t, err)
}

func TestParseHash160(t *testing.T) {
	// Little-endian bytes on the wire; parser reverses for display.
	addr, err := chain.ParseHash160(item("ByteString", `"0102030405060708090a0b0c0d0e0f1011121314"`))
	require.NoError(t, err)
	assert.Equal(t, "0x14131211100f0e0d0c0b0a090807060504030201", addr)
}

func TestParseArray(t *testing.T) {
	items, err := chain.ParseArray(item("Array", `[{"type":"Integer","value":"1"},{"type":"Integer","value":"2"}]`))
	require.NoError(t, err)
	require.Len(t, items, 2)

	_, err = chain.ParseArray(item("Integer", `"1"`))
	assert.Error(t, err)
}
