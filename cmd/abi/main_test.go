package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/dmagro/abikit/internal/abi"
)

func TestParseArgs(t *testing.T) {
	fn, err := abi.ParseSignature("f(uint256 n, (uint8 a, string b)[] items, string label)")
	require.NoError(t, err)

	args, err := parseArgs(fn.Inputs, []string{"1e18", `[{"a": 1, "b": "x"}]`, "[not json]"})
	require.NoError(t, err)
	assert.Equal(t, "1e18", args[0])
	assert.Equal(t, []interface{}{map[string]interface{}{"a": json.Number("1"), "b": "x"}}, args[1])
	assert.Equal(t, "[not json]", args[2])

	_, err = abi.EncodeFunctionCall(fn, args...)
	require.NoError(t, err)

	_, err = parseArgs(fn.Inputs, []string{"1"})
	assert.Error(t, err)
	_, err = parseArgs(fn.Inputs, []string{"1", "x", "y"})
	assert.Error(t, err)
}

func TestTopLevel(t *testing.T) {
	m := orderedmap.New[string, interface{}]()
	m.Set("b", 2)
	m.Set("a", 1)
	assert.Equal(t, []interface{}{2, 1}, topLevel(m))
	assert.Equal(t, []interface{}{true}, topLevel([]interface{}{true}))
}

func TestDecodeHexArg(t *testing.T) {
	b, err := decodeHexArg("a9059cbb")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xa9, 0x05, 0x9c, 0xbb}, b)

	b, err = decodeHexArg("0x")
	require.NoError(t, err)
	assert.Empty(t, b)

	_, err = decodeHexArg("0xabc")
	assert.Error(t, err)
}

func TestRootCommandWiring(t *testing.T) {
	cmd := rootCmd()
	for _, name := range []string{"parse", "selector", "encode", "decode", "checksum", "validate", "vectors"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}
}
