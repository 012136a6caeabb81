package abi

import (
	"math/big"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/dmagro/abikit/internal/address"
)

func TestDecodeAllOnes(t *testing.T) {
	data := words(t, strings.Repeat("ff", 32))

	v, err := Decode(data, mustType(t, "uint256"))
	require.NoError(t, err)
	maxUint256 := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))
	assert.Equal(t, maxUint256.String(), v.(*big.Int).String())

	v, err = Decode(data, mustType(t, "int256"))
	require.NoError(t, err)
	assert.Equal(t, "-1", v.(*big.Int).String())

	v, err = Decode(data, mustType(t, "int8"))
	require.NoError(t, err)
	assert.Equal(t, int64(-1), v)

	// All ones is not a canonical uint8.
	_, err = Decode(data, mustType(t, "uint8"))
	assert.ErrorIs(t, err, ErrMalformedData)
}

func TestDecodeScalars(t *testing.T) {
	addr, err := address.Parse(vitalik)
	require.NoError(t, err)

	tests := []struct {
		tag  string
		data []byte
		want interface{}
	}{
		{"bool", words(t, "1"), true},
		{"bool", words(t, "0"), false},
		{"uint8", words(t, "ff"), uint64(255)},
		{"uint48", words(t, "ffffffffffff"), uint64(1<<48 - 1)},
		{"int32", words(t, strings.Repeat("ff", 31)+"fe"), int64(-2)},
		{"address", words(t, "d8da6bf26964af9d7eed9e03e53415d37aa96045"), addr},
		{"bytes2", words(t, "abcd"+strings.Repeat("0", 60)), []byte{0xab, 0xcd}},
		{"fixed8x1", words(t, strings.Repeat("ff", 31)+"f4"), -1.2},
		{"ufixed32x2", words(t, "7b"), 1.23},
		{"ufixed128x18", words(t, "14d1120d7b160000"), "1.5"},
		{"fixed128x2", words(t, strings.Repeat("ff", 31)+"ff"), "-0.01"},
		{"ufixed256x3", words(t, "7d0"), "2"},
		{"string", words(t, "20", "0"), ""},
		{"bytes", words(t, "20", "3", "010203"+strings.Repeat("0", 58)), []byte{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			v, err := Decode(tt.data, mustType(t, tt.tag))
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestDecodeNonCanonicalWords(t *testing.T) {
	tests := []struct {
		tag  string
		data []byte
	}{
		{"bool", words(t, "2")},
		{"address", words(t, "1"+strings.Repeat("0", 40))},
		{"bytes1", words(t, "0101")},
		{"int8", words(t, "80")},
		{"uint16", words(t, "10000")},
		{"function", words(t, "1")},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			_, err := Decode(tt.data, mustType(t, tt.tag))
			assert.ErrorIs(t, err, ErrMalformedData)
		})
	}
}

func TestDecodeBoundsSafety(t *testing.T) {
	tests := []struct {
		name string
		tag  string
		data []byte
	}{
		{"empty", "uint256", nil},
		{"short word", "uint256", make([]byte, 31)},
		{"string length past end", "string", words(t, "20", "64")},
		{"string body truncated", "string", words(t, "20", "21", "61")},
		{"offset past end", "bytes", words(t, "1000")},
		{"huge offset", "bytes", words(t, strings.Repeat("ff", 32))},
		{"huge array length", "uint256[]", words(t, "20", "ffffffffffffffff")},
		{"array elements missing", "uint256[]", words(t, "20", "3", "1")},
		{"missing tuple member", "(uint256,uint256)", words(t, "1")},
		{"nested offset past end", "uint256[][2]", words(t, "20", "40", "ff")},
		{"fixed array past end", "uint256[20000000]", make([]byte, 32)},
		{"dynamic array of wide elements", "uint8[1000000][]", words(t, "20", "2")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data, mustType(t, tt.tag))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedData)
		})
	}
}

func TestDecodeLargeFixedArrayFailsBeforeAllocating(t *testing.T) {
	typ := mustType(t, "uint256[20000000]")

	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	_, err := Decode(make([]byte, 32), typ)
	runtime.ReadMemStats(&after)

	assert.ErrorIs(t, err, ErrMalformedData)
	assert.Less(t, after.TotalAlloc-before.TotalAlloc, uint64(1<<20))
}

func TestDecodeNestedDynamicArrays(t *testing.T) {
	data := words(t, "20", "40", "a0", "2", "1", "2", "1", "3")
	v, err := Decode(data, mustType(t, "uint256[][2]"))
	require.NoError(t, err)

	outer, ok := v.([]interface{})
	require.True(t, ok)
	require.Len(t, outer, 2)
	assert.Equal(t, []string{"1", "2"}, bigStrings(t, outer[0]))
	assert.Equal(t, []string{"3"}, bigStrings(t, outer[1]))
}

func bigStrings(t *testing.T, v interface{}) []string {
	t.Helper()
	list, ok := v.([]interface{})
	require.True(t, ok, "expected a list, got %T", v)
	out := make([]string, len(list))
	for i, e := range list {
		n, ok := e.(*big.Int)
		require.True(t, ok, "expected *big.Int, got %T", e)
		out[i] = n.String()
	}
	return out
}

func TestDecodeTupleShapes(t *testing.T) {
	components := []Component{
		{Name: "pair", Type: "tuple", Components: []Component{{Type: "uint8"}, {Type: "bool"}}},
		{Type: "tuple", Components: []Component{{Name: "x", Type: "uint8"}}},
	}
	data, err := EncodeArgs(components, []interface{}{
		[]interface{}{7, true},
		map[string]interface{}{"x": 9},
	})
	require.NoError(t, err)

	v, err := DecodeTuple(data, components)
	require.NoError(t, err)
	top, ok := v.(*orderedmap.OrderedMap[string, interface{}])
	require.True(t, ok, "named top level decodes to a map, got %T", v)

	keys := []string{}
	for pair := top.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	assert.Equal(t, []string{"pair", "1"}, keys)

	pair, _ := top.Get("pair")
	assert.Equal(t, []interface{}{uint64(7), true}, pair)

	inner, _ := top.Get("1")
	innerMap, ok := inner.(*orderedmap.OrderedMap[string, interface{}])
	require.True(t, ok, "named nested tuple decodes to a map, got %T", inner)
	x, _ := innerMap.Get("x")
	assert.Equal(t, uint64(9), x)

	positional, err := DecodePositional(data, components)
	require.NoError(t, err)
	require.Len(t, positional, 2)
	assert.Equal(t, []interface{}{uint64(7), true}, positional[0])
}

func TestDecodeStructUnnamed(t *testing.T) {
	components := []Component{{Type: "uint8"}, {Name: "flag", Type: "bool"}}
	data := words(t, "5", "1")

	m, err := DecodeStruct(data, components)
	require.NoError(t, err)
	first, _ := m.Get("0")
	flag, _ := m.Get("flag")
	assert.Equal(t, uint64(5), first)
	assert.Equal(t, true, flag)

	v, err := DecodeTuple(data, []Component{{Type: "uint8"}, {Type: "bool"}})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{uint64(5), true}, v)
}

func TestRoundTrip(t *testing.T) {
	addr, err := address.Parse(vitalik)
	require.NoError(t, err)

	components := []Component{
		{Name: "id", Type: "uint256"},
		{Name: "delta", Type: "int64"},
		{Name: "owner", Type: "address"},
		{Name: "tags", Type: "string[]"},
		{Name: "root", Type: "bytes32"},
		{Name: "inner", Type: "tuple", Components: []Component{
			{Name: "data", Type: "bytes"},
			{Name: "ok", Type: "bool"},
		}},
		{Name: "grid", Type: "uint16[2][]"},
	}
	root := make([]byte, 32)
	root[0], root[31] = 0xaa, 0xbb

	data, err := EncodeArgs(components, []interface{}{
		"123456789012345678901234567890",
		-42,
		addr,
		[]string{"alpha", "", strings.Repeat("x", 40)},
		root,
		map[string]interface{}{"data": []byte{0xde, 0xad}, "ok": true},
		[][2]uint16{{1, 2}, {3, 4}, {5, 6}},
	})
	require.NoError(t, err)

	m, err := DecodeStruct(data, components)
	require.NoError(t, err)

	id, _ := m.Get("id")
	assert.Equal(t, "123456789012345678901234567890", id.(*big.Int).String())
	delta, _ := m.Get("delta")
	assert.Equal(t, "-42", delta.(*big.Int).String())
	owner, _ := m.Get("owner")
	assert.Equal(t, addr, owner)
	tags, _ := m.Get("tags")
	assert.Equal(t, []interface{}{"alpha", "", strings.Repeat("x", 40)}, tags)
	gotRoot, _ := m.Get("root")
	assert.Equal(t, root, gotRoot)

	inner, _ := m.Get("inner")
	innerMap := inner.(*orderedmap.OrderedMap[string, interface{}])
	innerData, _ := innerMap.Get("data")
	ok, _ := innerMap.Get("ok")
	assert.Equal(t, []byte{0xde, 0xad}, innerData)
	assert.Equal(t, true, ok)

	grid, _ := m.Get("grid")
	assert.Equal(t, []interface{}{
		[]interface{}{uint64(1), uint64(2)},
		[]interface{}{uint64(3), uint64(4)},
		[]interface{}{uint64(5), uint64(6)},
	}, grid)

	// Re-encoding the decoded map yields the same bytes.
	again, err := NewEncoder(nil).Encode(mustTupleType(t, components), m)
	require.NoError(t, err)
	assert.Equal(t, data, again[32:])
}

func mustTupleType(t *testing.T, components []Component) *Type {
	t.Helper()
	typ, err := NewTupleType(components)
	require.NoError(t, err)
	return typ
}

func TestDecodeFunctionCall(t *testing.T) {
	fn, err := ParseSignature("transfer(address to, uint256 amount) returns (bool)")
	require.NoError(t, err)

	calldata, err := EncodeFunctionCall(fn, vitalik, 1000)
	require.NoError(t, err)

	v, err := DecodeFunctionCall(fn, calldata)
	require.NoError(t, err)
	args := v.(*orderedmap.OrderedMap[string, interface{}])
	amount, _ := args.Get("amount")
	assert.Equal(t, "1000", amount.(*big.Int).String())

	other, err := ParseSignature("approve(address,uint256)")
	require.NoError(t, err)
	_, err = DecodeFunctionCall(other, calldata)
	assert.ErrorIs(t, err, ErrMalformedData)
	_, err = DecodeFunctionCall(fn, calldata[:3])
	assert.ErrorIs(t, err, ErrMalformedData)

	out, err := DecodeOutputs(fn, words(t, "1"))
	require.NoError(t, err)
	assert.Equal(t, []interface{}{true}, out)
}

func TestDecodeFunctionRef(t *testing.T) {
	data := words(t, "d8da6bf26964af9d7eed9e03e53415d37aa96045a9059cbb"+strings.Repeat("0", 16))
	v, err := Decode(data, mustType(t, "function"))
	require.NoError(t, err)

	ref := v.(FunctionRef)
	assert.Equal(t, vitalik, ref.Address.Hex())
	assert.Equal(t, [SelectorLength]byte{0xa9, 0x05, 0x9c, 0xbb}, ref.Selector)
}

func TestFormatFixed(t *testing.T) {
	tests := []struct {
		raw      int64
		decimals int
		want     string
	}{
		{0, 6, "0"},
		{1500000, 6, "1.5"},
		{1, 6, "0.000001"},
		{-25, 1, "-2.5"},
		{1000, 3, "1"},
		{123456, 2, "1234.56"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatFixed(big.NewInt(tt.raw), tt.decimals))
	}
}
