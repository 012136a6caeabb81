package abi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSignatureTransfer(t *testing.T) {
	fn, err := ParseSignature("function transfer(address to, uint256 amount) external returns (bool)")
	require.NoError(t, err)

	assert.Equal(t, "transfer", fn.Name)
	assert.Equal(t, KindFunction, fn.Kind)
	assert.Equal(t, NonPayable, fn.Mutability)
	assert.Equal(t, []Component{{Name: "to", Type: "address"}, {Name: "amount", Type: "uint256"}}, fn.Inputs)
	assert.Equal(t, []Component{{Type: "bool"}}, fn.Outputs)

	sig, err := fn.Signature()
	require.NoError(t, err)
	assert.Equal(t, "transfer(address,uint256)", sig)
}

func TestParseSignatureKinds(t *testing.T) {
	tests := []struct {
		text       string
		kind       FunctionKind
		mutability Mutability
	}{
		{"balanceOf(address) view returns (uint256)", KindFunction, View},
		{"function ping() pure", KindFunction, Pure},
		{"deposit() external payable", KindFunction, Payable},
		{"set(uint256) nonpayable", KindFunction, NonPayable},
		{"constructor(string name, uint8 decimals)", KindConstructor, NonPayable},
		{"receive() external payable", KindReceive, Payable},
		{"fallback(bytes)", KindFallback, NonPayable},
		{"fallback() external payable", KindFallback, Payable},
		{"(bytes data)", KindFallback, NonPayable},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			fn, err := ParseSignature(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, fn.Kind)
			assert.Equal(t, tt.mutability, fn.Mutability)
		})
	}
}

func TestParseSignatureNestedTuples(t *testing.T) {
	fn, err := ParseSignature("swap((address token, (uint128 lo, uint128 hi) range)[] legs, bytes data) returns ((bool,string) result)")
	require.NoError(t, err)

	require.Len(t, fn.Inputs, 2)
	legs := fn.Inputs[0]
	assert.Equal(t, "legs", legs.Name)
	assert.Equal(t, "tuple[]", legs.Type)
	require.Len(t, legs.Components, 2)
	assert.Equal(t, "range", legs.Components[1].Name)
	assert.Equal(t, "tuple", legs.Components[1].Type)
	assert.Equal(t, []Component{{Name: "lo", Type: "uint128"}, {Name: "hi", Type: "uint128"}}, legs.Components[1].Components)

	require.Len(t, fn.Outputs, 1)
	assert.Equal(t, "result", fn.Outputs[0].Name)

	sig, err := fn.Signature()
	require.NoError(t, err)
	assert.Equal(t, "swap((address,(uint128,uint128))[],bytes)", sig)
}

func TestParseSignatureErrors(t *testing.T) {
	bad := []string{
		"foo(uint256",
		"foo(uint256))",
		"foo(uint256) returns (bool",
		"foo(uint256) returns (bool) extra",
		"foo(uint7)",
		"foo(int264)",
		"foo(bytes33)",
		"foo(bytes0)",
		"foo(uint256[0])",
		"foo(uint256[01])",
		"foo(ufixed128x81)",
		"foo((uint256,bool)",
		"foo(uint256 a b)",
		"foo(,uint256)",
		"foo(mystery)",
		"1foo(uint256)",
		"receive(uint256)",
		"fallback(uint256)",
		"foo(())",
		"foo(()[])",
		"foo(tuple()[2])",
		"foo(uint256[999999999][999999999])",
	}

	for _, text := range bad {
		t.Run(text, func(t *testing.T) {
			_, err := ParseSignature(text)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrParse)
		})
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		text      string
		name      string
		canonical string
		dynamic   bool
		headSize  int
	}{
		{"uint", "", "uint256", false, 32},
		{"int amount", "amount", "int256", false, 32},
		{"fixed", "", "fixed128x18", false, 32},
		{"ufixed64x10 rate", "rate", "ufixed64x10", false, 32},
		{"byte", "", "bytes1", false, 32},
		{"bytes32 root", "root", "bytes32", false, 32},
		{"address indexed owner", "owner", "address", false, 32},
		{"string memory label", "label", "string", true, 32},
		{"bytes calldata data", "data", "bytes", true, 32},
		{"function cb", "cb", "function", false, 32},
		{"uint8[3]", "", "uint8[3]", false, 96},
		{"uint256[][2] grid", "grid", "uint256[][2]", true, 32},
		{"(uint256,bool)[3] pairs", "pairs", "(uint256,bool)[3]", false, 192},
		{"(uint256,bool) [] pairs", "pairs", "(uint256,bool)[]", true, 32},
		{"tuple(uint256 a, (bool,string)[] b)[2] c", "c", "(uint256,(bool,string)[])[2]", true, 32},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			c, err := ParseType(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.name, c.Name)

			typ, err := c.Resolve()
			require.NoError(t, err)
			assert.Equal(t, tt.canonical, typ.String())
			assert.Equal(t, tt.dynamic, typ.IsDynamic())
			assert.Equal(t, tt.headSize, typ.HeadSize())
		})
	}
}

func TestNewTypeArrayNesting(t *testing.T) {
	// The rightmost suffix is the outermost dimension.
	typ, err := NewType("uint256[][2]", nil)
	require.NoError(t, err)
	assert.Equal(t, ArrayKind, typ.Kind)
	assert.Equal(t, 2, typ.Length)
	assert.Equal(t, SliceKind, typ.Elem.Kind)
	assert.Equal(t, UintKind, typ.Elem.Elem.Kind)

	typ, err = NewType("uint8[3][]", nil)
	require.NoError(t, err)
	assert.Equal(t, SliceKind, typ.Kind)
	assert.Equal(t, ArrayKind, typ.Elem.Kind)
	assert.Equal(t, 3, typ.Elem.Length)
	assert.False(t, typ.Elem.IsDynamic())
}

func TestFunctionStringRoundTrip(t *testing.T) {
	texts := []string{
		"function transfer(address to, uint256 amount) returns (bool)",
		"function swap((uint256 a, address b)[] legs, bytes data) payable returns (uint256 out)",
		"function total() view returns (uint256, (bool,string)[2])",
	}

	for _, text := range texts {
		t.Run(text, func(t *testing.T) {
			fn, err := ParseSignature(text)
			require.NoError(t, err)

			again, err := ParseSignature(fn.String())
			require.NoError(t, err)
			assert.Equal(t, fn, again)
		})
	}
}

func TestSelector(t *testing.T) {
	tests := []struct {
		text string
		want [SelectorLength]byte
	}{
		{"transfer(address,uint256)", [SelectorLength]byte{0xa9, 0x05, 0x9c, 0xbb}},
		{"balanceOf(address owner) view returns (uint256)", [SelectorLength]byte{0x70, 0xa0, 0x82, 0x31}},
		{"approve(address spender, uint amount)", [SelectorLength]byte{0x09, 0x5e, 0xa7, 0xb3}},
		{"fallback(bytes)", [SelectorLength]byte{0xff, 0xff, 0xff, 0xff}},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			fn, err := ParseSignature(tt.text)
			require.NoError(t, err)
			sel, err := fn.Selector()
			require.NoError(t, err)
			assert.Equal(t, tt.want, sel)
		})
	}
}
