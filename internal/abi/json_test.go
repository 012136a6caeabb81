package abi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const erc20JSON = `[
  {"type":"function","name":"transfer","stateMutability":"nonpayable",
   "inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],
   "outputs":[{"name":"","type":"bool"}]},
  {"type":"event","name":"Transfer","anonymous":false,
   "inputs":[{"name":"from","type":"address","indexed":true}]},
  {"type":"error","name":"InsufficientBalance","inputs":[]},
  {"name":"balanceOf","constant":true,
   "inputs":[{"name":"owner","type":"address"}],
   "outputs":[{"name":"","type":"uint256"}]},
  {"type":"constructor","payable":true,"inputs":[{"name":"supply","type":"uint256"}]},
  {"type":"receive","stateMutability":"payable"},
  {"type":"function","name":"batch","stateMutability":"view",
   "inputs":[{"name":"calls","type":"tuple[]","components":[
     {"name":"target","type":"address"},{"name":"data","type":"bytes"}]}],
   "outputs":[]}
]`

func TestParseJSON(t *testing.T) {
	fns, err := ParseJSON([]byte(erc20JSON))
	require.NoError(t, err)
	require.Len(t, fns, 5)

	assert.Equal(t, "transfer", fns[0].Name)
	sel, err := fns[0].Selector()
	require.NoError(t, err)
	assert.Equal(t, [SelectorLength]byte{0xa9, 0x05, 0x9c, 0xbb}, sel)

	assert.Equal(t, KindFunction, fns[1].Kind)
	assert.Equal(t, View, fns[1].Mutability)

	assert.Equal(t, KindConstructor, fns[2].Kind)
	assert.Equal(t, Payable, fns[2].Mutability)

	assert.Equal(t, KindReceive, fns[3].Kind)
	assert.Equal(t, "receive", fns[3].Name)

	sig, err := fns[4].Signature()
	require.NoError(t, err)
	assert.Equal(t, "batch((address,bytes)[])", sig)
}

func TestParseJSONErrors(t *testing.T) {
	bad := []string{
		`{"type":"function"}`,
		`[{"type":"modifier","name":"x"}]`,
		`[{"type":"function","name":"f","inputs":[{"type":"uint7"}]}]`,
		`[{"type":"function","name":"","inputs":[]}]`,
	}
	for _, doc := range bad {
		_, err := ParseJSON([]byte(doc))
		assert.ErrorIs(t, err, ErrParse, doc)
	}
}
