package output

import (
	"encoding/hex"
	"encoding/json"
	"io"
	"math/big"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/dmagro/abikit/internal/abi"
	"github.com/dmagro/abikit/internal/address"
)

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// Normalize converts a decoded value into JSON-friendly form: byte strings
// become 0x hex, big integers become decimal strings and addresses use
// their checksum spelling. Keyed tuples keep member order.
func Normalize(v interface{}) interface{} {
	switch x := v.(type) {
	case []byte:
		return "0x" + hex.EncodeToString(x)
	case *big.Int:
		return x.String()
	case address.Address:
		return x.Hex()
	case abi.FunctionRef:
		return "0x" + hex.EncodeToString(x.Bytes())
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, e := range x {
			out[i] = Normalize(e)
		}
		return out
	case *orderedmap.OrderedMap[string, interface{}]:
		out := orderedmap.New[string, interface{}]()
		for pair := x.Oldest(); pair != nil; pair = pair.Next() {
			out.Set(pair.Key, Normalize(pair.Value))
		}
		return out
	}
	return v
}
