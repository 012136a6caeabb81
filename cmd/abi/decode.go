package main

import (
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/dmagro/abikit/internal/abi"
	"github.com/dmagro/abikit/internal/output"
)

func decodeCmd(opts *options) *cobra.Command {
	var input bool

	cmd := &cobra.Command{
		Use:   "decode <signature> <hex>",
		Short: "Decode return data or calldata",
		Long: `Decode hex data against a function's outputs, or with --input against
its inputs. Calldata must start with the function's selector.

Examples:
  abi decode "balanceOf(address) returns (uint256)" 0x...03e8
  abi decode --input transfer 0xa9059cbb...`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecode(opts, args[0], args[1], input)
		},
	}

	cmd.Flags().BoolVar(&input, "input", false, "Decode calldata against the function inputs")
	return cmd
}

func runDecode(opts *options, ref, hexData string, input bool) error {
	fn, err := parseFunction(opts, ref)
	if err != nil {
		return err
	}
	data, err := decodeHexArg(hexData)
	if err != nil {
		return err
	}

	dd := &output.DecodedDisplay{Signature: fn.String(), Params: fn.Outputs}
	var decoded interface{}
	if input {
		dd.Params = fn.Inputs
		decoded, err = abi.DecodeFunctionCall(fn, data)
	} else {
		decoded, err = abi.DecodeOutputs(fn, data)
	}
	if err != nil {
		return err
	}
	dd.Values = topLevel(decoded)
	return output.RenderDecoded(os.Stdout, dd, opts.format)
}

// topLevel lists the members of a decoded argument list in order, whichever
// shape it was decoded into.
func topLevel(v interface{}) []interface{} {
	switch x := v.(type) {
	case []interface{}:
		return x
	case *orderedmap.OrderedMap[string, interface{}]:
		vals := make([]interface{}, 0, x.Len())
		for pair := x.Oldest(); pair != nil; pair = pair.Next() {
			vals = append(vals, pair.Value)
		}
		return vals
	}
	return []interface{}{v}
}

func decodeHexArg(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	data, err := hexutil.Decode(s)
	if err != nil {
		return nil, errors.Wrap(err, "invalid hex data")
	}
	return data, nil
}
