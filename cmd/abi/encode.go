package main

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dmagro/abikit/internal/abi"
	"github.com/dmagro/abikit/internal/output"
)

func encodeCmd(opts *options) *cobra.Command {
	var argsOnly bool

	cmd := &cobra.Command{
		Use:   "encode <signature> [args...]",
		Short: "Encode calldata for a function call",
		Long: `Encode arguments for a function. Scalars are given as plain text;
tuples and arrays as JSON, with numbers kept exact.

Examples:
  abi encode "transfer(address,uint256)" 0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045 1e18
  abi encode "submit((uint8 kind, bytes data)[] items)" '[{"kind": 1, "data": "0x01"}]'
  abi encode --args-only "f(string,bool)" hello true`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(opts, args[0], args[1:], argsOnly)
		},
	}

	cmd.Flags().BoolVar(&argsOnly, "args-only", false, "Omit the selector and encode only the arguments")
	return cmd
}

func runEncode(opts *options, ref string, rawArgs []string, argsOnly bool) error {
	fn, err := parseFunction(opts, ref)
	if err != nil {
		return err
	}
	sig, err := fn.Signature()
	if err != nil {
		return err
	}

	args, err := parseArgs(fn.Inputs, rawArgs)
	if err != nil {
		return err
	}

	enc := abi.NewEncoder(opts.log)
	ed := &output.EncodedDisplay{Signature: sig}
	if argsOnly {
		ed.Data, err = enc.EncodeArgs(fn.Inputs, args)
	} else {
		ed.Data, err = enc.EncodeFunctionCall(fn, args...)
		if err == nil && hasSelector(fn) {
			ed.Selector = ed.Data[:abi.SelectorLength]
		}
	}
	if err != nil {
		return err
	}
	opts.log.Debug("encoded", zap.String("signature", sig), zap.Int("bytes", len(ed.Data)))
	return output.RenderEncoded(os.Stdout, ed, opts.format)
}

// parseArgs turns command line text into encoder input. Arguments for
// tuple and array parameters are JSON; everything else is passed through
// as text and normalised by the encoder.
func parseArgs(params []abi.Component, raw []string) ([]interface{}, error) {
	if len(raw) != len(params) {
		return nil, errors.Errorf("expected %d arguments, got %d", len(params), len(raw))
	}
	args := make([]interface{}, len(raw))
	for i, s := range raw {
		t, err := params[i].Resolve()
		if err != nil {
			return nil, err
		}
		switch t.Kind {
		case abi.TupleKind, abi.ArrayKind, abi.SliceKind:
			trimmed := strings.TrimSpace(s)
			if !strings.HasPrefix(trimmed, "[") && !strings.HasPrefix(trimmed, "{") {
				return nil, errors.Errorf("argument %d (%s) must be a JSON array or object", i, t)
			}
			dec := json.NewDecoder(bytes.NewReader([]byte(trimmed)))
			dec.UseNumber()
			var v interface{}
			if err := dec.Decode(&v); err != nil {
				return nil, errors.Wrapf(err, "argument %d", i)
			}
			args[i] = v
		default:
			args[i] = s
		}
	}
	return args, nil
}
