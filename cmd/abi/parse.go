package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dmagro/abikit/internal/abi"
	"github.com/dmagro/abikit/internal/output"
)

func parseCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <signature>",
		Short: "Parse a human-readable function signature",
		Long: `Parse a function signature and show its parameters, canonical
types and selector. The signature may be a short name from the config file.

Examples:
  abi parse "function swap((address token, uint256 amount)[] legs) payable returns (uint256)"
  abi parse transfer`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(opts, args[0])
		},
	}
}

func runParse(opts *options, ref string) error {
	fn, err := parseFunction(opts, ref)
	if err != nil {
		return err
	}
	sig, err := fn.Signature()
	if err != nil {
		return err
	}
	sd := &output.SignatureDisplay{Function: fn, Signature: sig}
	if hasSelector(fn) {
		sel, err := fn.Selector()
		if err != nil {
			return err
		}
		sd.Selector = sel[:]
	}
	return output.RenderSignature(os.Stdout, sd, opts.format)
}

func selectorCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "selector <signature>",
		Short: "Compute the 4-byte function selector",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelector(opts, args[0])
		},
	}
}

func runSelector(opts *options, ref string) error {
	fn, err := parseFunction(opts, ref)
	if err != nil {
		return err
	}
	sig, err := fn.Signature()
	if err != nil {
		return err
	}
	sel, err := fn.Selector()
	if err != nil {
		return err
	}
	return output.RenderEncoded(os.Stdout, &output.EncodedDisplay{Signature: sig, Selector: sel[:], Data: sel[:]}, opts.format)
}

// parseFunction resolves config short names before parsing.
func parseFunction(opts *options, ref string) (*abi.Function, error) {
	return abi.ParseSignature(opts.cfg.Resolve(ref))
}

func hasSelector(fn *abi.Function) bool {
	return fn.Kind == abi.KindFunction || fn.Kind == abi.KindFallback
}
