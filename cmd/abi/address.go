package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dmagro/abikit/internal/address"
	"github.com/dmagro/abikit/internal/output"
)

func checksumCmd(opts *options) *cobra.Command {
	var noValidate bool

	cmd := &cobra.Command{
		Use:   "checksum <address>",
		Short: "Print the EIP-55 checksummed form of an address",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChecksum(opts, args[0], !noValidate)
		},
	}

	cmd.Flags().BoolVar(&noValidate, "no-validate", false, "Recase the input without checking it")
	return cmd
}

func runChecksum(opts *options, addr string, validate bool) error {
	sum, err := address.ToChecksumAddress(addr, validate)
	if err != nil {
		return err
	}
	ad := &output.AddressDisplay{Input: addr, Checksum: sum, Valid: address.IsValidAddress(sum, false)}
	return output.RenderAddress(os.Stdout, ad, opts.format)
}

func validateCmd(opts *options) *cobra.Command {
	var lenient bool

	cmd := &cobra.Command{
		Use:   "validate <address>",
		Short: "Check an address and its checksum",
		Long: `Check that an address is 40 hex digits with a correct EIP-55 checksum.
With --lenient (or defaults.lenient_addresses in the config), all-lowercase
and all-uppercase addresses are accepted too.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("lenient") {
				lenient = opts.cfg.Defaults.LenientAddresses
			}
			return runValidate(opts, args[0], lenient)
		},
	}

	cmd.Flags().BoolVar(&lenient, "lenient", false, "Accept single-case addresses without a checksum")
	return cmd
}

func runValidate(opts *options, addr string, lenient bool) error {
	ad := &output.AddressDisplay{Input: addr, Valid: address.IsValidAddress(addr, lenient), Lenient: lenient}
	if ad.Valid {
		ad.Checksum, _ = address.ToChecksumAddress(addr, false)
	}
	if err := output.RenderAddress(os.Stdout, ad, opts.format); err != nil {
		return err
	}
	if !ad.Valid {
		return errInvalid
	}
	return nil
}
