package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dmagro/abikit/internal/config"
	"github.com/dmagro/abikit/internal/logger"
	"github.com/dmagro/abikit/internal/output"
)

// options are the persistent flags shared by every subcommand, resolved
// against the config file before a subcommand runs.
type options struct {
	cfgPath string
	format  string
	debug   bool

	cfg *config.Config
	log *zap.Logger
}

func rootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "abi",
		Short: "Offline Ethereum ABI toolkit",
		Long: `Parse function signatures, compute selectors, encode calldata and
decode return data using the Ethereum contract ABI.

Examples:
  abi selector "transfer(address,uint256)"
  abi encode "transfer(address to, uint256 amount)" 0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045 1000
  abi decode "balanceOf(address) returns (uint256)" 0x00000000000000000000000000000000000000000000000000000000000003e8
  abi checksum 0xd8da6bf26964af9d7eed9e03e53415d37aa96045`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.log != nil {
				_ = opts.log.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.cfgPath, "config", config.DefaultPath, "Config file path")
	cmd.PersistentFlags().StringVar(&opts.format, "format", "", "Output format: terminal|json (default from config)")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")

	cmd.AddCommand(
		parseCmd(opts),
		selectorCmd(opts),
		encodeCmd(opts),
		decodeCmd(opts),
		checksumCmd(opts),
		validateCmd(opts),
		vectorsCmd(opts),
	)
	return cmd
}

func (o *options) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(o.cfgPath)
	if err != nil {
		return err
	}
	o.cfg = cfg

	l, err := logger.NewLogger(&logger.LoggerConfig{Debug: o.debug})
	if err != nil {
		return err
	}
	zap.ReplaceGlobals(l)
	o.log = l

	if !cmd.Flags().Changed("format") {
		o.format = cfg.Defaults.Format
	}
	switch o.format {
	case output.FormatTerminal, output.FormatJSON:
	default:
		return fmt.Errorf("invalid --format %q (expected terminal or json)", o.format)
	}

	if o.format == output.FormatJSON || !cfg.ColorEnabled() || !output.IsTerminal() {
		output.DisableColors()
	}
	l.Debug("config loaded", zap.String("path", o.cfgPath), zap.String("format", o.format))
	return nil
}

func main() {
	config.LoadEnv()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
