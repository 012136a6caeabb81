package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dmagro/abikit/internal/output"
	"github.com/dmagro/abikit/internal/vectors"
)

var errInvalid = errors.New("check failed")

func vectorsCmd(opts *options) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "vectors <file.yaml>",
		Short: "Run encoding conformance vectors",
		Long: `Encode every vector in a YAML file, compare against expected calldata,
and check that decoding and re-encoding reproduces the bytes.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("workers") {
				workers = opts.cfg.Defaults.Workers
			}
			return runVectors(opts, args[0], workers)
		},
	}

	cmd.Flags().IntVar(&workers, "workers", 0, "Concurrent vectors (default from config)")
	return cmd
}

func runVectors(opts *options, path string, workers int) error {
	f, err := vectors.Load(path)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts.log.Debug("running vectors", zap.String("path", path), zap.Int("count", len(f.Vectors)), zap.Int("workers", workers))
	report, err := vectors.NewRunner(opts.log, workers).Run(ctx, f.Vectors)
	if err != nil {
		return err
	}
	if err := output.RenderVectorReport(os.Stdout, report, opts.format); err != nil {
		return err
	}
	if report.Failed > 0 {
		return errors.Wrapf(errInvalid, "%d of %d vectors failed", report.Failed, len(report.Results))
	}
	return nil
}
