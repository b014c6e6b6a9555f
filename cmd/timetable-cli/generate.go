package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/service"
	"github.com/noah-isme/timetable-api/pkg/config"
	"github.com/noah-isme/timetable-api/pkg/logger"
)

type generateOptions struct {
	file         string
	format       string
	out          string
	seed         int64
	headerOffset int
	quiet        bool
}

func newGenerateCmd() *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build a timetable from a workload sheet (.xlsx or .csv)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var seed *int64
			if cmd.Flags().Changed("seed") {
				seed = &opts.seed
			}
			return runGenerate(cmd.Context(), cmd, opts, seed, cmd.Flags().Changed("header-offset"))
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "Workload sheet to read (required)")
	cmd.Flags().StringVar(&opts.format, "format", string(dto.TimetableFormatJSON), "Output format: json, csv or pdf")
	cmd.Flags().StringVar(&opts.out, "out", "", "Output file (default: stdout)")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "Seed for lab room numbers")
	cmd.Flags().IntVar(&opts.headerOffset, "header-offset", 5, "Rows preceding the header row")
	cmd.Flags().BoolVar(&opts.quiet, "quiet", false, "Suppress progress logs")

	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runGenerate(ctx context.Context, cmd *cobra.Command, opts generateOptions, seed *int64, offsetSet bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if offsetSet {
		cfg.Workload.HeaderOffset = opts.headerOffset
	}

	logr := zap.NewNop()
	if !opts.quiet {
		if logr, err = logger.New(cfg); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		defer logr.Sync() //nolint:errcheck
	}

	in, err := os.Open(opts.file)
	if err != nil {
		return fmt.Errorf("open workload: %w", err)
	}
	defer in.Close() //nolint:errcheck

	svc := service.NewTimetableService(nil, nil, nil, nil, nil, nil, logr, service.TimetableServiceConfig{HeaderOffset: cfg.Workload.HeaderOffset})
	result, err := svc.GenerateFromReader(ctx, in, dto.GenerateTimetableRequest{
		Filename: filepath.Base(opts.file),
		Format:   dto.TimetableFormat(strings.ToLower(opts.format)),
		Seed:     seed,
	})
	if err != nil {
		return err
	}

	if opts.out != "" {
		f, err := os.Create(opts.out)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		if err := writeAndClose(f, result); err != nil {
			return fmt.Errorf("write %s: %w", opts.out, err)
		}
	} else if err := writeResult(cmd.OutOrStdout(), result); err != nil {
		return err
	}

	if n := len(result.Stats.UnderScheduled); n > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %d subject(s) received fewer hours than required\n", n)
	}
	return nil
}

// writeAndClose writes the result and returns the error from closing wc.
func writeAndClose(wc io.WriteCloser, result *dto.GenerateTimetableResult) error {
	if err := writeResult(wc, result); err != nil {
		wc.Close() //nolint:errcheck
		return err
	}
	return wc.Close()
}

func writeResult(w io.Writer, result *dto.GenerateTimetableResult) error {
	if result.File != nil {
		if _, err := w.Write(result.File.Payload); err != nil {
			return fmt.Errorf("write %s: %w", result.Format, err)
		}
		return nil
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("encode timetable: %w", err)
	}
	return nil
}
