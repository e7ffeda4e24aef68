package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pulseqr/internal/batch"
	"pulseqr/internal/library"
	"pulseqr/internal/logging"
	"pulseqr/internal/preflight"
	"pulseqr/internal/qrscan"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var outputFile string
	var workers int
	var noLibrary bool

	cmd := &cobra.Command{
		Use:   "generate <dir>",
		Short: "Convert a directory of pulse QR images into a pulse list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if strings.TrimSpace(outputFile) != "" {
				cfg.Paths.OutputFile = outputFile
			}
			if cmd.Flags().Changed("workers") {
				if workers < 1 {
					return errors.New("--workers must be at least 1")
				}
				cfg.Scan.Workers = workers
			}
			if noLibrary {
				cfg.Library.Enabled = false
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if err := os.MkdirAll(filepath.Dir(cfg.Paths.OutputFile), 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			if failed := preflight.Failed(preflight.RunAll(cfg)); len(failed) > 0 {
				return fmt.Errorf("preflight: %s: %s", failed[0].Name, failed[0].Detail)
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			var store batch.PulseStore
			if cfg.Library.Enabled {
				lib, err := library.Open(cfg)
				if err != nil {
					return fmt.Errorf("open library: %w", err)
				}
				defer lib.Close()
				store = lib
			}

			processor, err := batch.NewProcessor(cfg, qrscan.New(cfg.Scan.TryHarder), store, logger)
			if err != nil {
				return err
			}
			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)
			processor.OnItem = func(item batch.Item) {
				fmt.Fprintln(stdout, itemStatusLine(item, colorize))
			}

			dir := args[0]
			result, err := processor.Run(cmd.Context(), dir)
			if errors.Is(err, batch.ErrNoPulses) {
				return fmt.Errorf("no pulse QR code found in %s", dir)
			}
			if err != nil {
				return err
			}

			if err := batch.WriteFile(cmd.Context(), cfg.Paths.OutputFile, result.Entries); err != nil {
				return fmt.Errorf("write pulse list: %w", err)
			}
			logging.NewComponentLogger(logger, "generate").Info("pulse list written",
				logging.String(logging.FieldRunID, result.RunID),
				logging.String("path", cfg.Paths.OutputFile),
				logging.Int("pulses", len(result.Entries)),
			)

			fmt.Fprintln(stdout, renderEntries(result.Entries))
			fmt.Fprintf(stdout, "Wrote %d pulses to %s (%d skipped, %s)\n",
				len(result.Entries), cfg.Paths.OutputFile, result.Failed, result.Elapsed.Round(time.Millisecond))
			if result.StoreErrors > 0 {
				fmt.Fprintf(stdout, "Library update failed for %d pulses; see %s\n", result.StoreErrors, ctx.logPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output pulse file (default paths.output_file)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Number of images decoded in parallel (default scan.workers)")
	cmd.Flags().BoolVar(&noLibrary, "no-library", false, "Do not record generated pulses in the library")
	return cmd
}

func renderEntries(entries []batch.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			entry.ID,
			entry.Name,
			strconv.Itoa(len(entry.PulseData)),
			formatSeconds(float64(len(entry.PulseData)) / 10),
		})
	}
	return renderTable([]string{"ID", "Name", "Frames", "Length (s)"}, rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight})
}
