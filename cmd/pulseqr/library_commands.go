package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"pulseqr/internal/library"
)

func newLibraryCommand(ctx *commandContext) *cobra.Command {
	libraryCmd := &cobra.Command{
		Use:   "library",
		Short: "Inspect and manage stored pulses",
	}

	libraryCmd.AddCommand(newLibraryListCommand(ctx))
	libraryCmd.AddCommand(newLibraryShowCommand(ctx))
	libraryCmd.AddCommand(newLibraryRemoveCommand(ctx))
	libraryCmd.AddCommand(newLibraryClearCommand(ctx))

	return libraryCmd
}

func newLibraryListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored pulses",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(store *library.Store) error {
				records, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOutput {
					if records == nil {
						records = []*library.Record{}
					}
					return writeJSON(cmd, records)
				}
				stdout := cmd.OutOrStdout()
				if len(records) == 0 {
					fmt.Fprintln(stdout, "Library is empty")
					return nil
				}
				rows := make([][]string, 0, len(records))
				for _, rec := range records {
					rows = append(rows, []string{
						rec.ID,
						rec.Name,
						strconv.Itoa(len(rec.Frames)),
						rec.Duration().String(),
						rec.UpdatedAt.Local().Format(time.DateTime),
					})
				}
				fmt.Fprintln(stdout, renderTable(
					[]string{"ID", "Name", "Frames", "Length", "Updated"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newLibraryShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a stored pulse",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(store *library.Store) error {
				records, err := lookupRecords(cmd.Context(), store, args[0])
				if err != nil {
					return err
				}
				if jsonOutput {
					if len(records) == 1 {
						return writeJSON(cmd, records[0])
					}
					return writeJSON(cmd, records)
				}
				stdout := cmd.OutOrStdout()
				colorize := shouldColorize(stdout)
				for i, rec := range records {
					if i > 0 {
						fmt.Fprintln(stdout)
					}
					for _, line := range renderSectionHeader(rec.Name, colorize) {
						fmt.Fprintln(stdout, line)
					}
					fmt.Fprintf(stdout, "ID:      %s\n", rec.ID)
					if rec.SourcePath != "" {
						fmt.Fprintf(stdout, "Source:  %s\n", rec.SourcePath)
					}
					fmt.Fprintf(stdout, "Length:  %s (%d frames)\n", rec.Duration(), len(rec.Frames))
					fmt.Fprintf(stdout, "Created: %s\n", rec.CreatedAt.Local().Format(time.DateTime))
					if rec.Waveform != nil {
						fmt.Fprintln(stdout, renderWaveform(rec.Waveform))
					}
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newLibraryRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>...",
		Short: "Remove stored pulses",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(store *library.Store) error {
				stdout := cmd.OutOrStdout()
				for _, id := range args {
					removed, err := store.Remove(cmd.Context(), id)
					if err != nil {
						return err
					}
					switch {
					case removed == 1:
						fmt.Fprintf(stdout, "Removed %s\n", id)
					case removed > 1:
						fmt.Fprintf(stdout, "Removed %s (%d files)\n", id, removed)
					default:
						fmt.Fprintf(stdout, "Pulse %s not found\n", id)
					}
				}
				return nil
			})
		},
	}
}

func newLibraryClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every stored pulse",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(func(store *library.Store) error {
				removed, err := store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d pulses\n", removed)
				return nil
			})
		},
	}
}

func lookupRecords(ctx context.Context, store *library.Store, id string) ([]*library.Record, error) {
	records, err := store.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("pulse %s not found", id)
	}
	return records, nil
}
