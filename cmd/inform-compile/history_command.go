package main

import (
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"informcompile/internal/history"
	"informcompile/internal/storyfile"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var source string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently compiled story files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if source != "" {
				if abs, err := filepath.Abs(source); err == nil {
					source = abs
				}
			}
			store, err := history.Open(cfg.History.Path)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			entries, err := store.Recent(cmd.Context(), limit, source)
			if err != nil {
				return err
			}
			if asJSON {
				if entries == nil {
					entries = []history.Entry{}
				}
				return writeJSON(cmd, entries)
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No builds recorded")
				return nil
			}
			fmt.Fprintln(out, renderHistoryTable(entries))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", history.DefaultLimit, "Maximum number of builds to show")
	cmd.Flags().StringVar(&source, "source", "", "Only show builds of this source file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func renderHistoryTable(entries []history.Entry) string {
	cols := []column{left("Compiled"), left("Story File"), right("Release"), left("Serial"), left("Stage"), right("Size"), left("MD5")}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			humanize.Time(e.CompiledAt),
			filepath.Base(e.Story),
			e.Release,
			e.Serial,
			e.Stage,
			storyfile.HumanSize(e.Size),
			e.MD5,
		})
	}
	return renderTable(cols, rows)
}
