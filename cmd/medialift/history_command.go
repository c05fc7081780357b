package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"medialift/internal/history"
)

const defaultHistoryLimit = 20

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var runID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !cfg.History.Enabled {
				fmt.Fprintln(out, "Run history is disabled (history.enabled = false)")
				return nil
			}
			store, err := history.Open(cfg.HistoryPath())
			if err != nil {
				return err
			}
			defer store.Close()

			if runID != "" {
				return printRunArtifacts(cmd, store, runID)
			}

			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(out, "No runs recorded")
				return nil
			}
			fmt.Fprintln(out, renderHistoryTable(runs))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "l", defaultHistoryLimit, "Maximum number of runs to list (0 lists all)")
	cmd.Flags().StringVar(&runID, "run", "", "Show the artifacts written by one run")
	return cmd
}

func renderHistoryTable(runs []history.Run) string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		duration := "-"
		if d := run.Duration(); d > 0 {
			duration = d.Round(time.Second).String()
		}
		rows = append(rows, []string{
			run.ID,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			duration,
			run.Status,
			strconv.Itoa(run.Files),
			strconv.Itoa(run.Transcoded),
			strconv.Itoa(run.Linked),
			strconv.Itoa(run.Fresh),
			strconv.Itoa(run.Failed),
		})
	}
	return renderTable(
		[]string{"Run", "Started", "Duration", "Status", "Files", "Transcoded", "Linked", "Fresh", "Failed"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignRight, alignRight, alignRight, alignRight},
	)
}

func printRunArtifacts(cmd *cobra.Command, store *history.Store, runID string) error {
	out := cmd.OutOrStdout()
	run, err := store.Get(cmd.Context(), runID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run %s not found", runID)
	}
	records, err := store.Artifacts(cmd.Context(), runID)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Run %s: %s, %d artifacts\n", run.ID, run.Status, len(records))
	if run.Error != "" {
		fmt.Fprintf(out, "Error: %s\n", run.Error)
	}
	if len(records) == 0 {
		return nil
	}
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			titleLabel(rec.Kind),
			titleLabel(rec.Action),
			rec.Dest,
			rec.Duration.Round(time.Millisecond).String(),
		})
	}
	fmt.Fprintln(out, renderTable([]string{"Artifact", "Action", "Destination", "Elapsed"}, rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight}))
	return nil
}
