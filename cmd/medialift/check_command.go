package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"medialift/internal/deps"
	"medialift/internal/preflight"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report external tool availability and directory access",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)

			statuses := deps.CheckBinaries(deps.Requirements(cfg))
			toolRows := make([][]string, 0, len(statuses))
			for _, st := range statuses {
				kind := statusOK
				detail := st.Path
				if !st.Available {
					kind = statusError
					if st.Optional {
						kind = statusWarn
					}
					detail = st.Detail
				}
				toolRows = append(toolRows, []string{st.Name, statusCell(kind, colorize), st.Command, detail})
			}
			fmt.Fprintln(out, renderSectionHeader("Tools", colorize))
			fmt.Fprintln(out, renderTable([]string{"Tool", "Status", "Command", "Detail"}, toolRows, nil))

			var checks []preflight.Result
			if strings.TrimSpace(cfg.Paths.OutputDir) != "" {
				checks = append(checks, preflight.CheckWritableTarget("Output directory", cfg.Paths.OutputDir))
			}
			checks = append(checks, preflight.CheckWritableTarget("State directory", cfg.Paths.StateDir))
			if strings.TrimSpace(cfg.Paths.LogDir) != "" {
				checks = append(checks, preflight.CheckWritableTarget("Log directory", cfg.Paths.LogDir))
			}
			if cfg.HasWatermark() {
				checks = append(checks, preflight.CheckWatermark(cfg.Watermark.Image))
			}
			pathRows := make([][]string, 0, len(checks))
			for _, r := range checks {
				kind := statusOK
				if !r.Passed {
					kind = statusError
				}
				pathRows = append(pathRows, []string{r.Name, statusCell(kind, colorize), r.Detail})
			}
			fmt.Fprintln(out, renderSectionHeader("Paths", colorize))
			fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, pathRows, nil))

			return errors.Join(deps.MissingRequired(statuses), preflight.Failed(checks))
		},
	}
}
