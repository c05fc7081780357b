package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"medialift/internal/media"
	"medialift/internal/pipeline"
)

func titleLabel(s string) string {
	return cases.Title(language.Und).String(s)
}

func renderRunSummary(runID string, stats pipeline.Stats, dryRun bool) string {
	var b strings.Builder
	header := fmt.Sprintf("Run %s", runID)
	if dryRun {
		header += " (dry run)"
	}
	fmt.Fprintf(&b, "%s finished in %s\n", header, stats.Elapsed.Round(time.Millisecond))

	kindRows := make([][]string, 0, len(media.Kinds)+1)
	for _, kind := range media.Kinds {
		if n := stats.FilesByKind[kind]; n > 0 {
			kindRows = append(kindRows, []string{titleLabel(kind.String()), strconv.Itoa(n)})
		}
	}
	kindRows = append(kindRows, []string{"Total", strconv.Itoa(stats.Files)})
	b.WriteString(renderTable([]string{"Kind", "Files"}, kindRows, []columnAlignment{alignLeft, alignRight}))
	b.WriteString("\n")

	actionRows := [][]string{
		{titleLabel(pipeline.ActionTranscoded.String()), strconv.Itoa(stats.Transcoded)},
		{titleLabel(pipeline.ActionLinked.String()), strconv.Itoa(stats.Linked)},
		{titleLabel(pipeline.ActionCopied.String()), strconv.Itoa(stats.Copied)},
		{titleLabel(pipeline.ActionFresh.String()), strconv.Itoa(stats.Fresh)},
	}
	if dryRun {
		actionRows = append(actionRows, []string{titleLabel(pipeline.ActionPlanned.String()), strconv.Itoa(stats.Planned)})
	}
	actionRows = append(actionRows,
		[]string{"Skipped files", strconv.Itoa(stats.SkippedFiles)},
		[]string{"Failed files", strconv.Itoa(stats.FailedFiles)},
	)
	b.WriteString(renderTable([]string{"Artifacts", "Count"}, actionRows, []columnAlignment{alignLeft, alignRight}))
	b.WriteString("\n")
	return b.String()
}
