package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"informcompile/internal/build"
)

func renderSummary(report build.Report) string {
	cols := []column{left("Source"), left("Status"), left("Story File"), right("Size"), left("MD5")}
	rows := make([][]string, 0, len(report.Outcomes))
	for _, o := range report.Outcomes {
		row := []string{filepath.Base(o.Source), string(o.Status), "", "", ""}
		switch o.Status {
		case build.StatusCompiled:
			row[2] = filepath.Base(o.Target)
			if o.Story != nil {
				row[3] = o.Story.Human
				row[4] = o.Story.MD5
			}
			if o.JS != nil {
				row[2] += " (+js)"
			}
		case build.StatusFailed:
			row[1] = "failed"
			if o.Target != "" {
				row[2] = filepath.Base(o.Target)
			}
		case build.StatusSkipped:
			row[1] = fmt.Sprintf("skipped: %s", strings.ReplaceAll(string(o.Reason), "_", " "))
			if o.Target != "" {
				row[2] = filepath.Base(o.Target)
			}
		}
		rows = append(rows, row)
	}
	table := renderTable(cols, rows)
	return fmt.Sprintf("%s\n%d compiled, %d skipped, %d failed (run %s)",
		table, report.Compiled(), report.Skipped(), report.Failed(), report.RunID)
}
