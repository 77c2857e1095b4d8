package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

type checkStatus int

const (
	checkInfo checkStatus = iota
	checkOK
	checkWarn
	checkFail
)

var checkStyles = map[checkStatus]struct{ label, color string }{
	checkInfo: {"INFO", "\x1b[34m"},
	checkOK:   {"OK", "\x1b[32m"},
	checkWarn: {"WARN", "\x1b[33m"},
	checkFail: {"ERROR", "\x1b[31m"},
}

const checkLabelWidth = 20

// formatCheck renders "  Label:   [STATUS] detail".
func formatCheck(label string, status checkStatus, detail string, color bool) string {
	style := checkStyles[status]
	line := fmt.Sprintf("  %-*s [%s]", checkLabelWidth, label+":", style.label)
	if detail != "" {
		line += " " + detail
	}
	if color {
		return style.color + line + "\x1b[0m"
	}
	return line
}

// colorEnabled reports whether w is a terminal and NO_COLOR is unset.
func colorEnabled(w io.Writer) bool {
	if _, off := os.LookupEnv("NO_COLOR"); off {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
