package ui

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// PrintBanner displays a compact banner with the build version. Used by the
// version and serve commands.
func PrintBanner(w io.Writer, version, commit string) {
	cyan := color.New(color.FgCyan, color.Bold)
	magenta := color.New(color.FgMagenta, color.Bold)
	white := color.New(color.FgWhite)
	dim := color.New(color.FgHiBlack)

	cyan.Fprintln(w, "╔══════════════════════════════════════╗")
	cyan.Fprint(w, "║  ")
	magenta.Fprint(w, "HPN TRANSFORM")
	dim.Fprint(w, "  │  ")
	white.Fprintf(w, "%-16s", version)
	cyan.Fprintln(w, " ║")
	cyan.Fprintln(w, "╚══════════════════════════════════════╝")

	if commit != "" {
		dim.Fprintf(w, "commit %s\n", commit)
	}
	fmt.Fprintln(w)
}
