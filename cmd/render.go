package cmd

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// termWidth returns the current stdout width, falling back to 80
// columns when stdout isn't a terminal (piped output, CI logs).
func termWidth() int {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return 80
	}
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

// useColor reports whether ANSI color codes should be emitted, which is
// only worth doing when stdout is an actual terminal.
func useColor() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

const (
	colorBold  = "\x1b[1m"
	colorReset = "\x1b[0m"
)

// bold wraps s in bold escapes when color output is enabled.
func bold(s string) string {
	if !useColor() {
		return s
	}
	return colorBold + s + colorReset
}

// printTagTable renders a tag -> command-name table, wrapping command
// names to fit the terminal width instead of the raw JSON the --json
// flag would otherwise print.
func printTagTable(tags []string, cmdsByTag map[string][]string) {
	width := termWidth()
	for _, tag := range tags {
		fmt.Println(bold(tag))
		line := "  "
		for _, name := range cmdsByTag[tag] {
			if len(line)+len(name)+2 > width {
				fmt.Println(line)
				line = "  "
			}
			line += name + "  "
		}
		if strings.TrimSpace(line) != "" {
			fmt.Println(line)
		}
	}
}
