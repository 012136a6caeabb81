package output

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/fatih/color"
	"github.com/rodaine/table"
)

// Colors for labels and status indicators
var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

const (
	FormatTerminal = "terminal"
	FormatJSON     = "json"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func newTable(w io.Writer, headers ...interface{}) table.Table {
	headerFmt := color.New(color.FgCyan, color.Underline).SprintfFunc()
	return table.New(headers...).WithHeaderFormatter(headerFmt).WithWriter(w)
}

func renderHeading(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, bold(title))
	fmt.Fprintln(w, strings.Repeat("═", 55))
}

// renderField prints one aligned "label: value" line.
func renderField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "  %s %s\n", padRight(cyan(label+":"), 12), value)
}

// padRight pads a colored string to ensure it displays at the specified width
func padRight(str string, width int) string {
	visibleLen := len(ansiRegex.ReplaceAllString(str, ""))
	if visibleLen < width {
		return str + strings.Repeat(" ", width-visibleLen)
	}
	return str
}

// wrapHex breaks long hex output after the selector and at every 32-byte
// word so that head and tail slots line up.
func wrapHex(data []byte, selector bool) []string {
	s := fmt.Sprintf("%x", data)
	var lines []string
	if selector && len(s) >= 8 {
		lines = append(lines, s[:8])
		s = s[8:]
	}
	for len(s) > 64 {
		lines = append(lines, s[:64])
		s = s[64:]
	}
	if s != "" {
		lines = append(lines, s)
	}
	return lines
}

func yesNo(b bool) string {
	if b {
		return yellow("yes")
	}
	return dim("no")
}

// DisableColors turns off color output (for non-TTY or JSON mode)
func DisableColors() {
	color.NoColor = true
}

// IsTerminal returns true if stdout is a terminal
func IsTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
