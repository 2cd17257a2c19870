package report

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
)

// Styling used when printing diagnostics: a background-filled label
// followed by a plain-colored message.
var (
	errorLabelStyle = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	warnLabelStyle  = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	errorTextColor  = pterm.FgRed
	warnTextColor   = pterm.FgYellow
	infoTextColor   = pterm.FgLightGreen
)

// Print writes every accumulated diagnostic to w, in the order reported.
// path is the name to display for the source (eg. the file path, or
// "<stdin>"); source is the exact bytes that were compiled, used to print
// the offending line(s) with caret underlining.  Diagnostics with a nil
// span print without source context.
func (r *Reporter) Print(w io.Writer, path string, source []byte) {
	if r.logLevel == LogLevelSilent {
		return
	}

	for _, d := range r.Diagnostics() {
		if d.Severity == SevWarning && r.logLevel < LogLevelWarn {
			continue
		}

		label, labelStyle, textColor := "error", errorLabelStyle, errorTextColor
		if d.Severity == SevWarning {
			label, labelStyle, textColor = "warning", warnLabelStyle, warnTextColor
		}

		if d.Span == nil {
			fmt.Fprint(w, labelStyle.Sprint(" "+label+" "))
			fmt.Fprint(w, textColor.Sprintln(" "+d.Message))
			fmt.Fprintln(w)
			continue
		}

		fmt.Fprint(w, labelStyle.Sprint(" "+label+" "))
		fmt.Fprint(w, " ")
		fmt.Fprint(w, infoTextColor.Sprintf("%s:%d:%d", path, d.Span.Start.Line, d.Span.Start.Col))
		fmt.Fprint(w, textColor.Sprintf(": %s\n", d.Message))

		printSourceSnippet(w, source, *d.Span, textColor)
		fmt.Fprintln(w)
	}
}

// printSourceSnippet prints the source lines covered by span, underlined
// with carets over the offending range. Lines and columns in span are
// 1-based; internally this converts to 0-based for slicing.
func printSourceSnippet(w io.Writer, source []byte, span Span, caretColor pterm.Color) {
	startLn, endLn := span.Start.Line-1, span.End.Line-1

	var lines []string
	sc := bufio.NewScanner(strings.NewReader(string(source)))
	for ln := 0; sc.Scan(); ln++ {
		if startLn <= ln && ln <= endLn {
			lines = append(lines, strings.ReplaceAll(sc.Text(), "\t", "    "))
		}
	}
	if len(lines) == 0 {
		return
	}

	minIndent := math.MaxInt
	for _, line := range lines {
		indent := 0
		for _, c := range line {
			if c == ' ' {
				indent++
			} else {
				break
			}
		}
		if indent < minIndent {
			minIndent = indent
		}
	}
	if minIndent == math.MaxInt {
		minIndent = 0
	}

	maxLineNumLen := len(strconv.Itoa(span.End.Line))
	lineNumFmt := "%-" + strconv.Itoa(maxLineNumLen) + "v | "

	for i, line := range lines {
		fmt.Fprintf(w, lineNumFmt, i+span.Start.Line)
		trimmed := line
		if minIndent <= len(line) {
			trimmed = line[minIndent:]
		}
		fmt.Fprintln(w, trimmed)

		fmt.Fprint(w, strings.Repeat(" ", maxLineNumLen), " | ")

		prefix := 0
		if i == 0 {
			prefix = span.Start.Col - 1 - minIndent
			if prefix < 0 {
				prefix = 0
			}
		}

		suffix := 0
		if i == len(lines)-1 {
			suffix = len(line) - (span.End.Col - 1)
			if suffix < 0 {
				suffix = 0
			}
		}

		fmt.Fprint(w, strings.Repeat(" ", prefix))
		caretLen := len(line) - suffix - prefix - minIndent
		if caretLen < 1 {
			caretLen = 1
		}
		fmt.Fprint(w, caretColor.Sprintln(strings.Repeat("^", caretLen)))
	}
}
