package report

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pterm/pterm"
)

// PhaseTracker displays the progress of the compiler's fixed pipeline
// (parse, analyze, generate IR, optimize, emit) as a sequence of spinners.
// It holds no process-wide state: one PhaseTracker belongs to one
// compilation and is silent whenever that compilation's Reporter is not
// verbose, or when stderr isn't a TTY.
type PhaseTracker struct {
	enabled   bool
	spinner   *pterm.SpinnerPrinter
	current   string
	startedAt time.Time
	maxName   int
}

// Phases names, in pipeline order, used only to right-pad the spinner text
// so the "done" checkmarks line up.
var phaseNames = []string{"Parsing", "Analyzing", "Generating IR", "Optimizing", "Emitting assembly"}

// NewPhaseTracker creates a tracker.  enabled should be false for silent or
// non-verbose runs and for any run whose output is being captured (tests,
// piped stdout) so spinner control codes never pollute recorded output.
func NewPhaseTracker(enabled bool) *PhaseTracker {
	maxName := 0
	for _, n := range phaseNames {
		if len(n) > maxName {
			maxName = len(n)
		}
	}
	return &PhaseTracker{enabled: enabled, maxName: maxName}
}

// Begin starts displaying a new phase, ending whatever phase was previously
// in progress (as a success) if one was.
func (pt *PhaseTracker) Begin(phase string) {
	if !pt.enabled {
		return
	}
	pt.End(true)

	pt.current = phase
	pad := strings.Repeat(" ", pt.maxName-len(phase)+2)
	pt.spinner, _ = pterm.DefaultSpinner.
		WithStyle(pterm.NewStyle(infoTextColor)).
		Start(phase + "..." + pad)
	pt.startedAt = time.Now()
}

// End finishes the current phase, if any, reporting success or failure.
func (pt *PhaseTracker) End(success bool) {
	if !pt.enabled || pt.spinner == nil {
		return
	}

	elapsed := time.Since(pt.startedAt)
	pad := strings.Repeat(" ", pt.maxName-len(pt.current)+2)
	if success {
		pt.spinner.Success(fmt.Sprintf("%s%s(%.3fs)", pt.current, pad, elapsed.Seconds()))
	} else {
		pt.spinner.Fail(pt.current + pad)
	}
	pt.spinner = nil
}

// Finish prints the compiler's closing summary line to stderr.
func Finish(errorCount, warningCount int) {
	if errorCount == 0 {
		fmt.Fprint(os.Stderr, infoTextColor.Sprint("All done! "))
	} else {
		fmt.Fprint(os.Stderr, errorTextColor.Sprint("Oh no! "))
	}

	fmt.Fprint(os.Stderr, "(")
	printCount(errorCount, "error", "errors", errorTextColor)
	fmt.Fprint(os.Stderr, ", ")
	printCount(warningCount, "warning", "warnings", warnTextColor)
	fmt.Fprintln(os.Stderr, ")")
}

func printCount(n int, singular, plural string, color pterm.Color) {
	word := plural
	if n == 1 {
		word = singular
	}
	if n == 0 {
		fmt.Fprint(os.Stderr, infoTextColor.Sprint(n))
	} else {
		fmt.Fprint(os.Stderr, color.Sprint(n))
	}
	fmt.Fprint(os.Stderr, " "+word)
}
