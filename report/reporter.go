package report

import "sync"

// Severity distinguishes fatal diagnostics from advisory ones.
type Severity int

const (
	SevError Severity = iota
	SevWarning
)

// Kind is a symbolic diagnostic kind drawn from the fixed taxonomy of
// front-end, semantic, and back-end errors this compiler can produce.
type Kind string

const (
	KindUnexpectedToken  Kind = "unexpected-token"
	KindMissingToken     Kind = "missing-token"
	KindInvalidRetType   Kind = "invalid-return-type"
	KindUndefinedVar     Kind = "undefined-variable"
	KindRedefinedVar     Kind = "redefined-variable"
	KindUndefinedFunc    Kind = "undefined-function"
	KindRedefinedFunc    Kind = "redefined-function"
	KindTypeMismatch     Kind = "type-mismatch"
	KindArgCountMismatch Kind = "argument-count-mismatch"
	KindMissingReturn    Kind = "missing-return"
	KindReturnInVoid     Kind = "return-value-in-void"
	KindLoopKeyword      Kind = "break-continue-outside-loop"
	KindDivideByZero     Kind = "literal-divide-by-zero"
	KindInternal         Kind = "internal-error"
)

// Diagnostic is a single reported issue: a kind, a message, a severity, and
// the source span it applies to (nil for diagnostics with no useful
// position, eg. "missing main").
type Diagnostic struct {
	Severity Severity
	Kind     Kind
	Message  string
	Span     *Span
}

// LogLevel controls how much of what the Reporter accumulates is ever
// printed; it never affects whether a diagnostic counts towards failure.
type LogLevel int

const (
	LogLevelSilent LogLevel = iota
	LogLevelError
	LogLevelWarn
	LogLevelVerbose
)

// Reporter accumulates diagnostics for a single compilation.  It is
// deliberately not a process-wide singleton: every compilation owns its
// own Reporter so that two compilations running in the same process (eg.
// in a test binary) remain fully isolated.  Its methods are synchronized
// so a Reporter can still be shared across goroutines within one
// compilation.
type Reporter struct {
	m           *sync.Mutex
	logLevel    LogLevel
	diagnostics []Diagnostic
}

// NewReporter creates a fresh, empty Reporter at the given log level.
func NewReporter(level LogLevel) *Reporter {
	return &Reporter{
		m:        &sync.Mutex{},
		logLevel: level,
	}
}

// Diagnostics returns a snapshot of all diagnostics reported so far.
func (r *Reporter) Diagnostics() []Diagnostic {
	r.m.Lock()
	defer r.m.Unlock()

	out := make([]Diagnostic, len(r.diagnostics))
	copy(out, r.diagnostics)
	return out
}

// AnyErrors reports whether any error-severity diagnostic was recorded.
// Warnings never affect this.
func (r *Reporter) AnyErrors() bool {
	r.m.Lock()
	defer r.m.Unlock()

	for _, d := range r.diagnostics {
		if d.Severity == SevError {
			return true
		}
	}
	return false
}
