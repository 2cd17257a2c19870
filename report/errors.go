package report

import (
	"fmt"
)

// ICE is an internal compiler error: a condition the compiler's own
// invariants say should never occur (a malformed CFG, an unreachable
// opcode reaching the backend, ...).  It is raised as a panic and caught by
// CatchPhase, which turns it into a KindInternal diagnostic rather than
// letting the process crash outright.
type ICE struct {
	Message string
}

func (e *ICE) Error() string { return e.Message }

// RaiseICE panics with an internal compiler error.  Call sites are
// conditions that should never happen: an optimizer pass handed a
// malformed CFG, a backend lowering table miss, etc.
func RaiseICE(format string, args ...interface{}) {
	panic(&ICE{Message: fmt.Sprintf(format, args...)})
}

// Error reports a compilation error at the given span.  A nil span is legal
// for diagnostics with no single source location (eg. "missing main").
func (r *Reporter) Error(kind Kind, span *Span, format string, args ...interface{}) {
	r.record(Diagnostic{
		Severity: SevError,
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	})
}

// Warning reports a non-fatal compilation warning.
func (r *Reporter) Warning(kind Kind, span *Span, format string, args ...interface{}) {
	r.record(Diagnostic{
		Severity: SevWarning,
		Kind:     kind,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
	})
}

func (r *Reporter) record(d Diagnostic) {
	r.m.Lock()
	defer r.m.Unlock()
	r.diagnostics = append(r.diagnostics, d)
}

// CatchPhase recovers from a panic raised via RaiseICE (or any other panic)
// within one phase of compilation, converting it into a KindInternal
// diagnostic instead of crashing the process. It must always be deferred.
func (r *Reporter) CatchPhase() {
	if x := recover(); x != nil {
		if ice, ok := x.(*ICE); ok {
			r.Error(KindInternal, nil, "internal compiler error: %s", ice.Message)
		} else if err, ok := x.(error); ok {
			r.Error(KindInternal, nil, "internal compiler error: %s", err.Error())
		} else {
			r.Error(KindInternal, nil, "internal compiler error: %v", x)
		}
	}
}
