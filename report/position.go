package report

import "fmt"

// Position marks the 1-based line and column of the first character of a
// piece of source text.
type Position struct {
	Line, Col int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Span is an inclusive range of source text, from Start to End.
type Span struct {
	Start, End Position
}

// SpanOver returns the smallest span covering both a and b.
func SpanOver(a, b Span) Span {
	return Span{Start: a.Start, End: b.End}
}
