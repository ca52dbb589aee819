package source

import "fmt"

// Pos is a 1-based line/column position in a module's source text.
type Pos struct {
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Before reports whether p precedes other in source order.
func (p Pos) Before(other Pos) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}

// Span is a half-open source range inside one module.
type Span struct {
	URI   string
	Start Pos
	End   Pos
}

func (s Span) String() string {
	return fmt.Sprintf("%s:%s-%s", s.URI, s.Start, s.End)
}

// Contains reports whether the position falls inside the span.
// The end position is exclusive.
func (s Span) Contains(p Pos) bool {
	if p.Before(s.Start) {
		return false
	}
	return p.Before(s.End)
}

// Cover extends the span to include other. Spans from different
// modules are never merged.
func (s Span) Cover(other Span) Span {
	if s.URI != other.URI {
		return s
	}
	if other.Start.Before(s.Start) {
		s.Start = other.Start
	}
	if s.End.Before(other.End) {
		s.End = other.End
	}
	return s
}

// Compare orders spans by URI, then start, then end.
func Compare(a, b Span) int {
	if a.URI != b.URI {
		if a.URI < b.URI {
			return -1
		}
		return 1
	}
	if a.Start != b.Start {
		if a.Start.Before(b.Start) {
			return -1
		}
		return 1
	}
	if a.End != b.End {
		if a.End.Before(b.End) {
			return -1
		}
		return 1
	}
	return 0
}
