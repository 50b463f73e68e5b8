package eex

import "fmt"

// Kind classifies a fragment produced by the tokenizer.
type Kind int

const (
	// Text is a run of literal characters outside of any <% %> fragment.
	Text Kind = iota

	// Expr is a standalone expression fragment, e.g. <%= name %>.
	Expr

	// StartExpr opens a block, e.g. <% if x do %> or <% fn x -> %>.
	StartExpr

	// MiddleExpr continues a block, e.g. <% else %> or <% :a -> %>.
	MiddleExpr

	// EndExpr closes a block, e.g. <% end %>.
	EndExpr
)

func (k Kind) String() string {
	switch k {
	case Text:
		return "Text"
	case Expr:
		return "Expr"
	case StartExpr:
		return "StartExpr"
	case MiddleExpr:
		return "MiddleExpr"
	case EndExpr:
		return "EndExpr"
	}

	return "<unknown>"
}

// MarshalText lets Kind serialize as its name rather than a bare integer.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Token is one entry of the tokenizer's output stream.
//
// For a Text token, Line and Marker are unused and Contents holds the
// literal text verbatim. For every other kind, Line is the 1-based source
// line where the introducing "<%" appeared, Marker is "" or "=", and
// Contents is the fragment body, excluding "<%", the marker, and "%>".
type Token struct {
	Kind     Kind
	Line     int
	Marker   string
	Contents string
}

// Render reconstructs the original source text this token was read from,
// modulo any whitespace removed by trim mode. It is the inverse the
// round-trip property in spec.md §8 is checked against.
func (t Token) Render() string {
	if t.Kind == Text {
		return t.Contents
	}

	return "<%" + t.Marker + t.Contents + "%>"
}

// Location pinpoints a single source line, the only position information
// the tokenizer itself tracks (see spec.md §3).
type Location struct {
	Line int
}

func (l Location) String() string {
	return fmt.Sprintf("line %d", l.Line)
}
