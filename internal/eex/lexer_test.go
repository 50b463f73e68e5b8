package eex

import (
	"strings"
	"testing"
)

func assert[T comparable](t *testing.T, expected, got T, msg string) {
	if got != expected {
		t.Fatalf("%s: expected %v, got %v", msg, expected, got)
	}
}

func assertTokens(t *testing.T, got []Token, want []Token) {
	if len(got) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %+v", len(want), len(got), got)
	}

	for i, w := range want {
		g := got[i]
		assert(t, w.Kind, g.Kind, "token kind")
		assert(t, w.Marker, g.Marker, "token marker")
		assert(t, w.Contents, g.Contents, "token contents")

		if w.Line != 0 {
			assert(t, w.Line, g.Line, "token line")
		}
	}
}

func TestTokenizeScenarios(t *testing.T) {
	cases := []struct {
		name    string
		input   string
		opts    Options
		want    []Token
		wantErr string
		errLine int
	}{
		{
			name:  "plain expr with marker",
			input: "hello <%= name %>!",
			want: []Token{
				{Kind: Text, Contents: "hello "},
				{Kind: Expr, Line: 1, Marker: "=", Contents: " name "},
				{Kind: Text, Contents: "!"},
			},
		},
		{
			name:  "if block",
			input: "<% if x do %>A<% end %>",
			want: []Token{
				{Kind: StartExpr, Line: 1, Contents: " if x do "},
				{Kind: Text, Contents: "A"},
				{Kind: EndExpr, Line: 1, Contents: " end "},
			},
		},
		{
			name:  "comment is dropped entirely",
			input: "<%# a comment %>after",
			want: []Token{
				{Kind: Text, Contents: "after"},
			},
		},
		{
			name:  "escape yields a literal <%",
			input: "literal <%% kept",
			want: []Token{
				{Kind: Text, Contents: "literal <% kept"},
			},
		},
		{
			name:    "unterminated fragment",
			input:   "unterminated <% foo",
			wantErr: "missing token '%>'",
			errLine: 1,
		},
		{
			name:  "trim mode elides the blank line",
			input: "  <% x %>\nrest",
			opts:  Options{Trim: true},
			want: []Token{
				{Kind: Expr, Line: 1, Contents: " x "},
				{Kind: Text, Contents: "rest"},
			},
		},
		{
			name:  "unclosed fn opens a block",
			input: "<% Enum.map(xs, fn x -> %>E<% end) %>",
			want: []Token{
				{Kind: StartExpr, Line: 1, Contents: " Enum.map(xs, fn x -> "},
				{Kind: Text, Contents: "E"},
				{Kind: EndExpr, Line: 1, Contents: " end) "},
			},
		},
		{
			name:  "case clause arrow is a middle expr",
			input: "<% case v do %><% :a -> %>A<% end %>",
			want: []Token{
				{Kind: StartExpr, Line: 1, Contents: " case v do "},
				{Kind: MiddleExpr, Line: 1, Contents: " :a -> "},
				{Kind: Text, Contents: "A"},
				{Kind: EndExpr, Line: 1, Contents: " end "},
			},
		},
		{
			name:  "end inside a standalone expression is not a bare end_expr",
			input: "<%= Enum.map(xs, fn x -> x.name end) %>",
			want: []Token{
				{Kind: Expr, Line: 1, Marker: "=", Contents: " Enum.map(xs, fn x -> x.name end) "},
			},
		},
		{
			name:  "else inside a standalone expression is not a bare middle_expr",
			input: "<%= Keyword.get(opts, :fallback, else) %>",
			want: []Token{
				{Kind: Expr, Line: 1, Marker: "=", Contents: " Keyword.get(opts, :fallback, else) "},
			},
		},
	}

	for _, c := range cases {
		c := c

		t.Run(c.name, func(t *testing.T) {
			toks, err := Tokenize([]byte(c.input), 1, c.opts)

			if c.wantErr != "" {
				if err == nil {
					t.Fatalf("expected error %q, got none", c.wantErr)
				}

				var terr *Error
				if !asError(err, &terr) {
					t.Fatalf("expected *eex.Error, got %T", err)
				}

				assert(t, c.wantErr, terr.Err.Error(), "error message")
				assert(t, c.errLine, terr.Line, "error line")
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}

			assertTokens(t, toks, c.want)
		})
	}
}

func asError(err error, target **Error) bool {
	e, ok := err.(*Error)
	if !ok {
		return false
	}

	*target = e
	return true
}

func TestTextTokensAreMergedAndNeverEmpty(t *testing.T) {
	toks, err := Tokenize([]byte("a<%# c %>b<%# c %>"), 1, Options{})
	if err != nil {
		t.Fatalf("tokenize: %s", err)
	}

	assertTokens(t, toks, []Token{
		{Kind: Text, Contents: "ab"},
	})
}

func TestLineTracking(t *testing.T) {
	input := "one\ntwo\n<% if x do %>\nthree<% end %>"

	toks, err := Tokenize([]byte(input), 1, Options{})
	if err != nil {
		t.Fatalf("tokenize: %s", err)
	}

	var lines []int
	for _, tk := range toks {
		if tk.Kind != Text {
			lines = append(lines, tk.Line)
		}
	}

	want := []int{3, 4}
	if len(lines) != len(want) {
		t.Fatalf("expected lines %v, got %v", want, lines)
	}
	for i := range want {
		assert(t, want[i], lines[i], "fragment line")
	}

	for i := 1; i < len(toks); i++ {
		if toks[i].Kind == Text || toks[i-1].Kind == Text {
			continue
		}
		if toks[i].Line < toks[i-1].Line {
			t.Fatalf("line numbers decreased between tokens %d and %d", i-1, i)
		}
	}
}

func TestStartingLineOffset(t *testing.T) {
	toks, err := Tokenize([]byte("<% x %>"), 5, Options{})
	if err != nil {
		t.Fatalf("tokenize: %s", err)
	}

	assert(t, 5, toks[0].Line, "fragment line with starting-line offset")
}

func TestRoundTripWithoutTrim(t *testing.T) {
	// Escapes ("<%%") and comments ("<%# %>") are intentionally lossy (see
	// spec.md §8 item 5): they never appear in the output as themselves, so
	// they're excluded from this round-trip check on purpose.
	inputs := []string{
		"hello <%= name %>!",
		"<% if x do %>A<% else %>B<% end %>",
		"no fragments here at all",
	}

	for _, input := range inputs {
		toks, err := Tokenize([]byte(input), 1, Options{})
		if err != nil {
			t.Fatalf("tokenize %q: %s", input, err)
		}

		var rendered strings.Builder
		for _, tk := range toks {
			rendered.WriteString(tk.Render())
		}

		if rendered.String() != input {
			t.Fatalf("round trip mismatch: got %q, want %q", rendered.String(), input)
		}
	}
}

func TestUnterminatedFragmentErrorLineIsLastLineScanned(t *testing.T) {
	_, err := Tokenize([]byte("<% foo\nbar\nbaz"), 1, Options{})

	var terr *Error
	if !asError(err, &terr) {
		t.Fatalf("expected *eex.Error, got %v", err)
	}

	assert(t, 3, terr.Line, "error should report the last line scanned, not the opening line")
}
