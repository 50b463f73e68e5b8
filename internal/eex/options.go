package eex

// Options configures a single Tokenize call.
type Options struct {
	// Trim enables the whitespace-elision mode described in spec.md §4.5:
	// a fragment alone on its own line leaves no blank line behind.
	Trim bool

	// Markers is the set of single-character markers recognised right
	// after "<%". Only "=" is wired up anywhere today, but the scanner
	// never hardcodes it, so a caller can register more without touching
	// the rest of the pipeline. A nil slice falls back to {'='}.
	Markers []rune
}

var defaultMarkers = []rune{'='}

func (o Options) markers() []rune {
	if o.Markers == nil {
		return defaultMarkers
	}

	return o.Markers
}
