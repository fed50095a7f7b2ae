package adf

import "github.com/charmbracelet/log"

// DefaultMaxDepth bounds list and blockquote nesting. Deeper structures are
// flattened to this level rather than rejected.
const DefaultMaxDepth = 10

// Converter turns markdown text into ADF documents. All parsing state is
// local to each Convert call, so one Converter may be shared freely across
// goroutines.
type Converter struct {
	maxDepth int
	logger   *log.Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithMaxDepth overrides the nesting limit. Values below 1 are ignored.
func WithMaxDepth(n int) Option {
	return func(c *Converter) {
		if n >= 1 {
			c.maxDepth = n
		}
	}
}

// WithLogger routes guard diagnostics to l. Without it repairs are silent.
func WithLogger(l *log.Logger) Option {
	return func(c *Converter) {
		c.logger = l
	}
}

// New returns a Converter with the given options applied over defaults.
func New(opts ...Option) *Converter {
	c := &Converter{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultConverter = New()

// Convert transforms markdown into an ADF document using default settings.
func Convert(markdown string) *Document {
	return defaultConverter.Convert(markdown)
}

// Convert transforms markdown into an ADF document. It never fails: any
// markdown, including none at all, yields a valid document, with malformed
// constructs preserved as literal text. Empty input produces a document
// holding a single empty paragraph.
func (c *Converter) Convert(markdown string) *Document {
	spans := segment(markdown)

	var nodes []*Node
	var origins []string
	for _, sp := range spans {
		for _, n := range c.mapBlock(sp, 0) {
			nodes = append(nodes, n)
			origins = append(origins, sp.raw)
		}
	}
	if len(nodes) == 0 {
		nodes = []*Node{emptyParagraph()}
		origins = []string{""}
	}

	doc := &Document{Version: 1, Type: TypeDoc, Content: nodes}
	c.repair(doc, origins)
	return doc
}
