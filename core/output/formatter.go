// Package output provides output formatting for priced quotes.
// This package produces human and machine-readable outputs: a terminal
// table, JSON, a markdown summary used for emails and the HTML quote document.
package output

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"retreat-quote/core/pricing"
	"retreat-quote/core/quote"
	"retreat-quote/core/types"
)

// Format represents output format type
type Format string

const (
	// FormatCLI is a human-readable CLI table
	FormatCLI Format = "cli"

	// FormatJSON is machine-readable JSON
	FormatJSON Format = "json"

	// FormatMarkdown is a markdown summary
	FormatMarkdown Format = "markdown"

	// FormatHTML is the printable quote document
	FormatHTML Format = "html"
)

// Formatter produces output in a specific format
type Formatter interface {
	// Format returns the format type
	Format() Format

	// Render produces output for the given result
	Render(w io.Writer, result *Result) error
}

// Result is everything a formatter may show
type Result struct {
	// Quote carries the client and event details. Nil for bare CLI quotes.
	Quote *quote.Quote `json:"quote,omitempty"`

	// Breakdown is the engine's output, rendered as is
	Breakdown *types.Breakdown `json:"pricing"`

	// Comparison is set when the next formula up was priced too
	Comparison *pricing.Comparison `json:"comparison,omitempty"`

	// Metadata contains execution context
	Metadata Metadata `json:"metadata"`
}

// Metadata contains execution context
type Metadata struct {
	// Timestamp is when the quote was priced
	Timestamp string `json:"timestamp"`

	// Duration is how long pricing took
	Duration string `json:"duration,omitempty"`

	// InputHash is a hash of the priced input
	InputHash string `json:"input_hash,omitempty"`

	// EngineVersion is the pricing engine version
	EngineVersion string `json:"engine_version"`

	// RateTableVersion is the version of the rate table used
	RateTableVersion string `json:"rate_table_version"`

	// RateFingerprint is the content hash of the rate table used
	RateFingerprint string `json:"rate_fingerprint,omitempty"`
}

// Registry maps formats to formatters
type Registry struct {
	mu         sync.RWMutex
	formatters map[Format]Formatter
}

// NewRegistry creates a registry holding the given formatters
func NewRegistry(formatters ...Formatter) *Registry {
	r := &Registry{formatters: make(map[Format]Formatter)}
	for _, f := range formatters {
		r.Register(f)
	}
	return r
}

// Register adds or replaces a formatter
func (r *Registry) Register(f Formatter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.formatters[f.Format()] = f
}

// Get returns the formatter for a format
func (r *Registry) Get(format Format) (Formatter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.formatters[format]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (available: %s)", format, strings.Join(r.names(), ", "))
	}
	return f, nil
}

func (r *Registry) names() []string {
	names := make([]string, 0, len(r.formatters))
	for f := range r.formatters {
		names = append(names, string(f))
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry holds the terminal formats: cli, json and markdown
func DefaultRegistry() *Registry {
	return NewRegistry(&CLIFormatter{ShowDetails: true}, &JSONFormatter{Indent: true}, &MarkdownFormatter{})
}

// Money formats an amount the way documents show it
func Money(d decimal.Decimal) string {
	return d.StringFixed(2) + " €"
}
