// ABOUTME: Uniform result type every bridge operation resolves to.
// ABOUTME: Status + content blocks + metadata; rendered as voice-ready text.

package format

import (
	"fmt"
	"strings"
	"time"
)

// Status classifies the outcome of a bridge operation.
type Status string

const (
	// StatusSuccess means data was obtained, possibly degraded.
	StatusSuccess Status = "success"
	// StatusPartial means the operation ran but produced no usable data.
	StatusPartial Status = "partial"
	// StatusError means a clear failure (missing url, bad command).
	StatusError Status = "error"
)

// Block is one unit of reply content.
type Block struct {
	Title   string
	Summary string
	Text    string
}

// Metadata carries operation facts surfaced alongside the reply.
type Metadata struct {
	Duration   time.Duration
	CacheHit   bool
	Truncated  bool
	SourceURL  string
	StatusCode int // HTTP-ish status; 0 means the transport never answered
}

// Result is the uniform reply produced by every router, registry, and
// adapter operation. No operation returns a Go error across the bridge
// boundary; failures become Results with StatusError or StatusPartial.
type Result struct {
	Status      Status
	Blocks      []Block
	Meta        Metadata
	Suggestions []string
}

// Success builds a success result with one text block.
func Success(text string) *Result {
	return &Result{Status: StatusSuccess, Blocks: []Block{{Text: text}}}
}

// Successf builds a success result from a format string.
func Successf(format string, args ...any) *Result {
	return Success(fmt.Sprintf(format, args...))
}

// Partial builds a partial result with one text block.
func Partial(text string) *Result {
	return &Result{Status: StatusPartial, Blocks: []Block{{Text: text}}}
}

// Partialf builds a partial result from a format string.
func Partialf(format string, args ...any) *Result {
	return Partial(fmt.Sprintf(format, args...))
}

// Error builds an error result with one text block. The text should
// carry a diagnostic plus at least one usage example.
func Error(text string) *Result {
	return &Result{Status: StatusError, Blocks: []Block{{Text: text}}}
}

// Errorf builds an error result from a format string.
func Errorf(format string, args ...any) *Result {
	return Error(fmt.Sprintf(format, args...))
}

// WithTitle sets the title of the first block.
func (r *Result) WithTitle(title string) *Result {
	if len(r.Blocks) > 0 {
		r.Blocks[0].Title = title
	}
	return r
}

// WithSummary sets the voice summary of the first block.
func (r *Result) WithSummary(summary string) *Result {
	if len(r.Blocks) > 0 {
		r.Blocks[0].Summary = summary
	}
	return r
}

// AddBlock appends a content block.
func (r *Result) AddBlock(b Block) *Result {
	r.Blocks = append(r.Blocks, b)
	return r
}

// Text renders the result as plain text: blocks first, then the
// suggested actions.
func (r *Result) Text() string {
	var b strings.Builder
	for i, blk := range r.Blocks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		if blk.Title != "" {
			b.WriteString(blk.Title)
			b.WriteString("\n")
		}
		b.WriteString(blk.Text)
	}
	if len(r.Suggestions) > 0 {
		b.WriteString("\n\nYou can also:")
		for _, s := range r.Suggestions {
			b.WriteString("\n  • ")
			b.WriteString(s)
		}
	}
	return b.String()
}

// Voice renders the spoken form: block summaries where present,
// otherwise block text. Suggestions are not spoken.
func (r *Result) Voice() string {
	parts := make([]string, 0, len(r.Blocks))
	for _, blk := range r.Blocks {
		if blk.Summary != "" {
			parts = append(parts, blk.Summary)
			continue
		}
		parts = append(parts, blk.Text)
	}
	return strings.Join(parts, ". ")
}
