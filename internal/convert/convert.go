// Package convert implements the conversion dispatcher: route-specific
// input validation and invocation of the format engines.
//
// Routes are table-driven. Each supported (source → target) pair owns one
// Route entry carrying its content-type allow-list, size ceiling and
// conversion function; the HTTP layer and the CLI both dispatch through
// the same table.
package convert

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/fileforge/fileforge/internal/domain"
	"github.com/fileforge/fileforge/internal/observability"
)

// Output is the raw result of one conversion: one buffer per output unit.
// Non-paged routes always produce exactly one unit.
type Output struct {
	Pages [][]byte
}

// Options carries optional per-request conversion parameters.
type Options struct {
	// OutputFormat selects the target container where a route supports
	// more than one, e.g. "mp3" or "wav" for video-to-audio.
	OutputFormat string
}

// Route describes one supported conversion pair.
type Route struct {
	Pair string

	// Accept lists declared content-type prefixes admitted by this route.
	Accept []string
	// Expects is the human-readable input description used in 400 messages.
	Expects string

	// MaxBytes is the upload ceiling for this route.
	MaxBytes int64

	// TargetMediaType and TargetExt describe a single output unit.
	TargetMediaType string
	TargetExt       string

	// Paged routes may emit more than one unit (one per source page) and
	// use the {base}_page_{i} naming scheme even for one page.
	Paged bool

	// dynamicTarget, when set, resolves the output ext and media type
	// from the requested output format instead of the static fields.
	dynamicTarget func(format string) (ext, mediaType string, ok bool)

	fn func(ctx context.Context, e *Engine, input []byte, opts Options) ([][]byte, error)
}

// Target resolves the output media type and extension for one request.
func (r Route) Target(opts Options) (mediaType, ext string, err error) {
	if r.dynamicTarget == nil {
		return r.TargetMediaType, r.TargetExt, nil
	}
	ext, mediaType, ok := r.dynamicTarget(opts.OutputFormat)
	if !ok {
		return "", "", domain.ValidationError("unsupported output format "+opts.OutputFormat, nil)
	}
	return mediaType, ext, nil
}

// Config holds conversion engine settings.
type Config struct {
	RenderScale float64 // PDF page render zoom factor
	JPEGQuality int
	SofficePath string
	FFmpegPath  string
	ToolTimeout time.Duration

	MaxImageBytes int64
	MaxPDFBytes   int64
	MaxVideoBytes int64
}

// Engine dispatches conversion requests to the per-family converters.
type Engine struct {
	cfg    Config
	logger *observability.Logger
	routes map[string]Route
}

// NewEngine creates a conversion engine with the full route table.
func NewEngine(cfg Config, logger *observability.Logger) *Engine {
	if logger == nil {
		logger = observability.Nop()
	}
	e := &Engine{
		cfg:    cfg,
		logger: logger,
		routes: make(map[string]Route),
	}
	e.registerRoutes()
	return e
}

// Route looks up a conversion pair.
func (e *Engine) Route(pair string) (Route, bool) {
	r, ok := e.routes[pair]
	return r, ok
}

// Pairs returns the supported pair names in sorted order.
func (e *Engine) Pairs() []string {
	pairs := make([]string, 0, len(e.routes))
	for p := range e.routes {
		pairs = append(pairs, p)
	}
	sort.Strings(pairs)
	return pairs
}

// Validate checks the declared content type and payload size against the
// route contract. It runs before any conversion work.
func (r Route) Validate(declaredType string, size int64) error {
	if size > r.MaxBytes {
		return domain.PayloadTooLargeError(
			fmt.Sprintf("file exceeds the %d MB limit for this route", r.MaxBytes>>20), nil)
	}

	mt := strings.ToLower(strings.TrimSpace(declaredType))
	if i := strings.Index(mt, ";"); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	for _, prefix := range r.Accept {
		if strings.HasPrefix(mt, prefix) {
			return nil
		}
	}
	return domain.ValidationError(fmt.Sprintf("file must be %s", r.Expects), nil)
}

// Convert validates and runs one conversion. The returned Output carries
// one buffer per output unit in source order.
func (e *Engine) Convert(ctx context.Context, pair string, input []byte, declaredType string, opts Options) (*Output, Route, error) {
	route, ok := e.routes[pair]
	if !ok {
		return nil, Route{}, domain.ValidationError(fmt.Sprintf("unsupported conversion pair %q", pair), nil)
	}

	if err := route.Validate(declaredType, int64(len(input))); err != nil {
		return nil, route, err
	}

	start := time.Now()
	pages, err := route.fn(ctx, e, input, opts)
	if err != nil {
		return nil, route, err
	}
	if len(pages) == 0 {
		return nil, route, domain.ConversionError("conversion produced no output", nil)
	}

	e.logger.WithRoute(pair).Debug().
		Int("pages", len(pages)).
		Dur("elapsed", time.Since(start)).
		Msg("Conversion complete")

	return &Output{Pages: pages}, route, nil
}
