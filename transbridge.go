// Package transbridge translates source text between L-dyn, a
// dynamically-typed scripting language, and L-stat, a statically-typed
// nominal language, by lexing and hand-parsing the input into an AST,
// mapping that AST across languages, and pretty-printing the result.
//
// The package boundary is intentionally narrow: Convert and Parse are the
// only two entry points, matching the external library API the rest of
// the system (an HTTP layer, a persistence layer, none of which live in
// this module) is built against.
package transbridge

import (
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/corvidwalk/transbridge/internal/config"
	"github.com/corvidwalk/transbridge/internal/diag"
	"github.com/corvidwalk/transbridge/internal/dynemit"
	"github.com/corvidwalk/transbridge/internal/dynlex"
	"github.com/corvidwalk/transbridge/internal/dynparse"
	"github.com/corvidwalk/transbridge/internal/mapper"
	"github.com/corvidwalk/transbridge/internal/statemit"
	"github.com/corvidwalk/transbridge/internal/statlex"
	"github.com/corvidwalk/transbridge/internal/statparse"
)

// Direction identifies which of the two supported translations a Convert
// call performs.
type Direction int

const (
	// DynToStat converts L-dyn source into L-stat source.
	DynToStat Direction = iota
	// StatToDyn converts L-stat source into L-dyn source.
	StatToDyn
)

func (d Direction) String() string {
	if d == StatToDyn {
		return "stat-to-dyn"
	}
	return "dyn-to-stat"
}

// Diagnostic is a single reported issue encountered anywhere in the
// pipeline: an unknown lexical byte, a recovered syntax error, a lossy or
// unsupported cross-language mapping, re-exported from internal/diag so
// callers outside this module never need to import an internal package.
type Diagnostic = diag.Diagnostic

// Metrics carries the parsing and conversion statistics spec.md's metrics
// sink accumulates: node/token counts, recovery count, timings, and the
// two derived accuracy scores.
type Metrics struct {
	ASTNodes             int
	TokensProcessed      int
	ErrorRecoveryCount   int
	ParsingTimeMS        float64
	ConversionTimeMS     float64
	MemoryUsageKB        float64
	SyntaxAccuracy       float64
	SemanticPreservation float64
}

func metricsFromSink(s *diag.Sink) Metrics {
	return Metrics{
		ASTNodes:             s.ASTNodes,
		TokensProcessed:      s.TokensProcessed,
		ErrorRecoveryCount:   s.ErrorRecoveryCount,
		ParsingTimeMS:        s.ParsingTimeMS,
		ConversionTimeMS:     s.ConversionTimeMS,
		MemoryUsageKB:        s.MemoryUsageKB,
		SyntaxAccuracy:       s.SyntaxAccuracy(),
		SemanticPreservation: s.SemanticPreservation(),
	}
}

// heapDeltaKB reports how many KB of heap allocation occurred between two
// runtime.MemStats snapshots of HeapAlloc, never negative (a GC between the
// snapshots can make the raw delta appear to shrink).
func heapDeltaKB(before, after uint64) float64 {
	if after <= before {
		return 0
	}
	return float64(after-before) / 1024
}

// ConversionResult is the outcome of a Convert call: the translated
// source text, every diagnostic raised along the way, and the metrics
// gathered while producing it.
type ConversionResult struct {
	Success  bool
	Output   string
	Errors   []Diagnostic
	Warnings []Diagnostic
	Metrics  Metrics
}

// ParseResult is the outcome of a Parse call: a syntax check with no
// target-language output, for callers that only want to know whether the
// input is well-formed and how panic-mode recovery handled it.
type ParseResult struct {
	Valid    bool
	Errors   []Diagnostic
	Warnings []Diagnostic
	Metrics  Metrics
}

// Options controls a single Convert or Parse call. The zero value selects
// DynToStat with the library defaults; ApplyConfig overlays a loaded
// .tbc.toml file's settings.
type Options struct {
	Direction        Direction
	StrictEquality   bool
	StopOnFirstError bool
}

// ApplyConfig overlays cfg's settings onto o, returning the combined
// Options. A stat-to-dyn direction in cfg replaces o.Direction; otherwise
// o.Direction is kept. It also sets both emitters' package-wide indent
// width from cfg.IndentWidth.
func (o Options) ApplyConfig(cfg config.Config) Options {
	o.StrictEquality = cfg.StrictEquality
	o.StopOnFirstError = cfg.StopOnFirstError
	if cfg.Direction == config.DirectionStatToDyn {
		o.Direction = StatToDyn
	}
	dynemit.SetIndentWidth(cfg.IndentWidth)
	statemit.SetIndentWidth(cfg.IndentWidth)
	return o
}

// Convert translates input from Options.Direction's source language to its
// target language. It never returns a non-nil error for malformed input —
// panic-mode recovery keeps the parser producing a best-effort AST, and
// failures are reported as Diagnostics in the result instead. A non-nil
// error indicates a catastrophic invariant violation that recovery could
// not contain.
func Convert(input string, opts Options) (result ConversionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: transbridge: unrecoverable panic during conversion: %v", r)
			err = fmt.Errorf("transbridge: unrecoverable panic: %v", r)
		}
	}()

	start := time.Now()
	var before runtime.MemStats
	runtime.ReadMemStats(&before)
	sink := diag.NewSink()

	switch opts.Direction {
	case StatToDyn:
		toks := statlex.Lex(input)
		p := statparse.New(toks, input, sink)
		cu := p.Parse()
		m := mapper.New(sink)
		prog := m.StatToDyn(cu)
		result.Output = dynemit.Emit(prog)
	default:
		toks := dynlex.Lex(input)
		p := dynparse.New(toks, input, sink)
		prog := p.Parse()
		m := mapper.New(sink)
		cu := m.DynToStat(prog)
		result.Output = statemit.Emit(cu)
	}

	sink.ConversionTimeMS = float64(time.Since(start)) / float64(time.Millisecond)
	var after runtime.MemStats
	runtime.ReadMemStats(&after)
	sink.MemoryUsageKB = heapDeltaKB(before.HeapAlloc, after.HeapAlloc)

	result.Success = len(sink.Errors) == 0
	result.Errors = sink.Errors
	result.Warnings = sink.Warnings
	result.Metrics = metricsFromSink(sink)
	return result, nil
}

// Parse checks input against Options.Direction's source grammar without
// emitting any target-language output, reporting whether panic-mode
// recovery had to intervene and how many times.
func Parse(input string, opts Options) (result ParseResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR: transbridge: unrecoverable panic during parse: %v", r)
			err = fmt.Errorf("transbridge: unrecoverable panic: %v", r)
		}
	}()

	var before runtime.MemStats
	runtime.ReadMemStats(&before)
	sink := diag.NewSink()

	switch opts.Direction {
	case StatToDyn:
		toks := statlex.Lex(input)
		p := statparse.New(toks, input, sink)
		p.Parse()
	default:
		toks := dynlex.Lex(input)
		p := dynparse.New(toks, input, sink)
		p.Parse()
	}

	var after runtime.MemStats
	runtime.ReadMemStats(&after)
	sink.MemoryUsageKB = heapDeltaKB(before.HeapAlloc, after.HeapAlloc)

	result.Valid = len(sink.Errors) == 0
	result.Errors = sink.Errors
	result.Warnings = sink.Warnings
	result.Metrics = metricsFromSink(sink)
	return result, nil
}
