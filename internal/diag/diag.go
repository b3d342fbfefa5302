// Package diag holds the diagnostic and metrics types shared by every
// stage of the pipeline: the lexers, the parsers, the mappers and the
// emitters all report through a diag.Sink rather than returning errors
// that would unwind panic-mode recovery.
package diag

import (
	"fmt"
	"time"
)

// Severity classifies how serious a Diagnostic is.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityInfo:
		return "info"
	default:
		return "unknown"
	}
}

// Type distinguishes where in the pipeline a Diagnostic originated.
type Type string

const (
	TypeRDPParsing       Type = "rdp_parsing"
	TypeSyntax           Type = "syntax"
	TypeSemantic         Type = "semantic"
	TypeConversionError  Type = "conversion_error"
	TypeASTConversion    Type = "ast_conversion_error"
)

// Diagnostic is a single reported issue, with enough position information
// to point a user at the offending source.
type Diagnostic struct {
	Type     Type
	Message  string
	Line     int
	Column   int
	Severity Severity
}

// SyntaxError is the error type a parser's consume raises (as a panic) when
// the current token doesn't match what a production expected. It is never
// allowed to unwind past the parser that raised it; panic-mode recovery
// catches it, converts it to a Diagnostic via AsDiagnostic, and resumes.
type SyntaxError struct {
	Message    string
	SourceLine string
	Source     string
	Line       int
	Col        int
}

func (se SyntaxError) Error() string {
	if se.Line == 0 {
		return fmt.Sprintf("syntax error: %s", se.Message)
	}
	return fmt.Sprintf("syntax error: around line %d, char %d: %s", se.Line, se.Col, se.Message)
}

// FullMessage shows the error message along with the offending line and a
// caret pointing at the exact column the error occurred at.
func (se SyntaxError) FullMessage() string {
	msg := se.Error()
	if se.Line != 0 && se.SourceLine != "" {
		msg = se.SourceLineWithCursor() + "\n" + msg
	}
	return msg
}

// SourceLineWithCursor returns the offending line with a caret on the line
// below pointing at the column the error occurred at. Returns an empty
// string if no source line was captured.
func (se SyntaxError) SourceLineWithCursor() string {
	if se.SourceLine == "" {
		return ""
	}
	cursor := ""
	for i := 0; i < se.Col-1; i++ {
		cursor += " "
	}
	cursor += "^"
	return se.SourceLine + "\n" + cursor
}

// AsDiagnostic converts the SyntaxError into a reportable Diagnostic of the
// given Type and Severity.
func (se SyntaxError) AsDiagnostic(t Type, sev Severity) Diagnostic {
	return Diagnostic{Type: t, Message: se.Message, Line: se.Line, Column: se.Col, Severity: sev}
}

// Sink accumulates the counters, timings and diagnostics produced while
// lexing and parsing a single request. It is created fresh per request and
// read once at the request boundary; nothing about it is safe to share
// across requests.
type Sink struct {
	ASTNodes            int
	TokensProcessed     int
	ErrorRecoveryCount  int
	Errors              []Diagnostic
	Warnings            []Diagnostic
	ParsingTimeMS       float64
	ConversionTimeMS    float64
	MemoryUsageKB       float64

	parseStart time.Time
}

// NewSink returns a zeroed Sink ready to be written to by a lexer/parser
// pair.
func NewSink() *Sink {
	return &Sink{}
}

// StartParse marks the wall-clock start of a parse. Call StopParse when the
// parser returns to populate ParsingTimeMS.
func (s *Sink) StartParse() {
	s.parseStart = time.Now()
}

// StopParse records the elapsed time since StartParse into ParsingTimeMS.
func (s *Sink) StopParse() {
	s.ParsingTimeMS = float64(time.Since(s.parseStart)) / float64(time.Millisecond)
}

// AddNode increments the AST-node counter. Called once per node
// constructed by a parser production.
func (s *Sink) AddNode() {
	s.ASTNodes++
}

// AddError appends an error-severity diagnostic.
func (s *Sink) AddError(d Diagnostic) {
	d.Severity = SeverityError
	s.Errors = append(s.Errors, d)
}

// AddWarning appends a warning-severity diagnostic.
func (s *Sink) AddWarning(d Diagnostic) {
	d.Severity = SeverityWarning
	s.Warnings = append(s.Warnings, d)
}

// AddInfo appends an info-severity diagnostic to the warnings list — there
// is no separate informational channel in the result record, so an info
// note (e.g. a dropped using-directive) counts toward semantic_preservation's
// warning penalty like any warning. Callers that need to tell the two apart
// filter on Severity rather than on which slice it landed in.
func (s *Sink) AddInfo(d Diagnostic) {
	d.Severity = SeverityInfo
	s.Warnings = append(s.Warnings, d)
}

// RecordRecovery increments the panic-mode recovery counter.
func (s *Sink) RecordRecovery() {
	s.ErrorRecoveryCount++
}

// SyntaxAccuracy returns max(0, (tokens_processed-|errors|)/tokens_processed*100).
func (s *Sink) SyntaxAccuracy() float64 {
	if s.TokensProcessed == 0 {
		return 0
	}
	acc := float64(s.TokensProcessed-len(s.Errors)) / float64(s.TokensProcessed) * 100
	if acc < 0 {
		acc = 0
	}
	return acc
}

// SemanticPreservation returns max(0, 100 - 10*|errors| - 5*|warnings|).
func (s *Sink) SemanticPreservation() float64 {
	v := 100 - 10*float64(len(s.Errors)) - 5*float64(len(s.Warnings))
	if v < 0 {
		v = 0
	}
	return v
}
