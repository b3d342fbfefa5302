// Package metrics renders a conversion's metrics block as human-readable
// text for the CLI's verbose mode. The sink itself (internal/diag) only
// needs to be consumed programmatically by Convert's caller; this package
// exists because the CLI also wants to print it.
package metrics

import (
	"fmt"
	"strings"

	"github.com/corvidwalk/transbridge/internal/diag"
)

// Report is the subset of a transbridge.Metrics value this package knows
// how to render. It is defined independently of the root package so
// internal/metrics never needs to import transbridge (which would be a
// cycle: transbridge -> internal/metrics is the only direction allowed).
type Report struct {
	ASTNodes             int
	TokensProcessed      int
	ErrorRecoveryCount   int
	ParsingTimeMS        float64
	ConversionTimeMS     float64
	MemoryUsageKB        float64
	SyntaxAccuracy       float64
	SemanticPreservation float64
}

// Format renders r as a multi-line human-readable block, one "label:
// value" pair per line, in the order the spec's metrics sink defines them.
func Format(r Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "ast_nodes:             %d\n", r.ASTNodes)
	fmt.Fprintf(&b, "tokens_processed:      %d\n", r.TokensProcessed)
	fmt.Fprintf(&b, "error_recovery_count:  %d\n", r.ErrorRecoveryCount)
	fmt.Fprintf(&b, "parsing_time_ms:       %.3f\n", r.ParsingTimeMS)
	fmt.Fprintf(&b, "conversion_time_ms:    %.3f\n", r.ConversionTimeMS)
	fmt.Fprintf(&b, "memory_usage_kb:       %.2f\n", r.MemoryUsageKB)
	fmt.Fprintf(&b, "syntax_accuracy:       %.2f%%\n", r.SyntaxAccuracy)
	fmt.Fprintf(&b, "semantic_preservation: %.2f%%\n", r.SemanticPreservation)
	return b.String()
}

// FormatDiagnostics renders a list of diagnostics as one "LEVEL type
// @line:col: message" line each, matching the teacher's "LEVEL: message"
// logging convention.
func FormatDiagnostics(label string, ds []diag.Diagnostic) string {
	if len(ds) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s:\n", label)
	for _, d := range ds {
		fmt.Fprintf(&b, "  %s %s @%d:%d: %s\n", strings.ToUpper(d.Severity.String()), d.Type, d.Line, d.Column, d.Message)
	}
	return b.String()
}
