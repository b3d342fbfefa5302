package metrics_test

import (
	"testing"

	"github.com/corvidwalk/transbridge/internal/diag"
	"github.com/corvidwalk/transbridge/internal/metrics"
	"github.com/stretchr/testify/assert"
)

func Test_Format_includesAllFields(t *testing.T) {
	r := metrics.Report{
		ASTNodes:             10,
		TokensProcessed:      42,
		ErrorRecoveryCount:   1,
		ParsingTimeMS:        1.5,
		ConversionTimeMS:     2.25,
		MemoryUsageKB:        12.5,
		SyntaxAccuracy:       97.62,
		SemanticPreservation: 90,
	}
	out := metrics.Format(r)
	assert.Contains(t, out, "ast_nodes:")
	assert.Contains(t, out, "10")
	assert.Contains(t, out, "tokens_processed:")
	assert.Contains(t, out, "42")
	assert.Contains(t, out, "memory_usage_kb:")
	assert.Contains(t, out, "12.50")
	assert.Contains(t, out, "syntax_accuracy:")
	assert.Contains(t, out, "97.62%")
}

func Test_FormatDiagnostics_emptyReturnsEmptyString(t *testing.T) {
	out := metrics.FormatDiagnostics("errors", nil)
	assert.Empty(t, out)
}

func Test_FormatDiagnostics_rendersSeverityTypeAndPosition(t *testing.T) {
	ds := []diag.Diagnostic{
		{Type: diag.TypeSyntax, Message: "unexpected token", Line: 3, Column: 7, Severity: diag.SeverityError},
	}
	out := metrics.FormatDiagnostics("errors", ds)
	assert.Contains(t, out, "errors:")
	assert.Contains(t, out, "ERROR")
	assert.Contains(t, out, "@3:7")
	assert.Contains(t, out, "unexpected token")
}
