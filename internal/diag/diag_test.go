package diag_test

import (
	"testing"

	"github.com/corvidwalk/transbridge/internal/diag"
	"github.com/stretchr/testify/assert"
)

func Test_Sink_AddError_setsSeverity(t *testing.T) {
	s := diag.NewSink()
	s.AddError(diag.Diagnostic{Type: diag.TypeSyntax, Message: "bad token", Line: 3, Column: 5})

	assert.Len(t, s.Errors, 1)
	assert.Equal(t, diag.SeverityError, s.Errors[0].Severity)
}

func Test_Sink_AddWarning_setsSeverity(t *testing.T) {
	s := diag.NewSink()
	s.AddWarning(diag.Diagnostic{Type: diag.TypeSemantic, Message: "lossy"})

	assert.Len(t, s.Warnings, 1)
	assert.Equal(t, diag.SeverityWarning, s.Warnings[0].Severity)
}

func Test_Sink_AddInfo_landsInWarnings(t *testing.T) {
	s := diag.NewSink()
	s.AddInfo(diag.Diagnostic{Type: diag.TypeSemantic, Message: "dropped using directive"})

	assert.Len(t, s.Warnings, 1)
	assert.Equal(t, diag.SeverityInfo, s.Warnings[0].Severity)
}

func Test_Sink_SyntaxAccuracy(t *testing.T) {
	s := diag.NewSink()
	s.TokensProcessed = 10
	assert.Equal(t, 100.0, s.SyntaxAccuracy())

	s.AddError(diag.Diagnostic{})
	assert.Equal(t, 90.0, s.SyntaxAccuracy())
}

func Test_Sink_SyntaxAccuracy_zeroTokensIsZero(t *testing.T) {
	s := diag.NewSink()
	assert.Equal(t, 0.0, s.SyntaxAccuracy())
}

func Test_Sink_SemanticPreservation_clampsAtZero(t *testing.T) {
	s := diag.NewSink()
	for i := 0; i < 20; i++ {
		s.AddError(diag.Diagnostic{})
	}
	assert.Equal(t, 0.0, s.SemanticPreservation())
}

func Test_Sink_SemanticPreservation_countsWarningsLessThanErrors(t *testing.T) {
	s := diag.NewSink()
	s.AddWarning(diag.Diagnostic{})
	assert.Equal(t, 95.0, s.SemanticPreservation())

	s.AddError(diag.Diagnostic{})
	assert.Equal(t, 85.0, s.SemanticPreservation())
}

func Test_Sink_RecordRecovery(t *testing.T) {
	s := diag.NewSink()
	s.RecordRecovery()
	s.RecordRecovery()
	assert.Equal(t, 2, s.ErrorRecoveryCount)
}

func Test_SyntaxError_FullMessage_underlinesColumn(t *testing.T) {
	se := diag.SyntaxError{
		Message:    "expected ';'",
		SourceLine: "let x = 1",
		Source:     "let x = 1",
		Line:       1,
		Col:        10,
	}
	full := se.FullMessage()
	assert.Contains(t, full, "let x = 1")
	assert.Contains(t, full, "expected ';'")
	assert.Contains(t, full, "^")
}

func Test_SyntaxError_AsDiagnostic(t *testing.T) {
	se := diag.SyntaxError{Message: "bad", Line: 2, Col: 4}
	d := se.AsDiagnostic(diag.TypeSyntax, diag.SeverityError)

	assert.Equal(t, diag.TypeSyntax, d.Type)
	assert.Equal(t, "bad", d.Message)
	assert.Equal(t, 2, d.Line)
	assert.Equal(t, 4, d.Column)
	assert.Equal(t, diag.SeverityError, d.Severity)
}

func Test_Severity_String(t *testing.T) {
	assert.Equal(t, "error", diag.SeverityError.String())
	assert.Equal(t, "warning", diag.SeverityWarning.String())
	assert.Equal(t, "info", diag.SeverityInfo.String())
}

func Test_Sink_StartStopParse_recordsElapsed(t *testing.T) {
	s := diag.NewSink()
	s.StartParse()
	s.StopParse()
	assert.GreaterOrEqual(t, s.ParsingTimeMS, 0.0)
}
