package lsp

import (
	"errors"

	protocol "github.com/tliron/glsp/protocol_3_16"

	lexerrors "lexgen/internal/errors"
	"lexgen/internal/scanner"
)

// ConvertScanErrors turns unrecognized character errors in text into
// diagnostics covering the offending character. Other errors are ignored.
func ConvertScanErrors(text string, errs []error) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}

	for _, err := range errs {
		var ue *scanner.UnrecognizedError
		if !errors.As(err, &ue) {
			continue
		}

		d, _ := lexerrors.FromError(err)
		start := protocol.Position{Line: uint32(ue.Line), Character: column(text, ue.Offset)}
		end := protocol.Position{Line: start.Line, Character: start.Character + utf16Len(string(ue.Char))}

		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range:    protocol.Range{Start: start, End: end},
			Severity: ptrSeverity(protocol.DiagnosticSeverityError),
			Code:     &protocol.IntegerOrString{Value: d.Code},
			Source:   ptrString("lexgen"),
			Message:  d.Message,
		})
	}

	return diagnostics
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrString(s string) *string {
	return &s
}
