package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessageIncludesPathAndCause(t *testing.T) {
	err := Unparseable("src/app.js", fmt.Errorf("unexpected token"))
	want := "src/app.js: unparseable syntax: unexpected token"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIsMatchesOnKind(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		want     bool
	}{
		{"unparseable", Unparseable("a.js", nil), ErrUnparseableSyntax, true},
		{"unsupported", UnsupportedGrammar("a.xyz", "unknown"), ErrUnsupportedGrammar, true},
		{"empty extraction", ExtractionEmpty("a.js"), ErrExtractionEmpty, true},
		{"pattern scan", PatternScanFailed("a.js", nil), ErrPatternScanFailed, true},
		{"kind mismatch", Unparseable("a.js", nil), ErrPatternScanFailed, false},
		{"wrapped", fmt.Errorf("tier: %w", Unparseable("a.js", nil)), ErrUnparseableSyntax, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.sentinel); got != tt.want {
				t.Errorf("errors.Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUnwrapExposesCause(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := ContentResolution("a.js", cause)
	if !errors.Is(err, cause) {
		t.Error("wrapped cause not reachable via errors.Is")
	}
}
