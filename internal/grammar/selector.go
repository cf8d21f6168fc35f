// Package grammar selects a parsing strategy for an artifact from its
// path and an optional content sample. Selection is a pure function so
// the tier pipeline above it stays reproducible.
package grammar

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Grammar is one of a closed set of parsing strategies
type Grammar string

const (
	CodeWithMarkup      Grammar = "code-with-markup" // JS containing JSX
	CodePlain           Grammar = "code-plain"
	TypedCode           Grammar = "typed-code"
	TypedCodeWithMarkup Grammar = "typed-code-with-markup" // TSX
	StylesheetPlain     Grammar = "stylesheet-plain"
	StylesheetNested    Grammar = "stylesheet-nested"
	Markup              Grammar = "markup"
	Unknown             Grammar = "unknown"
)

var (
	jsxLiteralRe     = regexp.MustCompile(`<[A-Za-z][A-Za-z0-9]*(\s[^>]*)?/?>`)
	reactImportRe    = regexp.MustCompile(`(?m)^\s*import\s+.*['"]react['"]|require\(\s*['"]react['"]\s*\)`)
	typeAnnotationRe = regexp.MustCompile(`:\s*(string|number|boolean|void|any|unknown|never)\b|\binterface\s+[A-Z]`)
)

// Select chooses the grammar for a file. Extension is authoritative
// first; for ambiguous extensions the content sample breaks the tie.
// Unknown extensions map to Unknown (generic pass-through, no
// structural extraction).
func Select(path string, contentSample []byte) Grammar {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".ts", ".mts", ".cts":
		return TypedCode
	case ".tsx":
		return TypedCodeWithMarkup
	case ".jsx":
		return CodeWithMarkup
	case ".css":
		return StylesheetPlain
	case ".scss", ".sass", ".less":
		return StylesheetNested
	case ".html", ".htm", ".vue", ".svelte":
		return Markup
	case ".js", ".mjs", ".cjs":
		// Ambiguous: sniff for markup literals, a UI-framework import,
		// or type-annotation syntax.
		markup := hasMarkupSyntax(contentSample)
		typed := typeAnnotationRe.Match(contentSample)
		switch {
		case markup && typed:
			return TypedCodeWithMarkup
		case markup:
			return CodeWithMarkup
		case typed:
			return TypedCode
		}
		return CodePlain
	}

	return Unknown
}

// IsStylesheet reports whether g is one of the stylesheet grammars
func IsStylesheet(g Grammar) bool {
	return g == StylesheetPlain || g == StylesheetNested
}

// IsCode reports whether g is one of the procedural/component grammars
func IsCode(g Grammar) bool {
	switch g {
	case CodeWithMarkup, CodePlain, TypedCode, TypedCodeWithMarkup:
		return true
	}
	return false
}

// HasTypes reports whether g carries type-annotation syntax
func HasTypes(g Grammar) bool {
	return g == TypedCode || g == TypedCodeWithMarkup
}

func hasMarkupSyntax(sample []byte) bool {
	if len(sample) == 0 {
		return false
	}
	s := string(sample)
	if reactImportRe.MatchString(s) {
		return true
	}
	// A markup literal inside a return or assignment is the JSX tell;
	// a bare comparison like a < b does not match the tag pattern.
	return strings.Contains(s, "return (") && jsxLiteralRe.MatchString(s) ||
		strings.Contains(s, "=> (") && jsxLiteralRe.MatchString(s) ||
		strings.Contains(s, "React.createElement")
}
