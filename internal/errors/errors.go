package errors

import (
	"fmt"
)

// Kind categorizes an engine failure. The fallback controller dispatches
// on Kind to decide tier demotion.
type Kind int

const (
	// KindUnparseableSyntax - the grammar rejected the content
	KindUnparseableSyntax Kind = iota
	// KindUnsupportedGrammar - no extractor registered for the selected grammar
	KindUnsupportedGrammar
	// KindExtractionEmpty - extraction produced no entities where content exists
	KindExtractionEmpty
	// KindPatternScanFailed - the pattern tier could not scan the diff text
	KindPatternScanFailed
	// KindContentResolution - the content-resolution collaborator failed
	KindContentResolution
	// KindInternal - unexpected internal state
	KindInternal
)

// EngineError is a structured extraction failure with artifact context.
type EngineError struct {
	Kind    Kind
	Path    string
	Message string
	Cause   error
}

// Error implements the error interface
func (e *EngineError) Error() string {
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", e.Path, msg)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *EngineError) Unwrap() error {
	return e.Cause
}

// Is matches on Kind so callers can use errors.Is with sentinel kinds
func (e *EngineError) Is(target error) bool {
	t, ok := target.(*EngineError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// Sentinels for errors.Is checks
var (
	ErrUnparseableSyntax  = &EngineError{Kind: KindUnparseableSyntax, Message: "unparseable syntax"}
	ErrUnsupportedGrammar = &EngineError{Kind: KindUnsupportedGrammar, Message: "unsupported grammar"}
	ErrExtractionEmpty    = &EngineError{Kind: KindExtractionEmpty, Message: "extraction produced no entities"}
	ErrPatternScanFailed  = &EngineError{Kind: KindPatternScanFailed, Message: "pattern scan failed"}
)

// Unparseable wraps a parser rejection for one artifact
func Unparseable(path string, cause error) *EngineError {
	return &EngineError{Kind: KindUnparseableSyntax, Path: path, Message: "unparseable syntax", Cause: cause}
}

// UnsupportedGrammar reports that no extractor exists for a grammar
func UnsupportedGrammar(path, grammar string) *EngineError {
	return &EngineError{Kind: KindUnsupportedGrammar, Path: path, Message: fmt.Sprintf("no extractor for grammar %q", grammar)}
}

// ExtractionEmpty reports an empty result treated as extraction failure
func ExtractionEmpty(path string) *EngineError {
	return &EngineError{Kind: KindExtractionEmpty, Path: path, Message: "extraction produced no entities"}
}

// PatternScanFailed reports a pattern-tier failure
func PatternScanFailed(path string, cause error) *EngineError {
	return &EngineError{Kind: KindPatternScanFailed, Path: path, Message: "pattern scan failed", Cause: cause}
}

// ContentResolution reports a collaborator failure while fetching content
func ContentResolution(path string, cause error) *EngineError {
	return &EngineError{Kind: KindContentResolution, Path: path, Message: "content resolution failed", Cause: cause}
}

// Internal reports unexpected internal state
func Internal(path, message string, cause error) *EngineError {
	return &EngineError{Kind: KindInternal, Path: path, Message: message, Cause: cause}
}
