// Package treesitter wraps the tree-sitter parsers behind the grammar
// set the engine understands. It is the only package that touches raw
// syntax trees; everything above it works on the normalized structural
// model.
package treesitter

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_css "github.com/tree-sitter/tree-sitter-css/bindings/go"
	tree_sitter_html "github.com/tree-sitter/tree-sitter-html/bindings/go"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/diffscope/diffscope/internal/errors"
	"github.com/diffscope/diffscope/internal/grammar"
)

// LanguageParser wraps a tree-sitter parser with a grammar-specific
// language. Always call Close to release CGO resources.
type LanguageParser struct {
	parser *sitter.Parser
	gram   grammar.Grammar
}

// NewLanguageParser creates a parser for the given grammar.
// Returns errors.ErrUnsupportedGrammar for grammars with no parser.
func NewLanguageParser(g grammar.Grammar) (*LanguageParser, error) {
	var language *sitter.Language

	switch g {
	case grammar.CodePlain, grammar.CodeWithMarkup:
		// The JavaScript grammar parses JSX natively.
		language = sitter.NewLanguage(tree_sitter_javascript.Language())
	case grammar.TypedCode:
		language = sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())
	case grammar.TypedCodeWithMarkup:
		language = sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())
	case grammar.StylesheetPlain, grammar.StylesheetNested:
		// The CSS grammar accepts nested rule sets, which covers the
		// nested dialects for structural purposes.
		language = sitter.NewLanguage(tree_sitter_css.Language())
	case grammar.Markup:
		language = sitter.NewLanguage(tree_sitter_html.Language())
	default:
		return nil, errors.UnsupportedGrammar("", string(g))
	}

	parser := sitter.NewParser()
	if parser == nil {
		return nil, fmt.Errorf("failed to create tree-sitter parser")
	}

	if err := parser.SetLanguage(language); err != nil {
		parser.Close()
		return nil, fmt.Errorf("failed to set language for %s: %w", g, err)
	}

	return &LanguageParser{parser: parser, gram: g}, nil
}

// Grammar returns the grammar this parser was built for
func (lp *LanguageParser) Grammar() grammar.Grammar {
	return lp.gram
}

// Close releases parser resources (required - CGO memory management)
func (lp *LanguageParser) Close() {
	if lp.parser != nil {
		lp.parser.Close()
	}
}

// Parse parses source text and returns the syntax tree. A tree whose
// root carries parse errors is rejected with a typed error; recovery
// is the fallback controller's job, never this package's.
// Caller must call tree.Close() when done.
func (lp *LanguageParser) Parse(path string, content []byte) (*sitter.Tree, error) {
	tree := lp.parser.Parse(content, nil)
	if tree == nil {
		return nil, errors.Unparseable(path, fmt.Errorf("parser returned no tree"))
	}

	root := tree.RootNode()
	if root == nil {
		tree.Close()
		return nil, errors.Unparseable(path, fmt.Errorf("parse produced no root node"))
	}
	if root.HasError() {
		tree.Close()
		return nil, errors.Unparseable(path, fmt.Errorf("syntax errors in %s content", lp.gram))
	}

	return tree, nil
}
