// Package extract builds the normalized structural model from one
// version of one artifact. One extractor per grammar family.
package extract

import (
	"github.com/diffscope/diffscope/internal/errors"
	"github.com/diffscope/diffscope/internal/grammar"
	"github.com/diffscope/diffscope/internal/model"
	"github.com/diffscope/diffscope/internal/treesitter"
)

// Model parses one version of an artifact and extracts its structural
// model. Empty content is the degenerate missing-version case and
// yields an empty model, not an error. Invalid syntax returns a typed
// error; recovery belongs to the fallback controller.
func Model(path string, content []byte, g grammar.Grammar) (*model.StructuralModel, error) {
	if len(content) == 0 {
		return &model.StructuralModel{Path: path, Grammar: string(g)}, nil
	}

	if g == grammar.Unknown {
		return nil, errors.UnsupportedGrammar(path, string(g))
	}

	parser, err := treesitter.NewLanguageParser(g)
	if err != nil {
		return nil, err
	}
	defer parser.Close()

	tree, err := parser.Parse(path, content)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()

	switch {
	case grammar.IsCode(g):
		return extractCode(path, content, g, root), nil
	case grammar.IsStylesheet(g):
		return extractStylesheet(path, content, g, root), nil
	case g == grammar.Markup:
		return extractMarkup(path, content, g, root), nil
	}

	return nil, errors.UnsupportedGrammar(path, string(g))
}
