package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/diffscope/diffscope/internal/grammar"
	"github.com/diffscope/diffscope/internal/model"
	"github.com/diffscope/diffscope/internal/treesitter"
)

// PathSeparator joins ancestor selector contexts into an identity key.
// Identity must include ancestry: the same local selector under two
// different parents is two different rules.
const PathSeparator = " > "

// IndeterminateColumns is the sentinel for grid templates whose column
// count cannot be known statically (auto-fill / auto-fit).
const IndeterminateColumns = -1

var atKindNames = map[string]string{
	"media":     "media",
	"keyframes": "keyframes",
	"import":    "import",
	"font-face": "font-face",
	"supports":  "supports",
	"container": "container",
}

// stylesheetExtractor walks a parsed CSS tree into the structural model
type stylesheetExtractor struct {
	content []byte
	mdl     *model.StructuralModel
}

func extractStylesheet(path string, content []byte, g grammar.Grammar, root *sitter.Node) *model.StructuralModel {
	ex := &stylesheetExtractor{
		content: content,
		mdl:     &model.StructuralModel{Path: path, Grammar: string(g)},
	}

	ex.walkBlock(root, nil)
	ex.mdl.MaxNesting = NestingDepth(string(content))

	return ex.mdl
}

// walkBlock processes the children of a stylesheet, block, or at-rule
// body with the given ancestor context path.
func (ex *stylesheetExtractor) walkBlock(node *sitter.Node, ancestry []string) {
	if node == nil {
		return
	}

	for _, child := range treesitter.NamedChildren(node) {
		switch child.Kind() {
		case "rule_set", "keyframe_block":
			ex.addRuleSet(child, ancestry)
		case "block":
			ex.walkBlock(child, ancestry)
		case "declaration":
			// Declarations directly inside an at-rule body (font-face).
			ex.addDeclaration(child, strings.Join(ancestry, PathSeparator), nil)
		default:
			if atName := atRuleName(child.Kind()); atName != "" {
				ex.addAtRule(child, atName, ancestry)
			}
		}
	}
}

// atRuleName maps a node kind to its at-rule name, or empty
func atRuleName(kind string) string {
	switch kind {
	case "media_statement":
		return "media"
	case "keyframes_statement":
		return "keyframes"
	case "import_statement":
		return "import"
	case "supports_statement":
		return "supports"
	case "charset_statement":
		return "charset"
	case "namespace_statement":
		return "namespace"
	case "at_rule":
		// Generic at-rule (font-face, container, layer, ...); the
		// caller resolves the concrete name from the at_keyword child.
		return "at"
	}
	return ""
}

func (ex *stylesheetExtractor) addAtRule(node *sitter.Node, name string, ancestry []string) {
	// Resolve the generic at_rule kind to its keyword.
	if name == "at" {
		name = ""
		for i := uint(0); i < node.ChildCount(); i++ {
			if c := node.Child(i); c != nil && c.Kind() == "at_keyword" {
				name = strings.TrimPrefix(treesitter.NodeText(c, ex.content), "@")
				break
			}
		}
		if name == "" {
			name = "unknown"
		}
	}

	params := ex.atRuleParams(node)

	// Identity: name plus full parameter string for media/supports/
	// container, name plus keyframes name for keyframes, so presence
	// diffing is independent of source order.
	identity := "@" + name
	if params != "" {
		identity += " " + params
	}

	atKind := name
	if mapped, ok := atKindNames[name]; ok {
		atKind = mapped
	}

	ex.mdl.Add(model.Entity{
		Kind:        model.KindAtRule,
		IdentityKey: identity,
		Location:    location(node),
		AtKind:      atKind,
		Value:       params,
	})

	// Rules nested under the at-rule inherit its context in their path.
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "block", "keyframe_block_list":
			ex.walkBlock(child, append(ancestry, identity))
		}
	}
}

// atRuleParams joins the at-rule's parameter text between keyword and block
func (ex *stylesheetExtractor) atRuleParams(node *sitter.Node) string {
	var parts []string
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		kind := child.Kind()
		if kind == "block" || kind == "keyframe_block_list" || strings.HasPrefix(kind, "@") || kind == "at_keyword" || kind == ";" || kind == "," {
			continue
		}
		text := strings.TrimSpace(treesitter.NodeText(child, ex.content))
		if text != "" {
			parts = append(parts, text)
		}
	}
	return normalizeSelectorText(strings.Join(parts, " "))
}

func (ex *stylesheetExtractor) addRuleSet(node *sitter.Node, ancestry []string) {
	var selText string
	var block *sitter.Node
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "selectors":
			selText = normalizeSelectorText(treesitter.NodeText(child, ex.content))
		case "block":
			block = child
		default:
			// Keyframe blocks key on their offset text (from, to, 50%).
			if selText == "" && node.Kind() == "keyframe_block" {
				selText = normalizeSelectorText(treesitter.NodeText(child, ex.content))
			}
		}
	}

	path := selText
	if len(ancestry) > 0 {
		path = strings.Join(append(append([]string{}, ancestry...), selText), PathSeparator)
	}

	selector := model.Entity{
		Kind:        model.KindSelector,
		IdentityKey: path,
		Location:    location(node),
	}
	if selText == "" {
		selector.Warning = "rule with empty selector"
	}
	ex.mdl.Add(selector)

	if block == nil {
		return
	}

	// Collect this rule's declarations first so the layout-system
	// sub-analysis can see companions, then recurse into nested rules.
	var decls []*sitter.Node
	for _, child := range treesitter.NamedChildren(block) {
		if child.Kind() == "declaration" {
			decls = append(decls, child)
		}
	}
	companions := ex.declarationMap(decls)
	for _, d := range decls {
		ex.addDeclaration(d, path, companions)
	}

	ex.walkBlock(block, append(ancestry, selText))
}

// declarationMap indexes raw values by property name for companion lookup
func (ex *stylesheetExtractor) declarationMap(decls []*sitter.Node) map[string]string {
	out := map[string]string{}
	for _, d := range decls {
		prop, value := ex.declarationParts(d)
		if prop != "" {
			out[prop] = value // last-wins, matching cascade semantics
		}
	}
	return out
}

func (ex *stylesheetExtractor) declarationParts(node *sitter.Node) (prop, value string) {
	var parts []string
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		switch child.Kind() {
		case "property_name":
			prop = treesitter.NodeText(child, ex.content)
		case ":", ";":
		default:
			if text := strings.TrimSpace(treesitter.NodeText(child, ex.content)); text != "" {
				parts = append(parts, text)
			}
		}
	}
	return prop, strings.Join(parts, " ")
}

func (ex *stylesheetExtractor) addDeclaration(node *sitter.Node, ownerPath string, companions map[string]string) {
	prop, value := ex.declarationParts(node)
	if prop == "" {
		return
	}

	entity := model.Entity{
		Kind:        model.KindDeclaration,
		IdentityKey: ownerPath + "::" + prop,
		Location:    location(node),
		Property:    prop,
		Value:       value,
	}
	if strings.TrimSpace(value) == "" {
		entity.Warning = fmt.Sprintf("declaration %q has empty value", prop)
	}

	if prop == "display" {
		entity.SubDetails = layoutDetails(value, companions)
	}

	ex.mdl.Add(entity)
}

// layoutDetails describes companion declarations for the two layout
// systems. For grid templates the column cardinality accounts for
// repeat() wrappers.
func layoutDetails(display string, companions map[string]string) []string {
	var details []string

	switch strings.TrimSpace(display) {
	case "flex":
		for _, prop := range []string{"flex-direction", "justify-content", "align-items", "flex-wrap", "gap"} {
			if v, ok := companions[prop]; ok {
				details = append(details, fmt.Sprintf("%s: %s", prop, v))
			}
		}
	case "grid":
		if tmpl, ok := companions["grid-template-columns"]; ok {
			cols := GridColumnCount(tmpl)
			if cols == IndeterminateColumns {
				details = append(details, "grid columns: indeterminate (auto-fill/auto-fit)")
			} else {
				details = append(details, fmt.Sprintf("grid columns: %d", cols))
			}
		}
		if v, ok := companions["grid-template-rows"]; ok {
			details = append(details, fmt.Sprintf("grid-template-rows: %s", v))
		}
		for _, prop := range []string{"gap", "grid-gap", "column-gap", "row-gap"} {
			if v, ok := companions[prop]; ok {
				details = append(details, fmt.Sprintf("%s: %s", prop, v))
			}
		}
	}

	return details
}

var repeatRe = regexp.MustCompile(`^repeat\(\s*([^,]+)\s*,(.*)\)$`)

// GridColumnCount counts the columns a grid-template value defines.
// repeat(N, inner) multiplies the inner count by N; auto-fill and
// auto-fit yield IndeterminateColumns since their count depends on the
// container at layout time.
func GridColumnCount(template string) int {
	tokens := splitTemplateTokens(strings.TrimSpace(template))
	count := 0
	for _, token := range tokens {
		if m := repeatRe.FindStringSubmatch(token); m != nil {
			arg := strings.TrimSpace(m[1])
			if arg == "auto-fill" || arg == "auto-fit" {
				return IndeterminateColumns
			}
			n, err := strconv.Atoi(arg)
			if err != nil {
				return IndeterminateColumns
			}
			inner := GridColumnCount(strings.TrimSpace(m[2]))
			if inner == IndeterminateColumns {
				return IndeterminateColumns
			}
			count += n * inner
			continue
		}
		count++
	}
	return count
}

// splitTemplateTokens splits on whitespace outside parens/brackets so
// minmax(100px, 1fr) and [line-name] stay single tokens.
func splitTemplateTokens(template string) []string {
	var tokens []string
	depth := 0
	var current strings.Builder
	for _, r := range template {
		switch r {
		case '(', '[':
			depth++
			current.WriteRune(r)
		case ')', ']':
			depth--
			current.WriteRune(r)
		case ' ', '\t', '\n':
			if depth > 0 {
				current.WriteRune(r)
			} else if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	// Line-name brackets are not tracks.
	var out []string
	for _, t := range tokens {
		if strings.HasPrefix(t, "[") && strings.HasSuffix(t, "]") {
			continue
		}
		out = append(out, t)
	}
	return out
}

// NestingDepth computes lexical nesting by brace counting, skipping
// braces inside string literals and block comments. This is an
// approximation and callers must report it as such.
func NestingDepth(content string) int {
	depth := 0
	maxDepth := 0
	inString := byte(0)
	inComment := false

	for i := 0; i < len(content); i++ {
		c := content[i]

		if inComment {
			if c == '*' && i+1 < len(content) && content[i+1] == '/' {
				inComment = false
				i++
			}
			continue
		}
		if inString != 0 {
			if c == '\\' {
				i++
			} else if c == inString {
				inString = 0
			}
			continue
		}

		switch c {
		case '/':
			if i+1 < len(content) && content[i+1] == '*' {
				inComment = true
				i++
			}
		case '"', '\'':
			inString = c
		case '{':
			depth++
			if depth > maxDepth {
				maxDepth = depth
			}
		case '}':
			if depth > 0 {
				depth--
			}
		}
	}
	return maxDepth
}

var selWsRe = regexp.MustCompile(`\s+`)

func normalizeSelectorText(s string) string {
	return strings.TrimSpace(selWsRe.ReplaceAllString(s, " "))
}
