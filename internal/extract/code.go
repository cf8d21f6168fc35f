package extract

import (
	"regexp"
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/diffscope/diffscope/internal/grammar"
	"github.com/diffscope/diffscope/internal/model"
	"github.com/diffscope/diffscope/internal/treesitter"
)

// Callee names treated as API calls when seen in a function body,
// either bare or as the accessed member.
var apiCallees = map[string]bool{
	"fetch":   true,
	"axios":   true,
	"http":    true,
	"request": true,
	"get":     true,
	"post":    true,
	"put":     true,
	"delete":  true,
}

// UI base classes whose subclasses count as components
var componentBases = map[string]bool{
	"Component":           true,
	"PureComponent":       true,
	"React.Component":     true,
	"React.PureComponent": true,
}

// Import sources treated as framework imports
var frameworkSources = map[string]bool{
	"react":     true,
	"react-dom": true,
	"preact":    true,
	"vue":       true,
}

var hookNameRe = regexp.MustCompile(`^use[A-Z]\w*$`)

// codeExtractor walks a parsed JS/TS tree into the structural model
type codeExtractor struct {
	content []byte
	gram    grammar.Grammar
	mdl     *model.StructuralModel
	hooks   map[string]int
}

// extractCode builds the structural model for a code grammar.
// The tree is already parsed and error-free; this never demotes tiers.
func extractCode(path string, content []byte, g grammar.Grammar, root *sitter.Node) *model.StructuralModel {
	ex := &codeExtractor{
		content: content,
		gram:    g,
		mdl:     &model.StructuralModel{Path: path, Grammar: string(g)},
		hooks:   map[string]int{},
	}

	ex.walk(root)

	// Hook calls are reported once per distinct name with a frequency,
	// so the diff can compare call counts across versions.
	names := make([]string, 0, len(ex.hooks))
	for name := range ex.hooks {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ex.mdl.Add(model.Entity{
			Kind:        model.KindHookCall,
			IdentityKey: name,
			CallCount:   ex.hooks[name],
		})
	}

	return ex.mdl
}

func (ex *codeExtractor) walk(node *sitter.Node) {
	if node == nil {
		return
	}

	switch node.Kind() {
	case "function_declaration", "generator_function_declaration":
		ex.addFunction(node, ex.nodeName(node), "")

	case "arrow_function", "function_expression", "function", "generator_function":
		name, owner := boundName(node, ex.content)
		if name != "" {
			ex.addFunction(node, name, owner)
		}

	case "method_definition":
		owner := ex.enclosingClassName(node)
		name := ex.nodeName(node)
		if name != "" {
			full := name
			if owner != "" {
				full = owner + "." + name
			}
			ex.addFunction(node, full, owner)
		}

	case "class_declaration", "class":
		ex.addClass(node)

	case "import_statement":
		ex.addImport(node)

	case "export_statement":
		ex.addExport(node)

	case "lexical_declaration", "variable_declaration":
		ex.addVariables(node)

	case "call_expression":
		callee := treesitter.NodeText(node.ChildByFieldName("function"), ex.content)
		if hookNameRe.MatchString(callee) {
			ex.hooks[callee]++
		}
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		ex.walk(node.Child(i))
	}
}

// nodeName returns the text of a node's name field
func (ex *codeExtractor) nodeName(node *sitter.Node) string {
	return treesitter.NodeText(node.ChildByFieldName("name"), ex.content)
}

func (ex *codeExtractor) enclosingClassName(node *sitter.Node) string {
	for _, kind := range []string{"class_declaration", "class"} {
		if cls := treesitter.FindAncestor(node, kind); cls != nil {
			return treesitter.NodeText(cls.ChildByFieldName("name"), ex.content)
		}
	}
	return ""
}

// boundName resolves the name an anonymous function is bound to:
// a variable declarator, an assignment target, or an object key.
// Returns empty for truly anonymous functions (callbacks).
func boundName(node *sitter.Node, content []byte) (name, owner string) {
	parent := node.Parent()
	if parent == nil {
		return "", ""
	}
	switch parent.Kind() {
	case "variable_declarator":
		return treesitter.NodeText(parent.ChildByFieldName("name"), content), ""
	case "assignment_expression":
		return treesitter.NodeText(parent.ChildByFieldName("left"), content), ""
	case "pair":
		return treesitter.NodeText(parent.ChildByFieldName("key"), content), ""
	}
	return "", ""
}

func (ex *codeExtractor) addFunction(node *sitter.Node, name, owner string) {
	if name == "" {
		return
	}

	body := node.ChildByFieldName("body")
	stats := analyzeBody(body, ex.content)

	entity := model.Entity{
		Kind:        model.KindFunction,
		IdentityKey: name,
		Location:    location(node),
		Params:      extractParams(node.ChildByFieldName("parameters"), ex.content),
		Async:       hasTokenChild(node, "async"),
		Generator:   isGenerator(node),
		HasReturn:   stats.hasReturn,
		CallsAPI:    stats.callsAPI,
		Complexity:  stats.complexity,
		MethodOwner: owner,
		IsStatic:    hasTokenChild(node, "static"),
	}

	// A capitalized function whose body yields markup is a component.
	if owner == "" && isCapitalized(name) && stats.returnsMarkup {
		entity.Kind = model.KindComponent
		entity.IsComponent = true
	}

	ex.mdl.Add(entity)
}

func (ex *codeExtractor) addClass(node *sitter.Node) {
	name := ex.nodeName(node)
	if name == "" {
		return
	}

	superclass := superclassName(node, ex.content)

	entity := model.Entity{
		Kind:        model.KindClass,
		IdentityKey: name,
		Location:    location(node),
		Superclass:  superclass,
	}
	if componentBases[superclass] {
		entity.Kind = model.KindComponent
		entity.IsComponent = true
	}

	ex.mdl.Add(entity)
}

// superclassName finds the extends expression of a class, if any
func superclassName(node *sitter.Node, content []byte) string {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil || child.Kind() != "class_heritage" {
			continue
		}
		// JS: class_heritage wraps the expression directly.
		// TS: class_heritage contains an extends_clause.
		text := treesitter.NodeText(child, content)
		text = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text), "extends"))
		// Drop implements clauses and type arguments.
		if idx := strings.Index(text, " implements "); idx >= 0 {
			text = text[:idx]
		}
		if idx := strings.Index(text, "<"); idx >= 0 {
			text = text[:idx]
		}
		return strings.TrimSpace(text)
	}
	return ""
}

func (ex *codeExtractor) addImport(node *sitter.Node) {
	source := strings.Trim(treesitter.NodeText(node.ChildByFieldName("source"), ex.content), "\"'`")
	if source == "" {
		return
	}

	var bindings []string
	treesitter.Walk(node, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "import_specifier":
			name := treesitter.NodeText(n.ChildByFieldName("alias"), ex.content)
			if name == "" {
				name = treesitter.NodeText(n.ChildByFieldName("name"), ex.content)
			}
			if name != "" {
				bindings = append(bindings, name)
			}
			return false
		case "namespace_import":
			for _, c := range treesitter.NamedChildren(n) {
				if c.Kind() == "identifier" {
					bindings = append(bindings, c.Kind())
					bindings[len(bindings)-1] = treesitter.NodeText(c, ex.content)
				}
			}
			return false
		case "identifier":
			// Default import binding sits directly under the clause.
			if p := n.Parent(); p != nil && p.Kind() == "import_clause" {
				bindings = append(bindings, treesitter.NodeText(n, ex.content))
			}
			return false
		}
		return true
	})

	ex.mdl.Add(model.Entity{
		Kind:        model.KindImport,
		IdentityKey: source,
		Location:    location(node),
		Source:      source,
		Bindings:    bindings,
		IsFramework: isFrameworkSource(source),
	})
}

func isFrameworkSource(source string) bool {
	if frameworkSources[source] {
		return true
	}
	return strings.HasPrefix(source, "react/") || strings.HasPrefix(source, "react-dom/")
}

func (ex *codeExtractor) addExport(node *sitter.Node) {
	isDefault := hasTokenChild(node, "default")

	// export default <expr> or export default function/class
	if isDefault {
		name := "default"
		if decl := node.ChildByFieldName("declaration"); decl != nil {
			if n := treesitter.NodeText(decl.ChildByFieldName("name"), ex.content); n != "" {
				name = n
			}
		} else {
			for _, c := range treesitter.NamedChildren(node) {
				if c.Kind() == "identifier" {
					name = treesitter.NodeText(c, ex.content)
				}
			}
		}
		ex.mdl.Add(model.Entity{
			Kind:        model.KindExport,
			IdentityKey: name,
			Location:    location(node),
			IsDefault:   true,
		})
		return
	}

	// export { a, b as c } or export const/function/class ...
	var names []string
	if decl := node.ChildByFieldName("declaration"); decl != nil {
		if n := treesitter.NodeText(decl.ChildByFieldName("name"), ex.content); n != "" {
			names = append(names, n)
		} else {
			// export const a = 1, b = 2
			treesitter.Walk(decl, func(n *sitter.Node) bool {
				if n.Kind() == "variable_declarator" {
					if name := treesitter.NodeText(n.ChildByFieldName("name"), ex.content); name != "" {
						names = append(names, name)
					}
					return false
				}
				return true
			})
		}
	}
	treesitter.Walk(node, func(n *sitter.Node) bool {
		if n.Kind() == "export_specifier" {
			name := treesitter.NodeText(n.ChildByFieldName("alias"), ex.content)
			if name == "" {
				name = treesitter.NodeText(n.ChildByFieldName("name"), ex.content)
			}
			if name != "" {
				names = append(names, name)
			}
			return false
		}
		return true
	})

	source := strings.Trim(treesitter.NodeText(node.ChildByFieldName("source"), ex.content), "\"'`")
	for _, name := range names {
		ex.mdl.Add(model.Entity{
			Kind:        model.KindExport,
			IdentityKey: name,
			Location:    location(node),
			Source:      source,
		})
	}
}

// addVariables records declarators that do not bind a function; those
// are reported as functions by the arrow/function_expression cases.
func (ex *codeExtractor) addVariables(node *sitter.Node) {
	// Skip declarations nested inside function bodies; only module-level
	// bindings are structural entities.
	if treesitter.FindAncestor(node, "statement_block") != nil {
		return
	}

	for _, decl := range treesitter.NamedChildren(node) {
		if decl.Kind() != "variable_declarator" {
			continue
		}
		value := decl.ChildByFieldName("value")
		if value != nil {
			switch value.Kind() {
			case "arrow_function", "function_expression", "function", "generator_function":
				continue
			}
		}
		name := treesitter.NodeText(decl.ChildByFieldName("name"), ex.content)
		if name == "" {
			continue
		}
		ex.mdl.Add(model.Entity{
			Kind:        model.KindVariable,
			IdentityKey: name,
			Location:    location(decl),
		})
	}
}

// bodyStats aggregates everything a single pass over a function body
// needs to know. Nested function subtrees are skipped so their
// branches attribute to the inner function, not this one.
type bodyStats struct {
	complexity    int
	hasReturn     bool
	callsAPI      bool
	returnsMarkup bool
}

func analyzeBody(body *sitter.Node, content []byte) bodyStats {
	stats := bodyStats{complexity: 1}
	if body == nil {
		return stats
	}

	// An expression-bodied arrow returning JSX is a markup return.
	switch body.Kind() {
	case "jsx_element", "jsx_self_closing_element", "jsx_fragment", "parenthesized_expression":
		if containsMarkup(body) {
			stats.returnsMarkup = true
		}
	}

	var scan func(node *sitter.Node, top bool)
	scan = func(node *sitter.Node, top bool) {
		if node == nil {
			return
		}
		if !top {
			switch node.Kind() {
			case "function_declaration", "generator_function_declaration",
				"arrow_function", "function_expression", "function",
				"generator_function", "method_definition", "class_declaration", "class":
				return
			}
		}

		switch node.Kind() {
		case "if_statement", "ternary_expression", "switch_case",
			"for_statement", "for_in_statement", "for_of_statement",
			"while_statement", "do_statement", "catch_clause":
			stats.complexity++
		case "binary_expression":
			op := treesitter.NodeText(node.ChildByFieldName("operator"), content)
			if op == "&&" || op == "||" {
				stats.complexity++
			}
		case "return_statement":
			stats.hasReturn = true
			if containsMarkup(node) {
				stats.returnsMarkup = true
			}
		case "call_expression":
			if isAPICall(node, content) {
				stats.callsAPI = true
			}
		case "jsx_element", "jsx_self_closing_element", "jsx_fragment":
			// Implicit markup return from an expression-bodied arrow.
			if top {
				stats.returnsMarkup = true
			}
		}

		for i := uint(0); i < node.ChildCount(); i++ {
			scan(node.Child(i), false)
		}
	}
	scan(body, true)

	return stats
}

func containsMarkup(node *sitter.Node) bool {
	found := false
	treesitter.Walk(node, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "jsx_element", "jsx_self_closing_element", "jsx_fragment":
			found = true
			return false
		}
		return !found
	})
	return found
}

// isAPICall reports whether a call's callee matches the API vocabulary,
// either as a bare name (fetch(...)) or a member access (axios.get(...)).
func isAPICall(call *sitter.Node, content []byte) bool {
	callee := call.ChildByFieldName("function")
	if callee == nil {
		return false
	}

	switch callee.Kind() {
	case "identifier":
		return apiCallees[treesitter.NodeText(callee, content)]
	case "member_expression":
		object := treesitter.NodeText(callee.ChildByFieldName("object"), content)
		property := treesitter.NodeText(callee.ChildByFieldName("property"), content)
		return apiCallees[object] || apiCallees[property]
	}
	return false
}

// extractParams builds parameter descriptors from a formal_parameters node
func extractParams(params *sitter.Node, content []byte) []model.Param {
	if params == nil {
		return nil
	}

	var out []model.Param
	for _, p := range treesitter.NamedChildren(params) {
		// TypeScript wraps each parameter; unwrap to the pattern.
		node := p
		if node.Kind() == "required_parameter" || node.Kind() == "optional_parameter" {
			if inner := node.ChildByFieldName("pattern"); inner != nil {
				node = inner
			}
		}

		switch node.Kind() {
		case "identifier":
			out = append(out, model.Param{Name: treesitter.NodeText(node, content)})
		case "assignment_pattern":
			left := node.ChildByFieldName("left")
			right := node.ChildByFieldName("right")
			param := model.Param{
				Name:             treesitter.NodeText(left, content),
				HasDefault:       true,
				DefaultIsLiteral: isLiteral(right),
			}
			if left != nil && (left.Kind() == "object_pattern" || left.Kind() == "array_pattern") {
				param.IsDestructured = true
				param.Members = patternMembers(left, content)
				param.Name = "{" + strings.Join(param.Members, ", ") + "}"
			}
			out = append(out, param)
		case "rest_pattern":
			name := ""
			for _, c := range treesitter.NamedChildren(node) {
				name = treesitter.NodeText(c, content)
			}
			out = append(out, model.Param{Name: name, IsRest: true})
		case "object_pattern", "array_pattern":
			members := patternMembers(node, content)
			out = append(out, model.Param{
				Name:           "{" + strings.Join(members, ", ") + "}",
				IsDestructured: true,
				Members:        members,
			})
		}
	}
	return out
}

func patternMembers(pattern *sitter.Node, content []byte) []string {
	var members []string
	treesitter.Walk(pattern, func(n *sitter.Node) bool {
		switch n.Kind() {
		case "shorthand_property_identifier_pattern", "identifier":
			members = append(members, treesitter.NodeText(n, content))
			return false
		case "pair_pattern":
			if v := n.ChildByFieldName("value"); v != nil {
				members = append(members, treesitter.NodeText(v, content))
			}
			return false
		}
		return true
	})
	return members
}

func isLiteral(node *sitter.Node) bool {
	if node == nil {
		return false
	}
	switch node.Kind() {
	case "string", "number", "true", "false", "null", "undefined", "template_string":
		return true
	}
	return false
}

// hasTokenChild reports whether a node carries a bare keyword token
// child (async, static, default)
func hasTokenChild(node *sitter.Node, token string) bool {
	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil && child.Kind() == token {
			return true
		}
	}
	return false
}

func isGenerator(node *sitter.Node) bool {
	switch node.Kind() {
	case "generator_function_declaration", "generator_function":
		return true
	}
	return hasTokenChild(node, "*")
}

func isCapitalized(name string) bool {
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}

func location(node *sitter.Node) model.SourceLocation {
	if node == nil {
		return model.SourceLocation{}
	}
	start := node.StartPosition()
	end := node.EndPosition()
	return model.SourceLocation{
		StartLine: int(start.Row) + 1,
		StartCol:  int(start.Column),
		EndLine:   int(end.Row) + 1,
		EndCol:    int(end.Column),
	}
}
