package extract

import (
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/diffscope/diffscope/internal/grammar"
	"github.com/diffscope/diffscope/internal/model"
	"github.com/diffscope/diffscope/internal/treesitter"
)

// extractMarkup builds MarkupElement entities from an HTML tree.
// Identity is the tag plus its id/class signature so elements diff by
// what they are, not where they sit in the text.
func extractMarkup(path string, content []byte, g grammar.Grammar, root *sitter.Node) *model.StructuralModel {
	mdl := &model.StructuralModel{Path: path, Grammar: string(g)}

	treesitter.Walk(root, func(node *sitter.Node) bool {
		switch node.Kind() {
		case "element", "script_element", "style_element":
			if entity, ok := markupEntity(node, content); ok {
				mdl.Add(entity)
			}
		}
		return true
	})

	return mdl
}

func markupEntity(node *sitter.Node, content []byte) (model.Entity, bool) {
	var tag string
	attrs := map[string]string{}

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		kind := child.Kind()
		if kind != "start_tag" && kind != "self_closing_tag" {
			continue
		}
		for _, tc := range treesitter.NamedChildren(child) {
			switch tc.Kind() {
			case "tag_name":
				tag = treesitter.NodeText(tc, content)
			case "attribute":
				name, value := attributeParts(tc, content)
				if name != "" {
					attrs[name] = value
				}
			}
		}
		break
	}

	if tag == "" {
		return model.Entity{}, false
	}

	return model.Entity{
		Kind:        model.KindMarkupElement,
		IdentityKey: markupIdentity(tag, attrs),
		Location:    location(node),
		Tag:         tag,
		Attributes:  attrs,
	}, true
}

func attributeParts(attr *sitter.Node, content []byte) (name, value string) {
	for _, c := range treesitter.NamedChildren(attr) {
		switch c.Kind() {
		case "attribute_name":
			name = treesitter.NodeText(c, content)
		case "attribute_value":
			value = treesitter.NodeText(c, content)
		case "quoted_attribute_value":
			value = strings.Trim(treesitter.NodeText(c, content), `"'`)
		}
	}
	return name, value
}

// markupIdentity builds the tag+attribute signature: tag, then #id,
// then sorted .classes
func markupIdentity(tag string, attrs map[string]string) string {
	var sb strings.Builder
	sb.WriteString(tag)
	if id, ok := attrs["id"]; ok && id != "" {
		sb.WriteString("#" + id)
	}
	if class, ok := attrs["class"]; ok && class != "" {
		classes := strings.Fields(class)
		sort.Strings(classes)
		for _, c := range classes {
			sb.WriteString("." + c)
		}
	}
	return sb.String()
}
