package treesitter

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// NodeText extracts text from a node using byte offsets
func NodeText(node *sitter.Node, content []byte) string {
	if node == nil {
		return ""
	}
	start := node.StartByte()
	end := node.EndByte()
	if int(end) > len(content) {
		end = uint(len(content))
	}
	if start >= end {
		return ""
	}
	return string(content[start:end])
}

// Walk calls visit on node and every descendant in document order.
// visit returning false prunes the subtree.
func Walk(node *sitter.Node, visit func(*sitter.Node) bool) {
	if node == nil {
		return
	}
	if !visit(node) {
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		Walk(node.Child(i), visit)
	}
}

// NamedChildren returns the named children of a node
func NamedChildren(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	count := node.NamedChildCount()
	out := make([]*sitter.Node, 0, count)
	for i := uint(0); i < count; i++ {
		if child := node.NamedChild(i); child != nil {
			out = append(out, child)
		}
	}
	return out
}

// FindAncestor walks up from node to the first ancestor of the given
// kind, or nil
func FindAncestor(node *sitter.Node, kind string) *sitter.Node {
	current := node.Parent()
	for current != nil {
		if current.Kind() == kind {
			return current
		}
		current = current.Parent()
	}
	return nil
}
