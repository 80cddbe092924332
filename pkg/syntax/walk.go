package syntax

// Walk traverses the tree rooted at n in depth-first order, calling fn for
// each node. When fn returns false the node's subtree is skipped.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil {
		return
	}
	if !fn(n) {
		return
	}
	for _, c := range n.Children() {
		Walk(c, fn)
	}
}

// Blocks returns the template_block nodes directly under a source_file root,
// in source order.
func Blocks(root *Node) []*Node {
	var blocks []*Node
	for _, c := range root.Children() {
		if c.Kind == KindBlock {
			blocks = append(blocks, c)
		}
	}
	return blocks
}
