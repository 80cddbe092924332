package syntax

// Node is a single node in the concrete syntax tree.
//
// Nodes carry byte ranges into the tree's content buffer, an ordered child
// list, and optional named fields ("condition", "body", ...). The API mirrors
// the tree-sitter node surface so the rest of the engine is insulated from
// how the tree was produced.
type Node struct {
	// Type is the grammar rule name as reported by the parser.
	Type string

	// Kind is the closed-enumeration mapping of Type, assigned once at
	// construction via KindOf.
	Kind NodeKind

	// StartByte and EndByte delimit this node's source range
	// (inclusive/exclusive).
	StartByte int
	EndByte   int

	children []*Node
	fields   map[string]*Node
}

func newNode(typeName string, start, end int) *Node {
	return &Node{
		Type:      typeName,
		Kind:      KindOf(typeName),
		StartByte: start,
		EndByte:   end,
	}
}

// ChildCount returns the number of ordered children.
func (n *Node) ChildCount() int {
	return len(n.children)
}

// Child returns the i-th child, or nil when i is out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Children returns the ordered child slice. Callers must not mutate it.
func (n *Node) Children() []*Node {
	return n.children
}

// ChildByFieldName returns the named field child, or nil when absent.
func (n *Node) ChildByFieldName(name string) *Node {
	if n.fields == nil {
		return nil
	}
	return n.fields[name]
}

// Len returns the length of this node's source range in bytes.
func (n *Node) Len() int {
	return n.EndByte - n.StartByte
}

func (n *Node) addChild(child *Node) {
	if child == nil {
		return
	}
	n.children = append(n.children, child)
}

// setField records a named field. The field node is not added to the ordered
// child list; structural children and fields are disjoint, as in the grammar.
func (n *Node) setField(name string, child *Node) {
	if child == nil {
		return
	}
	if n.fields == nil {
		n.fields = make(map[string]*Node)
	}
	n.fields[name] = child
}
