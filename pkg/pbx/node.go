package pbx

// Node is a single typed record in the document graph.
type Node struct {
	// ID is the node's identifier: opaque, unique within the document, and
	// stable for the node's lifetime. Never reused after removal within one
	// session.
	ID string

	// Kind is the record type (the serialized "isa" field).
	Kind Kind

	// Name is the optional human-readable label used for serialized comments.
	// It is never used for identity or lookup. When empty, the writer
	// synthesizes a label from the node's fields.
	Name string

	// Fields holds every field except "isa", in serialization order.
	Fields *Object
}

// NewNode creates a node of the given kind with an empty field table.
func NewNode(id string, kind Kind) *Node {
	return &Node{ID: id, Kind: kind, Fields: NewObject()}
}

// Set stores a field value and returns the node for chaining.
func (n *Node) Set(field string, v Value) *Node {
	n.Fields.Set(field, v)
	return n
}

// SetString stores a scalar string field.
func (n *Node) SetString(field, text string) *Node {
	return n.Set(field, String{Text: text})
}

// SetRef stores a scalar reference field.
func (n *Node) SetRef(field, id string) *Node {
	return n.Set(field, Ref{ID: id})
}

// String returns the text of a scalar field, or "".
func (n *Node) String(field string) string { return n.Fields.GetString(field) }

// Ref returns the identifier of a scalar reference field, or "".
func (n *Node) Ref(field string) string { return n.Fields.GetRef(field) }

// List returns the list stored under field, creating it if absent.
func (n *Node) List(field string) *List {
	if l := n.Fields.GetList(field); l != nil {
		return l
	}
	l := &List{}
	n.Fields.Set(field, l)
	return l
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	return &Node{
		ID:     n.ID,
		Kind:   n.Kind,
		Name:   n.Name,
		Fields: n.Fields.Clone().(*Object),
	}
}
