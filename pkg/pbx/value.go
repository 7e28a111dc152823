package pbx

// Value is a field value in a record. The four implementations cover the
// complete shape vocabulary of the wire format: scalar strings, identifier
// references, ordered lists, and nested inline records.
type Value interface {
	isValue()
	// Clone returns a deep copy of the value.
	Clone() Value
}

// String is a scalar value: an unquoted token or a quoted string literal.
// Text holds the decoded content; quoting is reapplied on write.
type String struct {
	Text string
}

// Ref is an identifier token naming another node in the document.
// The inline comment next to a reference is regenerated from the referenced
// node's display name on write and is never stored here.
type Ref struct {
	ID string
}

// List is an ordered sequence of values. Lists used as edge lists hold Ref
// items with no duplicate identifiers.
type List struct {
	Items []Value
}

// Object is a nested inline record with insertion-ordered fields.
type Object struct {
	keys []string
	vals map[string]Value
}

func (String) isValue()  {}
func (Ref) isValue()     {}
func (*List) isValue()   {}
func (*Object) isValue() {}

// Clone returns v unchanged; String values are immutable.
func (v String) Clone() Value { return v }

// Clone returns v unchanged; Ref values are immutable.
func (v Ref) Clone() Value { return v }

// Clone returns a deep copy of the list.
func (v *List) Clone() Value {
	out := &List{Items: make([]Value, len(v.Items))}
	for i, it := range v.Items {
		out.Items[i] = it.Clone()
	}
	return out
}

// NewObject returns an empty ordered field table.
func NewObject() *Object {
	return &Object{vals: make(map[string]Value)}
}

// Clone returns a deep copy of the object.
func (o *Object) Clone() Value {
	out := NewObject()
	for _, k := range o.keys {
		out.Set(k, o.vals[k].Clone())
	}
	return out
}

// Set stores v under key, appending the key to the order if new.
func (o *Object) Set(key string, v Value) {
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = v
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.vals[key]
	return v, ok
}

// Delete removes key and its value. Missing keys are a no-op.
func (o *Object) Delete(key string) {
	if _, ok := o.vals[key]; !ok {
		return
	}
	delete(o.vals, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the field names in insertion order. The slice is shared;
// callers must not modify it.
func (o *Object) Keys() []string { return o.keys }

// Len returns the number of fields.
func (o *Object) Len() int { return len(o.keys) }

// GetString returns the text of a String field, or "" if the field is absent
// or not a String.
func (o *Object) GetString(key string) string {
	if v, ok := o.vals[key]; ok {
		if s, ok := v.(String); ok {
			return s.Text
		}
	}
	return ""
}

// GetRef returns the identifier of a Ref field, or "" if the field is absent
// or not a Ref.
func (o *Object) GetRef(key string) string {
	if v, ok := o.vals[key]; ok {
		if r, ok := v.(Ref); ok {
			return r.ID
		}
	}
	return ""
}

// GetList returns the List stored under key, or nil.
func (o *Object) GetList(key string) *List {
	if v, ok := o.vals[key]; ok {
		if l, ok := v.(*List); ok {
			return l
		}
	}
	return nil
}

// GetObject returns the nested Object stored under key, or nil.
func (o *Object) GetObject(key string) *Object {
	if v, ok := o.vals[key]; ok {
		if n, ok := v.(*Object); ok {
			return n
		}
	}
	return nil
}

// RefIDs returns the identifiers held by an edge-list field in order.
// Non-Ref items are skipped.
func (l *List) RefIDs() []string {
	ids := make([]string, 0, len(l.Items))
	for _, it := range l.Items {
		if r, ok := it.(Ref); ok {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// ContainsRef reports whether the list holds a Ref with the given identifier.
func (l *List) ContainsRef(id string) bool {
	for _, it := range l.Items {
		if r, ok := it.(Ref); ok && r.ID == id {
			return true
		}
	}
	return false
}
