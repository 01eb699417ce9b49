package surface

// DefaultIndexerName is the property name treated as an indexer.
const DefaultIndexerName = "Item"

// Comparer decides whether two same-named members of matched types are the
// same API element. Every predicate returns true when the members differ.
type Comparer struct {
	norm        Normalizer
	indexerName string
}

// NewComparer creates a Comparer. An empty indexerName selects DefaultIndexerName.
func NewComparer(norm Normalizer, indexerName string) Comparer {
	if indexerName == "" {
		indexerName = DefaultIndexerName
	}
	return Comparer{norm: norm, indexerName: indexerName}
}

// Normalizer returns the normalizer used for type-name comparison.
func (c Comparer) Normalizer() Normalizer {
	return c.norm
}

func (c Comparer) sameType(a, b string) bool {
	return c.norm.Normalize(a) == c.norm.Normalize(b)
}

// FieldsDifferent compares name, declared type and staticness.
func (c Comparer) FieldsDifferent(a, b *FieldDescriptor) bool {
	if a == nil || b == nil {
		return a != b
	}
	if a.Name != b.Name {
		return true
	}
	if !c.sameType(a.Type, b.Type) {
		return true
	}
	return a.Static != b.Static
}

// PropertiesDifferent compares name, property type and both accessors.
// Two indexer properties are always considered equivalent.
func (c Comparer) PropertiesDifferent(a, b *PropertyDescriptor) bool {
	if a == nil || b == nil {
		return a != b
	}
	if a.Name != b.Name {
		return true
	}
	// Known leniency: indexer signatures are not compared.
	if a.Name == c.indexerName && b.Name == c.indexerName {
		return false
	}
	if !c.sameType(a.Type, b.Type) {
		return true
	}
	if c.MethodsDifferent(a.Getter, b.Getter) {
		return true
	}
	return c.MethodsDifferent(a.Setter, b.Setter)
}

// EventsDifferent compares name, handler type and the add accessor's staticness.
func (c Comparer) EventsDifferent(a, b *EventDescriptor) bool {
	if a == nil || b == nil {
		return a != b
	}
	if a.Name != b.Name {
		return true
	}
	if !c.sameType(a.HandlerType, b.HandlerType) {
		return true
	}
	return a.Static != b.Static
}

// MethodsDifferent compares name, return type and the positional parameter
// list. Two nil methods are equivalent. Parameter names are not compared.
func (c Comparer) MethodsDifferent(a, b *MethodDescriptor) bool {
	if a == nil && b == nil {
		return false
	}
	if a == nil || b == nil {
		return true
	}
	if a.Name != b.Name {
		return true
	}
	if !c.sameType(a.ReturnType, b.ReturnType) {
		return true
	}
	if len(a.Parameters) != len(b.Parameters) {
		return true
	}
	for i := range a.Parameters {
		pa, pb := &a.Parameters[i], &b.Parameters[i]
		if !c.sameType(pa.Type, pb.Type) {
			return true
		}
		if pa.Retval != pb.Retval || pa.Out != pb.Out || pa.Optional != pb.Optional {
			return true
		}
	}
	return false
}
