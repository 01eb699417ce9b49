package surface

import "sort"

// Snapshot is the public API surface of one component set, keyed by
// fully-qualified type name. A snapshot is built once by a loader and is
// treated as read-only afterwards.
type Snapshot struct {
	// Origin describes where the surface came from (directory, module@version, file).
	Origin string `json:"origin" yaml:"origin" msgpack:"origin"`
	// Markers lists the origin-qualifier suffixes the loader wrote into
	// type references, e.g. ", github.com/acme/foo".
	Markers []string                   `json:"markers,omitempty" yaml:"markers,omitempty" msgpack:"markers,omitempty"`
	Types   map[string]*TypeDescriptor `json:"types" yaml:"types" msgpack:"types"`
}

// NewSnapshot creates an empty Snapshot for the given origin.
func NewSnapshot(origin string) *Snapshot {
	return &Snapshot{
		Origin: origin,
		Types:  make(map[string]*TypeDescriptor),
	}
}

// TypeNames returns the snapshot keys in ascending order.
func (s *Snapshot) TypeNames() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.Types))
	for name := range s.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the descriptor stored under name, or nil.
func (s *Snapshot) Lookup(name string) *TypeDescriptor {
	if s == nil {
		return nil
	}
	return s.Types[name]
}

// TypeDescriptor describes one exported type. Member slices may hold
// several methods with the same name (overloads).
type TypeDescriptor struct {
	Name       string               `json:"name" yaml:"name" msgpack:"name"`
	Fields     []FieldDescriptor    `json:"fields,omitempty" yaml:"fields,omitempty" msgpack:"fields,omitempty"`
	Properties []PropertyDescriptor `json:"properties,omitempty" yaml:"properties,omitempty" msgpack:"properties,omitempty"`
	Events     []EventDescriptor    `json:"events,omitempty" yaml:"events,omitempty" msgpack:"events,omitempty"`
	Methods    []MethodDescriptor   `json:"methods,omitempty" yaml:"methods,omitempty" msgpack:"methods,omitempty"`
}

// FieldDescriptor describes a field (or a package-level variable/constant).
type FieldDescriptor struct {
	Name   string `json:"name" yaml:"name" msgpack:"name"`
	Type   string `json:"type" yaml:"type" msgpack:"type"`
	Static bool   `json:"static,omitempty" yaml:"static,omitempty" msgpack:"static,omitempty"`
}

// PropertyDescriptor describes a property. A nil accessor means the
// property has no public getter or setter.
type PropertyDescriptor struct {
	Name   string            `json:"name" yaml:"name" msgpack:"name"`
	Type   string            `json:"type" yaml:"type" msgpack:"type"`
	Getter *MethodDescriptor `json:"getter,omitempty" yaml:"getter,omitempty" msgpack:"getter,omitempty"`
	Setter *MethodDescriptor `json:"setter,omitempty" yaml:"setter,omitempty" msgpack:"setter,omitempty"`
}

// IsStatic reports whether either accessor is static.
func (p *PropertyDescriptor) IsStatic() bool {
	return (p.Getter != nil && p.Getter.Static) || (p.Setter != nil && p.Setter.Static)
}

// EventDescriptor describes an event. Static is taken from the add accessor.
type EventDescriptor struct {
	Name        string `json:"name" yaml:"name" msgpack:"name"`
	HandlerType string `json:"handler_type" yaml:"handler_type" msgpack:"handler_type"`
	Static      bool   `json:"static,omitempty" yaml:"static,omitempty" msgpack:"static,omitempty"`
}

// MethodDescriptor describes a method or function.
type MethodDescriptor struct {
	Name       string `json:"name" yaml:"name" msgpack:"name"`
	ReturnType string `json:"return_type" yaml:"return_type" msgpack:"return_type"`
	Static     bool   `json:"static,omitempty" yaml:"static,omitempty" msgpack:"static,omitempty"`
	// Accessor marks compiler-generated property/event/indexer accessors.
	// They never take part in method comparison.
	Accessor   bool                  `json:"accessor,omitempty" yaml:"accessor,omitempty" msgpack:"accessor,omitempty"`
	Parameters []ParameterDescriptor `json:"parameters,omitempty" yaml:"parameters,omitempty" msgpack:"parameters,omitempty"`
}

// ParameterDescriptor describes one positional parameter.
type ParameterDescriptor struct {
	Name     string `json:"name,omitempty" yaml:"name,omitempty" msgpack:"name,omitempty"`
	Type     string `json:"type" yaml:"type" msgpack:"type"`
	Out      bool   `json:"out,omitempty" yaml:"out,omitempty" msgpack:"out,omitempty"`
	Retval   bool   `json:"retval,omitempty" yaml:"retval,omitempty" msgpack:"retval,omitempty"`
	Optional bool   `json:"optional,omitempty" yaml:"optional,omitempty" msgpack:"optional,omitempty"`
}
