package surface

import "strings"

const staticPrefix = "static "

// FieldSignature renders "[static ]<type> <name>".
func FieldSignature(n Normalizer, f *FieldDescriptor) string {
	sig := n.Normalize(f.Type) + " " + f.Name
	if f.Static {
		sig = staticPrefix + sig
	}
	return sig
}

// PropertySignature renders "[static ]<type> <name> { [get; ][set; ]}".
func PropertySignature(n Normalizer, p *PropertyDescriptor) string {
	var b strings.Builder
	if p.IsStatic() {
		b.WriteString(staticPrefix)
	}
	b.WriteString(n.Normalize(p.Type))
	b.WriteString(" ")
	b.WriteString(p.Name)
	b.WriteString(" {")
	if p.Getter != nil {
		b.WriteString(" get;")
	}
	if p.Setter != nil {
		b.WriteString(" set;")
	}
	b.WriteString(" }")
	return b.String()
}

// EventSignature renders "[static ]<handlerType> <name>".
func EventSignature(n Normalizer, e *EventDescriptor) string {
	sig := n.Normalize(e.HandlerType) + " " + e.Name
	if e.Static {
		sig = staticPrefix + sig
	}
	return sig
}

// MethodSignature renders "[static ]<returnType> <name>(<params>)". Output
// parameters are prefixed with "out", by-reference return parameters with "ref".
func MethodSignature(n Normalizer, m *MethodDescriptor) string {
	var b strings.Builder
	if m.Static {
		b.WriteString(staticPrefix)
	}
	b.WriteString(n.Normalize(m.ReturnType))
	b.WriteString(" ")
	b.WriteString(m.Name)
	b.WriteString("(")
	for i := range m.Parameters {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(parameterSignature(n, &m.Parameters[i]))
	}
	b.WriteString(")")
	return b.String()
}

func parameterSignature(n Normalizer, p *ParameterDescriptor) string {
	s := n.Normalize(p.Type)
	if p.Name != "" {
		s += " " + p.Name
	}
	switch {
	case p.Out:
		s = "out " + s
	case p.Retval:
		s = "ref " + s
	}
	return s
}
