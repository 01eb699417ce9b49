package surface

import (
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Option configures a Differ.
type Option func(*Differ)

// WithMarkers adds origin-qualifier markers to the Differ's normalizer.
func WithMarkers(markers ...string) Option {
	return func(d *Differ) {
		d.norm = d.norm.With(markers...)
	}
}

// WithNormalizer replaces the Differ's normalizer.
func WithNormalizer(n Normalizer) Option {
	return func(d *Differ) {
		d.norm = n
	}
}

// WithIndexerName sets the property name that gets indexer leniency.
func WithIndexerName(name string) Option {
	return func(d *Differ) {
		d.indexerName = name
	}
}

// WithJobs sets how many types are compared concurrently. Values below 1
// select runtime.GOMAXPROCS(0).
func WithJobs(n int) Option {
	return func(d *Differ) {
		d.jobs = n
	}
}

// WithRenameHints enables rename suggestions on type discrepancies.
func WithRenameHints(enabled bool) Option {
	return func(d *Differ) {
		d.renameHints = enabled
	}
}

// Differ compares two snapshots. It is stateless between calls and never
// modifies its inputs.
type Differ struct {
	norm        Normalizer
	indexerName string
	jobs        int
	renameHints bool
}

// NewDiffer creates a Differ. By default it compares types sequentially
// and uses DefaultIndexerName.
func NewDiffer(opts ...Option) *Differ {
	d := &Differ{
		indexerName: DefaultIndexerName,
		jobs:        1,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.jobs < 1 {
		d.jobs = runtime.GOMAXPROCS(0)
	}
	return d
}

// Diff produces the discrepancy report of cand against ref. Markers
// recorded in either snapshot are added to the configured normalizer.
func (d *Differ) Diff(ref, cand *Snapshot) *Report {
	norm := d.norm
	if ref != nil {
		norm = norm.With(ref.Markers...)
	}
	if cand != nil {
		norm = norm.With(cand.Markers...)
	}
	c := NewComparer(norm, d.indexerName)

	report := &Report{
		TypesNotInCandidate:   onlyIn(ref, cand),
		TypesExtraInCandidate: onlyIn(cand, ref),
	}

	var matched []string
	for _, name := range ref.TypeNames() {
		if cand.Lookup(name) != nil {
			matched = append(matched, name)
		}
	}

	// Each slot is written by exactly one goroutine.
	results := make([]TypeDiscrepancy, len(matched))
	compare := func(i int) {
		name := matched[i]
		results[i] = d.compareTypes(c, name, ref.Lookup(name), cand.Lookup(name))
	}

	if d.jobs == 1 || len(matched) < 2 {
		for i := range matched {
			compare(i)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(min(d.jobs, len(matched)))
		for i := range matched {
			g.Go(func() error {
				compare(i)
				return nil
			})
		}
		_ = g.Wait() // compare never fails
	}

	for i := range results {
		if !results[i].IsEmpty() {
			report.TypeComparisons = append(report.TypeComparisons, results[i])
		}
	}
	return report
}

// onlyIn returns the sorted type names of a that are absent from b.
func onlyIn(a, b *Snapshot) []string {
	var names []string
	for _, name := range a.TypeNames() {
		if b.Lookup(name) == nil {
			names = append(names, name)
		}
	}
	return names
}

// member is a rendered discrepancy entry.
type member struct {
	kind  MemberKind
	name  string
	sig   string
	types []string // normalized parameter and return types, methods only
}

func (d *Differ) compareTypes(c Comparer, name string, ref, cand *TypeDescriptor) TypeDiscrepancy {
	norm := c.Normalizer()
	td := TypeDiscrepancy{TypeName: name}

	fieldMember := func(f *FieldDescriptor) member {
		return member{kind: MemberField, name: f.Name, sig: FieldSignature(norm, f)}
	}
	propertyMember := func(p *PropertyDescriptor) member {
		return member{kind: MemberProperty, name: p.Name, sig: PropertySignature(norm, p)}
	}
	eventMember := func(e *EventDescriptor) member {
		return member{kind: MemberEvent, name: e.Name, sig: EventSignature(norm, e)}
	}
	methodMember := func(m *MethodDescriptor) member {
		return member{kind: MemberMethod, name: m.Name, sig: MethodSignature(norm, m), types: methodTypes(norm, m)}
	}

	fieldByName := byName(func(f *FieldDescriptor) string { return f.Name })
	propertyByName := byName(func(p *PropertyDescriptor) string { return p.Name })
	eventByName := byName(func(e *EventDescriptor) string { return e.Name })

	missingFields := mapMembers(unmatched(ref.Fields, cand.Fields, fieldByName, c.FieldsDifferent), fieldMember)
	extraFields := mapMembers(unmatched(cand.Fields, ref.Fields, fieldByName, c.FieldsDifferent), fieldMember)

	missingProps := mapMembers(unmatched(ref.Properties, cand.Properties, propertyByName, c.PropertiesDifferent), propertyMember)
	extraProps := mapMembers(unmatched(cand.Properties, ref.Properties, propertyByName, c.PropertiesDifferent), propertyMember)

	missingEvents := mapMembers(unmatched(ref.Events, cand.Events, eventByName, c.EventsDifferent), eventMember)
	extraEvents := mapMembers(unmatched(cand.Events, ref.Events, eventByName, c.EventsDifferent), eventMember)

	refMethods, candMethods := comparableMethods(ref.Methods), comparableMethods(cand.Methods)
	missingMethods := mapMembers(unmatched(refMethods, candMethods, c.firstEquivalentMethod, c.MethodsDifferent), methodMember)
	extraMethods := mapMembers(unmatched(candMethods, refMethods, c.firstEquivalentMethod, c.MethodsDifferent), methodMember)

	td.FieldsNotInCandidate = signatures(missingFields)
	td.FieldsExtraInCandidate = signatures(extraFields)
	td.PropertiesNotInCandidate = signatures(missingProps)
	td.PropertiesExtraInCandidate = signatures(extraProps)
	td.EventsNotInCandidate = signatures(missingEvents)
	td.EventsExtraInCandidate = signatures(extraEvents)
	td.MethodsNotInCandidate = signatures(missingMethods)
	td.MethodsExtraInCandidate = signatures(extraMethods)

	if d.renameHints {
		td.RenameHints = append(td.RenameHints, suggestRenames(missingFields, extraFields)...)
		td.RenameHints = append(td.RenameHints, suggestRenames(missingProps, extraProps)...)
		td.RenameHints = append(td.RenameHints, suggestRenames(missingEvents, extraEvents)...)
		td.RenameHints = append(td.RenameHints, suggestRenames(missingMethods, extraMethods)...)
	}

	return td
}

// unmatched returns the members of from whose counterpart in to, as found
// by match, is absent or different.
func unmatched[T any](from, to []T, match func(*T, []T) *T, different func(a, b *T) bool) []*T {
	var out []*T
	for i := range from {
		m := &from[i]
		if different(m, match(m, to)) {
			out = append(out, m)
		}
	}
	return out
}

// byName builds a lookup that returns the first member of to with the same name.
func byName[T any](nameOf func(*T) string) func(*T, []T) *T {
	return func(m *T, to []T) *T {
		name := nameOf(m)
		for i := range to {
			if nameOf(&to[i]) == name {
				return &to[i]
			}
		}
		return nil
	}
}

// firstEquivalentMethod resolves overloads structurally: the first method
// of to that is not different from m. This is a linear scan, so a full
// type comparison is O(n²) in its method count.
func (c Comparer) firstEquivalentMethod(m *MethodDescriptor, to []MethodDescriptor) *MethodDescriptor {
	for i := range to {
		if !c.MethodsDifferent(m, &to[i]) {
			return &to[i]
		}
	}
	return nil
}

// comparableMethods drops property and event accessors.
func comparableMethods(methods []MethodDescriptor) []MethodDescriptor {
	out := make([]MethodDescriptor, 0, len(methods))
	for _, m := range methods {
		if !m.Accessor {
			out = append(out, m)
		}
	}
	return out
}

func mapMembers[T any](items []*T, fn func(*T) member) []member {
	out := make([]member, len(items))
	for i, it := range items {
		out[i] = fn(it)
	}
	return out
}

func methodTypes(n Normalizer, m *MethodDescriptor) []string {
	types := make([]string, 0, len(m.Parameters)+1)
	for _, p := range m.Parameters {
		types = append(types, n.Normalize(p.Type))
	}
	return append(types, n.Normalize(m.ReturnType))
}

// signatures sorts members by name, then by rendered signature, and drops
// repeated signatures. It returns nil for an empty input.
func signatures(members []member) []string {
	if len(members) == 0 {
		return nil
	}
	sorted := append([]member(nil), members...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].name != sorted[j].name {
			return sorted[i].name < sorted[j].name
		}
		return sorted[i].sig < sorted[j].sig
	})

	out := make([]string, 0, len(sorted))
	for i, m := range sorted {
		if i > 0 && m.sig == sorted[i-1].sig {
			continue
		}
		out = append(out, m.sig)
	}
	return out
}
