package surface

// MemberKind identifies which member list a discrepancy belongs to.
type MemberKind string

const (
	MemberField    MemberKind = "field"
	MemberProperty MemberKind = "property"
	MemberEvent    MemberKind = "event"
	MemberMethod   MemberKind = "method"
)

// Report is the full set of discrepancies between a reference and a
// candidate surface.
type Report struct {
	TypesNotInCandidate   []string          `json:"types_not_in_candidate" yaml:"types_not_in_candidate"`
	TypesExtraInCandidate []string          `json:"types_extra_in_candidate" yaml:"types_extra_in_candidate"`
	TypeComparisons       []TypeDiscrepancy `json:"type_comparisons" yaml:"type_comparisons"`
}

// IsEmpty reports whether the two surfaces matched completely.
func (r *Report) IsEmpty() bool {
	return len(r.TypesNotInCandidate) == 0 &&
		len(r.TypesExtraInCandidate) == 0 &&
		len(r.TypeComparisons) == 0
}

// Count returns the total number of reported types and members.
func (r *Report) Count() int {
	n := len(r.TypesNotInCandidate) + len(r.TypesExtraInCandidate)
	for i := range r.TypeComparisons {
		n += r.TypeComparisons[i].Count()
	}
	return n
}

// TypeDiscrepancy lists the members of one type, present in both surfaces,
// that are missing from or extra in the candidate. Entries are rendered
// member signatures.
type TypeDiscrepancy struct {
	TypeName string `json:"type_name" yaml:"type_name"`

	FieldsNotInCandidate   []string `json:"fields_not_in_candidate,omitempty" yaml:"fields_not_in_candidate,omitempty"`
	FieldsExtraInCandidate []string `json:"fields_extra_in_candidate,omitempty" yaml:"fields_extra_in_candidate,omitempty"`

	PropertiesNotInCandidate   []string `json:"properties_not_in_candidate,omitempty" yaml:"properties_not_in_candidate,omitempty"`
	PropertiesExtraInCandidate []string `json:"properties_extra_in_candidate,omitempty" yaml:"properties_extra_in_candidate,omitempty"`

	EventsNotInCandidate   []string `json:"events_not_in_candidate,omitempty" yaml:"events_not_in_candidate,omitempty"`
	EventsExtraInCandidate []string `json:"events_extra_in_candidate,omitempty" yaml:"events_extra_in_candidate,omitempty"`

	MethodsNotInCandidate   []string `json:"methods_not_in_candidate,omitempty" yaml:"methods_not_in_candidate,omitempty"`
	MethodsExtraInCandidate []string `json:"methods_extra_in_candidate,omitempty" yaml:"methods_extra_in_candidate,omitempty"`

	// RenameHints pairs missing and extra members that look like renames.
	// Only filled when rename hints are enabled on the Differ.
	RenameHints []RenameHint `json:"rename_hints,omitempty" yaml:"rename_hints,omitempty"`
}

// IsEmpty reports whether all eight member lists are empty.
func (t *TypeDiscrepancy) IsEmpty() bool {
	return len(t.FieldsNotInCandidate) == 0 &&
		len(t.FieldsExtraInCandidate) == 0 &&
		len(t.PropertiesNotInCandidate) == 0 &&
		len(t.PropertiesExtraInCandidate) == 0 &&
		len(t.EventsNotInCandidate) == 0 &&
		len(t.EventsExtraInCandidate) == 0 &&
		len(t.MethodsNotInCandidate) == 0 &&
		len(t.MethodsExtraInCandidate) == 0
}

// Count returns the number of member entries across the eight lists.
func (t *TypeDiscrepancy) Count() int {
	return len(t.FieldsNotInCandidate) + len(t.FieldsExtraInCandidate) +
		len(t.PropertiesNotInCandidate) + len(t.PropertiesExtraInCandidate) +
		len(t.EventsNotInCandidate) + len(t.EventsExtraInCandidate) +
		len(t.MethodsNotInCandidate) + len(t.MethodsExtraInCandidate)
}

// RenameHint suggests that a member missing from the candidate may have been
// renamed to a member that is extra in the candidate.
type RenameHint struct {
	Kind  MemberKind `json:"kind" yaml:"kind"`
	From  string     `json:"from" yaml:"from"`
	To    string     `json:"to" yaml:"to"`
	Score float64    `json:"score" yaml:"score"`
}
