package surface

import "testing"

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"abc", "abc", 0},
		{"abc", "abd", 1},
		{"kitten", "sitting", 3},
		{"Get", "Set", 1},
		{"ProcessRequest", "ProcessReq", 4},
	}
	for _, tt := range tests {
		got := levenshteinDistance(tt.a, tt.b)
		if got != tt.want {
			t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestNameSimilarity(t *testing.T) {
	tests := []struct {
		a, b    string
		wantMin float64
		wantMax float64
	}{
		{"abc", "abc", 1.0, 1.0},
		{"", "", 1.0, 1.0},
		{"Get", "Set", 0.60, 0.70},
		{"ProcessRequest", "ProcessReq", 0.70, 0.75},
		{"Initialize", "Initialise", 0.85, 1.0},
	}
	for _, tt := range tests {
		got := nameSimilarity(tt.a, tt.b)
		if got < tt.wantMin || got > tt.wantMax {
			t.Errorf("nameSimilarity(%q, %q) = %.3f, want [%.2f, %.2f]",
				tt.a, tt.b, got, tt.wantMin, tt.wantMax)
		}
	}
}

func TestTypeOverlap(t *testing.T) {
	tests := []struct {
		name string
		a, b []string
		want float64
	}{
		{"identical", []string{"int", "string", "error"}, []string{"int", "string", "error"}, 1.0},
		{"both_empty", nil, nil, 1.0},
		{"one_empty", []string{"int"}, nil, 0.0},
		{"partial_overlap", []string{"int", "string", "error"}, []string{"int", "bool", "error"}, 0.5},
		{"multiset", []string{"int", "int"}, []string{"int"}, 0.5},
		{"no_overlap", []string{"int"}, []string{"string"}, 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := typeOverlap(tt.a, tt.b)
			diff := got - tt.want
			if diff < -0.01 || diff > 0.01 {
				t.Errorf("typeOverlap = %.3f, want %.3f", got, tt.want)
			}
		})
	}
}

func TestSuggestRenames(t *testing.T) {
	missing := []member{
		{kind: MemberMethod, name: "CreateUser", sig: "error CreateUser(int)", types: []string{"int", "error"}},
		{kind: MemberMethod, name: "DeleteUser", sig: "error DeleteUser(int)", types: []string{"int", "error"}},
		{kind: MemberMethod, name: "Get", sig: "int Get(string)", types: []string{"string", "int"}},
	}
	extra := []member{
		{kind: MemberMethod, name: "DeleteUsers", sig: "error DeleteUsers(int)", types: []string{"int", "error"}},
		{kind: MemberMethod, name: "CreateUsers", sig: "error CreateUsers(int)", types: []string{"int", "error"}},
		{kind: MemberMethod, name: "Set", sig: "int Set(string)", types: []string{"string", "int"}},
	}

	hints := suggestRenames(missing, extra)
	if len(hints) != 2 {
		t.Fatalf("expected 2 hints, got %d: %+v", len(hints), hints)
	}
	if hints[0].From != "error CreateUser(int)" || hints[0].To != "error CreateUsers(int)" {
		t.Errorf("first hint: %s -> %s, want CreateUser -> CreateUsers", hints[0].From, hints[0].To)
	}
	if hints[1].From != "error DeleteUser(int)" || hints[1].To != "error DeleteUsers(int)" {
		t.Errorf("second hint: %s -> %s, want DeleteUser -> DeleteUsers", hints[1].From, hints[1].To)
	}
}

func TestSuggestRenames_TypeOverlapGuard(t *testing.T) {
	missing := []member{{kind: MemberMethod, name: "Initialize", sig: "void Initialize()", types: []string{"void"}}}
	extra := []member{{kind: MemberMethod, name: "Initialise", sig: "void Initialise(int, bool)", types: []string{"int", "bool", "void"}}}

	if hints := suggestRenames(missing, extra); len(hints) != 0 {
		t.Errorf("expected no hints for low type overlap, got %+v", hints)
	}

	// Fields have no type overlap requirement.
	fields := []member{{kind: MemberField, name: "Initialize", sig: "int Initialize"}}
	extraFields := []member{{kind: MemberField, name: "Initialise", sig: "long Initialise"}}
	if hints := suggestRenames(fields, extraFields); len(hints) != 1 {
		t.Errorf("expected 1 field hint, got %+v", hints)
	}
}

func TestSuggestRenames_SameNameIsNotARename(t *testing.T) {
	missing := []member{{kind: MemberField, name: "Y", sig: "float Y"}}
	extra := []member{{kind: MemberField, name: "Y", sig: "double Y"}}
	if hints := suggestRenames(missing, extra); len(hints) != 0 {
		t.Errorf("expected no hints, got %+v", hints)
	}
}
