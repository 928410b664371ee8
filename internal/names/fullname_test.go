package names

import "testing"

func TestIsSuffixOf(t *testing.T) {
	full := New([]string{"std", "list"}, "map")
	tests := []struct {
		name string
		n    FullName
		want bool
	}{
		{"bare local matches", Local("map"), true},
		{"wrong local", Local("filter"), false},
		{"one-segment suffix matches", New([]string{"list"}, "map"), true},
		{"full match", New([]string{"std", "list"}, "map"), true},
		{"wrong segment", New([]string{"array"}, "map"), false},
		{"too many segments", New([]string{"a", "std", "list"}, "map"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.n.IsSuffixOf(full); got != tt.want {
				t.Errorf("IsSuffixOf() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStringAndModule(t *testing.T) {
	n := New([]string{"std", "list"}, "map")
	if got, want := n.String(), "std::list::map"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got, want := n.Module(), "std::list"; got != want {
		t.Errorf("Module() = %q, want %q", got, want)
	}
	if Local("x").Module() != "" {
		t.Errorf("local name should have empty module")
	}
}

func TestIsLocal(t *testing.T) {
	if !Local("x").IsLocal() {
		t.Error("Local(x) should be local")
	}
	if New([]string{"a"}, "x").IsLocal() {
		t.Error("qualified name should not be local")
	}
}
