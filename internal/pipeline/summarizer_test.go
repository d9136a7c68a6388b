package pipeline

import (
	"strings"
	"testing"
)

func TestCleanTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Dog Facts", "Dog Facts"},
		{"quoted", `"Dog Facts"`, "Dog Facts"},
		{"single quoted", "'Dog Facts'", "Dog Facts"},
		{"first line only", "Dog Facts\nHere is why I chose it", "Dog Facts"},
		{"whitespace", "  Dog Facts  \n", "Dog Facts"},
		{"empty", "   ", ""},
	}
	for _, tc := range tests {
		if got := cleanTitle(tc.in); got != tc.want {
			t.Errorf("%s: cleanTitle(%q) = %q, want %q", tc.name, tc.in, got, tc.want)
		}
	}
}

func TestCleanTitle_Caps(t *testing.T) {
	got := cleanTitle(strings.Repeat("a", 500))
	if len([]rune(got)) != titleLimit {
		t.Errorf("len = %d, want %d", len([]rune(got)), titleLimit)
	}
}
