package agent

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Agent
		wantErr bool
	}{
		{"", Base, false},
		{"base", Base, false},
		{"migMentor", MigrationMentor, false},
		{"jargonTranslator", JargonTranslator, false},
		{"extract", Extract, false},
		{"notAnAgent", Base, true},
	}
	for _, tc := range tests {
		got, err := Parse(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("Parse(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestInstructionsNeverEmpty(t *testing.T) {
	all := append(Conversational(), Summarize, Extract, Compress)
	for _, a := range all {
		if strings.TrimSpace(a.Instructions()) == "" {
			t.Errorf("agent %q has empty instructions", a)
		}
	}
}

func TestConversationalExcludesOperations(t *testing.T) {
	for _, a := range Conversational() {
		switch a {
		case Summarize, Extract, Compress:
			t.Errorf("operation agent %q listed as conversational", a)
		}
	}
}

func TestExtractInstructionsDescribeJSONContract(t *testing.T) {
	// The extractor depends on the model returning a JSON array of
	// {knowledge, source} objects; the instructions must pin that shape.
	instr := Extract.Instructions()
	for _, want := range []string{`"knowledge"`, `"source"`, "[]"} {
		if !strings.Contains(instr, want) {
			t.Errorf("extract instructions missing %q", want)
		}
	}
}
