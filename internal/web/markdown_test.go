package web

import (
	"strings"
	"testing"
)

func TestRenderMarkdown(t *testing.T) {
	got := string(renderMarkdown("**bold** and a\n\n- list item"))
	if !strings.Contains(got, "<strong>bold</strong>") {
		t.Errorf("bold not rendered: %q", got)
	}
	if !strings.Contains(got, "<li>list item</li>") {
		t.Errorf("list not rendered: %q", got)
	}
}

func TestRenderMarkdown_OmitsRawHTML(t *testing.T) {
	got := string(renderMarkdown(`before <script>alert("x")</script> after`))
	if strings.Contains(got, "<script>") {
		t.Errorf("raw HTML passed through: %q", got)
	}
}

func TestRenderMarkdown_GFMTable(t *testing.T) {
	got := string(renderMarkdown("| a | b |\n|---|---|\n| 1 | 2 |"))
	if !strings.Contains(got, "<table>") {
		t.Errorf("table not rendered: %q", got)
	}
}
