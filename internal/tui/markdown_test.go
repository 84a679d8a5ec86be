package tui

import (
	"strings"
	"testing"
)

func TestRenderMarkdown(t *testing.T) {
	if got := RenderMarkdown("  \n", 40); got != "" {
		t.Errorf("blank text rendered as %q", got)
	}
	got := RenderMarkdown("**Keep going** with your stretching", 40)
	if !strings.Contains(got, "Keep going") || !strings.Contains(got, "stretching") {
		t.Errorf("rendered text lost content: %q", got)
	}
}
