package markdown

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func fixed(name, out string) Strategy {
	return Strategy{Name: name, Render: func(string) (string, error) { return out, nil }}
}

func failing(name string) Strategy {
	return Strategy{Name: name, Render: func(string) (string, error) { return "", errors.New(name + " failed") }}
}

func panicking(name string) Strategy {
	return Strategy{Name: name, Render: func(string) (string, error) { panic(name + " exploded") }}
}

func TestRendererFallback(t *testing.T) {
	const src = "# Title\n\nbody"

	tests := []struct {
		name       string
		strategies []Strategy
		want       string
	}{
		{
			name:       "first strategy wins",
			strategies: []Strategy{fixed("full", "<full>"), fixed("minimal", "<minimal>")},
			want:       "<full>",
		},
		{
			name:       "full fails, minimal used",
			strategies: []Strategy{failing("full"), fixed("minimal", "<minimal>")},
			want:       "<minimal>",
		},
		{
			name:       "full panics, minimal used",
			strategies: []Strategy{panicking("full"), fixed("minimal", "<minimal>")},
			want:       "<minimal>",
		},
		{
			name:       "both fail, source returned unchanged",
			strategies: []Strategy{failing("full"), panicking("minimal")},
			want:       src,
		},
		{
			name:       "no strategies",
			strategies: nil,
			want:       src,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.strategies...).Render(src)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Render() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderEmpty(t *testing.T) {
	if got := Default().Render(""); got != "" {
		t.Errorf("Render(\"\") = %q, want empty", got)
	}
}

func TestDefaultRenderer(t *testing.T) {
	r := Default()

	tests := []struct {
		name     string
		src      string
		contains []string
		excludes []string
	}{
		{
			name:     "heading and paragraph",
			src:      "## Repro steps\n\nRun `dotnet build`.",
			contains: []string{"<h2", "Repro steps</h2>", "<code>dotnet build</code>"},
		},
		{
			name:     "gfm table",
			src:      "| a | b |\n|---|---|\n| 1 | 2 |",
			contains: []string{"<table>", "<td>1</td>"},
		},
		{
			name:     "task list and strikethrough",
			src:      "- [x] done\n- [ ] todo\n\n~~old~~",
			contains: []string{"<del>old</del>", "done"},
		},
		{
			name:     "autolink",
			src:      "see https://github.com/dotnet/runtime",
			contains: []string{`href="https://github.com/dotnet/runtime"`},
		},
		{
			name:     "raw html kept but scripts stripped",
			src:      "<details><summary>Log</summary>trace</details>\n\n<script>alert(1)</script>",
			contains: []string{"<details>", "<summary>Log</summary>"},
			excludes: []string{"<script>", "alert(1)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Render(tt.src)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Render() = %q, should contain %q", got, want)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("Render() = %q, should not contain %q", got, unwanted)
				}
			}
		})
	}
}

func TestMinimalOmitsRawHTML(t *testing.T) {
	out, err := Minimal().Render("hello <b>world</b>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "<b>") {
		t.Errorf("minimal output %q should not contain raw html", out)
	}
	if !strings.Contains(out, "<p>hello") {
		t.Errorf("minimal output %q should contain the paragraph", out)
	}
}
