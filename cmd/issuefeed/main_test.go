package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"issuefeed/internal/githubtest"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"LOG_LEVEL", "GITHUB_TOKEN", "GITHUB_API_URL", "FAIL_FAST", "ISSUEFEED_CONFIG"} {
		t.Setenv(key, "")
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing output directory",
			args:    []string{"issuefeed"},
			wantErr: "usage: issuefeed <outputDirectory> [githubToken]",
		},
		{
			name:    "too many arguments",
			args:    []string{"issuefeed", "out", "token", "extra"},
			wantErr: "usage: issuefeed <outputDirectory> [githubToken]",
		},
		{
			name:    "missing config file",
			args:    []string{"issuefeed", "out"},
			env:     map[string]string{"ISSUEFEED_CONFIG": filepath.Join(t.TempDir(), "missing.yaml")},
			wantErr: "read config file",
		},
		{
			name:    "invalid fail fast",
			args:    []string{"issuefeed", "out"},
			env:     map[string]string{"FAIL_FAST": "maybe"},
			wantErr: "invalid FAIL_FAST",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			err := newCommand().Run(context.Background(), tt.args)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q should contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestRunGeneratesSite(t *testing.T) {
	clearEnv(t)

	srv := githubtest.New(t)
	srv.AddFixturePages(t, "a/b", "../../testdata/issues_page1.json", "../../testdata/issues_page2.json")

	cfgPath := filepath.Join(t.TempDir(), "issuefeed.yaml")
	cfg := `repositories:
  - a/b
excluded_users:
  - "dotnet-maestro[bot]"
site:
  root_url: https://feeds.example.com/
  generator_url: https://github.com/example/issuefeed/
  author:
    name: Feeds
    email: feeds@example.com
`
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("ISSUEFEED_CONFIG", cfgPath)
	t.Setenv("GITHUB_API_URL", srv.URL)
	t.Setenv("LOG_LEVEL", "error")

	out := t.TempDir()
	if err := newCommand().Run(context.Background(), []string{"issuefeed", out, "secret"}); err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, name := range []string{"a/b.issues.rss", "a/b.pr.rss", "feeds.opml", "index.html"} {
		if _, err := os.Stat(filepath.Join(out, filepath.FromSlash(name))); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}

	var auth []string
	for _, r := range srv.Requests() {
		auth = append(auth, r.Authorization)
	}
	if diff := cmp.Diff([]string{"Bearer secret", "Bearer secret"}, auth); diff != "" {
		t.Errorf("authorization mismatch (-want +got):\n%s", diff)
	}
}
