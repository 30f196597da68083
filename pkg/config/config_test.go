package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/codeGROOVE-dev/cpratings/pkg/rating"
	"github.com/google/go-cmp/cmp"
)

// chdir moves into an empty directory so no stray .env is picked up.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadDefaults(t *testing.T) {
	chdir(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := map[rating.Platform]string{
		rating.Codeforces: "sarvajnya_18",
		rating.LeetCode:   "raiseIQUnderflow",
		rating.CodeChef:   "omniscient_18",
		rating.AtCoder:    "raiseIQUnderflow",
	}
	if diff := cmp.Diff(want, cfg.PlatformHandles()); diff != "" {
		t.Errorf("PlatformHandles() mismatch (-want +got):\n%s", diff)
	}
	if cfg.Source != SourceClist || cfg.ClistUser != "raiseIQUnderflow" {
		t.Errorf("Source/ClistUser = %q/%q", cfg.Source, cfg.ClistUser)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := chdir(t)
	path := filepath.Join(dir, "cpratings.yaml")
	yml := `source: direct
handles:
  gfg: someone
  codechef: ""
cache_ttl: 30m
proxies: [allorigins]
`
	if err := os.WriteFile(path, []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("CPRATINGS_ATCODER_HANDLE=from_dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CPRATINGS_CODEFORCES_HANDLE", "tourist")
	t.Setenv("CPRATINGS_ADDR", ":9999")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("CPRATINGS_ATCODER_HANDLE") }) //nolint:errcheck // test cleanup

	want := map[rating.Platform]string{
		rating.Codeforces:    "tourist",
		rating.LeetCode:      "raiseIQUnderflow",
		rating.AtCoder:       "from_dotenv",
		rating.GeeksforGeeks: "someone",
	}
	if diff := cmp.Diff(want, cfg.PlatformHandles()); diff != "" {
		t.Errorf("PlatformHandles() mismatch (-want +got):\n%s", diff)
	}
	if cfg.Source != SourceDirect {
		t.Errorf("Source = %q, want direct", cfg.Source)
	}
	if cfg.CacheTTL != 30*time.Minute {
		t.Errorf("CacheTTL = %v, want 30m", cfg.CacheTTL)
	}
	if cfg.Addr != ":9999" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if diff := cmp.Diff([]string{"allorigins"}, cfg.Proxies); diff != "" {
		t.Errorf("Proxies mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"bad source", func(c *Config) { c.Source = "rss" }, `unknown source "rss"`},
		{"bad platform", func(c *Config) { c.Handles["topcoder"] = "x" }, `unknown platform "topcoder"`},
		{"bad proxy", func(c *Config) { c.Proxies = []string{"tor"} }, `unknown proxy "tor"`},
		{"no clist user", func(c *Config) { c.ClistUser = "" }, "clist_user is required"},
		{"direct without clist user", func(c *Config) { c.Source = SourceDirect; c.ClistUser = "" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	chdir(t)
	if _, err := Load("does-not-exist.yaml"); err == nil {
		t.Error("Load() expected error for missing file")
	}
}
