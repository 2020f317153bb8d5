package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
log:
  level: debug
server:
  addr: ":9090"
database:
  path: /tmp/test.db
stats:
  dir: /tmp/stats
fetcher:
  search_query: 谁在招人
  max_retries: 5
parser:
  model: deepseek:deepseek-chat
  batch_size: 20
pipeline:
  interval: 6h
subscription:
  allowed_channels: [email]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Fatalf("expected log level debug, got %q", cfg.Log.Level)
	}
	if cfg.Server.Addr != ":9090" {
		t.Fatalf("expected addr :9090, got %q", cfg.Server.Addr)
	}
	if cfg.Fetcher.MaxRetries != 5 {
		t.Fatalf("expected max retries 5, got %d", cfg.Fetcher.MaxRetries)
	}
	if cfg.Parser.Model != "deepseek:deepseek-chat" {
		t.Fatalf("expected parser model from file, got %q", cfg.Parser.Model)
	}
	if cfg.Pipeline.Interval != "6h" {
		t.Fatalf("expected pipeline interval 6h, got %q", cfg.Pipeline.Interval)
	}
	if len(cfg.Subscription.AllowedChannels) != 1 || cfg.Subscription.AllowedChannels[0] != "email" {
		t.Fatalf("unexpected channels: %v", cfg.Subscription.AllowedChannels)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Fatalf("expected default addr, got %q", cfg.Server.Addr)
	}
	if cfg.Database.Path != "data/insight.db" {
		t.Fatalf("expected default db path, got %q", cfg.Database.Path)
	}
	if cfg.Stats.Dir != "data/stats" {
		t.Fatalf("expected default stats dir, got %q", cfg.Stats.Dir)
	}
}

func TestLoadInjectsSecrets(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "ghp_test")
	t.Setenv("SMTP_PASSWORD", "hunter2")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Fetcher.Token != "ghp_test" {
		t.Fatalf("expected token from env, got %q", cfg.Fetcher.Token)
	}
	if cfg.Email.Password != "hunter2" {
		t.Fatalf("expected smtp password from env, got %q", cfg.Email.Password)
	}
}

func TestLoadRejectsBrokenYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("log: [broken"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for broken yaml")
	}
}
