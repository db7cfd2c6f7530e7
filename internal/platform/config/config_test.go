package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"shelfmate/internal/platform/config"
)

func TestNewDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.DBPath != filepath.Join(dir, ".shelfmate", "shelfmate.db") {
		t.Fatalf("unexpected db path: %s", cfg.DBPath)
	}
	if cfg.MinSessionSeconds != 180 || cfg.MaxPagesPerMinute != 5 || cfg.DailyPagesCap != 300 {
		t.Fatalf("unexpected rule defaults: %+v", cfg)
	}
	if cfg.DefaultTotalPages != 320 {
		t.Fatalf("expected default total pages 320, got %d", cfg.DefaultTotalPages)
	}
	if _, err := config.New(""); err == nil {
		t.Fatalf("expected error for empty data path")
	}
}

func TestNewLayersFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".shelfmate"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	content := `
[rules]
min-session-seconds = 60
daily-pages-cap = 120

[account]
time-zone = "Asia/Seoul"
token-ttl = "2h"
password-cost = 12

[lookup]
kakao-api-key = "from-file"
`
	if err := os.WriteFile(filepath.Join(dir, ".shelfmate", "config.toml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SHELFMATE_DAILY_PAGES_CAP", "90")
	t.Setenv("SHELFMATE_LOOKUP_TIMEOUT", "750ms")

	cfg, err := config.New(dir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	if cfg.MinSessionSeconds != 60 {
		t.Fatalf("expected file min session 60, got %d", cfg.MinSessionSeconds)
	}
	if cfg.DailyPagesCap != 90 {
		t.Fatalf("expected env override 90, got %d", cfg.DailyPagesCap)
	}
	if cfg.MaxPagesPerMinute != 5 {
		t.Fatalf("expected untouched default, got %d", cfg.MaxPagesPerMinute)
	}
	if cfg.TokenTTL != 2*time.Hour || cfg.LookupTimeout != 750*time.Millisecond {
		t.Fatalf("unexpected durations: ttl=%s timeout=%s", cfg.TokenTTL, cfg.LookupTimeout)
	}
	if cfg.PasswordCost != 12 {
		t.Fatalf("expected password cost from file, got %d", cfg.PasswordCost)
	}
	if cfg.KakaoAPIKey != "from-file" {
		t.Fatalf("expected kakao key from file, got %q", cfg.KakaoAPIKey)
	}
	loc, err := cfg.Location()
	if err != nil || loc.String() != "Asia/Seoul" {
		t.Fatalf("unexpected location %v err=%v", loc, err)
	}
}

func TestNewRejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SHELFMATE_MAX_PAGES_PER_MINUTE", "0")
	if _, err := config.New(dir); err == nil {
		t.Fatalf("expected validation error")
	}
	t.Setenv("SHELFMATE_MAX_PAGES_PER_MINUTE", "5")
	t.Setenv("SHELFMATE_PASSWORD_COST", "2")
	if _, err := config.New(dir); err == nil {
		t.Fatalf("expected password cost error")
	}
}

func TestNewRejectsMalformedFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, ".shelfmate"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ".shelfmate", "config.toml"), []byte("[account]\ntoken-ttl = \"soon\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := config.New(dir); err == nil {
		t.Fatalf("expected duration parse error")
	}
}
