package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTemp(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return p
}

func TestLoadFile_Basic(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "storecheck.yaml", "product_id: 4\nthreads: 3\ntimeout: 5s\nusername: mor_2314\nzap:\n  port: 8090\n  poll_interval: 2s\n")
	cfg, err := LoadFile(p)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.ProductID == nil || *cfg.ProductID != 4 {
		t.Fatalf("expected product_id=4, got %#v", cfg.ProductID)
	}
	if cfg.Threads == nil || *cfg.Threads != 3 {
		t.Fatalf("expected threads=3, got %#v", cfg.Threads)
	}
	if got := cfg.TimeoutOr(time.Minute); got != 5*time.Second {
		t.Fatalf("expected timeout=5s, got %v", got)
	}
	z := cfg.GetZAPConfig()
	if z.GetPort() != 8090 || z.GetPollInterval() != 2*time.Second {
		t.Fatalf("unexpected zap config: port=%d poll=%v", z.GetPort(), z.GetPollInterval())
	}
	if z.GetAddress() != "localhost" || z.GetReport() != "zap-report.html" {
		t.Fatalf("expected zap defaults, got %q %q", z.GetAddress(), z.GetReport())
	}
}

func TestLoadFile_Invalid(t *testing.T) {
	dir := t.TempDir()
	p := writeTemp(t, dir, "bad.yaml", "threads: [1, 2\n")
	if _, err := LoadFile(p); err == nil {
		t.Fatal("expected YAML error")
	}
}

func TestLoadLocal_PrefersDotfile(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "storecheck.yaml", "threads: 1\n")
	writeTemp(t, dir, ".storecheck.yaml", "threads: 7\n")
	cfg, err := LoadLocal(dir)
	if err != nil {
		t.Fatalf("LoadLocal: %v", err)
	}
	if cfg.Threads == nil || *cfg.Threads != 7 {
		t.Fatalf("expected threads=7 from .storecheck.yaml, got %#v", cfg.Threads)
	}
}

func TestLoadLocal_NoConfig(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadLocal(dir); !errors.Is(err, ErrNoLocalConfig) {
		t.Fatalf("expected ErrNoLocalConfig, got %v", err)
	}
}

func TestLoadGlobal_XDG_Config(t *testing.T) {
	dir := t.TempDir()
	cfgDir := filepath.Join(dir, "storecheck")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeTemp(t, cfgDir, "config.yml", "threads: 9\n")
	t.Setenv("XDG_CONFIG_HOME", dir)
	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("LoadGlobal: %v", err)
	}
	if cfg.Threads == nil || *cfg.Threads != 9 {
		t.Fatalf("expected threads=9 from global config, got %#v", cfg.Threads)
	}
}

func TestLoadGlobal_NoConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "")
	if _, err := LoadGlobal(); err == nil {
		t.Fatal("expected error when no global config dir exists")
	}
}

func TestProperty_IntProperty(t *testing.T) {
	id := 3
	timeout := "10s"
	fc := FileConfig{ProductID: &id, Timeout: &timeout}
	if fc.Property("productID") != "3" || fc.Property("product_id") != "3" {
		t.Fatalf("expected productID alias to resolve")
	}
	if fc.IntProperty("productID") != 3 {
		t.Fatalf("expected IntProperty=3")
	}
	if fc.IntProperty("timeout") != 0 {
		t.Fatalf("expected 0 for non-numeric value")
	}
	if fc.IntProperty("missing") != 0 || fc.Property("missing") != "" {
		t.Fatalf("expected zero values for missing key")
	}
}

func TestMerge_LocalOverGlobal(t *testing.T) {
	one, two := 1, 2
	local := FileConfig{Threads: &one}
	url := "http://global"
	port := 9000
	global := FileConfig{Threads: &two, BaseURL: &url, ZAP: &ZAPConfig{Port: &port}}
	got := local.Merge(global)
	if *got.Threads != 1 {
		t.Fatalf("expected local threads to win")
	}
	if got.BaseURL == nil || *got.BaseURL != "http://global" {
		t.Fatalf("expected base_url from global")
	}
	if got.GetZAPConfig().GetPort() != 9000 {
		t.Fatalf("expected zap port from global")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvUsername, "johnd")
	t.Setenv(EnvPassword, "m38rmF$")
	t.Setenv(EnvZAPAPIKey, "secret")
	fc := FileConfig{}
	fc.ApplyEnv()
	if fc.Property("username") != "johnd" || fc.Property("password") != "m38rmF$" {
		t.Fatalf("expected credentials from env")
	}
	if fc.GetZAPConfig().GetAPIKey() != "secret" {
		t.Fatalf("expected zap api key from env")
	}
}
