package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Interval != 2*time.Second {
		t.Errorf("Interval: got %v, want 2s", cfg.Interval)
	}
	if !cfg.UseCelsius {
		t.Error("UseCelsius should default to true")
	}
	if cfg.HelperMarker != "osmcore" {
		t.Errorf("HelperMarker: got %q", cfg.HelperMarker)
	}
}

func TestFromFlags(t *testing.T) {
	t.Setenv("OSMONITOR_SETTINGS", "")
	t.Setenv("OSMONITOR_INTERVAL", "")
	cfg, err := FromFlags([]string{"-interval", "5s", "-celsius=false", "-root"})
	if err != nil {
		t.Fatalf("FromFlags: %v", err)
	}
	if cfg.Interval != 5*time.Second {
		t.Errorf("Interval: got %v", cfg.Interval)
	}
	if cfg.UseCelsius {
		t.Error("UseCelsius should be false")
	}
	if !cfg.Root {
		t.Error("Root should be true")
	}
}

func TestFromFlags_NonPositiveIntervalFallsBack(t *testing.T) {
	t.Setenv("OSMONITOR_SETTINGS", "")
	t.Setenv("OSMONITOR_INTERVAL", "")
	cfg, err := FromFlags([]string{"-interval", "0s"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Interval != DefaultInterval {
		t.Errorf("Interval: got %v, want %v", cfg.Interval, DefaultInterval)
	}
}

func TestFromFlags_EnvOverrides(t *testing.T) {
	t.Setenv("OSMONITOR_SETTINGS", "")
	t.Setenv("OSMONITOR_INTERVAL", "7")
	t.Setenv("OSMONITOR_CELSIUS", "false")
	cfg, err := FromFlags([]string{"-interval", "3s"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Interval != 7*time.Second {
		t.Errorf("Interval: got %v, want 7s", cfg.Interval)
	}
	if cfg.UseCelsius {
		t.Error("UseCelsius should be overridden to false")
	}
}

func TestFromFlags_SettingsFileThenFlags(t *testing.T) {
	t.Setenv("OSMONITOR_INTERVAL", "")
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	content := "interval: 9\nuse_celsius: false\nfont_color: \"205\"\nhelper_marker: statsd\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("OSMONITOR_SETTINGS", path)

	cfg, err := FromFlags([]string{"-celsius=true"})
	if err != nil {
		t.Fatalf("FromFlags: %v", err)
	}
	if cfg.Interval != 9*time.Second {
		t.Errorf("Interval from file: got %v", cfg.Interval)
	}
	if !cfg.UseCelsius {
		t.Error("flag should win over file for celsius")
	}
	if cfg.FontColor != "205" {
		t.Errorf("FontColor: got %q", cfg.FontColor)
	}
	if cfg.HelperMarker != "statsd" {
		t.Errorf("HelperMarker: got %q", cfg.HelperMarker)
	}
	if cfg.SettingsFile != path {
		t.Errorf("SettingsFile: got %q", cfg.SettingsFile)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	cfg := Default()
	if err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), &cfg); err != nil {
		t.Errorf("missing file should be ignored, got %v", err)
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("interval: [oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := LoadFile(bad, &cfg); err == nil {
		t.Error("expected parse error")
	}
}

func TestStore_Reload(t *testing.T) {
	t.Setenv("OSMONITOR_INTERVAL", "")
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("interval: 4\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := Default()
	cfg.SettingsFile = path
	s := NewStore(cfg)

	if s.Interval() != 2*time.Second {
		t.Fatalf("initial interval: got %v", s.Interval())
	}
	if err := s.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if s.Interval() != 4*time.Second {
		t.Errorf("reloaded interval: got %v, want 4s", s.Interval())
	}

	s.Set(Config{Interval: -1})
	if s.Interval() != DefaultInterval {
		t.Errorf("Set should normalize, got %v", s.Interval())
	}
}

func TestStore_ReloadKeepsFlagAndEnvPrecedence(t *testing.T) {
	t.Setenv("OSMONITOR_SETTINGS", "")
	t.Setenv("OSMONITOR_INTERVAL", "")
	t.Setenv("OSMONITOR_ROOT", "true")
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("interval: 4\nroot: false\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := FromFlags([]string{"-settings", path, "-interval", "3s"})
	if err != nil {
		t.Fatalf("FromFlags: %v", err)
	}
	s := NewStore(cfg)

	if err := os.WriteFile(path, []byte("interval: 8\nroot: false\nuse_celsius: false\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.Reload(); err != nil {
		t.Fatalf("Reload: %v", err)
	}

	if got := s.Interval(); got != 3*time.Second {
		t.Errorf("interval flag lost on reload: got %v, want 3s", got)
	}
	if !s.Root() {
		t.Error("root env override lost on reload")
	}
	if s.Current().UseCelsius {
		t.Error("file change to use_celsius not picked up")
	}
}
