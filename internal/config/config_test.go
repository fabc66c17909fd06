package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	cfg := Default()
	if cfg.Store.Driver != "file" || cfg.Store.Path != "/tmp/state/backlog/todos.json" {
		t.Fatalf("unexpected store defaults: %+v", cfg.Store)
	}
	if cfg.Engine.DefaultReturnDays != 2 {
		t.Fatalf("unexpected return days default: %d", cfg.Engine.DefaultReturnDays)
	}
	if cfg.UI.DueCheckInterval != time.Minute || cfg.UI.WakerBuffer != 64 {
		t.Fatalf("unexpected ui defaults: %+v", cfg.UI)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[store]
driver = "sqlite"
path = "~/data/backlog.db"

[engine]
default-return-days = 5

[log]
level = "debug"

[ui]
due-check-interval = "30s"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Store.Driver != "sqlite" || cfg.Store.Path != filepath.Join(home, "data", "backlog.db") {
		t.Fatalf("unexpected store: %+v", cfg.Store)
	}
	if cfg.Engine.DefaultReturnDays != 5 || cfg.Log.Level != "debug" {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if cfg.UI.DueCheckInterval != 30*time.Second || cfg.UI.WakerBuffer != 64 {
		t.Fatalf("unexpected ui config: %+v", cfg.UI)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[store\ndriver="), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "parse config file") {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("BACKLOG_STORE_DRIVER", "SQLite")
	t.Setenv("BACKLOG_STORE_PATH", "state/custom.db")
	t.Setenv("BACKLOG_DEFAULT_RETURN_DAYS", "7")
	t.Setenv("BACKLOG_LOG_LEVEL", "WARN")
	t.Setenv("BACKLOG_LOG_FILE", "/tmp/backlog.log")
	t.Setenv("BACKLOG_DUE_CHECK_INTERVAL", "10s")
	t.Setenv("BACKLOG_WAKER_BUFFER", "8")
	t.Setenv("BACKLOG_DESKTOP_NOTIFICATIONS", "yes")

	cfg := FromEnv(Default())
	if cfg.Store.Driver != "sqlite" || cfg.Store.Path != "state/custom.db" {
		t.Fatalf("unexpected store overrides: %+v", cfg.Store)
	}
	if cfg.Engine.DefaultReturnDays != 7 || cfg.Log.Level != "warn" || cfg.Log.File != "/tmp/backlog.log" {
		t.Fatalf("unexpected overrides: %+v", cfg)
	}
	if cfg.UI.DueCheckInterval != 10*time.Second || cfg.UI.WakerBuffer != 8 || !cfg.UI.DesktopNotifications {
		t.Fatalf("unexpected ui overrides: %+v", cfg.UI)
	}
}

func TestFromEnvIgnoresBadValues(t *testing.T) {
	t.Setenv("BACKLOG_DEFAULT_RETURN_DAYS", "0")
	t.Setenv("BACKLOG_DUE_CHECK_INTERVAL", "soon")
	t.Setenv("BACKLOG_WAKER_BUFFER", "lots")
	t.Setenv("BACKLOG_DESKTOP_NOTIFICATIONS", "maybe")

	base := Default()
	cfg := FromEnv(base)
	if cfg != base {
		t.Fatalf("bad env values should be ignored, got %+v", cfg)
	}
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(*Config){
		"driver":   func(c *Config) { c.Store.Driver = "postgres" },
		"path":     func(c *Config) { c.Store.Path = "" },
		"days":     func(c *Config) { c.Engine.DefaultReturnDays = 0 },
		"level":    func(c *Config) { c.Log.Level = "loud" },
		"warning":  func(c *Config) { c.Log.Level = "warning" },
		"longdays": func(c *Config) { c.Engine.DefaultReturnDays = 2147483648 },
		"interval": func(c *Config) { c.UI.DueCheckInterval = time.Millisecond },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error for %s", name)
			}
		})
	}
}
