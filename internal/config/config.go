// Package config loads backlog settings from a TOML file and BACKLOG_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/sandeepkv93/backlog/internal/model"
)

type Config struct {
	Store  StoreConfig  `toml:"store" validate:"required"`
	Engine EngineConfig `toml:"engine" validate:"required"`
	Log    LogConfig    `toml:"log"`
	UI     UIConfig     `toml:"ui" validate:"required"`
}

type StoreConfig struct {
	// Driver selects the snapshot backend: "file" or "sqlite".
	Driver string `toml:"driver" validate:"required,oneof=file sqlite"`
	Path   string `toml:"path" validate:"required"`
}

type EngineConfig struct {
	DefaultReturnDays int `toml:"default-return-days" validate:"required,gte=1,lte=2147483647"`
}

type LogConfig struct {
	Level string `toml:"level" validate:"omitempty,oneof=debug info warn error"`
	// File receives JSON logs. Empty means stderr for subcommands and
	// no logging for the TUI.
	File string `toml:"file"`
}

type UIConfig struct {
	DueCheckInterval time.Duration `toml:"due-check-interval" validate:"gte=1s"`
	WakerBuffer      int           `toml:"waker-buffer" validate:"gte=1"`
	// DesktopNotifications announces returning todos through notify-send
	// or osascript.
	DesktopNotifications bool `toml:"desktop-notifications"`
}

var validate = validator.New()

// Default returns settings rooted in the user's home directory. Paths fall
// back to the working directory when no home is available.
func Default() Config {
	return Config{
		Store: StoreConfig{
			Driver: "file",
			Path:   filepath.Join(StateDir(), "todos.json"),
		},
		Engine: EngineConfig{DefaultReturnDays: model.DefaultReturnInDays},
		Log:    LogConfig{Level: "info"},
		UI: UIConfig{
			DueCheckInterval: time.Minute,
			WakerBuffer:      64,
		},
	}
}

// DefaultPath is where Load looks when no --config flag is given.
func DefaultPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "backlog", "config.toml")
	}
	return "backlog.toml"
}

// StateDir holds the default snapshot and log files.
func StateDir() string {
	if dir := strings.TrimSpace(os.Getenv("XDG_STATE_HOME")); dir != "" {
		return filepath.Join(dir, "backlog")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".backlog"
	}
	return filepath.Join(home, ".local", "state", "backlog")
}

// Load reads path over Default. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config file %s: %w", path, err)
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
	}
	cfg.Store.Path = expandHome(cfg.Store.Path)
	cfg.Log.File = expandHome(cfg.Log.File)
	return cfg, nil
}

// FromEnv applies BACKLOG_* overrides on top of base. Malformed or
// out-of-range values are ignored.
func FromEnv(base Config) Config {
	cfg := base
	if v, ok := getEnvString("BACKLOG_STORE_DRIVER"); ok {
		cfg.Store.Driver = strings.ToLower(v)
	}
	if v, ok := getEnvString("BACKLOG_STORE_PATH"); ok {
		cfg.Store.Path = expandHome(v)
	}
	if v, ok := getEnvInt("BACKLOG_DEFAULT_RETURN_DAYS"); ok && v > 0 {
		cfg.Engine.DefaultReturnDays = v
	}
	if v, ok := getEnvString("BACKLOG_LOG_LEVEL"); ok {
		cfg.Log.Level = strings.ToLower(v)
	}
	if v, ok := getEnvString("BACKLOG_LOG_FILE"); ok {
		cfg.Log.File = expandHome(v)
	}
	if v, ok := getEnvDuration("BACKLOG_DUE_CHECK_INTERVAL"); ok && v >= time.Second {
		cfg.UI.DueCheckInterval = v
	}
	if v, ok := getEnvInt("BACKLOG_WAKER_BUFFER"); ok && v > 0 {
		cfg.UI.WakerBuffer = v
	}
	if v, ok := getEnvBool("BACKLOG_DESKTOP_NOTIFICATIONS"); ok {
		cfg.UI.DesktopNotifications = v
	}
	return cfg
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			first := verrs[0]
			return fmt.Errorf("config: invalid %s: failed %q (value %v)", first.Namespace(), first.Tag(), first.Value())
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func getEnvString(name string) (string, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	return raw, raw != ""
}

func getEnvInt(name string) (int, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvDuration(name string) (time.Duration, bool) {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return 0, false
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func getEnvBool(name string) (bool, bool) {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return false, false
	}
	switch raw {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}
