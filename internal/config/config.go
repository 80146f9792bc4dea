package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultInterval is used when no interval is configured.
const DefaultInterval = 2 * time.Second

// Config carries runtime options for osmonitor.
type Config struct {
	Interval     time.Duration
	UseCelsius   bool
	FontColor    string // lipgloss color, empty for terminal default
	IconColor    int    // 1 green, 2 blue
	OnTop        bool
	Root         bool
	CPUMeter     bool
	HelperMarker string
	BatteryPoll  time.Duration
	SettingsFile string
	JSON         bool
	JSONStream   bool

	args []string // command line, re-applied on Reload
}

func Default() Config {
	return Config{
		Interval:     DefaultInterval,
		UseCelsius:   true,
		FontColor:    "",
		IconColor:    1,
		OnTop:        false,
		Root:         false,
		CPUMeter:     true,
		HelperMarker: "osmcore",
		BatteryPoll:  10 * time.Second,
	}
}

// fileSettings is the on-disk YAML shape. Absent keys leave the current value.
type fileSettings struct {
	Interval     *int    `yaml:"interval"` // seconds
	UseCelsius   *bool   `yaml:"use_celsius"`
	FontColor    *string `yaml:"font_color"`
	IconColor    *int    `yaml:"icon_color"`
	OnTop        *bool   `yaml:"notification_on_top"`
	Root         *bool   `yaml:"root"`
	CPUMeter     *bool   `yaml:"cpu_meter"`
	HelperMarker *string `yaml:"helper_marker"`
}

func (f fileSettings) apply(cfg *Config) {
	if f.Interval != nil {
		cfg.Interval = time.Duration(*f.Interval) * time.Second
	}
	if f.UseCelsius != nil {
		cfg.UseCelsius = *f.UseCelsius
	}
	if f.FontColor != nil {
		cfg.FontColor = *f.FontColor
	}
	if f.IconColor != nil {
		cfg.IconColor = *f.IconColor
	}
	if f.OnTop != nil {
		cfg.OnTop = *f.OnTop
	}
	if f.Root != nil {
		cfg.Root = *f.Root
	}
	if f.CPUMeter != nil {
		cfg.CPUMeter = *f.CPUMeter
	}
	if f.HelperMarker != nil {
		cfg.HelperMarker = *f.HelperMarker
	}
}

// LoadFile overlays the YAML settings at path onto cfg. A missing file is not
// an error.
func LoadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading settings %q: %w", path, err)
	}
	var fs fileSettings
	if err := yaml.Unmarshal(b, &fs); err != nil {
		return fmt.Errorf("parsing settings %q: %w", path, err)
	}
	fs.apply(cfg)
	return nil
}

func bindFlags(fs *flag.FlagSet, cfg *Config) {
	fs.DurationVar(&cfg.Interval, "interval", cfg.Interval, "polling interval")
	fs.BoolVar(&cfg.UseCelsius, "celsius", cfg.UseCelsius, "show battery temperature in Celsius")
	fs.StringVar(&cfg.FontColor, "font-color", cfg.FontColor, "text color (lipgloss color)")
	fs.IntVar(&cfg.IconColor, "icon-color", cfg.IconColor, "meter color: 1 green, 2 blue")
	fs.BoolVar(&cfg.OnTop, "on-top", cfg.OnTop, "render the monitor with priority styling")
	fs.BoolVar(&cfg.Root, "root", cfg.Root, "route process kills through the provider")
	fs.BoolVar(&cfg.CPUMeter, "cpu-meter", cfg.CPUMeter, "enable process polling")
	fs.StringVar(&cfg.HelperMarker, "helper-marker", cfg.HelperMarker, "name marker of the stats helper process")
	fs.DurationVar(&cfg.BatteryPoll, "battery-poll", cfg.BatteryPoll, "battery sysfs poll period")
	fs.StringVar(&cfg.SettingsFile, "settings", cfg.SettingsFile, "YAML settings file")
	fs.BoolVar(&cfg.JSON, "json", cfg.JSON, "output one-shot JSON and exit")
	fs.BoolVar(&cfg.JSONStream, "json-stream", cfg.JSONStream, "stream NDJSON until interrupted")
}

// FromFlags builds the config: defaults, then the settings file, then flags,
// then environment overrides.
func FromFlags(args []string) (Config, error) {
	return build(args, "")
}

// build layers the config sources. An empty path takes the settings file from
// -settings or OSMONITOR_SETTINGS.
func build(args []string, path string) (Config, error) {
	cfg := Default()
	fs := flag.NewFlagSet("osmonitor", flag.ContinueOnError)
	bindFlags(fs, &cfg)
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	if path == "" {
		path = cfg.SettingsFile
	}
	if v := os.Getenv("OSMONITOR_SETTINGS"); v != "" && path == "" {
		path = v
	}
	if path != "" {
		base := Default()
		if err := LoadFile(path, &base); err != nil {
			return cfg, err
		}
		cfg = base
		fs = flag.NewFlagSet("osmonitor", flag.ContinueOnError)
		bindFlags(fs, &cfg)
		if err := fs.Parse(args); err != nil {
			return cfg, err
		}
		cfg.SettingsFile = path
	}

	cfg.args = append([]string(nil), args...)
	applyEnv(&cfg)
	cfg.normalize()
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("OSMONITOR_INTERVAL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Interval = parsed
		} else if parsed, err2 := time.ParseDuration(v + "s"); err2 == nil {
			cfg.Interval = parsed
		}
	}
	if v := os.Getenv("OSMONITOR_CELSIUS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.UseCelsius = b
		}
	}
	if v := os.Getenv("OSMONITOR_ROOT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Root = b
		}
	}
}

func (c *Config) normalize() {
	if c.Interval <= 0 {
		c.Interval = DefaultInterval
	}
	if c.BatteryPoll <= 0 {
		c.BatteryPoll = Default().BatteryPoll
	}
	if c.IconColor != 1 && c.IconColor != 2 {
		c.IconColor = 1
	}
}

// Store is the live settings holder the poller reads from.
type Store struct {
	mu  sync.RWMutex
	cfg Config
}

func NewStore(cfg Config) *Store {
	cfg.normalize()
	return &Store{cfg: cfg}
}

// Interval is the polling interval for the next scheduling decision.
func (s *Store) Interval() time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Interval
}

// Root reports whether privileged operations go through the provider.
func (s *Store) Root() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg.Root
}

func (s *Store) Current() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cfg
}

func (s *Store) Set(cfg Config) {
	cfg.normalize()
	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
}

// Reload rebuilds the config with a fresh read of the settings file. Flags and
// env are layered on top again, so they keep winning over the file.
func (s *Store) Reload() error {
	cur := s.Current()
	if cur.SettingsFile == "" {
		return nil
	}
	next, err := build(cur.args, cur.SettingsFile)
	if err != nil {
		return err
	}
	s.Set(next)
	return nil
}
