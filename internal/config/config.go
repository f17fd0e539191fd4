// Package config loads game settings from defaults, an optional JSON file,
// FIRERESCUE_* environment variables and command line flags, in rising
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// FileName is the config file looked up in the config directory.
const FileName = "firerescue"

const envPrefix = "FIRERESCUE"

// WindowConfig holds the desktop window settings.
type WindowConfig struct {
	Width  int    `json:"width" mapstructure:"width"`
	Height int    `json:"height" mapstructure:"height"`
	Title  string `json:"title" mapstructure:"title"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level   string `json:"level" mapstructure:"level"`
	Console bool   `json:"console" mapstructure:"console"`
}

// StoreConfig holds the settings database location. An empty path keeps
// everything in memory.
type StoreConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// AudioConfig holds tone synthesiser settings.
type AudioConfig struct {
	Enabled    bool    `json:"enabled" mapstructure:"enabled"`
	SampleRate int     `json:"sampleRate" mapstructure:"sampleRate"`
	Volume     float64 `json:"volume" mapstructure:"volume"`
}

// LevelConfig holds fire rescue tuning.
type LevelConfig struct {
	InitialFires int   `json:"initialFires" mapstructure:"initialFires"`
	MaxFires     int   `json:"maxFires" mapstructure:"maxFires"`
	GraceFrames  int   `json:"graceFrames" mapstructure:"graceFrames"`
	Spread       bool  `json:"spread" mapstructure:"spread"`
	Seed         int64 `json:"seed" mapstructure:"seed"`
}

// TelemetryConfig toggles gameplay metrics.
type TelemetryConfig struct {
	Enabled bool `json:"enabled" mapstructure:"enabled"`
}

// Config is the full game configuration.
type Config struct {
	Window    WindowConfig    `json:"window" mapstructure:"window"`
	Log       LogConfig       `json:"log" mapstructure:"log"`
	Store     StoreConfig     `json:"store" mapstructure:"store"`
	Audio     AudioConfig     `json:"audio" mapstructure:"audio"`
	Level     LevelConfig     `json:"level" mapstructure:"level"`
	Telemetry TelemetryConfig `json:"telemetry" mapstructure:"telemetry"`
}

// setDefaults registers every key so env overrides and Unmarshal see it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("window.width", 1280)
	v.SetDefault("window.height", 720)
	v.SetDefault("window.title", "Fire Rescue")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.console", true)

	v.SetDefault("store.path", "firerescue.db")

	v.SetDefault("audio.enabled", true)
	v.SetDefault("audio.sampleRate", 44100)
	v.SetDefault("audio.volume", -1.0)

	v.SetDefault("level.initialFires", 3)
	v.SetDefault("level.maxFires", 8)
	v.SetDefault("level.graceFrames", 120)
	v.SetDefault("level.spread", false)
	v.SetDefault("level.seed", 0)

	v.SetDefault("telemetry.enabled", false)
}

// Flags returns the command line flags understood by Load. Flag names are
// the config keys.
func Flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("config-dir", ".", "directory containing "+FileName+".json")
	fs.Int("window.width", 1280, "window width in pixels")
	fs.Int("window.height", 720, "window height in pixels")
	fs.String("log.level", "info", "log level (trace, debug, info, warn, error)")
	fs.Bool("log.console", true, "human readable log output")
	fs.String("store.path", "firerescue.db", "settings database file, empty for in-memory")
	fs.Bool("audio.enabled", true, "play tone cues")
	fs.Int("level.initialFires", 3, "fires spawned after the grace period")
	fs.Int("level.maxFires", 8, "maximum concurrent fires")
	fs.Bool("level.spread", false, "let fires spread")
	fs.Int64("level.seed", 0, "random seed, 0 for time based")
	fs.Bool("telemetry.enabled", false, "record gameplay metrics")
	return fs
}

// Load resolves the configuration. A missing config file is not an error;
// a malformed one is. flags may be nil; only flags the user actually set
// override the file and environment.
func Load(configDir string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName(FileName)
	v.SetConfigType("json")
	if configDir != "" {
		v.AddConfigPath(configDir)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if flags != nil {
		var bindErr error
		flags.Visit(func(f *pflag.Flag) {
			if f.Name == "config-dir" || bindErr != nil {
				return
			}
			bindErr = v.BindPFlag(f.Name, f)
		})
		if bindErr != nil {
			return Config{}, fmt.Errorf("bind flags: %w", bindErr)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the game cannot run with.
func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	// A level only completes once a fire has burned, so it needs at least one.
	if c.Level.InitialFires < 1 || c.Level.MaxFires < 1 {
		return fmt.Errorf("level fires %d/%d out of range", c.Level.InitialFires, c.Level.MaxFires)
	}
	if c.Level.GraceFrames < 0 {
		return fmt.Errorf("level grace frames %d must not be negative", c.Level.GraceFrames)
	}
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("audio sample rate %d must be positive", c.Audio.SampleRate)
	}
	return nil
}
