package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when none is named explicitly.
const DefaultPath = "parley.yaml"

// Config is the CLI configuration.
// Precedence, lowest first: defaults, config file, .env file, process environment, flags.
type Config struct {
	Source      string
	Cadence     time.Duration
	Frame       time.Duration
	MaxFrames   int
	Debug       bool
	Sound       bool
	MetricsAddr string
	NodeID      int64
}

// fileConfig is the on-disk shape; durations are written as "50ms".
type fileConfig struct {
	Source      string `yaml:"source"`
	Cadence     string `yaml:"cadence"`
	Frame       string `yaml:"frame"`
	MaxFrames   *int   `yaml:"max_frames"`
	Debug       *bool  `yaml:"debug"`
	Sound       *bool  `yaml:"sound"`
	MetricsAddr string `yaml:"metrics_addr"`
	NodeID      *int64 `yaml:"node_id"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Cadence:   50 * time.Millisecond,
		Frame:     time.Second / 60,
		MaxFrames: 10_000,
		NodeID:    1,
	}
}

// Load builds the configuration from path and the environment.
//
// An empty path reads DefaultPath if it exists. Environment variables may also come
// from envFiles (default ".env"); missing env files are ignored and real environment
// variables always win over them.
func Load(path string, envFiles ...string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	if err := cfg.mergeFile(path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, err
		}
	}

	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	env := newEnv(envFiles)
	if err := cfg.mergeEnv(env); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if fc.Source != "" {
		c.Source = fc.Source
	}
	if err := setDuration(&c.Cadence, fc.Cadence, "cadence"); err != nil {
		return err
	}
	if err := setDuration(&c.Frame, fc.Frame, "frame"); err != nil {
		return err
	}
	if fc.MaxFrames != nil {
		c.MaxFrames = *fc.MaxFrames
	}
	if fc.Debug != nil {
		c.Debug = *fc.Debug
	}
	if fc.Sound != nil {
		c.Sound = *fc.Sound
	}
	if fc.MetricsAddr != "" {
		c.MetricsAddr = fc.MetricsAddr
	}
	if fc.NodeID != nil {
		c.NodeID = *fc.NodeID
	}
	return nil
}

func (c *Config) mergeEnv(env env) error {
	if v, ok := env.lookup("PARLEY_SOURCE"); ok {
		c.Source = v
	}
	if v, ok := env.lookup("PARLEY_CADENCE"); ok {
		if err := setDuration(&c.Cadence, v, "PARLEY_CADENCE"); err != nil {
			return err
		}
	}
	if v, ok := env.lookup("PARLEY_FRAME"); ok {
		if err := setDuration(&c.Frame, v, "PARLEY_FRAME"); err != nil {
			return err
		}
	}
	if v, ok := env.lookup("PARLEY_MAX_FRAMES"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PARLEY_MAX_FRAMES: %w", err)
		}
		c.MaxFrames = n
	}
	if v, ok := env.lookup("PARLEY_DEBUG"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("PARLEY_DEBUG: %w", err)
		}
		c.Debug = b
	}
	if v, ok := env.lookup("PARLEY_SOUND"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("PARLEY_SOUND: %w", err)
		}
		c.Sound = b
	}
	if v, ok := env.lookup("PARLEY_METRICS_ADDR"); ok {
		c.MetricsAddr = v
	}
	if v, ok := env.lookup("PARLEY_NODE_ID"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("PARLEY_NODE_ID: %w", err)
		}
		c.NodeID = n
	}
	return nil
}

func setDuration(dst *time.Duration, raw, name string) error {
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if d <= 0 {
		return fmt.Errorf("%s must be positive, got %s", name, raw)
	}
	*dst = d
	return nil
}

// env resolves variables from the process first, then from dotenv files.
type env struct {
	files map[string]string
}

func newEnv(paths []string) env {
	e := env{files: map[string]string{}}
	for _, p := range paths {
		vars, err := godotenv.Read(p)
		if err != nil {
			continue
		}
		for k, v := range vars {
			if _, seen := e.files[k]; !seen {
				e.files[k] = v
			}
		}
	}
	return e
}

func (e env) lookup(key string) (string, bool) {
	if v, ok := os.LookupEnv(key); ok {
		return v, true
	}
	v, ok := e.files[key]
	return v, ok
}
