// Package config loads rating widget settings from defaults, a YAML file, .env and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/codeGROOVE-dev/cpratings/pkg/rating"
)

// Source kinds.
const (
	SourceClist  = "clist"
	SourceDirect = "direct"
)

// Config holds all settings.
type Config struct {
	Handles       map[string]string `yaml:"handles"`
	Source        string            `yaml:"source"`
	ClistUser     string            `yaml:"clist_user"`
	Addr          string            `yaml:"addr"`
	Refresh       string            `yaml:"refresh"`
	HistoryPath   string            `yaml:"history_path"`
	Proxies       []string          `yaml:"proxies"`
	CacheTTL      time.Duration     `yaml:"cache_ttl"`
	MinBodyLength int               `yaml:"min_body_length"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Handles: map[string]string{
			string(rating.Codeforces): "sarvajnya_18",
			string(rating.LeetCode):   "raiseIQUnderflow",
			string(rating.CodeChef):   "omniscient_18",
			string(rating.AtCoder):    "raiseIQUnderflow",
		},
		Source:        SourceClist,
		ClistUser:     "raiseIQUnderflow",
		Addr:          ":8080",
		Proxies:       []string{"text-extract", "allorigins"},
		CacheTTL:      time.Hour,
		MinBodyLength: 200,
	}
}

// Load builds a Config. path may be empty. A .env file in the working
// directory is read when present; it never overrides variables already set.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		var file Config
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse config yaml: %w", err)
		}
		cfg.merge(&file)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// merge overlays non-zero fields of f.
func (c *Config) merge(f *Config) {
	for name, handle := range f.Handles {
		c.Handles[name] = handle
	}
	if f.Source != "" {
		c.Source = f.Source
	}
	if f.ClistUser != "" {
		c.ClistUser = f.ClistUser
	}
	if f.Addr != "" {
		c.Addr = f.Addr
	}
	if f.Refresh != "" {
		c.Refresh = f.Refresh
	}
	if f.HistoryPath != "" {
		c.HistoryPath = f.HistoryPath
	}
	if len(f.Proxies) > 0 {
		c.Proxies = f.Proxies
	}
	if f.CacheTTL != 0 {
		c.CacheTTL = f.CacheTTL
	}
	if f.MinBodyLength != 0 {
		c.MinBodyLength = f.MinBodyLength
	}
}

func (c *Config) applyEnv() {
	for _, p := range rating.Platforms() {
		if v, ok := os.LookupEnv(envHandleVar(p)); ok {
			c.Handles[string(p)] = v
		}
	}
	if v := os.Getenv("CPRATINGS_CLIST_USER"); v != "" {
		c.ClistUser = v
	}
	if v := os.Getenv("CPRATINGS_SOURCE"); v != "" {
		c.Source = v
	}
	if v := os.Getenv("CPRATINGS_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("CPRATINGS_REFRESH"); v != "" {
		c.Refresh = v
	}
	if v := os.Getenv("CPRATINGS_HISTORY"); v != "" {
		c.HistoryPath = v
	}
	if v := os.Getenv("CPRATINGS_MIN_BODY_LENGTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MinBodyLength = n
		}
	}
}

func envHandleVar(p rating.Platform) string {
	return "CPRATINGS_" + strings.ToUpper(string(p)) + "_HANDLE"
}

// Validate checks the settings for values nothing downstream can use.
func (c *Config) Validate() error {
	var errs []error
	switch c.Source {
	case SourceClist, SourceDirect:
	default:
		errs = append(errs, fmt.Errorf("unknown source %q (want %s or %s)", c.Source, SourceClist, SourceDirect))
	}
	for name := range c.Handles {
		if _, ok := rating.ParsePlatform(name); !ok {
			errs = append(errs, fmt.Errorf("unknown platform %q in handles", name))
		}
	}
	if c.Source == SourceClist && c.ClistUser == "" {
		errs = append(errs, errors.New("clist_user is required for the clist source"))
	}
	for _, p := range c.Proxies {
		switch p {
		case "text-extract", "allorigins", "direct":
		default:
			errs = append(errs, fmt.Errorf("unknown proxy %q", p))
		}
	}
	if c.MinBodyLength < 0 {
		errs = append(errs, errors.New("min_body_length must not be negative"))
	}
	if c.CacheTTL < 0 {
		errs = append(errs, errors.New("cache_ttl must not be negative"))
	}
	return errors.Join(errs...)
}

// PlatformHandles returns the non-empty handles keyed by platform.
func (c *Config) PlatformHandles() map[rating.Platform]string {
	out := make(map[rating.Platform]string, len(c.Handles))
	for name, handle := range c.Handles {
		p, ok := rating.ParsePlatform(name)
		if !ok || handle == "" {
			continue
		}
		out[p] = handle
	}
	return out
}
