package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/fwojciec/siteport"
	"gopkg.in/yaml.v3"
)

// Config holds settings shared by all commands. It is read from an optional
// YAML file; flags that are set on the command line take precedence.
type Config struct {
	OutputDir     string `yaml:"output_dir"`
	ContentDir    string `yaml:"content_dir"`
	Ledger        string `yaml:"ledger"`
	CorruptPolicy string `yaml:"corrupt_policy"`

	// Discovery.
	Include           []string `yaml:"include"`
	Exclude           []string `yaml:"exclude"`
	NoDefaultExcludes bool     `yaml:"no_default_excludes"`

	// Scraping.
	Engine            string        `yaml:"engine"`
	Fallback          string        `yaml:"fallback"`
	ContentSelectors  []string      `yaml:"content_selectors"`
	Concurrency       int           `yaml:"concurrency"`
	Rate              float64       `yaml:"rate"`
	MaxPages          int           `yaml:"max_pages"`
	Stealth           bool          `yaml:"stealth"`
	Sanitize          bool          `yaml:"sanitize"`
	NavigationTimeout time.Duration `yaml:"navigation_timeout"`
	ReadyTimeout      time.Duration `yaml:"ready_timeout"`
}

// Defaults.
const (
	DefaultOutputDir   = "output"
	DefaultContentDir  = "content"
	DefaultLedger      = "json"
	DefaultEngine      = "rod"
	DefaultFallback    = "none"
	DefaultConcurrency = 1
	DefaultMaxPages    = 75
	DefaultTimeout     = 45 * time.Second
)

// LoadConfig reads a YAML config file. Unknown keys are rejected so that
// typos do not silently fall back to defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, siteport.Errorf(siteport.ENOTFOUND, "config file %s not found", path)
	} else if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, siteport.Errorf(siteport.EINVALID, "config %s: %v", path, err)
	}
	return cfg, nil
}

// applyDefaults fills unset fields.
func applyDefaults(cfg *Config) {
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}
	if cfg.ContentDir == "" {
		cfg.ContentDir = DefaultContentDir
	}
	if cfg.Ledger == "" {
		cfg.Ledger = DefaultLedger
	}
	if cfg.CorruptPolicy == "" {
		cfg.CorruptPolicy = string(siteport.CorruptReset)
	}
	if cfg.Engine == "" {
		cfg.Engine = DefaultEngine
	}
	if cfg.Fallback == "" {
		cfg.Fallback = DefaultFallback
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = DefaultMaxPages
	}
	if cfg.NavigationTimeout <= 0 {
		cfg.NavigationTimeout = DefaultTimeout
	}
	if cfg.ReadyTimeout <= 0 {
		cfg.ReadyTimeout = DefaultTimeout
	}
}

// Validate checks enumerated settings, including values read from a file.
func (c *Config) Validate() error {
	switch c.Ledger {
	case "json", "sqlite":
	default:
		return siteport.Errorf(siteport.EINVALID, "unknown ledger %q (want json or sqlite)", c.Ledger)
	}
	switch siteport.CorruptPolicy(c.CorruptPolicy) {
	case siteport.CorruptReset, siteport.CorruptFail:
	default:
		return siteport.Errorf(siteport.EINVALID, "unknown corrupt policy %q (want reset or fail)", c.CorruptPolicy)
	}
	switch c.Engine {
	case "rod", "http":
	default:
		return siteport.Errorf(siteport.EINVALID, "unknown engine %q (want rod or http)", c.Engine)
	}
	switch c.Fallback {
	case "none", "trafilatura", "readability":
	default:
		return siteport.Errorf(siteport.EINVALID, "unknown fallback %q (want none, trafilatura or readability)", c.Fallback)
	}
	if c.Rate < 0 {
		return siteport.Errorf(siteport.EINVALID, "rate must not be negative")
	}
	return nil
}

// URLsPath is the discovered URL list.
func (c *Config) URLsPath() string { return filepath.Join(c.OutputDir, "urls.json") }

// LedgerPath is the ledger file for the configured backend.
func (c *Config) LedgerPath() string {
	if c.Ledger == "sqlite" {
		return filepath.Join(c.OutputDir, "processed.db")
	}
	return filepath.Join(c.OutputDir, "processed.json")
}

// LogsDir holds success.jsonl and failed.jsonl.
func (c *Config) LogsDir() string { return filepath.Join(c.OutputDir, "logs") }

// HTMLDir holds failure HTML snapshots.
func (c *Config) HTMLDir() string { return filepath.Join(c.OutputDir, "html") }

// ScreenshotDir holds failure screenshots.
func (c *Config) ScreenshotDir() string { return filepath.Join(c.OutputDir, "screenshots") }

// URLFilter compiles the discovery patterns.
func (c *Config) URLFilter() (*siteport.URLFilter, error) {
	filter := siteport.DefaultURLFilter()
	if c.NoDefaultExcludes {
		filter = &siteport.URLFilter{}
	}
	for _, pattern := range c.Include {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, siteport.Errorf(siteport.EINVALID, "invalid include pattern %q: %v", pattern, err)
		}
		filter.Include = append(filter.Include, re)
	}
	for _, pattern := range c.Exclude {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, siteport.Errorf(siteport.EINVALID, "invalid exclude pattern %q: %v", pattern, err)
		}
		filter.Exclude = append(filter.Exclude, re)
	}
	return filter, nil
}
