package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/siteport"
	"github.com/fwojciec/siteport/migrate"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Config   *Config
	Ledger   siteport.Ledger
	Sitemaps siteport.SitemapService
	Content  siteport.ContentService

	// OpenMigrator starts the browser and builds the pipeline on first use.
	OpenMigrator func() (*migrate.Migrator, error)
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config        string `short:"C" type:"path" env:"SITEPORT_CONFIG" help:"YAML configuration file"`
	Output        string `short:"o" type:"path" env:"SITEPORT_OUTPUT" help:"Directory for the ledger, URL list, logs and diagnostics (default: output)"`
	Content       string `type:"path" env:"SITEPORT_CONTENT" help:"Content store directory (default: content)"`
	Ledger        string `env:"SITEPORT_LEDGER" help:"Ledger backend: json or sqlite (default: json)"`
	CorruptPolicy string `env:"SITEPORT_CORRUPT_POLICY" help:"What to do with an unreadable ledger: reset or fail (default: reset)"`
	Verbose       bool   `short:"v" env:"SITEPORT_VERBOSE" help:"Enable debug logging"`

	Discover DiscoverCmd `cmd:"" help:"Discover page URLs from a sitemap"`
	Scrape   ScrapeCmd   `cmd:"" help:"Migrate the discovered URLs into content files"`
	Run      RunCmd      `cmd:"" help:"Discover and migrate in one go"`
	Status   StatusCmd   `cmd:"" help:"Show ledger progress and failed URLs"`
	List     ListCmd     `cmd:"" help:"List imported documents"`
	Show     ShowCmd     `cmd:"" help:"Show an imported document's metadata and outline"`
	Reset    ResetCmd    `cmd:"" help:"Forget ledger entries so URLs are processed again"`
}

// apply overlays the global flags that were set onto cfg.
func (c *CLI) apply(cfg *Config) {
	if c.Output != "" {
		cfg.OutputDir = c.Output
	}
	if c.Content != "" {
		cfg.ContentDir = c.Content
	}
	if c.Ledger != "" {
		cfg.Ledger = c.Ledger
	}
	if c.CorruptPolicy != "" {
		cfg.CorruptPolicy = c.CorruptPolicy
	}
}

// DiscoverFlags select which sitemap URLs are kept.
type DiscoverFlags struct {
	Include           []string `short:"i" help:"Keep only URLs matching regex (repeatable)"`
	Exclude           []string `short:"x" help:"Drop URLs matching regex (repeatable)"`
	NoDefaultExcludes bool     `help:"Keep tag, search, feed and query-string URLs"`
}

func (f *DiscoverFlags) apply(cfg *Config) {
	cfg.Include = append(cfg.Include, f.Include...)
	cfg.Exclude = append(cfg.Exclude, f.Exclude...)
	if f.NoDefaultExcludes {
		cfg.NoDefaultExcludes = true
	}
}

// ScrapeFlags tune the acquisition pipeline.
type ScrapeFlags struct {
	Engine            string        `short:"e" help:"Rendering engine: rod (headless Chrome) or http (static pages) (default: rod)"`
	Fallback          string        `help:"Extractor to try when no content selector matches (default: none)"`
	Selector          []string      `short:"s" help:"Main content selector, in priority order (repeatable)"`
	Concurrency       int           `short:"c" help:"Pages processed at once (default: 1)"`
	Rate              float64       `help:"Maximum navigations per second per host (default: unlimited)"`
	MaxPages          int           `help:"Pages per browser session before it is restarted (default: 75)"`
	Stealth           bool          `help:"Mask headless browser fingerprints"`
	Sanitize          bool          `help:"Sanitize extracted HTML before conversion"`
	NavigationTimeout time.Duration `help:"Navigation timeout per page (default: 45s)"`
	ReadyTimeout      time.Duration `help:"Network idle timeout per page (default: 45s)"`
}

func (f *ScrapeFlags) apply(cfg *Config) {
	if f.Engine != "" {
		cfg.Engine = f.Engine
	}
	if f.Fallback != "" {
		cfg.Fallback = f.Fallback
	}
	if len(f.Selector) > 0 {
		cfg.ContentSelectors = f.Selector
	}
	if f.Concurrency > 0 {
		cfg.Concurrency = f.Concurrency
	}
	if f.Rate > 0 {
		cfg.Rate = f.Rate
	}
	if f.MaxPages > 0 {
		cfg.MaxPages = f.MaxPages
	}
	if f.Stealth {
		cfg.Stealth = true
	}
	if f.Sanitize {
		cfg.Sanitize = true
	}
	if f.NavigationTimeout > 0 {
		cfg.NavigationTimeout = f.NavigationTimeout
	}
	if f.ReadyTimeout > 0 {
		cfg.ReadyTimeout = f.ReadyTimeout
	}
}

// DiscoverCmd is the "discover" subcommand.
type DiscoverCmd struct {
	Sitemap string `arg:"" help:"Sitemap URL or site root"`

	DiscoverFlags `embed:""`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	ScrapeFlags `embed:""`
}

// RunCmd is the "run" subcommand.
type RunCmd struct {
	Sitemap string `arg:"" help:"Sitemap URL or site root"`

	DiscoverFlags `embed:""`
	ScrapeFlags   `embed:""`
}

// StatusCmd is the "status" subcommand.
type StatusCmd struct{}

// ListCmd is the "list" subcommand.
type ListCmd struct {
	Collection string `arg:"" optional:"" help:"Collection to list: pages or posts (default: both)"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	Collection string `arg:"" help:"Collection: pages or posts"`
	Slug       string `arg:"" help:"Document slug"`
	Body       bool   `short:"b" help:"Print the markdown body"`
}

// ResetCmd is the "reset" subcommand.
type ResetCmd struct {
	URLs   []string `arg:"" optional:"" name:"url" help:"URLs to forget"`
	Failed bool     `help:"Forget every failed URL"`
}
