package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/siteport"
	"github.com/fwojciec/siteport/fs"
	"github.com/fwojciec/siteport/goquery"
	"github.com/fwojciec/siteport/htmltomarkdown"
	sitehttp "github.com/fwojciec/siteport/http"
	"github.com/fwojciec/siteport/migrate"
	"github.com/fwojciec/siteport/readability"
	"github.com/fwojciec/siteport/rod"
	siteslog "github.com/fwojciec/siteport/slog"
	"github.com/fwojciec/siteport/sqlite"
	"github.com/fwojciec/siteport/trafilatura"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	m := NewMain()

	err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		os.Exit(ExitCode(err))
	}
}

// ExitCode maps a run error to the process exit status: 2 when the run
// finished with failed URLs, 1 for anything that stopped it.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case siteport.ErrorCode(err) == siteport.EPARTIAL:
		return 2
	default:
		return 1
	}
}

// Main represents the program.
type Main struct {
	// SQLite database backing the ledger when the sqlite backend is used.
	DB *sqlite.DB

	// Services for end-to-end testing. When nil, Run builds the real ones.
	Browser  siteport.Browser
	Sitemaps siteport.SitemapService

	// Now overrides the import timestamp clock.
	Now func() time.Time
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments. Errors are reported on
// stderr before being returned, except partial failures whose summary has
// already been printed.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	err := m.run(ctx, args, stdout, stderr)
	if err != nil && siteport.ErrorCode(err) != siteport.EPARTIAL {
		fmt.Fprintf(stderr, "error: %s\n", siteport.ErrorMessage(err))
	}
	return err
}

func (m *Main) run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("siteport"),
		kong.Description("Migrate a website into markdown content files"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'siteport --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	cfg, err := m.config(cli, cmd)
	if err != nil {
		return err
	}
	deps.Config = cfg
	deps.Logger = newLogger(stderr, cli.Verbose)

	if cmd == "discover" || cmd == "run" {
		sitemaps := m.Sitemaps
		if sitemaps == nil {
			sitemaps = sitehttp.NewSitemapService(nil)
		}
		deps.Sitemaps = siteslog.NewLoggingSitemapService(sitemaps, deps.Logger)
	}

	if cmd == "list" || cmd == "show" {
		deps.Content = fs.NewContentService(cfg.ContentDir)
	}

	if cmd == "scrape" || cmd == "run" || cmd == "status" || cmd == "reset" {
		ledger, err := m.openLedger(cfg, deps.Logger)
		if err != nil {
			return err
		}
		defer m.Close()
		deps.Ledger = ledger
	}

	if cmd == "scrape" || cmd == "run" {
		// The browser starts only once a command has URLs to process.
		var browser siteport.Browser
		defer func() {
			if browser != nil {
				browser.Close()
			}
		}()
		deps.OpenMigrator = func() (*migrate.Migrator, error) {
			b, err := m.openBrowser(cfg, stderr)
			if err != nil {
				return nil, err
			}
			browser = b
			return m.newMigrator(cfg, deps.Logger, deps.Ledger, b)
		}
	}

	return kongCtx.Run(deps)
}

// config builds the effective configuration: file, then flags, then defaults.
func (m *Main) config(cli *CLI, cmd string) (*Config, error) {
	cfg := &Config{}
	if cli.Config != "" {
		loaded, err := LoadConfig(cli.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	cli.apply(cfg)
	switch cmd {
	case "discover":
		cli.Discover.DiscoverFlags.apply(cfg)
	case "scrape":
		cli.Scrape.ScrapeFlags.apply(cfg)
	case "run":
		cli.Run.DiscoverFlags.apply(cfg)
		cli.Run.ScrapeFlags.apply(cfg)
	}
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func (m *Main) openLedger(cfg *Config, logger *slog.Logger) (siteport.Ledger, error) {
	path := cfg.LedgerPath()
	policy := siteport.CorruptPolicy(cfg.CorruptPolicy)

	if cfg.Ledger == "json" {
		return fs.NewLedger(path, fs.WithCorruptPolicy(policy), fs.WithLogger(logger)), nil
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	m.DB = sqlite.NewDB(path)
	err := m.DB.Open()
	if err == nil {
		return sqlite.NewLedger(m.DB), nil
	}
	if _, statErr := os.Stat(path); statErr != nil {
		return nil, fmt.Errorf("failed to open ledger database at %q: %w", path, err)
	}
	if policy == siteport.CorruptFail {
		return nil, siteport.Errorf(siteport.ECORRUPT, "ledger database %s is unreadable: %v", path, err)
	}

	backup := fmt.Sprintf("%s.corrupt-%d", path, time.Now().Unix())
	if renameErr := os.Rename(path, backup); renameErr != nil {
		return nil, siteport.Errorf(siteport.ECORRUPT, "ledger database %s is unreadable: %v", path, err)
	}
	logger.Warn("ledger database unreadable, starting fresh", "path", path, "backup", backup, "err", err)

	m.DB = sqlite.NewDB(path)
	if err := m.DB.Open(); err != nil {
		return nil, fmt.Errorf("failed to open ledger database at %q: %w", path, err)
	}
	return sqlite.NewLedger(m.DB), nil
}

func (m *Main) openBrowser(cfg *Config, stderr io.Writer) (siteport.Browser, error) {
	if m.Browser != nil {
		return m.Browser, nil
	}

	switch cfg.Engine {
	case "http":
		return sitehttp.NewBrowser(sitehttp.WithTimeout(cfg.NavigationTimeout)), nil
	default:
		browser, err := rod.NewBrowserManager(
			rod.WithMaxPages(int64(cfg.MaxPages)),
			rod.WithStealth(cfg.Stealth),
		)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed, or use --engine http for static sites")
			return nil, fmt.Errorf("failed to start browser: %w", err)
		}
		return browser, nil
	}
}

func (m *Main) newMigrator(cfg *Config, logger *slog.Logger, ledger siteport.Ledger, browser siteport.Browser) (*migrate.Migrator, error) {
	var selectorOpts []goquery.Option
	if len(cfg.ContentSelectors) > 0 {
		selectorOpts = append(selectorOpts, goquery.WithContentSelectors(cfg.ContentSelectors...))
	}
	var extractor siteport.Extractor = siteslog.NewLoggingExtractor(goquery.NewExtractor(selectorOpts...), "selector", logger)
	switch cfg.Fallback {
	case "trafilatura":
		extractor = migrate.ChainExtractor{extractor, siteslog.NewLoggingExtractor(trafilatura.NewExtractor(), "trafilatura", logger)}
	case "readability":
		extractor = migrate.ChainExtractor{extractor, siteslog.NewLoggingExtractor(readability.NewExtractor(), "readability", logger)}
	}

	var converterOpts []htmltomarkdown.Option
	if cfg.Sanitize {
		converterOpts = append(converterOpts, htmltomarkdown.WithSanitizer())
	}

	writer := fs.NewWriter(cfg.ContentDir)
	if err := writer.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("creating content directories: %w", err)
	}

	var limiter siteport.DomainLimiter
	if cfg.Rate > 0 {
		limiter = migrate.NewDomainLimiter(cfg.Rate)
	}

	return &migrate.Migrator{
		Ledger:            ledger,
		Browser:           siteslog.NewLoggingBrowser(browser, logger),
		Extractor:         extractor,
		Converter:         siteslog.NewLoggingConverter(htmltomarkdown.NewConverter(converterOpts...), logger),
		Writer:            siteslog.NewLoggingWriter(writer, logger),
		Diagnostics:       fs.NewDiagnostics(cfg.HTMLDir(), cfg.ScreenshotDir()),
		Audit:             fs.NewAuditLog(cfg.LogsDir()),
		RateLimiter:       limiter,
		Logger:            logger,
		NavigationTimeout: cfg.NavigationTimeout,
		ReadyTimeout:      cfg.ReadyTimeout,
		Concurrency:       cfg.Concurrency,
		Now:               m.Now,
	}, nil
}
