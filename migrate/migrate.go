// Package migrate drives the page acquisition pipeline: it walks a URL list,
// renders each page, extracts and converts the main content, writes content
// files and records every outcome in the ledger so an interrupted run can
// resume where it stopped.
package migrate

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/fwojciec/siteport"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Default timeouts.
const (
	DefaultNavigationTimeout = 45 * time.Second
	DefaultReadyTimeout      = 45 * time.Second
	DefaultCaptureTimeout    = 15 * time.Second
)

// Migrator processes URLs into content files.
type Migrator struct {
	Ledger      siteport.Ledger
	Browser     siteport.Browser
	Extractor   siteport.Extractor
	Converter   siteport.Converter
	Writer      siteport.DocumentWriter
	Diagnostics siteport.DiagnosticStore
	Audit       siteport.AuditLog

	// RateLimiter, if set, paces navigations per host.
	RateLimiter siteport.DomainLimiter
	Logger      *slog.Logger

	NavigationTimeout time.Duration
	ReadyTimeout      time.Duration
	CaptureTimeout    time.Duration

	// Concurrency bounds the number of pages open at once. Zero or one
	// processes URLs strictly in order.
	Concurrency int

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// Result summarizes a run.
type Result struct {
	RunID     string
	Total     int
	Succeeded int
	Skipped   int
	Failed    int
	Bytes     int
}

// ProgressEvent reports progress during a run.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Outcome   *Outcome
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressSkipped
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting run progress. Calls are serialized.
type ProgressFunc func(event ProgressEvent)

// Run processes urls in order. URLs already recorded as successful are
// skipped; everything else is attempted once. Each outcome is committed to
// the ledger before the worker takes another URL.
//
// Per-URL failures never stop the run. Run returns an EPARTIAL error along
// with the result when at least one URL failed, and aborts only when the
// ledger or audit log cannot be written or ctx is canceled.
func (m *Migrator) Run(ctx context.Context, urls []string, progress ProgressFunc) (*Result, error) {
	runID := uuid.NewString()
	logger := m.logger().With("run", runID)

	if err := m.Ledger.Load(ctx); err != nil {
		return nil, err
	}

	urls = dedupe(urls)
	r := &runner{
		m:        m,
		logger:   logger,
		progress: progress,
		result:   &Result{RunID: runID, Total: len(urls)},
	}

	logger.Info("run started", "urls", len(urls), "concurrency", m.concurrency())
	r.emit(ProgressEvent{Type: ProgressStarted, Total: len(urls)})

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency())

	for _, u := range urls {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			o := m.process(gctx, logger, u)
			// An interrupted URL stays pending rather than being recorded
			// with a cancellation reason.
			if err := gctx.Err(); err != nil {
				return err
			}
			return r.commit(gctx, o)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("run aborted", "err", err)
		return r.result, err
	}
	if err := ctx.Err(); err != nil {
		return r.result, err
	}

	res := r.result
	r.emit(ProgressEvent{Type: ProgressFinished, Completed: res.Total, Total: res.Total})
	logger.Info("run finished",
		"succeeded", res.Succeeded,
		"skipped", res.Skipped,
		"failed", res.Failed,
	)

	if res.Failed > 0 {
		return res, siteport.Errorf(siteport.EPARTIAL, "%d of %d URLs failed", res.Failed, res.Total)
	}
	return res, nil
}

// runner holds the single commit point of a run.
type runner struct {
	m        *Migrator
	logger   *slog.Logger
	progress ProgressFunc

	mu        sync.Mutex
	completed int
	result    *Result
}

// commit records a terminal outcome: ledger upsert, audit line, persist.
func (r *runner) commit(ctx context.Context, o *Outcome) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	event := ProgressEvent{URL: o.URL, Outcome: o, Total: r.result.Total}

	switch o.State {
	case StateSkipped:
		r.result.Skipped++
		event.Type = ProgressSkipped

	case StateSuccess:
		rec := &siteport.Record{
			URL:    o.URL,
			Status: siteport.StatusSuccess,
			Slug:   o.Slug,
			Title:  o.Title,
			Time:   o.Time,
		}
		if err := r.m.Ledger.Upsert(rec); err != nil {
			return fmt.Errorf("recording %s: %w", o.URL, err)
		}
		if err := r.m.Audit.AppendSuccess(ctx, rec); err != nil {
			return fmt.Errorf("appending success log: %w", err)
		}
		if err := r.m.Ledger.Persist(ctx); err != nil {
			return fmt.Errorf("persisting ledger: %w", err)
		}
		r.result.Succeeded++
		r.result.Bytes += o.Bytes
		event.Type = ProgressCompleted
		r.logger.Info("page migrated", "url", o.URL, "collection", o.Collection, "path", o.Path)

	case StateFailed:
		rec := &siteport.Record{
			URL:    o.URL,
			Status: siteport.StatusFailed,
			Slug:   o.Slug,
			Reason: o.Reason,
			Time:   o.Time,
		}
		if err := r.m.Ledger.Upsert(rec); err != nil {
			return fmt.Errorf("recording %s: %w", o.URL, err)
		}
		entry := &siteport.FailureEntry{
			URL:            o.URL,
			Reason:         o.Reason,
			HTMLPath:       o.HTMLPath,
			ScreenshotPath: o.ScreenshotPath,
		}
		if err := r.m.Audit.AppendFailure(ctx, entry); err != nil {
			return fmt.Errorf("appending failure log: %w", err)
		}
		if err := r.m.Ledger.Persist(ctx); err != nil {
			return fmt.Errorf("persisting ledger: %w", err)
		}
		r.result.Failed++
		event.Type = ProgressFailed
		r.logger.Warn("page failed", "url", o.URL, "code", o.Code, "reason", o.Reason)

	default:
		return siteport.Errorf(siteport.EINTERNAL, "outcome for %s ended in non-terminal state %s", o.URL, o.State)
	}

	r.completed++
	event.Completed = r.completed
	if r.progress != nil {
		r.progress(event)
	}
	return nil
}

func (r *runner) emit(event ProgressEvent) {
	if r.progress == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress(event)
}

// process takes one URL through the lifecycle. It never returns an error:
// every failure is folded into the outcome.
func (m *Migrator) process(ctx context.Context, logger *slog.Logger, rawURL string) *Outcome {
	o := newOutcome(rawURL, m.now())

	if m.Ledger.IsDone(rawURL) {
		o.advance(StateSkipped)
		return o
	}

	page, err := m.Browser.NewPage(ctx)
	if err != nil {
		o.setFailure(fmt.Errorf("opening page: %w", err))
		o.advance(StateFailed)
		return o
	}
	defer func() {
		if err := page.Close(); err != nil {
			logger.Debug("closing page", "url", rawURL, "err", err)
		}
	}()

	o.advance(StateNavigating)
	if err := m.navigate(ctx, page, rawURL); err != nil {
		m.fail(ctx, logger, page, o, err)
		return o
	}

	o.advance(StateReady)
	readyCtx, cancel := context.WithTimeout(ctx, orDefault(m.ReadyTimeout, DefaultReadyTimeout))
	err = page.WaitReady(readyCtx)
	cancel()
	if err != nil {
		m.fail(ctx, logger, page, o, err)
		return o
	}

	o.advance(StateExtracting)
	html, err := page.HTML(ctx)
	if err != nil {
		m.fail(ctx, logger, page, o, siteport.Errorf(siteport.ENOCONTENT, "reading rendered page: %v", err))
		return o
	}
	content, err := m.Extractor.Extract(html)
	if err != nil {
		m.fail(ctx, logger, page, o, err)
		return o
	}
	markdown, err := m.Converter.Convert(content.HTML)
	if err != nil {
		m.fail(ctx, logger, page, o, err)
		return o
	}

	o.advance(StateConverted)
	doc := &siteport.Document{
		Title:      content.Title,
		Slug:       o.Slug,
		SourceURL:  rawURL,
		ImportedAt: o.Time,
		Collection: o.Collection,
		Body:       markdown,
	}
	path, err := m.Writer.WriteDocument(ctx, doc)
	if err != nil {
		o.setFailure(fmt.Errorf("writing content file: %w", err))
		o.advance(StateFailed)
		return o
	}

	o.advance(StateWritten)
	o.Title = content.Title
	o.Path = path
	o.Bytes = len(markdown)
	o.advance(StateSuccess)
	return o
}

// navigate waits for the rate limiter, then loads the URL under the
// navigation timeout.
func (m *Migrator) navigate(ctx context.Context, page siteport.Page, rawURL string) error {
	if m.RateLimiter != nil {
		host := rawURL
		if u, err := url.Parse(rawURL); err == nil {
			host = u.Host
		}
		if err := m.RateLimiter.Wait(ctx, host); err != nil {
			return siteport.Errorf(siteport.ENAVIGATION, "rate limiter: %v", err)
		}
	}

	navCtx, cancel := context.WithTimeout(ctx, orDefault(m.NavigationTimeout, DefaultNavigationTimeout))
	defer cancel()
	return page.Navigate(navCtx, rawURL)
}

// fail records the reason, captures diagnostics and finishes the outcome.
func (m *Migrator) fail(ctx context.Context, logger *slog.Logger, page siteport.Page, o *Outcome, err error) {
	o.setFailure(err)
	o.advance(StateFailureCapture)
	o.HTMLPath, o.ScreenshotPath = m.Diagnostics.Paths(o.Slug)
	m.capture(ctx, logger, page, o)
	o.advance(StateFailed)
}

func (m *Migrator) logger() *slog.Logger {
	if m.Logger != nil {
		return m.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func (m *Migrator) now() time.Time {
	if m.Now != nil {
		return m.Now().UTC()
	}
	return time.Now().UTC()
}

func (m *Migrator) concurrency() int {
	if m.Concurrency < 1 {
		return 1
	}
	return m.Concurrency
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

// dedupe drops repeated URLs keeping the first occurrence, so no URL is
// attempted twice in one run.
func dedupe(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}
