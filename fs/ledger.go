package fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fwojciec/siteport"
)

// Ensure Ledger implements siteport.Ledger at compile time.
var _ siteport.Ledger = (*Ledger)(nil)

// Ledger implements siteport.Ledger as a single JSON object on disk,
// keyed by URL. Persist replaces the file atomically.
//
// Ledger is safe for concurrent use.
type Ledger struct {
	path   string
	policy siteport.CorruptPolicy
	logger *slog.Logger
	now    func() time.Time

	mu      sync.Mutex
	records map[string]*siteport.Record
}

// LedgerOption configures a Ledger.
type LedgerOption func(*Ledger)

// WithCorruptPolicy sets what Load does with an unreadable ledger file.
// Defaults to siteport.CorruptReset.
func WithCorruptPolicy(p siteport.CorruptPolicy) LedgerOption {
	return func(l *Ledger) {
		l.policy = p
	}
}

// WithLogger sets the logger used to report a reset ledger.
func WithLogger(logger *slog.Logger) LedgerOption {
	return func(l *Ledger) {
		l.logger = logger
	}
}

// NewLedger creates a Ledger backed by the file at path.
func NewLedger(path string, opts ...LedgerOption) *Ledger {
	l := &Ledger{
		path:    path,
		policy:  siteport.CorruptReset,
		logger:  slog.Default(),
		now:     time.Now,
		records: make(map[string]*siteport.Record),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Path returns the ledger file path.
func (l *Ledger) Path() string {
	return l.path
}

// Load reads the ledger file. A missing file yields an empty ledger.
func (l *Ledger) Load(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	data, err := os.ReadFile(l.path)
	if errors.Is(err, os.ErrNotExist) {
		l.records = make(map[string]*siteport.Record)
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading ledger: %w", err)
	}

	records := make(map[string]*siteport.Record)
	if err := json.Unmarshal(data, &records); err != nil {
		return l.handleCorrupt(err)
	}
	// A literal null decodes without error into a nil map.
	if records == nil {
		records = make(map[string]*siteport.Record)
	}

	// Older ledgers keyed records by URL without storing it in the value.
	for url, rec := range records {
		if rec == nil {
			delete(records, url)
			continue
		}
		rec.URL = url
	}

	l.records = records
	return nil
}

// handleCorrupt applies the corruption policy. Must be called with mu held.
func (l *Ledger) handleCorrupt(cause error) error {
	if l.policy == siteport.CorruptFail {
		return siteport.Errorf(siteport.ECORRUPT, "ledger %s is unreadable: %v", l.path, cause)
	}

	backup := fmt.Sprintf("%s.corrupt-%d", l.path, l.now().Unix())
	if err := os.Rename(l.path, backup); err != nil {
		return fmt.Errorf("preserving corrupt ledger: %w", err)
	}
	l.logger.Warn("ledger unreadable, starting empty",
		"path", l.path,
		"backup", backup,
		"err", cause,
	)
	l.records = make(map[string]*siteport.Record)
	return nil
}

// IsDone reports whether url's last outcome was a success.
func (l *Ledger) IsDone(url string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	rec, ok := l.records[url]
	return ok && rec.Status == siteport.StatusSuccess
}

// Upsert replaces the record for rec.URL.
func (l *Ledger) Upsert(rec *siteport.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	cp := *rec

	l.mu.Lock()
	defer l.mu.Unlock()
	l.records[rec.URL] = &cp
	return nil
}

// Delete removes the record for url.
func (l *Ledger) Delete(url string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.records[url]; !ok {
		return siteport.Errorf(siteport.ENOTFOUND, "no ledger record for %s", url)
	}
	delete(l.records, url)
	return nil
}

// Records returns a copy of all records sorted by URL.
func (l *Ledger) Records() []*siteport.Record {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]*siteport.Record, 0, len(l.records))
	for _, rec := range l.records {
		cp := *rec
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URL < out[j].URL })
	return out
}

// Persist writes the full ledger to a temporary file and renames it over
// the ledger path, so readers never observe a partially written ledger.
func (l *Ledger) Persist(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	data, err := json.MarshalIndent(l.records, "", "  ")
	l.mu.Unlock()
	if err != nil {
		return fmt.Errorf("encoding ledger: %w", err)
	}

	return writeFileAtomic(l.path, data)
}

// writeFileAtomic writes data next to path and renames it into place.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
