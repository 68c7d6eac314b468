package sqlite

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/fwojciec/siteport"
)

var _ siteport.Ledger = (*Ledger)(nil)

// Ledger implements siteport.Ledger on top of a records table.
// Changes are buffered in memory and written in a single transaction by
// Persist, so a crash between Persists loses only unpersisted records.
type Ledger struct {
	db *DB

	mu      sync.Mutex
	records map[string]*siteport.Record
	dirty   map[string]struct{}
	deleted map[string]struct{}
}

// NewLedger creates a Ledger backed by an opened DB.
func NewLedger(db *DB) *Ledger {
	return &Ledger{
		db:      db,
		records: make(map[string]*siteport.Record),
		dirty:   make(map[string]struct{}),
		deleted: make(map[string]struct{}),
	}
}

// Load reads every row of the records table into memory, discarding any
// unpersisted changes.
func (l *Ledger) Load(ctx context.Context) error {
	rows, err := l.db.QueryContext(ctx, `SELECT url, status, slug, title, reason, time FROM records`)
	if err != nil {
		return siteport.Errorf(siteport.ECORRUPT, "reading ledger: %v", err)
	}
	defer rows.Close()

	records := make(map[string]*siteport.Record)
	for rows.Next() {
		var rec siteport.Record
		var status, ts string
		if err := rows.Scan(&rec.URL, &status, &rec.Slug, &rec.Title, &rec.Reason, &ts); err != nil {
			return err
		}
		rec.Status = siteport.Status(status)
		if rec.Time, err = parseRFC3339(ts, "time"); err != nil {
			return siteport.Errorf(siteport.ECORRUPT, "record %s: %v", rec.URL, err)
		}
		records[rec.URL] = &rec
	}
	if err := rows.Err(); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = records
	l.dirty = make(map[string]struct{})
	l.deleted = make(map[string]struct{})
	return nil
}

// IsDone reports whether url has a success record.
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
	l.records[cp.URL] = &cp
	l.dirty[cp.URL] = struct{}{}
	delete(l.deleted, cp.URL)
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
	delete(l.dirty, url)
	l.deleted[url] = struct{}{}
	return nil
}

// Records returns copies of all records sorted by URL.
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

// Persist writes buffered changes in one transaction.
func (l *Ledger) Persist(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.dirty) == 0 && len(l.deleted) == 0 {
		return nil
	}

	tx, err := l.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for url := range l.deleted {
		if _, err := tx.ExecContext(ctx, `DELETE FROM records WHERE url = ?`, url); err != nil {
			return err
		}
	}
	for url := range l.dirty {
		if err := upsertRecord(ctx, tx, l.records[url]); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	l.dirty = make(map[string]struct{})
	l.deleted = make(map[string]struct{})
	return nil
}

func upsertRecord(ctx context.Context, tx *sql.Tx, rec *siteport.Record) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO records (url, status, slug, title, reason, time)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			status = excluded.status,
			slug = excluded.slug,
			title = excluded.title,
			reason = excluded.reason,
			time = excluded.time
	`, rec.URL, string(rec.Status), rec.Slug, rec.Title, rec.Reason, rec.Time.UTC().Format(timeLayout))
	return err
}
