package mock

import (
	"context"

	"github.com/fwojciec/siteport"
)

var (
	_ siteport.Ledger          = (*Ledger)(nil)
	_ siteport.AuditLog        = (*AuditLog)(nil)
	_ siteport.DiagnosticStore = (*DiagnosticStore)(nil)
)

// Ledger is a mock implementation of siteport.Ledger.
type Ledger struct {
	LoadFn    func(ctx context.Context) error
	IsDoneFn  func(url string) bool
	UpsertFn  func(rec *siteport.Record) error
	PersistFn func(ctx context.Context) error
	RecordsFn func() []*siteport.Record
	DeleteFn  func(url string) error
}

func (l *Ledger) Load(ctx context.Context) error {
	return l.LoadFn(ctx)
}

func (l *Ledger) IsDone(url string) bool {
	return l.IsDoneFn(url)
}

func (l *Ledger) Upsert(rec *siteport.Record) error {
	return l.UpsertFn(rec)
}

func (l *Ledger) Persist(ctx context.Context) error {
	return l.PersistFn(ctx)
}

func (l *Ledger) Records() []*siteport.Record {
	return l.RecordsFn()
}

func (l *Ledger) Delete(url string) error {
	return l.DeleteFn(url)
}

// AuditLog is a mock implementation of siteport.AuditLog.
type AuditLog struct {
	AppendSuccessFn func(ctx context.Context, rec *siteport.Record) error
	AppendFailureFn func(ctx context.Context, entry *siteport.FailureEntry) error
}

func (a *AuditLog) AppendSuccess(ctx context.Context, rec *siteport.Record) error {
	return a.AppendSuccessFn(ctx, rec)
}

func (a *AuditLog) AppendFailure(ctx context.Context, entry *siteport.FailureEntry) error {
	return a.AppendFailureFn(ctx, entry)
}

// DiagnosticStore is a mock implementation of siteport.DiagnosticStore.
type DiagnosticStore struct {
	PathsFn           func(slug string) (string, string)
	WriteHTMLFn       func(ctx context.Context, slug, html string) error
	WriteScreenshotFn func(ctx context.Context, slug string, png []byte) error
}

func (d *DiagnosticStore) Paths(slug string) (string, string) {
	return d.PathsFn(slug)
}

func (d *DiagnosticStore) WriteHTML(ctx context.Context, slug, html string) error {
	return d.WriteHTMLFn(ctx, slug, html)
}

func (d *DiagnosticStore) WriteScreenshot(ctx context.Context, slug string, png []byte) error {
	return d.WriteScreenshotFn(ctx, slug, png)
}
