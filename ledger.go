package siteport

import (
	"context"
	"time"
)

// Status is the outcome of the last processing attempt for a URL.
type Status string

// Status constants.
const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Record is the ledger entry for one URL and the unit of resumability.
// A record is replaced wholesale on every attempt, never merged.
type Record struct {
	URL    string    `json:"url"`
	Status Status    `json:"status"`
	Slug   string    `json:"slug"`
	Title  string    `json:"title,omitempty"`
	Reason string    `json:"reason,omitempty"`
	Time   time.Time `json:"time"`
}

// Validate returns an error if the record contains invalid fields.
func (r *Record) Validate() error {
	if r.URL == "" {
		return Errorf(EINVALID, "record URL required")
	}
	if r.Slug == "" {
		return Errorf(EINVALID, "record slug required")
	}
	switch r.Status {
	case StatusSuccess:
	case StatusFailed:
		if r.Reason == "" {
			return Errorf(EINVALID, "failed record reason required")
		}
	default:
		return Errorf(EINVALID, "invalid record status %q", r.Status)
	}
	return nil
}

// Ledger is the durable URL to outcome mapping that makes runs resumable.
//
// Upsert only changes in-memory state; Persist writes the full ledger so a
// crash can lose at most outcomes that were never persisted.
type Ledger interface {
	// Load reads persisted state. Missing state yields an empty ledger.
	// Unreadable state is handled according to the implementation's
	// corruption policy and is reported as ECORRUPT when fatal.
	Load(ctx context.Context) error

	// IsDone reports whether the URL's stored status is success.
	IsDone(url string) bool

	// Upsert replaces any record stored for rec.URL.
	Upsert(rec *Record) error

	// Persist writes the ledger to durable storage.
	Persist(ctx context.Context) error

	// Records returns a snapshot of all records sorted by URL.
	Records() []*Record

	// Delete removes the record for url so it is processed again.
	// Returns ENOTFOUND if no record exists.
	Delete(url string) error
}

// CorruptPolicy decides what a Ledger does with unreadable persisted state.
type CorruptPolicy string

// CorruptPolicy constants.
const (
	// CorruptReset starts from an empty ledger and keeps the unreadable
	// state aside for inspection.
	CorruptReset CorruptPolicy = "reset"

	// CorruptFail refuses to load, returning ECORRUPT.
	CorruptFail CorruptPolicy = "fail"
)

// FailureEntry is one line of the failure log.
// The artifact paths are where capture was attempted, even if writing failed.
type FailureEntry struct {
	URL            string `json:"url"`
	Reason         string `json:"reason"`
	HTMLPath       string `json:"htmlPath"`
	ScreenshotPath string `json:"screenshotPath"`
}

// AuditLog is the append-only history of processing outcomes.
type AuditLog interface {
	AppendSuccess(ctx context.Context, rec *Record) error
	AppendFailure(ctx context.Context, entry *FailureEntry) error
}

// DiagnosticStore persists page snapshots taken when processing fails.
type DiagnosticStore interface {
	// Paths returns where the HTML snapshot and screenshot for slug live.
	Paths(slug string) (htmlPath, screenshotPath string)

	WriteHTML(ctx context.Context, slug, html string) error
	WriteScreenshot(ctx context.Context, slug string, png []byte) error
}
