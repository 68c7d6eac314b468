package fs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/fwojciec/siteport"
)

// Audit log file names.
const (
	SuccessLogName = "success.jsonl"
	FailureLogName = "failed.jsonl"
)

// Ensure AuditLog implements siteport.AuditLog at compile time.
var _ siteport.AuditLog = (*AuditLog)(nil)

// AuditLog appends one JSON object per line to a success log and a
// failure log in dir.
type AuditLog struct {
	dir string
	mu  sync.Mutex
}

// NewAuditLog creates an AuditLog writing to dir.
func NewAuditLog(dir string) *AuditLog {
	return &AuditLog{dir: dir}
}

// AppendSuccess appends rec to the success log.
func (a *AuditLog) AppendSuccess(ctx context.Context, rec *siteport.Record) error {
	return a.append(ctx, SuccessLogName, rec)
}

// AppendFailure appends entry to the failure log.
func (a *AuditLog) AppendFailure(ctx context.Context, entry *siteport.FailureEntry) error {
	return a.append(ctx, FailureLogName, entry)
}

func (a *AuditLog) append(ctx context.Context, name string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	line, err := json.Marshal(v)
	if err != nil {
		return err
	}
	line = append(line, '\n')

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := os.MkdirAll(a.dir, 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(filepath.Join(a.dir, name), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(line); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
