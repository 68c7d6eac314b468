package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/siteport"
)

// Ensure LoggingWriter implements siteport.DocumentWriter.
var _ siteport.DocumentWriter = (*LoggingWriter)(nil)

// LoggingWriter wraps a DocumentWriter with logging.
type LoggingWriter struct {
	next   siteport.DocumentWriter
	logger *slog.Logger
}

// NewLoggingWriter creates a new LoggingWriter.
func NewLoggingWriter(next siteport.DocumentWriter, logger *slog.Logger) *LoggingWriter {
	return &LoggingWriter{next: next, logger: logger}
}

// WriteDocument delegates to the wrapped writer and logs the operation.
func (w *LoggingWriter) WriteDocument(ctx context.Context, doc *siteport.Document) (path string, err error) {
	defer func(begin time.Time) {
		w.logger.Debug("write document",
			"slug", doc.Slug,
			"collection", doc.Collection,
			"path", path,
			"bytes", len(doc.Body),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return w.next.WriteDocument(ctx, doc)
}
