package slog

import (
	"log/slog"
	"time"

	"github.com/fwojciec/siteport"
)

var (
	_ siteport.Extractor = (*LoggingExtractor)(nil)
	_ siteport.Converter = (*LoggingConverter)(nil)
)

// LoggingExtractor wraps an Extractor with debug logging. Name identifies
// the strategy when several extractors are chained.
type LoggingExtractor struct {
	next   siteport.Extractor
	name   string
	logger *slog.Logger
}

// NewLoggingExtractor creates a new LoggingExtractor.
func NewLoggingExtractor(next siteport.Extractor, name string, logger *slog.Logger) *LoggingExtractor {
	return &LoggingExtractor{next: next, name: name, logger: logger}
}

// Extract delegates to the wrapped extractor and logs the result.
func (e *LoggingExtractor) Extract(html string) (content *siteport.ExtractedContent, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"extractor", e.name,
			"input", len(html),
			"duration", time.Since(begin),
		}
		if content != nil {
			attrs = append(attrs, "title", content.Title, "output", len(content.HTML))
		}
		if err != nil {
			attrs = append(attrs, "code", siteport.ErrorCode(err), "err", err)
		}
		e.logger.Debug("extract", attrs...)
	}(time.Now())
	return e.next.Extract(html)
}

// LoggingConverter wraps a Converter with debug logging.
type LoggingConverter struct {
	next   siteport.Converter
	logger *slog.Logger
}

// NewLoggingConverter creates a new LoggingConverter.
func NewLoggingConverter(next siteport.Converter, logger *slog.Logger) *LoggingConverter {
	return &LoggingConverter{next: next, logger: logger}
}

// Convert delegates to the wrapped converter and logs the result.
func (c *LoggingConverter) Convert(html string) (markdown string, err error) {
	defer func(begin time.Time) {
		c.logger.Debug("convert",
			"input", len(html),
			"output", len(markdown),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Convert(html)
}
