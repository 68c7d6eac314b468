package sqlite

import (
	"fmt"
	"time"
)

// timeLayout keeps millisecond precision so rows sort the same as the JSON ledger.
const timeLayout = "2006-01-02T15:04:05.000Z07:00"

// parseRFC3339 parses an RFC3339 formatted timestamp string.
// Returns an error if parsing fails with a descriptive message including the field name.
func parseRFC3339(value, fieldName string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return t, nil
}
