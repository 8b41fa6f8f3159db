package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// ParseFlexibleTime parses a timestamp arriving in any of the common wire
// formats (RFC 3339, date-only, US-style, unix-ish strings). An empty value
// yields the zero time without error; review timestamps are optional.
func ParseFlexibleTime(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, nil
	}

	t, err := dateparse.ParseAny(value)
	if err != nil {
		return time.Time{}, NewValidationErr(fmt.Sprintf("unparseable timestamp %q", value))
	}
	return t, nil
}
