package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseFlexibleTime(t *testing.T) {
	tests := map[string]struct {
		value   string
		want    time.Time
		wantErr bool
	}{
		"rfc3339": {
			value: "2025-06-15T10:30:00Z",
			want:  time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC),
		},
		"date-only": {
			value: "2025-06-15",
			want:  time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		},
		"us-style": {
			value: "06/15/2025",
			want:  time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		},
		"empty-is-zero-time": {
			value: "",
			want:  time.Time{},
		},
		"garbage": {
			value:   "not a date",
			wantErr: true,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseFlexibleTime(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				assert.IsType(t, &ValidationErr{}, err)
				return
			}
			assert.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
		})
	}
}
