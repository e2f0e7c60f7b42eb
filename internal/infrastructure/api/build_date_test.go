package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseBuildDate(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want time.Time
		ok   bool
	}{
		{"rfc3339", "2025-03-14T09:26:53Z", time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC), true},
		{"rfc3339 fraction", "2025-03-14T09:26:53.5+02:00", time.Date(2025, 3, 14, 7, 26, 53, 5e8, time.UTC), true},
		{"offset form", "2025-03-14 09:26:53 +00:00", time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC), true},
		{"utc suffix", "2025-03-14 09:26:53 UTC", time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC), true},
		{"naive", "2025-03-14 09:26:53", time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC), true},
		{"date only", "2025-03-14", time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC), true},
		{"empty", "", time.Time{}, false},
		{"garbage", "last tuesday", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := parseBuildDate(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.True(t, tt.want.Equal(got), "got %v want %v", got, tt.want)
		})
	}
}
