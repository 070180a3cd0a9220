package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekIdentifier(t *testing.T) {
	tests := []struct {
		name     string
		date     time.Time
		expected string
	}{
		{"元旦落在第一周", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "2024-01"},
		{"元旦落在第一周（周四开年）", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), "2026-01"},
		{"年中", time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC), "2026-36"},
		{"跨年前最后一天", time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC), "2024-53"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, WeekIdentifier(tt.date))
		})
	}
}

func TestWeekIdentifierStableWithinDay(t *testing.T) {
	morning := time.Date(2026, 5, 20, 0, 0, 1, 0, time.UTC)
	night := time.Date(2026, 5, 20, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, WeekIdentifier(morning), WeekIdentifier(night))
}
