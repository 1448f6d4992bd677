package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShortenHash(t *testing.T) {
	assert.Equal(t, "0xabc", ShortenHash("0xabc"))
	assert.Equal(t, "0x12345678...9abcdef0",
		ShortenHash("0x1234567800000000000000000000000000000000000000000000009abcdef0"))
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{30 * time.Minute, "30 minutes"},
		{time.Minute, "1 minute"},
		{time.Hour, "1 hour"},
		{90 * time.Minute, "1 hour 30 minutes"},
		{24 * time.Hour, "1 day"},
		{50 * time.Hour, "2 days 2 hours"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDuration(tt.in))
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1", formatAmount(1))
	assert.Equal(t, "0.5", formatAmount(0.5))
	assert.Equal(t, "12.125", formatAmount(12.125))
	assert.Equal(t, "0", formatAmount(0))
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, "yesterday", formatTimestamp("yesterday"))
	assert.NotEqual(t, "2025-03-10T10:00:00Z", formatTimestamp("2025-03-10T10:00:00Z"))
}
