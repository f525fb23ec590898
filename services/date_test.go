package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseEventDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
		wantErr  bool
	}{
		{
			name:     "Valid date",
			input:    "2024-02-05",
			expected: time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "Day first",
			input:   "05-02-2024",
			wantErr: true,
		},
		{
			name:    "Invalid day",
			input:   "2024-02-30",
			wantErr: true,
		},
		{
			name:    "Empty string",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEventDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestFormatEventDate(t *testing.T) {
	d := time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "2/5/2024", FormatEventDate(d, "1/2/2006"))
	assert.Equal(t, "5-2-2024", FormatEventDate(d, "2-1-2006"))
	assert.Equal(t, "2024-02-05", FormatEventDate(d, ""))
}

func TestDateOnly(t *testing.T) {
	in := time.Date(2024, 3, 9, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), dateOnly(in))
}
