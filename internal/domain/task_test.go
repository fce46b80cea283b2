package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTaskTextLength(t *testing.T) {
	now := time.Date(2025, 5, 20, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		text string
		want error
	}{
		{"blank", "    ", ErrEmptyText},
		{"too short", "ab", ErrTextTooShort},
		{"padding counts toward length", " ab ", nil},
		{"multibyte runes", "äöü", nil},
		{"max length", strings.Repeat("x", MaxTextLength), nil},
		{"too long", strings.Repeat("x", MaxTextLength+1), ErrTextTooLong},
		{"padding counts toward max", strings.Repeat("x", MaxTextLength) + " ", ErrTextTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := NewTask(tt.text, PriorityLow, nil, now)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.text, task.Text)
		})
	}
}
