package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmehra2102/todotracker/internal/domain"
)

func TestParseSort_Empty(t *testing.T) {
	for _, raw := range []string{"", "   ", ","} {
		spec, err := ParseSort(raw)
		require.NoError(t, err, "input %q", raw)
		assert.True(t, spec.IsUnsorted(), "input %q", raw)
	}
}

func TestParseSort_MultipleTokens(t *testing.T) {
	spec, err := ParseSort("priority:asc, dueDate : desc")
	require.NoError(t, err)

	assert.Equal(t, domain.SortSpec{
		{Field: domain.SortByPriority, Direction: domain.SortAscending},
		{Field: domain.SortByDueDate, Direction: domain.SortDescending},
	}, spec)
	assert.Equal(t, "priority:asc,dueDate:desc", spec.String())
}

func TestParseSort_TrailingComma(t *testing.T) {
	spec, err := ParseSort("dueDate:asc,")
	require.NoError(t, err)
	assert.Len(t, spec, 1)
}

func TestParseSort_Errors(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		mention string
	}{
		{name: "unknown direction", raw: "priority:up", mention: `"up"`},
		{name: "unknown field", raw: "color:asc", mention: `"color"`},
		{name: "direction is case sensitive", raw: "priority:ASC", mention: `"ASC"`},
		{name: "missing direction", raw: "priority", mention: `"priority"`},
		{name: "empty direction", raw: "priority:", mention: `"priority:"`},
		{name: "empty field", raw: " :asc", mention: `":asc"`},
		{name: "too many parts", raw: "dueDate:asc:desc", mention: `"dueDate:asc:desc"`},
		{name: "blank middle token", raw: "priority:asc, ,dueDate:asc", mention: `" "`},
		{name: "error in later token", raw: "priority:asc,title:desc", mention: `"title"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := ParseSort(tt.raw)
			require.Error(t, err)
			assert.Nil(t, spec)
			assert.ErrorIs(t, err, domain.ErrInvalidSort)
			assert.Contains(t, err.Error(), tt.mention)
		})
	}
}

func TestValidateSortSpec(t *testing.T) {
	assert.NoError(t, ValidateSortSpec(nil))
	assert.NoError(t, ValidateSortSpec(domain.SortSpec{{Field: domain.SortByDueDate, Direction: domain.SortDescending}}))

	err := ValidateSortSpec(domain.SortSpec{{Field: "text", Direction: domain.SortAscending}})
	assert.ErrorIs(t, err, domain.ErrInvalidSort)

	err = ValidateSortSpec(domain.SortSpec{{Field: domain.SortByPriority, Direction: "sideways"}})
	assert.ErrorIs(t, err, domain.ErrInvalidSort)
}
