package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeywordScore(t *testing.T) {
	tests := []struct {
		headline string
		expected int
	}{
		{"Ebola OUTBREAK declared", 2},
		{"Cholera claims lives in camp", 2},
		{"Malaria is spreading", 1},
		{"Cases confirmed", 1},
		{"Outbreak cases rise", 2},
		{"Vaccination drive begins", 0},
		{"", 0},
	}

	for _, tt := range tests {
		t.Run(tt.headline, func(t *testing.T) {
			assert.Equal(t, tt.expected, keywordScore(tt.headline))
		})
	}
}

func TestSeverityForScore(t *testing.T) {
	assert.Equal(t, SeverityLow, severityForScore(0))
	assert.Equal(t, SeverityMedium, severityForScore(1))
	assert.Equal(t, SeverityMedium, severityForScore(2))
	assert.Equal(t, SeverityHigh, severityForScore(3))
	assert.Equal(t, SeverityHigh, severityForScore(4))
}

func TestSeverityScore(t *testing.T) {
	assert.Equal(t, 4, severityScore(PriorityHigh, "deadly outbreak"))
	assert.Equal(t, 2, severityScore(PriorityMedium, "cases confirmed"))
	assert.Equal(t, 0, severityScore(PriorityUnknown, "vaccination"))
	assert.Equal(t, 2, severityScore(PriorityLow, "epidemic"))
}

func TestSeverity_Rank(t *testing.T) {
	assert.Greater(t, SeverityHigh.Rank(), SeverityMedium.Rank())
	assert.Greater(t, SeverityMedium.Rank(), SeverityLow.Rank())
	assert.Equal(t, 0, Severity("Critical").Rank())
	assert.False(t, Severity("").Valid())
}

func TestParseSeverity(t *testing.T) {
	for _, in := range []string{"High", "high", " HIGH "} {
		sev, err := ParseSeverity(in)
		require.NoError(t, err)
		assert.Equal(t, SeverityHigh, sev)
	}

	_, err := ParseSeverity("Critical")
	require.ErrorIs(t, err, ErrInvalidSeverity)
}
