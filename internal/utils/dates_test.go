package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	date, err := ParseDate(" 2025-03-04 ")
	require.NoError(t, err)
	require.Equal(t, time.Date(2025, time.March, 4, 0, 0, 0, 0, time.UTC), date)

	_, err = ParseDate("04.03.2025")
	require.Error(t, err)

	optional, err := ParseOptionalDate("")
	require.NoError(t, err)
	require.Nil(t, optional)
}

func TestValidateTimeRange(t *testing.T) {
	tests := []struct {
		start, end string
		ok         bool
	}{
		{"17:30", "19:00", true},
		{"19:00", "19:00", false},
		{"19:00", "18:00", false},
		{"7pm", "20:00", false},
		{"18:00", "25:00", false},
	}

	for _, tt := range tests {
		err := ValidateTimeRange(tt.start, tt.end)
		if tt.ok {
			require.NoError(t, err, "%s-%s", tt.start, tt.end)
		} else {
			require.Error(t, err, "%s-%s", tt.start, tt.end)
		}
	}
}

func TestMonthRange(t *testing.T) {
	start, end := MonthRange(2024, time.December)
	require.Equal(t, time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), start)
	require.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestRenderMarkdownEscapesRawHTML(t *testing.T) {
	html, err := RenderMarkdown("**Fair play**\nalways\n\n<b>raw</b>")
	require.NoError(t, err)
	require.Contains(t, html, "<strong>Fair play</strong><br>")
	require.NotContains(t, html, "<b>raw</b>")
}

func TestGenerateTemporaryPassword(t *testing.T) {
	first, err := GenerateTemporaryPassword(12)
	require.NoError(t, err)
	second, err := GenerateTemporaryPassword(12)
	require.NoError(t, err)

	require.Len(t, first, 12)
	require.NotEqual(t, first, second)
}
