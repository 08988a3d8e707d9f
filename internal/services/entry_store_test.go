package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AnshRaj112/lifestory-backend/internal/models"
)

func TestSnippet(t *testing.T) {
	exact := strings.Repeat("x", 100)
	assert.Equal(t, exact, Snippet(&exact), "100 characters are kept whole")

	over := strings.Repeat("y", 101)
	assert.Equal(t, strings.Repeat("y", 100)+"...", Snippet(&over))

	multibyte := strings.Repeat("é", 101)
	assert.Equal(t, strings.Repeat("é", 100)+"...", Snippet(&multibyte), "counts characters, not bytes")

	empty := ""
	assert.Equal(t, "No text content.", Snippet(&empty))
	assert.Equal(t, "No text content.", Snippet(nil))
}

func TestMostActiveMonth(t *testing.T) {
	assert.Equal(t, "-", mostActiveMonth(nil))
	assert.Equal(t, "2024-02", mostActiveMonth([]models.MonthCount{
		{Month: "2024-01", Count: 1},
		{Month: "2024-02", Count: 3},
		{Month: "2024-03", Count: 2},
	}))
	assert.Equal(t, "2023-05", mostActiveMonth([]models.MonthCount{
		{Month: "2023-05", Count: 4},
		{Month: "2023-09", Count: 4},
	}), "earliest month wins ties")
}

func TestNewDashboardStatsEmpty(t *testing.T) {
	stats := newDashboardStats(0, 0, nil)
	assert.NotNil(t, stats.EntriesPerMonth)
	assert.Equal(t, "-", stats.MostActiveMonth)
}

func TestImagePaths(t *testing.T) {
	assert.Equal(t, []string{"/uploads/a.png", "/uploads/b.png"}, SplitImagePaths(" /uploads/a.png, ,/uploads/b.png,"))
	assert.Equal(t, []string{}, SplitImagePaths(""))
	assert.Equal(t, []string{"a"}, NormalizeImagePaths([]string{"", " a ", "\t"}))
}

func TestValidateDate(t *testing.T) {
	assert.NoError(t, ValidateDate("date", "2024-02-29"))

	err := ValidateDate("date", "")
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Equal(t, "Date is required.", verr.Message)

	assert.Error(t, ValidateDate("date", "2023-02-29"))
	assert.Error(t, ValidateDate("date", "2024-1-5"))
}
