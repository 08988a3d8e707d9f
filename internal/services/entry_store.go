package services

import (
	"context"
	"strings"
	"time"

	"github.com/AnshRaj112/lifestory-backend/internal/models"
)

const (
	dateLayout = "2006-01-02"

	snippetLength     = 100
	snippetEllipsis   = "..."
	noContentSnippet  = "No text content."
	noMostActiveMonth = "-"
)

// EntryStore is the persistent table of journal entries keyed by date.
//
// Save is an atomic insert-or-update on the unique date, so concurrent saves to the
// same date cannot produce duplicates; the last committed write wins.
type EntryStore interface {
	// Save creates the entry for date or overwrites its content and image paths.
	Save(ctx context.Context, date string, content *string, imagePaths []string) (*models.Entry, error)
	// GetByDate returns (nil, false, nil) when no entry exists for date.
	GetByDate(ctx context.Context, date string) (*models.Entry, bool, error)
	// ListAll returns every entry as a summary, newest date first.
	ListAll(ctx context.Context) ([]models.EntrySummary, error)
	// RangeQuery returns entries with from <= date <= to, oldest first.
	RangeQuery(ctx context.Context, from, to string) ([]models.Entry, error)
	Stats(ctx context.Context) (*models.DashboardStats, error)
}

// ValidateDate checks that a required date is present and in YYYY-MM-DD form.
func ValidateDate(field, date string) error {
	if strings.TrimSpace(date) == "" {
		return requiredField(field, "Date is required.")
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return &ValidationError{Field: field, Message: "Date must be in YYYY-MM-DD format."}
	}
	return nil
}

// NormalizeImagePaths trims every path and drops the empty ones, keeping order.
func NormalizeImagePaths(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SplitImagePaths parses the comma separated form the web client submits.
func SplitImagePaths(raw string) []string {
	if raw == "" {
		return []string{}
	}
	return NormalizeImagePaths(strings.Split(raw, ","))
}

// Snippet returns the first 100 characters of content followed by "..." when it is
// longer, the full content otherwise, or a placeholder when there is none.
func Snippet(content *string) string {
	if content == nil || *content == "" {
		return noContentSnippet
	}
	runes := []rune(*content)
	if len(runes) > snippetLength {
		return string(runes[:snippetLength]) + snippetEllipsis
	}
	return *content
}

func summarize(e models.Entry) models.EntrySummary {
	return models.EntrySummary{
		Date:       e.Date,
		Snippet:    Snippet(e.Content),
		ImageCount: len(e.ImagePaths),
	}
}

// mostActiveMonth scans months in ascending order and keeps the first strictly
// larger count, so the earliest month wins ties.
func mostActiveMonth(months []models.MonthCount) string {
	best, bestCount := noMostActiveMonth, 0
	for _, m := range months {
		if m.Count > bestCount {
			best, bestCount = m.Month, m.Count
		}
	}
	return best
}

func newDashboardStats(total int, chars int64, months []models.MonthCount) *models.DashboardStats {
	if months == nil {
		months = []models.MonthCount{}
	}
	return &models.DashboardStats{
		TotalEntries:           total,
		TotalCharactersWritten: chars,
		EntriesPerMonth:        months,
		MostActiveMonth:        mostActiveMonth(months),
	}
}
