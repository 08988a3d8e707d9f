package models

// Entry is one journal record. Date (YYYY-MM-DD) is the natural key: the store keeps
// at most one entry per date.
type Entry struct {
	ID         int64    `json:"id"`
	Date       string   `json:"date"`
	Content    *string  `json:"content"`
	ImagePaths []string `json:"image_paths"`
}

// Text returns the content or "" when none was saved.
func (e *Entry) Text() string {
	if e.Content == nil {
		return ""
	}
	return *e.Content
}

// EntrySummary is the timeline view of an entry.
type EntrySummary struct {
	Date       string `json:"date"`
	Snippet    string `json:"snippet"`
	ImageCount int    `json:"image_count"`
}

// MonthCount is the number of entries in one YYYY-MM bucket.
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// DashboardStats aggregates the whole journal.
type DashboardStats struct {
	TotalEntries           int          `json:"total_entries"`
	TotalCharactersWritten int64        `json:"total_characters_written"`
	EntriesPerMonth        []MonthCount `json:"entries_per_month"`
	MostActiveMonth        string       `json:"most_active_month"`
}
