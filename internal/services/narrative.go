package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/AnshRaj112/lifestory-backend/internal/models"
	"github.com/AnshRaj112/lifestory-backend/pkg/utils"
)

const (
	NoEntriesNarrative  = "No entries found for the selected date range."
	ImagesOnlyNarrative = "No textual entries, but here are images from this period."

	// Texts longer than chunkWordThreshold words are summarized in chunks of
	// chunkSize characters. Chunks are cut by character count, not sentences.
	chunkWordThreshold = 1000
	chunkSize          = 5000

	chunkMaxLength = 150
	chunkMinLength = 30
	fullMaxLength  = 200
	fullMinLength  = 50
)

// Synthesizer produces life stories over a date range.
type Synthesizer struct {
	store      EntryStore
	summarizer Summarizer
	cache      *CacheService
	archive    StoryArchive
	now        func() time.Time
}

// NewSynthesizer wires the story generator. cache and archive may be nil.
func NewSynthesizer(store EntryStore, summarizer Summarizer, cache *CacheService, archive StoryArchive) *Synthesizer {
	return &Synthesizer{store: store, summarizer: summarizer, cache: cache, archive: archive, now: time.Now}
}

// Synthesize summarizes the entries dated from..to (inclusive). Ranges with no text
// return a fixed narrative instead of calling the summarizer.
func (s *Synthesizer) Synthesize(ctx context.Context, from, to string) (*models.Story, error) {
	if from == "" || to == "" {
		return nil, &ValidationError{Field: "fromDate", Message: "Both From and To dates are required."}
	}

	entries, err := s.store.RangeQuery(ctx, from, to)
	if err != nil {
		return nil, err
	}

	combined, images := CombineEntries(entries)
	story := &models.Story{From: from, To: to, ImageURLs: images, CreatedAt: s.now().UTC()}

	switch {
	case combined == "" && len(images) > 0:
		story.Narrative = ImagesOnlyNarrative
	case combined == "":
		// Nothing in range, so nothing worth archiving.
		story.Narrative = NoEntriesNarrative
		story.ImageURLs = []string{}
		return story, nil
	default:
		summary, err := s.summarizeCached(ctx, combined)
		if err != nil {
			return nil, &SynthesisError{Err: err}
		}
		story.Narrative = summary
	}

	s.record(ctx, story)
	return story, nil
}

// record archives story. Failures are logged only.
func (s *Synthesizer) record(ctx context.Context, story *models.Story) {
	if s.archive == nil {
		return
	}
	if err := s.archive.Record(ctx, story); err != nil {
		log.Printf("[Story] failed to archive story %s..%s: %v", story.From, story.To, err)
	}
}

func (s *Synthesizer) summarizeCached(ctx context.Context, text string) (string, error) {
	key := "story:" + utils.ContentHash(text)
	var cached string
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}
	summary, err := GenerateSummary(ctx, s.summarizer, text)
	if err != nil {
		return "", err
	}
	s.cache.Set(ctx, key, summary)
	return summary, nil
}

// CombineEntries renders entries with content as "On <date>: <content>" joined by a
// blank line, and collects the distinct image paths of all entries in first-seen order.
func CombineEntries(entries []models.Entry) (string, []string) {
	parts := make([]string, 0, len(entries))
	images := make([]string, 0)
	seen := make(map[string]bool)

	for _, e := range entries {
		if text := e.Text(); text != "" {
			parts = append(parts, fmt.Sprintf("On %s: %s", e.Date, text))
		}
		for _, p := range NormalizeImagePaths(e.ImagePaths) {
			if !seen[p] {
				seen[p] = true
				images = append(images, p)
			}
		}
	}
	return strings.Join(parts, "\n\n"), images
}

// GenerateSummary summarizes text in one call, or chunk by chunk when it has more than
// chunkWordThreshold words, joining chunk summaries with a space.
func GenerateSummary(ctx context.Context, summarizer Summarizer, text string) (string, error) {
	if len(strings.Fields(text)) <= chunkWordThreshold {
		return summarizer.Summarize(ctx, text, fullMaxLength, fullMinLength)
	}

	chunks := ChunkText(text, chunkSize)
	summaries := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		summary, err := summarizer.Summarize(ctx, chunk, chunkMaxLength, chunkMinLength)
		if err != nil {
			return "", fmt.Errorf("chunk %d of %d: %w", i+1, len(chunks), err)
		}
		summaries = append(summaries, summary)
	}
	return strings.Join(summaries, " "), nil
}

// ChunkText splits text into consecutive pieces of at most size characters.
func ChunkText(text string, size int) []string {
	runes := []rune(text)
	chunks := make([]string, 0, len(runes)/size+1)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
