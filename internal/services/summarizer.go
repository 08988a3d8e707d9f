package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/openai/openai-go"
	"github.com/pkoukk/tiktoken-go"
)

// Summarizer condenses text to between minLength and maxLength tokens.
type Summarizer interface {
	Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error)
}

const summaryPrompt = `You condense personal journal entries into a short narrative.
Write in the first person, keep the chronology, and do not invent events.
Respond with the summary only, between %d and %d words.`

// ChatSummarizer implements Summarizer with a chat completion model. Output is
// capped at maxLength tokens; when a tokenizer is available it also trims replies
// from servers that ignore the cap and logs replies shorter than minLength.
type ChatSummarizer struct {
	client openai.Client
	model  string
	enc    *tiktoken.Tiktoken
}

func NewChatSummarizer(client openai.Client, model string) *ChatSummarizer {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		log.Printf("⚠️  WARNING: tokenizer unavailable, summary lengths will not be checked: %v", err)
	}
	return &ChatSummarizer{client: client, model: model, enc: enc}
}

func (s *ChatSummarizer) Summarize(ctx context.Context, text string, maxLength, minLength int) (string, error) {
	resp, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(s.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(fmt.Sprintf(summaryPrompt, minLength, maxLength)),
			openai.UserMessage(text),
		},
		MaxTokens:   openai.Int(int64(maxLength)),
		Temperature: openai.Float(0),
	})
	if err != nil {
		return "", fmt.Errorf("summary model %s: %w", s.model, err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("summary model returned no choices")
	}
	return s.bound(strings.TrimSpace(resp.Choices[0].Message.Content), maxLength, minLength), nil
}

func (s *ChatSummarizer) bound(summary string, maxLength, minLength int) string {
	if s.enc == nil {
		return summary
	}
	tokens := s.enc.Encode(summary, nil, nil)
	if len(tokens) > maxLength {
		return strings.TrimSpace(s.enc.Decode(tokens[:maxLength]))
	}
	if len(tokens) < minLength {
		log.Printf("[Summarizer] summary has %d tokens, below the requested minimum of %d", len(tokens), minLength)
	}
	return summary
}
