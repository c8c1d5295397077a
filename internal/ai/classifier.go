package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"ticketflow/internal/models"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
)

const classifyPrompt = `You are a smart support ticket classifier.

Given a customer ticket, classify it into:
- Sentiment: Positive, Negative, Neutral
- Issue Type: Billing, Technical, Login, General, Other

Respond ONLY with a JSON object like this:
{
  "sentiment": "Negative",
  "issue_type": "Billing"
}

Customer Ticket:
"""%s"""`

// Classifier assigns a (sentiment, issue type) pair to ticket text.
// It never fails loudly: any transport or parse problem degrades to the
// fallback pair, so callers plan for exactly one outcome shape.
type Classifier struct {
	chat   Completer
	model  string
	logger zerolog.Logger
}

// NewClassifier creates a classifier on top of a completion transport.
func NewClassifier(chat Completer, model string, logger zerolog.Logger) *Classifier {
	return &Classifier{
		chat:   chat,
		model:  model,
		logger: logger,
	}
}

// FallbackClassification is returned whenever classification cannot
// produce a usable result.
func FallbackClassification() models.Classification {
	return models.Classification{
		Sentiment: models.SentimentUnknown,
		IssueType: models.IssueTypeGeneral,
	}
}

// Classify maps the ticket message to a classification. The message is
// embedded in the prompt verbatim.
func (c *Classifier) Classify(ctx context.Context, message string) models.Classification {
	resp, err := c.chat.Complete(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(classifyPrompt, message),
			},
		},
		MaxTokens:   500,
		Temperature: 0.3,
	})
	if err != nil {
		c.logger.Warn().Err(err).Msg("Classification request failed, using fallback")
		return FallbackClassification()
	}
	if len(resp.Choices) == 0 {
		c.logger.Warn().Msg("Classification returned no choices, using fallback")
		return FallbackClassification()
	}

	return c.parse(resp.Choices[0].Message.Content)
}

// parse extracts the classification from the model output. Missing or
// unrecognized values fall back field by field.
func (c *Classifier) parse(content string) models.Classification {
	var parsed struct {
		Sentiment string `json:"sentiment"`
		IssueType string `json:"issue_type"`
	}

	if err := json.Unmarshal([]byte(extractJSON(content)), &parsed); err != nil {
		c.logger.Warn().Err(err).Str("content", content).Msg("Classification response is not valid JSON, using fallback")
		return FallbackClassification()
	}

	result := FallbackClassification()
	if containsFold(models.KnownSentiments, parsed.Sentiment) {
		result.Sentiment = canonical(models.KnownSentiments, parsed.Sentiment)
	}
	if containsFold(models.KnownIssueTypes, parsed.IssueType) {
		result.IssueType = canonical(models.KnownIssueTypes, parsed.IssueType)
	}
	return result
}

// extractJSON trims anything surrounding the first JSON object in the
// model output. Models occasionally wrap the object in code fences or
// commentary.
func extractJSON(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return content
	}
	return content[start : end+1]
}

func containsFold(set []string, value string) bool {
	for _, s := range set {
		if strings.EqualFold(s, value) {
			return true
		}
	}
	return false
}

func canonical(set []string, value string) string {
	for _, s := range set {
		if strings.EqualFold(s, value) {
			return s
		}
	}
	return value
}
