package ai

import (
	"context"
	"testing"

	"ticketflow/internal/models"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompleter struct {
	resp      openai.ChatCompletionResponse
	err       error
	stream    FragmentStream
	streamErr error
	lastReq   openai.ChatCompletionRequest
}

func (f *fakeCompleter) Complete(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.lastReq = req
	return f.resp, f.err
}

func (f *fakeCompleter) Stream(_ context.Context, req openai.ChatCompletionRequest) (FragmentStream, error) {
	f.lastReq = req
	if f.streamErr != nil {
		return nil, f.streamErr
	}
	return f.stream, nil
}

func completionWith(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: content}},
		},
	}
}

func TestClassifier_Classify(t *testing.T) {
	tests := []struct {
		name    string
		content string
		err     error
		want    models.Classification
	}{
		{
			name:    "valid JSON",
			content: `{"sentiment": "Negative", "issue_type": "Billing"}`,
			want:    models.Classification{Sentiment: "Negative", IssueType: "Billing"},
		},
		{
			name:    "JSON wrapped in code fence",
			content: "```json\n{\"sentiment\": \"Positive\", \"issue_type\": \"Technical\"}\n```",
			want:    models.Classification{Sentiment: "Positive", IssueType: "Technical"},
		},
		{
			name:    "values normalized case-insensitively",
			content: `{"sentiment": "negative", "issue_type": "BILLING"}`,
			want:    models.Classification{Sentiment: "Negative", IssueType: "Billing"},
		},
		{
			name:    "non-JSON response falls back",
			content: "I think this ticket is about billing.",
			want:    FallbackClassification(),
		},
		{
			name:    "missing keys fall back",
			content: `{}`,
			want:    FallbackClassification(),
		},
		{
			name:    "unrecognized values fall back per field",
			content: `{"sentiment": "Furious", "issue_type": "Technical"}`,
			want:    models.Classification{Sentiment: models.SentimentUnknown, IssueType: "Technical"},
		},
		{
			name: "transport error falls back",
			err:  assert.AnError,
			want: FallbackClassification(),
		},
		{
			name:    "empty choices fall back",
			content: "",
			want:    FallbackClassification(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chat := &fakeCompleter{err: tt.err}
			if tt.err == nil && tt.content != "" {
				chat.resp = completionWith(tt.content)
			}

			c := NewClassifier(chat, "gpt-4o-mini", zerolog.Nop())
			got := c.Classify(context.Background(), "I was charged twice")

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifier_RequestShape(t *testing.T) {
	chat := &fakeCompleter{resp: completionWith(`{"sentiment": "Neutral", "issue_type": "Other"}`)}
	c := NewClassifier(chat, "gpt-4o-mini", zerolog.Nop())

	c.Classify(context.Background(), "my printer is on fire")

	req := chat.lastReq
	assert.Equal(t, "gpt-4o-mini", req.Model)
	assert.InDelta(t, 0.3, req.Temperature, 0.001)
	assert.False(t, req.Stream)
	require.Len(t, req.Messages, 1)
	// The ticket message is embedded verbatim
	assert.Contains(t, req.Messages[0].Content, "my printer is on fire")
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "bare object", content: `{"a": 1}`, want: `{"a": 1}`},
		{name: "fenced object", content: "```\n{\"a\": 1}\n```", want: `{"a": 1}`},
		{name: "surrounding prose", content: `Here you go: {"a": 1} hope that helps`, want: `{"a": 1}`},
		{name: "no object", content: "no json here", want: "no json here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractJSON(tt.content))
		})
	}
}
