package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"ticketflow/internal/utils"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const replyPrompt = `You are a friendly and professional customer support agent.

Please respond to %s regarding the following issue with empathy, a clear explanation, and helpful advice.

Issue:
"""%s"""

Only return the final response message. Start the message with "Hi %s," and end with "Best regards, AI Support Team".

%s`

// ReplyGenerator produces the natural-language reply for a ticket.
// Its contract is "never return no reply": transport failure yields a
// canned apology, a stream that dies mid-way yields the partial text.
type ReplyGenerator struct {
	chat   Completer
	model  string
	logger zerolog.Logger
	titler cases.Caser
}

// NewReplyGenerator creates a reply generator on top of a completion
// transport.
func NewReplyGenerator(chat Completer, model string, logger zerolog.Logger) *ReplyGenerator {
	return &ReplyGenerator{
		chat:   chat,
		model:  model,
		logger: logger,
		titler: cases.Title(language.English),
	}
}

// Generate returns a reply addressed to name for the given ticket text.
// The completion is consumed as an ordered fragment sequence; fragments
// are concatenated in arrival order. Callers must tolerate a reply that
// does not end with the expected sign-off.
func (g *ReplyGenerator) Generate(ctx context.Context, name, message string) string {
	instruction := utils.GetLanguageInstruction(utils.DetectLanguage(message))

	stream, err := g.chat.Stream(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: fmt.Sprintf(replyPrompt, name, message, name, instruction),
			},
		},
		MaxTokens:   500,
		Temperature: 0.7,
	})
	if err != nil {
		g.logger.Warn().Err(err).Str("name", name).Msg("Reply generation request failed, using fallback reply")
		return g.fallbackReply(name)
	}
	defer func() { _ = stream.Close() }()

	var reply strings.Builder
	for {
		fragment, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Abnormal termination: keep whatever arrived so far.
			g.logger.Warn().Err(err).Str("name", name).Msg("Reply stream ended abnormally, keeping partial reply")
			break
		}
		reply.WriteString(fragment)
	}

	text := strings.TrimSpace(reply.String())
	if text == "" {
		g.logger.Warn().Str("name", name).Msg("Reply stream produced no text, using fallback reply")
		return g.fallbackReply(name)
	}

	return g.stripPreamble(text, name)
}

// stripPreamble removes any model commentary before the greeting line.
func (g *ReplyGenerator) stripPreamble(text, name string) string {
	for _, greeting := range []string{"Hi " + name, "Hi " + g.titler.String(name)} {
		if idx := strings.Index(text, greeting); idx > 0 {
			return text[idx:]
		}
	}
	return text
}

// fallbackReply is the canned apology sent when no reply could be
// generated. Keeping the pipeline moving beats surfacing the outage to
// the customer.
func (g *ReplyGenerator) fallbackReply(name string) string {
	return fmt.Sprintf("Hi %s,\n\n"+
		"Thank you for contacting our support team. We have received your request "+
		"and are looking into it. One of our agents will follow up with you as soon "+
		"as possible.\n\n"+
		"Best regards, AI Support Team", name)
}
