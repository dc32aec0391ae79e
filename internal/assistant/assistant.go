// Package assistant answers messages that fall outside the scripted funnel.
// It is a best-effort collaborator: whatever goes wrong, the user always gets
// a reply that steers them back into the flow.
package assistant

import (
	"context"
	"strings"

	"github.com/zenvy/zenvy-sales-bot/pkg/logging"
)

// FallbackReply is sent whenever no AI responder is configured or the AI call
// fails. It nudges the user back to the scripted flow.
const FallbackReply = "Type *website* to continue 🙂"

const systemPrompt = `You are a WhatsApp sales assistant.
Tone: Hinglish, friendly, short.
Ask only ONE question.`

// Responder produces a reply for free-form user text. Implementations never
// return an error; failures degrade to FallbackReply.
type Responder interface {
	Reply(ctx context.Context, text string) string
}

// Static is a Responder that always returns the fixed fallback prompt.
type Static struct{}

var _ Responder = Static{}

// Reply returns FallbackReply regardless of input.
func (Static) Reply(ctx context.Context, text string) string {
	return FallbackReply
}

// completer is the narrow LLM surface the assistant needs.
type completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// AI wraps an LLM completer with the sales-assistant prompt and failure
// recovery.
type AI struct {
	llm    completer
	logger *logging.Logger
}

var _ Responder = (*AI)(nil)

// NewAI builds an assistant over the given completer.
func NewAI(llm completer, logger *logging.Logger) *AI {
	if logger == nil {
		logger = logging.Default()
	}
	return &AI{llm: llm, logger: logger}
}

// Reply asks the LLM for a short sales reply, substituting the fixed prompt
// on any failure or empty completion.
func (a *AI) Reply(ctx context.Context, text string) string {
	if a == nil || a.llm == nil {
		return FallbackReply
	}
	out, err := a.llm.Complete(ctx, systemPrompt, text)
	if err != nil {
		a.logger.Warn("assistant: completion failed, using fallback", "error", err)
		return FallbackReply
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return FallbackReply
	}
	return out
}
