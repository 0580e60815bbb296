package ai

import (
	"context"
	"strings"
)

// Responder turns a user's chat message into a reply.
type Responder interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

const systemPrompt = "You are a friendly study buddy. Help the user plan, understand and review " +
	"what they are learning. Keep answers short, concrete and encouraging."

// StubResponder answers with canned text. It is used when no model API is
// configured and as the fallback when the API call fails.
type StubResponder struct{}

func (StubResponder) Generate(_ context.Context, prompt string) (string, error) {
	return StubReply(prompt), nil
}

func StubReply(prompt string) string {
	p := strings.ToLower(prompt)
	switch {
	case strings.Contains(p, "plan") || strings.Contains(p, "goal"):
		return "Break the goal into small weekly milestones and log a study session after each one."
	case strings.Contains(p, "tired") || strings.Contains(p, "motivat"):
		return "Try a 25-minute focus block followed by a short break. Small steps still count!"
	default:
		return "I'm running in offline mode right now, but keep going: write down what you learned today " +
			"and one question you still have."
	}
}
