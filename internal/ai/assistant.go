package ai

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrAssistantUnavailable is returned when no language model is configured.
var ErrAssistantUnavailable = errors.New("assistant is not configured")

const (
	// UnavailableNotice is shown to users when the assistant has no credential.
	UnavailableNotice = "AI chat is not available in development mode. Please add your OpenAI API key to the .env file."

	emptyReplyFallback = "I'm sorry, I couldn't process that request."

	// maxHistory bounds how many earlier turns are forwarded to the model.
	maxHistory = 20
)

const assistantSystemPrompt = `You are a helpful assistant for CivicChain, a platform for submitting and managing community complaints and legal issues.
Key features include:
- Submit community issues or legal complaints
- Track complaint status
- Earn tokens for participation
- Donate tokens to support causes
- Community leaderboard

Keep responses concise and friendly. Guide users on how to use the platform effectively.`

// Assistant answers user questions about the platform. It keeps no state:
// the client resends the conversation history with every message.
type Assistant struct {
	client  Completer
	model   string
	timeout time.Duration
}

func NewAssistant(client Completer, model string, timeout time.Duration) *Assistant {
	return &Assistant{client: client, model: model, timeout: timeout}
}

// Available reports whether Reply can reach a model.
func (a *Assistant) Available() bool {
	return a != nil && a.client != nil
}

// Reply returns the model's answer to message given the earlier turns.
// Only user and assistant turns from history are forwarded.
func (a *Assistant) Reply(ctx context.Context, message string, history []ChatMessage) (string, error) {
	if !a.Available() {
		return "", ErrAssistantUnavailable
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}

	messages := make([]ChatMessage, 0, len(history)+2)
	messages = append(messages, ChatMessage{Role: RoleSystem, Content: assistantSystemPrompt})
	for _, m := range history {
		if m.Role != RoleUser && m.Role != RoleAssistant {
			continue
		}
		messages = append(messages, m)
	}
	messages = append(messages, ChatMessage{Role: RoleUser, Content: message})

	content, err := a.client.Complete(ctx, CompletionRequest{Model: a.model, Messages: messages})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(content) == "" {
		return emptyReplyFallback, nil
	}
	return content, nil
}
