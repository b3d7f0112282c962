package workflow

import "context"

// Agent is a persona the user can chat with.
type Agent struct {
	Name        string
	Gender      Gender
	Role        string
	Skills      []string
	Personality string
	Prompt      string // system instruction for chats with this agent
}

// Conversation returns the chat framing for this agent.
func (a Agent) Conversation() Conversation {
	return Conversation{
		Key:          AgentChatKey(a.Name),
		Title:        a.Name,
		SystemPrompt: a.Prompt,
	}
}

// AgentSource lists the available agents.
type AgentSource interface {
	Agents(ctx context.Context) ([]Agent, error)
}
