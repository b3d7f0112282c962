package workflow

import (
	"fmt"
	"time"
)

// Role represents the role of a message sender.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one entry of a persisted conversation.
type Message struct {
	Role Role
	Text string
}

// UserMessage returns a Message with RoleUser.
func UserMessage(text string) Message { return Message{Role: RoleUser, Text: text} }

// ModelMessage returns a Message with RoleModel.
func ModelMessage(text string) Message { return Message{Role: RoleModel, Text: text} }

// Validate reports whether the message has a known role.
func (m Message) Validate() error {
	switch m.Role {
	case RoleUser, RoleModel:
		return nil
	default:
		return fmt.Errorf("unknown role %q: %w", m.Role, ErrValidation)
	}
}

// Conversation identifies a chat and the system instruction that frames it.
type Conversation struct {
	Key          string // persistence key, e.g. "workflow-3" or "agent-Lyra"
	Title        string
	SystemPrompt string
}

// WorkflowChatKey returns the history key of the chat attached to an item.
func WorkflowChatKey(id int) string { return fmt.Sprintf("workflow-%d", id) }

// AgentChatKey returns the history key of the chat with a named agent.
func AgentChatKey(name string) string { return "agent-" + name }

// History is a persisted conversation.
type History struct {
	Key       string
	UpdatedAt time.Time
	Messages  []Message
}
