package sophia

import "time"

// Message is a sealed interface representing a chat turn.
// The unexported marker method prevents external implementations.
type Message interface {
	isMessage()
	Role() Role
	Text() string
}

// UserMessage is text typed by the user.
type UserMessage struct {
	Content   string
	Timestamp time.Time
}

func (UserMessage) isMessage() {}

// Role returns RoleUser.
func (UserMessage) Role() Role { return RoleUser }

// Text returns the message content.
func (m UserMessage) Text() string { return m.Content }

// AssistantMessage is a reply returned by the backend.
type AssistantMessage struct {
	Content   string
	Timestamp time.Time
}

func (AssistantMessage) isMessage() {}

// Role returns RoleAssistant.
func (AssistantMessage) Role() Role { return RoleAssistant }

// Text returns the message content.
func (m AssistantMessage) Text() string { return m.Content }

// Interface compliance checks.
var (
	_ Message = UserMessage{}
	_ Message = AssistantMessage{}
)
