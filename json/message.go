package json

import (
	"fmt"
	"time"

	"github.com/fwojciec/sophia"
)

// messageDTO is the JSON representation of a Message with a type discriminator.
type messageDTO struct {
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

func marshalMessage(msg sophia.Message) (messageDTO, error) {
	switch m := msg.(type) {
	case sophia.UserMessage:
		return messageDTO{Type: string(sophia.RoleUser), Content: m.Content, Timestamp: m.Timestamp}, nil
	case sophia.AssistantMessage:
		return messageDTO{Type: string(sophia.RoleAssistant), Content: m.Content, Timestamp: m.Timestamp}, nil
	default:
		return messageDTO{}, fmt.Errorf("unknown message type: %T", msg)
	}
}

func unmarshalMessage(dto messageDTO) (sophia.Message, error) {
	switch sophia.Role(dto.Type) {
	case sophia.RoleUser:
		return sophia.UserMessage{Content: dto.Content, Timestamp: dto.Timestamp}, nil
	case sophia.RoleAssistant:
		return sophia.AssistantMessage{Content: dto.Content, Timestamp: dto.Timestamp}, nil
	default:
		return nil, fmt.Errorf("unknown message type: %q", dto.Type)
	}
}
