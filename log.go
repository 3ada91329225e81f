package sophia

import (
	"strings"
	"time"
)

// Log is the ordered, append-only message history of one conversation.
// Ordering is append order; no alternation between roles is enforced.
type Log struct {
	messages []Message
}

// NewLog returns an empty Log.
func NewLog() *Log {
	return &Log{}
}

// AppendUser appends a user message. Content that is blank after trimming is
// ignored and AppendUser reports false.
func (l *Log) AppendUser(content string) bool {
	if strings.TrimSpace(content) == "" {
		return false
	}
	l.messages = append(l.messages, UserMessage{Content: content, Timestamp: time.Now()})
	return true
}

// AppendAssistant appends an assistant reply verbatim.
func (l *Log) AppendAssistant(content string) {
	l.messages = append(l.messages, AssistantMessage{Content: content, Timestamp: time.Now()})
}

// Messages returns a copy of the log in append order.
func (l *Log) Messages() []Message {
	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Len returns the number of messages.
func (l *Log) Len() int { return len(l.messages) }

// Reset empties the log.
func (l *Log) Reset() {
	l.messages = nil
}
