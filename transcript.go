package sophia

import "time"

// Transcript is an exportable copy of a session's conversations. It never
// carries the bearer token.
type Transcript struct {
	Username      string
	SavedAt       time.Time
	Conversations []ConversationLog
}

// ConversationLog pairs a conversation with the messages known for it.
type ConversationLog struct {
	Conversation
	Messages []Message
}

// Transcript snapshots the current session. Under HistoryReset only the
// selected conversation has messages.
func (c *Controller) Transcript() Transcript {
	tr := Transcript{Username: c.session.Username, SavedAt: time.Now()}
	for _, conv := range c.registry.Conversations() {
		cl := ConversationLog{Conversation: conv}
		if t := c.threadFor(conv.ID); t != nil {
			cl.Messages = t.log.Messages()
		}
		tr.Conversations = append(tr.Conversations, cl)
	}
	return tr
}

func (c *Controller) threadFor(id string) *thread {
	if t, ok := c.threads[id]; ok {
		return t
	}
	if c.active != nil && c.active.conversation.ID == id {
		return c.active
	}
	return nil
}
