package sophia

import (
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Conversation is an independently selectable chat thread.
type Conversation struct {
	ID        string
	Title     string
	CreatedAt time.Time
}

// IDFunc generates conversation identifiers. Results need not be unique;
// the Registry disambiguates collisions.
type IDFunc func() string

// Registry holds the conversations created during one session, in creation
// order, and which of them is selected. The selection always refers to a
// member of the registry.
type Registry struct {
	conversations []Conversation
	selected      int // index into conversations, -1 = none
	newID         IDFunc
}

// NewRegistry returns an empty Registry. A nil newID uses random UUIDs.
func NewRegistry(newID IDFunc) *Registry {
	if newID == nil {
		newID = uuid.NewString
	}
	return &Registry{selected: -1, newID: newID}
}

// Create appends a new conversation titled by its position, selects it and
// returns it.
func (r *Registry) Create() Conversation {
	c := Conversation{
		ID:        r.uniqueID(),
		Title:     fmt.Sprintf("Conversation %d", len(r.conversations)+1),
		CreatedAt: time.Now(),
	}
	r.conversations = append(r.conversations, c)
	r.selected = len(r.conversations) - 1
	return c
}

// uniqueID draws from newID and appends a numeric suffix until the result
// is not already taken, so coarse time-based generators stay safe.
func (r *Registry) uniqueID() string {
	base := r.newID()
	id := base
	for n := 2; r.index(id) >= 0; n++ {
		id = base + "-" + strconv.Itoa(n)
	}
	return id
}

// Select makes the conversation with the given id current.
func (r *Registry) Select(id string) error {
	i := r.index(id)
	if i < 0 {
		return fmt.Errorf("select %q: %w", id, ErrNotFound)
	}
	r.selected = i
	return nil
}

// Selected returns the current conversation, if any.
func (r *Registry) Selected() (Conversation, bool) {
	if r.selected < 0 {
		return Conversation{}, false
	}
	return r.conversations[r.selected], true
}

// Get returns the conversation with the given id.
func (r *Registry) Get(id string) (Conversation, bool) {
	i := r.index(id)
	if i < 0 {
		return Conversation{}, false
	}
	return r.conversations[i], true
}

// Conversations returns a copy of all conversations in creation order.
func (r *Registry) Conversations() []Conversation {
	out := make([]Conversation, len(r.conversations))
	copy(out, r.conversations)
	return out
}

// Len returns the number of conversations.
func (r *Registry) Len() int { return len(r.conversations) }

// Reset removes every conversation and clears the selection.
func (r *Registry) Reset() {
	r.conversations = nil
	r.selected = -1
}

func (r *Registry) index(id string) int {
	for i, c := range r.conversations {
		if c.ID == id {
			return i
		}
	}
	return -1
}
