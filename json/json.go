// Package json persists sophia transcripts as versioned JSON documents.
package json

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/sophia"
)

const envelopeVersion = 1

// envelope is the v1 wire format for a saved transcript.
type envelope struct {
	Version       int               `json:"version"`
	Username      string            `json:"username"`
	SavedAt       time.Time         `json:"saved_at"`
	Conversations []conversationDTO `json:"conversations"`
}

type conversationDTO struct {
	ID        string       `json:"id"`
	Title     string       `json:"title"`
	CreatedAt time.Time    `json:"created_at"`
	Messages  []messageDTO `json:"messages"`
}

// MarshalTranscript serializes a Transcript in v1 envelope format.
func MarshalTranscript(tr sophia.Transcript) ([]byte, error) {
	env := envelope{
		Version:       envelopeVersion,
		Username:      tr.Username,
		SavedAt:       tr.SavedAt,
		Conversations: make([]conversationDTO, len(tr.Conversations)),
	}
	for i, cl := range tr.Conversations {
		dto := conversationDTO{
			ID:        cl.ID,
			Title:     cl.Title,
			CreatedAt: cl.CreatedAt,
			Messages:  make([]messageDTO, len(cl.Messages)),
		}
		for j, msg := range cl.Messages {
			m, err := marshalMessage(msg)
			if err != nil {
				return nil, fmt.Errorf("conversation %q: message %d: %w", cl.ID, j, err)
			}
			dto.Messages[j] = m
		}
		env.Conversations[i] = dto
	}
	return json.MarshalIndent(env, "", "  ")
}

// UnmarshalTranscript deserializes a Transcript from v1 envelope format.
func UnmarshalTranscript(data []byte) (sophia.Transcript, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return sophia.Transcript{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != envelopeVersion {
		return sophia.Transcript{}, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	tr := sophia.Transcript{
		Username:      env.Username,
		SavedAt:       env.SavedAt,
		Conversations: make([]sophia.ConversationLog, len(env.Conversations)),
	}
	for i, dto := range env.Conversations {
		cl := sophia.ConversationLog{
			Conversation: sophia.Conversation{ID: dto.ID, Title: dto.Title, CreatedAt: dto.CreatedAt},
			Messages:     make([]sophia.Message, len(dto.Messages)),
		}
		for j, m := range dto.Messages {
			msg, err := unmarshalMessage(m)
			if err != nil {
				return sophia.Transcript{}, fmt.Errorf("conversation %q: message %d: %w", dto.ID, j, err)
			}
			cl.Messages[j] = msg
		}
		tr.Conversations[i] = cl
	}
	return tr, nil
}

// Save writes a Transcript to path, creating parent directories as needed.
// The file is replaced atomically.
func Save(path string, tr sophia.Transcript) error {
	data, err := MarshalTranscript(tr)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp) // best-effort cleanup
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load reads a Transcript from path.
func Load(path string) (sophia.Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return sophia.Transcript{}, fmt.Errorf("read file: %w", err)
	}
	return UnmarshalTranscript(data)
}
