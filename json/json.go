// Package json encodes workflow state as versioned JSON envelopes.
//
// Histories and items are stored through a [workflow.KV] in this format, and
// histories can be exported to and imported from files.
package json

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fwojciec/workflow"
)

const version = 1

// historyEnvelope is the v1 wire format for a persisted chat history.
type historyEnvelope struct {
	Version   int          `json:"version"`
	Key       string       `json:"key"`
	UpdatedAt time.Time    `json:"updated_at"`
	Messages  []messageDTO `json:"messages"`
}

type messageDTO struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// MarshalHistory serializes a History to JSON in v1 envelope format.
func MarshalHistory(h workflow.History) ([]byte, error) {
	env := historyEnvelope{
		Version:   version,
		Key:       h.Key,
		UpdatedAt: h.UpdatedAt,
		Messages:  make([]messageDTO, len(h.Messages)),
	}
	for i, m := range h.Messages {
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("message %d: %w", i, err)
		}
		env.Messages[i] = messageDTO{Role: string(m.Role), Text: m.Text}
	}
	return json.MarshalIndent(env, "", "  ")
}

// UnmarshalHistory deserializes a History from JSON in v1 envelope format.
func UnmarshalHistory(data []byte) (workflow.History, error) {
	var env historyEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return workflow.History{}, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != version {
		return workflow.History{}, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	msgs := make([]workflow.Message, len(env.Messages))
	for i, dto := range env.Messages {
		m := workflow.Message{Role: workflow.Role(dto.Role), Text: dto.Text}
		if err := m.Validate(); err != nil {
			return workflow.History{}, fmt.Errorf("message %d: %w", i, err)
		}
		msgs[i] = m
	}
	return workflow.History{
		Key:       env.Key,
		UpdatedAt: env.UpdatedAt,
		Messages:  msgs,
	}, nil
}

// Save writes a History to a JSON file, creating parent directories as needed.
func Save(path string, h workflow.History) error {
	data, err := MarshalHistory(h)
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
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load reads a History from a JSON file.
func Load(path string) (workflow.History, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return workflow.History{}, fmt.Errorf("read file: %w", err)
	}
	return UnmarshalHistory(data)
}
