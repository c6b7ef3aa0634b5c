// Package transcript records what happened during one interview session and
// persists it as a JSON document.
package transcript

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// Turn is a single logged exchange.
type Turn struct {
	TurnID              int    `json:"turn_id"`
	AgentVisibleMessage string `json:"agent_visible_message"`
	UserMessage         string `json:"user_message"`
	InternalThoughts    string `json:"internal_thoughts"`
}

// Log is the append-only session transcript.
type Log struct {
	ParticipantName string  `json:"participant_name"`
	Turns           []*Turn `json:"turns"`
	FinalFeedback   *string `json:"final_feedback"`
}

func New(participantName string) *Log {
	return &Log{
		ParticipantName: participantName,
		Turns:           []*Turn{},
	}
}

// LogTurn appends one exchange to the transcript.
func (l *Log) LogTurn(turnID int, agentVisibleMessage, userMessage, internalThoughts string) {
	l.Turns = append(l.Turns, &Turn{
		TurnID:              turnID,
		AgentVisibleMessage: agentVisibleMessage,
		UserMessage:         userMessage,
		InternalThoughts:    internalThoughts,
	})
}

func (l *Log) SetFinalFeedback(feedback string) {
	l.FinalFeedback = &feedback
}

// Save writes the log as indented JSON. Non-ASCII text is preserved as-is.
func (l *Log) Save(path string) error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(l); err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}

	return nil
}

// Load reads a previously saved transcript.
func Load(path string) (*Log, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	var log Log
	if err := json.Unmarshal(data, &log); err != nil {
		return nil, fmt.Errorf("decode transcript: %w", err)
	}

	return &log, nil
}
