package journal

import (
	"time"

	"github.com/neuropy/homehub/backend/internal/analysis/emotion"
)

// Role identifies which participant produced a turn.
type Role string

const (
	RoleUser      Role = "USER"
	RoleAssistant Role = "ASSISTANT"
)

// Message is one turn of dialogue. Once appended to a session it is
// never mutated.
type Message struct {
	Role      Role
	Text      string
	Timestamp time.Time
	// Emotions holds the prosody confidence scores for voice-derived
	// turns; empty for text-sourced input.
	Emotions emotion.Scores
}
