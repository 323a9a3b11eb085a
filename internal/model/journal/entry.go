package journal

import "time"

// Entry is the durable artifact written once per closed session. The
// document key is the session's ChatID; re-saving the same key replaces
// the prior record.
type Entry struct {
	ChatID     string            `firestore:"-" json:"chatId"`
	Transcript string            `firestore:"transcript" json:"transcript"`
	// TopEmotions maps emotion label to its score formatted with two
	// decimals, e.g. "Joy" -> "0.87".
	TopEmotions           map[string]string `firestore:"top_emotions" json:"topEmotions"`
	EmotionalAnalysis     string            `firestore:"emotional_analysis" json:"emotionalAnalysis"`
	EmpatheticFeedback    string            `firestore:"empathetic_feedback" json:"empatheticFeedback"`
	EmotionalAssociations string            `firestore:"emotional_associations" json:"emotionalAssociations"`
	// Timestamp is populated by the store server side.
	Timestamp time.Time `firestore:"timestamp,serverTimestamp" json:"timestamp"`
}
