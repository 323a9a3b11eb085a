package journal

// Session captures one live voice conversation from connect to close.
type Session struct {
	// ChatID is assigned by the remote service on the first metadata
	// event and stays empty until then.
	ChatID   string
	Messages []Message
}

// Append records a turn. Messages are append-only for the lifetime of
// the session.
func (s *Session) Append(msg Message) {
	s.Messages = append(s.Messages, msg)
}

// UserMessages returns the user turns in arrival order.
func (s *Session) UserMessages() []Message {
	var out []Message
	for _, msg := range s.Messages {
		if msg.Role == RoleUser {
			out = append(out, msg)
		}
	}
	return out
}
