package session

import "strings"

// Role identifies the author of a chat turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one (role, text) entry of the chat history.
type Turn struct {
	Role Role
	Text string
}

// History is the append-only conversation record bound to a session.
// Truncation to fit the context window is the engine's concern, not ours.
type History struct {
	turns []Turn
}

// NewHistory builds a history pre-seeded with the given turns.
func NewHistory(seed []Turn) *History {
	h := &History{}
	h.turns = append(h.turns, seed...)
	return h
}

// Append adds one turn at the end.
func (h *History) Append(role Role, text string) {
	h.turns = append(h.turns, Turn{Role: role, Text: text})
}

// Turns returns a shallow copy to avoid external mutation.
func (h *History) Turns() []Turn {
	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

// Len reports the number of turns recorded.
func (h *History) Len() int { return len(h.turns) }

// Transcript markers for rendered turns. The user marker doubles as an
// anti-prompt: generation stops when the model starts speaking for the user.
const (
	userPrefix      = "User:"
	assistantPrefix = "Assistant:"
)

// Render flattens the history into the plain transcript prompt format the
// model was primed with, ending with an open assistant marker.
func (h *History) Render() string {
	var b strings.Builder
	for _, t := range h.turns {
		switch t.Role {
		case RoleSystem:
			b.WriteString(t.Text)
		case RoleUser:
			b.WriteString(userPrefix + " " + t.Text)
		case RoleAssistant:
			b.WriteString(assistantPrefix + " " + t.Text)
		}
		b.WriteString("\n")
	}
	b.WriteString(assistantPrefix)
	return b.String()
}
