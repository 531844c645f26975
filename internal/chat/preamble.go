package chat

import "llamachat/internal/session"

// Preamble constants seeded into every new session. The example exchange
// primes the transcript format the history renderer emits.
const (
	systemPreamble = "Transcript of a dialog where the User interacts with an " +
		"Assistant named Bob. Bob is helpful, kind, honest, and never fails to " +
		"answer the User's requests immediately and with precision."
	exampleUser      = "Hello, Bob."
	exampleAssistant = "Hello. How may I help you today?"
)

// Preamble returns the seed turns for SetupSession: the system prompt plus
// one example user/assistant exchange.
func Preamble() []session.Turn {
	return []session.Turn{
		{Role: session.RoleSystem, Text: systemPreamble},
		{Role: session.RoleUser, Text: exampleUser},
		{Role: session.RoleAssistant, Text: exampleAssistant},
	}
}
