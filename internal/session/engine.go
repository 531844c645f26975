package session

import "context"

// LlamaBuilt reports whether this binary carries the real go-llama.cpp engine
// (built with the 'llama' tag) rather than the fail-fast stub.
func LlamaBuilt() bool { return llamaBuilt }

// Engine abstracts the native inference runtime. Concrete implementations
// (go-llama.cpp) satisfy this interface; heavy lifting stays in native code.
type Engine interface {
	// Load loads model weights and allocates an inference context.
	Load(cfg EngineConfig) (EngineSession, error)
}

// EngineSession owns one loaded model and its context.
type EngineSession interface {
	// Generate streams tokens for the given prompt. onToken is invoked for each
	// token fragment in order; returning an error from onToken stops generation.
	// Implementations must return promptly when ctx is canceled.
	Generate(ctx context.Context, prompt string, params GenParams, onToken func(string) error) error
	// Close releases the context and weight memory. Idempotent.
	Close() error
}

// EngineConfig captures model-load options fixed for the session lifetime.
type EngineConfig struct {
	ModelPath string
	CtxSize   int
	GPULayers int
	Threads   int
}

// GenParams captures per-turn generation parameters.
type GenParams struct {
	MaxTokens     int
	Stop          []string
	Temperature   float32
	TopP          float32
	TopK          int
	Seed          int
	RepeatPenalty float32
}
