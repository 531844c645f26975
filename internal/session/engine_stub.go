//go:build !llama

package session

// This file provides a no-CGO stub for the llama engine. It is compiled when
// the 'llama' build tag is NOT set, keeping default builds and CI CGO-free.
// The real engine lives in engine_llama.go (tagged 'llama').

// llamaBuilt indicates this binary was compiled with real llama support.
var llamaBuilt = false

type llamaEngine struct{}

// NewLlamaEngine returns a stub that refuses to load models without the
// 'llama' build tag. No mocked inference in production binaries.
func NewLlamaEngine() Engine { return llamaEngine{} }

func (llamaEngine) Load(cfg EngineConfig) (EngineSession, error) {
	return nil, ErrEngineUnavailable("llama support not built (missing 'llama' build tag)")
}
