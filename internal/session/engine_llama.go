//go:build llama

package session

import (
	"context"
	"strings"

	llama "github.com/go-skynet/go-llama.cpp"
)

// llamaBuilt indicates this binary was compiled with real llama support.
var llamaBuilt = true

// llamaEngine loads models through the in-process go-llama.cpp binding.
type llamaEngine struct{}

// NewLlamaEngine returns the go-llama.cpp backed engine.
func NewLlamaEngine() Engine { return llamaEngine{} }

// llamaSession owns the loaded model.
type llamaSession struct {
	model   *llama.LLama
	threads int
}

func (llamaEngine) Load(cfg EngineConfig) (EngineSession, error) {
	if strings.TrimSpace(cfg.ModelPath) == "" {
		return nil, ErrModelLoad("model path is empty")
	}
	mo := []llama.ModelOption{
		llama.SetContext(max(1, cfg.CtxSize)),
	}
	if cfg.GPULayers > 0 {
		mo = append(mo, llama.SetGPULayers(cfg.GPULayers))
	}
	m, err := llama.New(cfg.ModelPath, mo...)
	if err != nil {
		return nil, ErrModelLoad(err.Error())
	}
	return &llamaSession{model: m, threads: cfg.Threads}, nil
}

func (s *llamaSession) Generate(ctx context.Context, prompt string, params GenParams, onToken func(string) error) error {
	if s.model == nil {
		return closedError{}
	}
	// Bridge token streaming to onToken and respect cancellation.
	s.model.SetTokenCallback(func(tok string) bool {
		select {
		case <-ctx.Done():
			return false
		default:
		}
		return onToken(tok) == nil
	})
	po := mapGenParamsToPredictOptions(params, s.threads)
	if _, err := s.model.Predict(prompt, po...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrGeneration(err.Error())
	}
	return nil
}

func (s *llamaSession) Close() error {
	if s.model != nil {
		s.model.Free()
		s.model = nil
	}
	return nil
}

// helpers
func zn(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
func zf(v, def float32) float32 {
	if v > 0 {
		return v
	}
	return def
}

// mapGenParamsToPredictOptions converts per-turn params into go-llama.cpp options.
func mapGenParamsToPredictOptions(params GenParams, threads int) []llama.PredictOption {
	po := []llama.PredictOption{
		llama.SetTokens(max(1, params.MaxTokens)),
		llama.SetThreads(max(1, threads)),
		llama.SetTopP(zf(params.TopP, llama.DefaultOptions.TopP)),
		llama.SetTopK(zn(params.TopK, llama.DefaultOptions.TopK)),
		llama.SetTemperature(zf(params.Temperature, llama.DefaultOptions.Temperature)),
		llama.SetPenalty(zf(params.RepeatPenalty, llama.DefaultOptions.Penalty)),
	}
	if params.Seed != 0 {
		po = append(po, llama.SetSeed(params.Seed))
	}
	if len(params.Stop) > 0 {
		po = append(po, llama.SetStopWords(params.Stop...))
	}
	return po
}
