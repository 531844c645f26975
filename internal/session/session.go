package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// State represents lifecycle state of the session manager.
type State string

const (
	StateNew         State = "new"
	StateInitialized State = "initialized"
	StateReady       State = "ready"
	StateClosed      State = "closed"
)

// Manager owns the model weights, inference context, and chat history for one
// conversation. All methods are safe for use from a single caller goroutine;
// concurrent Generate calls are rejected rather than serialized.
type Manager struct {
	engine Engine
	log    zerolog.Logger

	state   State
	es      EngineSession
	history *History
	cur     *Stream

	// size 1: single in-flight generation
	genCh chan struct{}
}

// New constructs a Manager around the given engine.
func New(engine Engine, log zerolog.Logger) *Manager {
	return &Manager{
		engine: engine,
		log:    log,
		state:  StateNew,
		genCh:  make(chan struct{}, 1),
	}
}

// Initialize loads model weights and allocates the inference context. Must be
// called exactly once before SetupSession/Generate.
func (m *Manager) Initialize(cfg EngineConfig) error {
	switch m.state {
	case StateClosed:
		return closedError{}
	case StateInitialized, StateReady:
		return fmt.Errorf("already initialized with %s", cfg.ModelPath)
	}
	if cfg.CtxSize <= 0 {
		return fmt.Errorf("context size must be positive, got %d", cfg.CtxSize)
	}
	if cfg.GPULayers < 0 {
		return fmt.Errorf("gpu layers must be non-negative, got %d", cfg.GPULayers)
	}
	path := strings.TrimSpace(cfg.ModelPath)
	if path == "" {
		return ErrModelLoad("model path is empty")
	}
	if fi, err := os.Stat(path); err != nil || fi.IsDir() {
		return ErrModelLoad("no such model file: " + path)
	}
	start := time.Now()
	es, err := m.engine.Load(cfg)
	if err != nil {
		if IsEngineUnavailable(err) || IsModelLoad(err) {
			return err
		}
		return ErrModelLoad(err.Error())
	}
	m.es = es
	m.state = StateInitialized
	m.log.Info().
		Str("model", path).
		Int("ctx_size", cfg.CtxSize).
		Int("gpu_layers", cfg.GPULayers).
		Dur("took", time.Since(start)).
		Msg("model loaded")
	return nil
}

// SetupSession binds a chat history, optionally pre-seeded with a system
// prompt and example turns. Replaces any previously bound history.
func (m *Manager) SetupSession(seed []Turn) error {
	switch m.state {
	case StateClosed:
		return closedError{}
	case StateNew:
		return notInitializedError{}
	}
	m.history = NewHistory(seed)
	m.state = StateReady
	return nil
}

// Generate appends a user turn and streams the assistant's reply. The caller
// must exhaust (or Close) the returned stream before calling Generate again;
// overlapping calls fail with a busy error. Whatever reply text the turn
// produced is appended to the history as an assistant turn when the stream
// ends, even if the turn was cut short by an error.
func (m *Manager) Generate(ctx context.Context, userText string, params GenParams) (*Stream, error) {
	switch m.state {
	case StateClosed:
		return nil, closedError{}
	case StateNew, StateInitialized:
		return nil, notReadyError{}
	}
	if params.MaxTokens <= 0 {
		return nil, fmt.Errorf("max tokens must be positive, got %d", params.MaxTokens)
	}
	// Reserve the single in-flight slot without blocking.
	select {
	case m.genCh <- struct{}{}:
	default:
		return nil, busyError{}
	}

	m.history.Append(RoleUser, userText)
	prompt := m.history.Render()

	genCtx, cancel := context.WithCancel(ctx)
	st := newStream(cancel)
	// Capture the engine session now: Dispose may nil out m.es before the
	// spawned goroutine gets scheduled.
	es := m.es
	m.cur = st
	go m.run(genCtx, es, st, prompt, params)
	return st, nil
}

// run drives the engine and feeds the stream. It owns channel close, history
// append, and release of the in-flight slot.
func (m *Manager) run(ctx context.Context, es EngineSession, st *Stream, prompt string, params GenParams) {
	defer m.releaseGen()
	start := time.Now()
	var (
		emitted int
		reply   strings.Builder
	)
	onToken := func(tok string) error {
		select {
		case st.ch <- tok:
		case <-ctx.Done():
			return ctx.Err()
		}
		reply.WriteString(tok)
		emitted++
		if emitted >= params.MaxTokens {
			return errHalt
		}
		if matchesStop(reply.String(), params.Stop) {
			return errHalt
		}
		return nil
	}
	err := es.Generate(ctx, prompt, params, onToken)
	if err != nil && !errors.Is(err, errHalt) && ctx.Err() == nil {
		if !IsGeneration(err) && !IsClosed(err) && !IsEngineUnavailable(err) {
			err = ErrGeneration(err.Error())
		}
		st.setErr(err)
	}
	if reply.Len() > 0 {
		m.history.Append(RoleAssistant, reply.String())
	}
	close(st.ch)
	m.log.Debug().
		Int("fragments", emitted).
		Dur("took", time.Since(start)).
		Msg("turn finished")
}

// Complete is the blocking convenience around Generate: it drains the stream
// and returns the concatenated reply.
func (m *Manager) Complete(ctx context.Context, userText string, params GenParams) (string, error) {
	st, err := m.Generate(ctx, userText, params)
	if err != nil {
		return "", err
	}
	for {
		if _, ok := st.Next(); !ok {
			break
		}
	}
	if err := st.Err(); err != nil {
		return "", err
	}
	return st.Text(), nil
}

// History returns the turns recorded so far, or nil before SetupSession.
func (m *Manager) History() []Turn {
	if m.history == nil {
		return nil
	}
	return m.history.Turns()
}

// Ready reports whether Generate may be called.
func (m *Manager) Ready() bool { return m.state == StateReady }

// Dispose releases the inference context and weight memory. A still-live
// stream is closed first and the in-flight slot drained, so the engine is
// idle before it is freed. Idempotent; every operation after Dispose fails.
func (m *Manager) Dispose() {
	if m.state == StateClosed {
		return
	}
	if m.cur != nil {
		_ = m.cur.Close()
		m.cur = nil
	}
	// Wait for the generation goroutine to give the slot back.
	m.genCh <- struct{}{}
	<-m.genCh
	if m.es != nil {
		if err := m.es.Close(); err != nil {
			m.log.Warn().Err(err).Msg("engine close")
		}
		m.es = nil
	}
	m.history = nil
	m.state = StateClosed
}

func (m *Manager) releaseGen() { <-m.genCh }

// matchesStop reports whether the accumulated reply ends in (or contains) one
// of the stop sequences. Scanning the whole tail keeps behavior identical
// whether or not the engine enforces anti-prompts itself.
func matchesStop(text string, stop []string) bool {
	for _, s := range stop {
		if s != "" && strings.Contains(text, s) {
			return true
		}
	}
	return false
}
