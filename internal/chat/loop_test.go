package chat

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"llamachat/internal/session"
)

// chatManager builds a ready session manager around a scripted engine.
func chatManager(t *testing.T, eng session.Engine) *session.Manager {
	t.Helper()
	m := session.New(eng, zerolog.Nop())
	p := filepath.Join(t.TempDir(), "tiny.gguf")
	if err := os.WriteFile(p, []byte("gguf"), 0o644); err != nil {
		t.Fatalf("write model file: %v", err)
	}
	if err := m.Initialize(session.EngineConfig{ModelPath: p, CtxSize: 512}); err != nil {
		t.Fatalf("initialize: %v", err)
	}
	if err := m.SetupSession(Preamble()); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return m
}

// scriptEngine emits fixed fragments per turn; generation errors are scripted
// per call index.
type scriptEngine struct {
	frags []string
	errAt map[int]error
	calls int
}

type scriptEngineSession struct{ e *scriptEngine }

func (e *scriptEngine) Load(cfg session.EngineConfig) (session.EngineSession, error) {
	return scriptEngineSession{e: e}, nil
}

func (s scriptEngineSession) Generate(ctx context.Context, prompt string, params session.GenParams, onToken func(string) error) error {
	s.e.calls++
	if err := s.e.errAt[s.e.calls]; err != nil {
		return err
	}
	for _, f := range s.e.frags {
		if err := onToken(f); err != nil {
			return err
		}
	}
	return nil
}

func (scriptEngineSession) Close() error { return nil }

func runLoop(t *testing.T, m *session.Manager, input string) string {
	t.Helper()
	var out bytes.Buffer
	l := New(NewScanner(strings.NewReader(input)), &out, m, session.GenParams{MaxTokens: 16}, zerolog.Nop())
	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	return out.String()
}

func TestLoopStreamsReply(t *testing.T) {
	eng := &scriptEngine{frags: []string{"Four", "."}}
	out := runLoop(t, chatManager(t, eng), "What is 2+2?\nexit\n")
	if !strings.Contains(out, "Four.") {
		t.Fatalf("expected streamed reply in output, got %q", out)
	}
	if eng.calls != 1 {
		t.Fatalf("expected one generation, got %d", eng.calls)
	}
}

func TestLoopExitCaseInsensitive(t *testing.T) {
	for _, word := range []string{"exit", "Exit", "EXIT", "  eXiT  "} {
		eng := &scriptEngine{frags: []string{"nope"}}
		runLoop(t, chatManager(t, eng), word+"\n")
		if eng.calls != 0 {
			t.Fatalf("%q must terminate without invoking generate, got %d calls", word, eng.calls)
		}
	}
}

func TestLoopEndsOnEOF(t *testing.T) {
	eng := &scriptEngine{frags: []string{"hi"}}
	runLoop(t, chatManager(t, eng), "") // immediate EOF
	if eng.calls != 0 {
		t.Fatalf("expected no generation on empty input")
	}
}

func TestLoopSkipsBlankLines(t *testing.T) {
	eng := &scriptEngine{frags: []string{"hi"}}
	runLoop(t, chatManager(t, eng), "\n   \nexit\n")
	if eng.calls != 0 {
		t.Fatalf("blank lines must not trigger generation")
	}
}

func TestLoopContinuesAfterTurnError(t *testing.T) {
	eng := &scriptEngine{
		frags: []string{"recovered"},
		errAt: map[int]error{1: session.ErrGeneration("engine fault")},
	}
	out := runLoop(t, chatManager(t, eng), "first\nsecond\nexit\n")
	if !strings.Contains(out, "error:") {
		t.Fatalf("expected the failed turn to be reported, got %q", out)
	}
	if !strings.Contains(out, "recovered") {
		t.Fatalf("expected the loop to continue after a failed turn, got %q", out)
	}
	if eng.calls != 2 {
		t.Fatalf("expected two generation attempts, got %d", eng.calls)
	}
}

func TestSharedScannerKeepsTypeAhead(t *testing.T) {
	d := t.TempDir()
	model := writeModel(t, d, "typed.gguf")
	eng := &scriptEngine{frags: []string{"Four", "."}}
	m := chatManager(t, eng)

	// Model path and chat input typed ahead on one stream; the path prompt
	// and the loop must read through the same scanner.
	input := model + "\nWhat is 2+2?\nexit\n"
	sc := NewScanner(strings.NewReader(input))
	var out bytes.Buffer
	got, err := ResolveModelPath("", filepath.Join(d, "empty"), sc, &out)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != model {
		t.Fatalf("expected %q, got %q", model, got)
	}
	l := New(sc, &out, m, session.GenParams{MaxTokens: 16}, zerolog.Nop())
	if err := l.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if eng.calls != 1 {
		t.Fatalf("expected the typed-ahead turn to reach the engine, got %d calls", eng.calls)
	}
	if !strings.Contains(out.String(), "Four.") {
		t.Fatalf("expected streamed reply, got %q", out.String())
	}
}

func TestPreambleShape(t *testing.T) {
	turns := Preamble()
	if len(turns) != 3 {
		t.Fatalf("expected system + example exchange, got %d turns", len(turns))
	}
	if turns[0].Role != session.RoleSystem {
		t.Fatalf("first turn must be the system preamble")
	}
	if turns[1].Role != session.RoleUser || turns[2].Role != session.RoleAssistant {
		t.Fatalf("example exchange must be user then assistant")
	}
}
