package chat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"llamachat/internal/metrics"
	"llamachat/internal/session"
)

// Generator is the slice of the session manager the loop needs.
type Generator interface {
	Generate(ctx context.Context, userText string, params session.GenParams) (*session.Stream, error)
}

// promptMarker is printed before each user input line.
const promptMarker = "> "

// exitWord ends the loop, compared case-insensitively after trimming.
const exitWord = "exit"

// Loop reads user lines, relays them to the session manager, and prints the
// streamed reply fragments as they arrive.
type Loop struct {
	sc     *bufio.Scanner
	out    io.Writer
	gen    Generator
	params session.GenParams
	log    zerolog.Logger
}

// New constructs a console loop over the given scanner/writer pair. The
// scanner is shared with any earlier interactive reads (model path prompt) so
// buffered type-ahead survives into the loop.
func New(sc *bufio.Scanner, out io.Writer, gen Generator, params session.GenParams, log zerolog.Logger) *Loop {
	return &Loop{sc: sc, out: out, gen: gen, params: params, log: log}
}

// NewScanner builds the line scanner the client reads all console input
// through, sized for long pasted prompts.
func NewScanner(in io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return sc
}

// Run drives the read/generate/print cycle until the user types "exit", input
// reaches EOF, or ctx is canceled. A failed turn is reported and the loop
// continues; only input errors terminate it.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(l.out, promptMarker)
		if !l.sc.Scan() {
			// EOF or read error; EOF ends the session cleanly.
			if err := l.sc.Err(); err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			fmt.Fprintln(l.out)
			return nil
		}
		line := strings.TrimSpace(l.sc.Text())
		if line == "" {
			continue
		}
		if strings.EqualFold(line, exitWord) {
			return nil
		}
		if err := l.turn(ctx, line); err != nil {
			// Per-turn failure: report and keep the session alive.
			fmt.Fprintf(l.out, "error: %v\n", err)
			l.log.Error().Err(err).Msg("turn failed")
		}
	}
}

// turn runs one generation and streams its fragments to the output unbuffered.
func (l *Loop) turn(ctx context.Context, userText string) error {
	start := time.Now()
	st, err := l.gen.Generate(ctx, userText, l.params)
	if err != nil {
		metrics.ObserveTurn(start, 0, err)
		return err
	}
	defer st.Close()
	fragments := 0
	for {
		frag, ok := st.Next()
		if !ok {
			break
		}
		fragments++
		if _, err := io.WriteString(l.out, frag); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	fmt.Fprintln(l.out)
	metrics.ObserveTurn(start, fragments, st.Err())
	return st.Err()
}
