package session

import (
	"errors"
	"testing"
)

func TestErrorPredicates(t *testing.T) {
	cases := []struct {
		err  error
		pred func(error) bool
	}{
		{ErrModelLoad("x"), IsModelLoad},
		{ErrNotInitialized(), IsNotInitialized},
		{ErrNotReady(), IsNotReady},
		{ErrGeneration("x"), IsGeneration},
		{busyError{}, IsBusy},
		{closedError{}, IsClosed},
		{ErrEngineUnavailable("x"), IsEngineUnavailable},
	}
	for _, c := range cases {
		if !c.pred(c.err) {
			t.Fatalf("predicate rejected its own error %v", c.err)
		}
		if c.pred(errors.New("other")) {
			t.Fatalf("predicate accepted a foreign error for %v", c.err)
		}
		if c.err.Error() == "" {
			t.Fatalf("empty message for %T", c.err)
		}
	}
}
