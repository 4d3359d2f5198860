package cli

import (
	"bytes"
	"errors"
	"testing"
)

func TestRunWithSpinner(t *testing.T) {
	t.Run("returns fn result", func(t *testing.T) {
		var buf bytes.Buffer
		want := errors.New("failed")

		called := false
		err := RunWithSpinner(&buf, false, "Working", func() error {
			called = true
			return want
		})

		if !called {
			t.Error("expected fn to run")
		}
		if !errors.Is(err, want) {
			t.Errorf("expected %v, got %v", want, err)
		}
	})

	t.Run("quiet draws nothing", func(t *testing.T) {
		var buf bytes.Buffer
		if err := RunWithSpinner(&buf, true, "Working", func() error { return nil }); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.Len() != 0 {
			t.Errorf("expected no output, got %q", buf.String())
		}
	})
}
