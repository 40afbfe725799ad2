package process

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func requireUnix(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestExecRunner_Run(t *testing.T) {
	requireUnix(t)
	r := NewExecRunner()
	ctx := context.Background()

	t.Run("captures stdout and stderr", func(t *testing.T) {
		out := r.Run(ctx, []string{"sh", "-c", "echo out; echo err >&2"})
		if out.ExitCode != 0 {
			t.Fatalf("expected exit 0, got %d (stderr=%q)", out.ExitCode, out.Stderr)
		}
		if out.Stdout != "out\n" {
			t.Errorf("stdout = %q, want %q", out.Stdout, "out\n")
		}
		if out.Stderr != "err\n" {
			t.Errorf("stderr = %q, want %q", out.Stderr, "err\n")
		}
		if !out.Success() {
			t.Error("expected Success() to be true")
		}
	})

	t.Run("non-zero exit is data", func(t *testing.T) {
		out := r.Run(ctx, []string{"sh", "-c", "exit 3"})
		if out.ExitCode != 3 {
			t.Errorf("exit code = %d, want 3", out.ExitCode)
		}
		if out.Success() {
			t.Error("expected Success() to be false")
		}
	})

	t.Run("missing binary maps to not found", func(t *testing.T) {
		out := r.Run(ctx, []string{"definitely-not-a-real-binary-12345"})
		if out.ExitCode != ExitNotFound {
			t.Errorf("exit code = %d, want %d", out.ExitCode, ExitNotFound)
		}
		if out.Stderr == "" {
			t.Error("expected error text in stderr")
		}
	})

	t.Run("missing absolute path maps to not found", func(t *testing.T) {
		missing := filepath.Join(t.TempDir(), "nope")
		out := r.Run(ctx, []string{missing})
		if out.ExitCode != ExitNotFound {
			t.Errorf("exit code = %d, want %d", out.ExitCode, ExitNotFound)
		}
	})

	t.Run("empty argv", func(t *testing.T) {
		out := r.Run(ctx, nil)
		if out.ExitCode != ExitNotFound {
			t.Errorf("exit code = %d, want %d", out.ExitCode, ExitNotFound)
		}
	})

	t.Run("cancelled context does not start", func(t *testing.T) {
		marker := filepath.Join(t.TempDir(), "ran")
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		out := r.Run(cctx, []string{"sh", "-c", "touch " + marker})
		if out.ExitCode != ExitAborted {
			t.Errorf("exit code = %d, want %d", out.ExitCode, ExitAborted)
		}
		if _, err := os.Stat(marker); err == nil {
			t.Error("command should not have run")
		}
	})

	t.Run("invalid utf-8 is replaced", func(t *testing.T) {
		out := r.Run(ctx, []string{"sh", "-c", `printf 'a\377b'`})
		if strings.Contains(out.Stdout, "\xff") {
			t.Errorf("stdout still contains invalid byte: %q", out.Stdout)
		}
		if !strings.HasPrefix(out.Stdout, "a") || !strings.HasSuffix(out.Stdout, "b") {
			t.Errorf("unexpected stdout %q", out.Stdout)
		}
	})
}

func TestFake(t *testing.T) {
	f := NewFake(func(argv []string) Outcome {
		if argv[0] == "fail" {
			return Outcome{ExitCode: 1, Stderr: "boom"}
		}
		return Outcome{Stdout: "ok"}
	})

	ok := f.Run(context.Background(), []string{"tool", "a"})
	bad := f.Run(context.Background(), []string{"fail"})

	if ok.ExitCode != 0 || ok.Stdout != "ok" {
		t.Errorf("unexpected outcome %+v", ok)
	}
	if bad.ExitCode != 1 || bad.Stderr != "boom" {
		t.Errorf("unexpected outcome %+v", bad)
	}

	calls := f.Calls()
	if len(calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(calls))
	}
	if strings.Join(calls[0], " ") != "tool a" {
		t.Errorf("first call = %v", calls[0])
	}

	t.Run("nil handler succeeds", func(t *testing.T) {
		var zero Fake
		if out := zero.Run(context.Background(), []string{"x"}); out.ExitCode != 0 {
			t.Errorf("exit code = %d, want 0", out.ExitCode)
		}
	})
}
