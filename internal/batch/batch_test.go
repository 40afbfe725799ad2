package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackzampolin/ocrctl/internal/ocr"
	"github.com/jackzampolin/ocrctl/internal/process"
	"github.com/jackzampolin/ocrctl/internal/profiles"
	"github.com/jackzampolin/ocrctl/internal/validate"
)

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("%PDF-1.4\n"), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
}

// newTestCoordinator wires a real executor and validator to a fake runner.
// Engine calls fail when the input file name is listed in failing.
func newTestCoordinator(workers int, failing ...string) (*Coordinator, *process.Fake) {
	fake := process.NewFake(func(argv []string) process.Outcome {
		if argv[0] != ocr.DefaultEngine {
			return process.Outcome{Stdout: "Pages: 1"}
		}
		input := filepath.Base(argv[len(argv)-2])
		for _, f := range failing {
			if f == input {
				return process.Outcome{ExitCode: 1, Stderr: "engine error"}
			}
		}
		return process.Outcome{}
	})
	executor := ocr.NewExecutor(ocr.Config{
		Runner:      fake,
		PageCounter: func(string) (int, error) { return 0, errors.New("skip") },
	})
	validator := validate.New(validate.Config{Runner: fake})
	return NewCoordinator(Config{Jobs: executor, Validator: validator, Workers: workers}), fake
}

func TestDiscoverPDFs(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, "c.pdf", "a.pdf", "B.PDF", "notes.txt", "image.png", ".hidden.pdf", "b.pdf")
	if err := os.Mkdir(filepath.Join(dir, "nested.pdf"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.Symlink(filepath.Join(dir, "a.pdf"), filepath.Join(dir, "link.pdf")); err != nil {
		t.Fatalf("symlink: %v", err)
	}
	if err := os.Symlink(filepath.Join(dir, "nested.pdf"), filepath.Join(dir, "dirlink.pdf")); err != nil {
		t.Fatalf("symlink: %v", err)
	}
	if err := os.Symlink(filepath.Join(dir, "gone"), filepath.Join(dir, "broken.pdf")); err != nil {
		t.Fatalf("symlink: %v", err)
	}

	paths, err := DiscoverPDFs(dir)
	if err != nil {
		t.Fatalf("DiscoverPDFs() error: %v", err)
	}

	var names []string
	for _, p := range paths {
		if filepath.Dir(p) != dir {
			t.Errorf("path %q not under %q", p, dir)
		}
		names = append(names, filepath.Base(p))
	}
	want := []string{".hidden.pdf", "a.pdf", "b.pdf", "c.pdf", "link.pdf"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("discovered %v, want %v", names, want)
	}

	t.Run("name filter", func(t *testing.T) {
		tests := []struct {
			name string
			want bool
		}{
			{"scan.pdf", true},
			{".h.pdf", true},
			{"A.PDF", false},
			{"scan.Pdf", false},
			{"scan.pdf.txt", false},
			{"pdf", false},
		}
		for _, tt := range tests {
			if got := IsPDFName(tt.name); got != tt.want {
				t.Errorf("IsPDFName(%q) = %v, want %v", tt.name, got, tt.want)
			}
		}
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := DiscoverPDFs(filepath.Join(dir, "missing"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("expected os.ErrNotExist, got %v", err)
		}
	})
}

func TestCoordinator_Run(t *testing.T) {
	profile := profiles.New("balanced", "", []string{"--optimize", "1"})

	t.Run("partial failure", func(t *testing.T) {
		in, out := t.TempDir(), t.TempDir()
		writeFiles(t, in, "b.pdf", "a.pdf")
		c, _ := newTestCoordinator(1, "b.pdf")

		summary, err := c.Run(context.Background(), Request{InputDir: in, OutputDir: out, Profile: profile})
		if err != nil {
			t.Fatalf("Run() error: %v", err)
		}

		if summary.Succeeded != 1 || summary.Failed != 1 {
			t.Errorf("succeeded=%d failed=%d, want 1/1", summary.Succeeded, summary.Failed)
		}
		if summary.OK() {
			t.Error("expected OK() to be false")
		}
		if len(summary.Results) != 2 {
			t.Fatalf("expected 2 results, got %d", len(summary.Results))
		}
		if filepath.Base(summary.Results[0].Input) != "a.pdf" || filepath.Base(summary.Results[1].Input) != "b.pdf" {
			t.Errorf("results out of order: %s, %s", summary.Results[0].Input, summary.Results[1].Input)
		}
		if summary.Results[0].Output != filepath.Join(out, "a.pdf") {
			t.Errorf("output = %q", summary.Results[0].Output)
		}
		if summary.Results[1].ReturnCode != 1 {
			t.Errorf("b.pdf returncode = %d", summary.Results[1].ReturnCode)
		}
		if summary.Profile != "balanced" || summary.RunID == "" {
			t.Errorf("profile=%q run_id=%q", summary.Profile, summary.RunID)
		}
	})

	t.Run("validation only for successful jobs", func(t *testing.T) {
		in, out := t.TempDir(), t.TempDir()
		writeFiles(t, in, "a.pdf", "b.pdf", "c.pdf")
		c, fake := newTestCoordinator(1, "b.pdf")

		summary, err := c.Run(context.Background(), Request{InputDir: in, OutputDir: out, Profile: profile, Validate: true})
		if err != nil {
			t.Fatalf("Run() error: %v", err)
		}

		for _, r := range summary.Results {
			hasValidation := r.Validation != nil
			if hasValidation != r.Succeeded() {
				t.Errorf("%s: validation present=%v, succeeded=%v", r.Input, hasValidation, r.Succeeded())
			}
		}
		if v := summary.Results[0].Validation; v[validate.ToolInfo].Command[1] != filepath.Join(out, "a.pdf") {
			t.Errorf("validated wrong path: %v", v[validate.ToolInfo].Command)
		}
		// 3 engine calls + 2 validated jobs x 2 tools
		if n := len(fake.Calls()); n != 7 {
			t.Errorf("expected 7 process calls, got %d", n)
		}
	})

	t.Run("no validation without flag", func(t *testing.T) {
		in, out := t.TempDir(), t.TempDir()
		writeFiles(t, in, "a.pdf")
		c, fake := newTestCoordinator(1)

		summary, err := c.Run(context.Background(), Request{InputDir: in, OutputDir: out, Profile: profile})
		if err != nil {
			t.Fatalf("Run() error: %v", err)
		}
		if summary.Results[0].Validation != nil {
			t.Error("unexpected validation result")
		}
		if n := len(fake.Calls()); n != 1 {
			t.Errorf("expected 1 process call, got %d", n)
		}
	})

	t.Run("non-matching files are ignored", func(t *testing.T) {
		in, out := t.TempDir(), t.TempDir()
		writeFiles(t, in, "a.pdf", "b.pdf", "c.pdf", "readme.md", "scan.tiff")
		c, fake := newTestCoordinator(1)

		summary, err := c.Run(context.Background(), Request{InputDir: in, OutputDir: out, Profile: profile})
		if err != nil {
			t.Fatalf("Run() error: %v", err)
		}
		if len(summary.Results) != 3 || len(fake.Calls()) != 3 {
			t.Errorf("results=%d calls=%d, want 3/3", len(summary.Results), len(fake.Calls()))
		}
		if summary.Succeeded+summary.Failed != 3 {
			t.Errorf("succeeded+failed = %d, want 3", summary.Succeeded+summary.Failed)
		}
	})

	t.Run("missing input directory is an empty batch", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "nested", "out")
		c, fake := newTestCoordinator(1)

		summary, err := c.Run(context.Background(), Request{
			InputDir:  filepath.Join(t.TempDir(), "missing"),
			OutputDir: out,
			Profile:   profile,
		})
		if err != nil {
			t.Fatalf("Run() error: %v", err)
		}
		if len(summary.Results) != 0 || summary.Succeeded != 0 || summary.Failed != 0 {
			t.Errorf("expected empty summary, got %+v", summary)
		}
		if !summary.OK() {
			t.Error("empty batch should be OK")
		}
		if summary.Results == nil {
			t.Error("Results should be an empty slice, not nil")
		}
		if len(fake.Calls()) != 0 {
			t.Errorf("expected no process calls, got %d", len(fake.Calls()))
		}
		if info, err := os.Stat(out); err != nil || !info.IsDir() {
			t.Errorf("output directory not created: %v", err)
		}
	})

	t.Run("output directory creation is idempotent", func(t *testing.T) {
		in, out := t.TempDir(), t.TempDir()
		writeFiles(t, in, "a.pdf")
		c, _ := newTestCoordinator(1)
		for i := 0; i < 2; i++ {
			if _, err := c.Run(context.Background(), Request{InputDir: in, OutputDir: out, Profile: profile}); err != nil {
				t.Fatalf("run %d: %v", i, err)
			}
		}
	})

	t.Run("validate without validator", func(t *testing.T) {
		c := NewCoordinator(Config{Jobs: ocr.NewExecutor(ocr.Config{Runner: process.NewFake(nil)})})
		_, err := c.Run(context.Background(), Request{InputDir: t.TempDir(), OutputDir: t.TempDir(), Validate: true})
		if !errors.Is(err, ErrNoValidator) {
			t.Errorf("expected ErrNoValidator, got %v", err)
		}
	})
}

// slowJobs records peak concurrency.
type slowJobs struct {
	active atomic.Int32
	peak   atomic.Int32
}

func (s *slowJobs) Run(ctx context.Context, input, output string, profile profiles.Profile, extra []string) ocr.Result {
	n := s.active.Add(1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(20 * time.Millisecond)
	s.active.Add(-1)

	code := 0
	if strings.HasPrefix(filepath.Base(input), "bad") {
		code = 2
	}
	return ocr.Result{Input: input, Output: output, Profile: profile.Name, ReturnCode: code}
}

func TestCoordinator_RunWorkers(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	names := []string{"a.pdf", "bad1.pdf", "c.pdf", "d.pdf", "bad2.pdf", "f.pdf", "g.pdf", "h.pdf"}
	writeFiles(t, in, names...)

	jobs := &slowJobs{}
	c := NewCoordinator(Config{Jobs: jobs, Workers: 3})

	summary, err := c.Run(context.Background(), Request{InputDir: in, OutputDir: out, Profile: profiles.New("fast", "", nil)})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if peak := jobs.peak.Load(); peak > 3 {
		t.Errorf("peak concurrency = %d, want <= 3", peak)
	}
	if summary.Succeeded != 6 || summary.Failed != 2 {
		t.Errorf("succeeded=%d failed=%d, want 6/2", summary.Succeeded, summary.Failed)
	}

	var got []string
	for _, r := range summary.Results {
		got = append(got, filepath.Base(r.Input))
	}
	want := []string{"a.pdf", "bad1.pdf", "bad2.pdf", "c.pdf", "d.pdf", "f.pdf", "g.pdf", "h.pdf"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("result order = %v, want %v", got, want)
	}
}
