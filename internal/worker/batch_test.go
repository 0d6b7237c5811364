package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dhowell/papermatch/internal/model"
	"github.com/dhowell/papermatch/internal/pipeline"
)

// mockProcessor implements Processor
type mockProcessor struct {
	err error
}

func (m *mockProcessor) Process(_ context.Context, sub model.Submission) (*pipeline.Result, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &pipeline.Result{
		Stats: model.DetectionStatistics{Total: len(sub.Fragments)},
	}, nil
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const yamlSubmission = `fragments:
  - number_hint: "1"
    question_text: "Work out the value of x"
    page: 1
`

const jsonSubmission = `{"fragments": [{"number_hint": "2", "question_text": "Describe the trend", "page": 1}]}`

func TestBatchProcessor_ProcessPaths(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "a.yaml", yamlSubmission),
		writeFile(t, dir, "b.json", jsonSubmission),
	}

	b := NewBatchProcessor(&mockProcessor{}, 2)
	results := b.ProcessPaths(context.Background(), paths)

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	for _, r := range results {
		if r.GetError() != nil {
			t.Errorf("%s: unexpected error %v", r.Path, r.Error)
		}
		if r.Output == nil || r.Output.Stats.Total != 1 {
			t.Errorf("%s: unexpected output %+v", r.Path, r.Output)
		}
	}
}

func TestBatchProcessor_ProcessPaths_Error(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.yaml", yamlSubmission)

	wantErr := errors.New("corpus offline")
	b := NewBatchProcessor(&mockProcessor{err: wantErr}, 1)
	results := b.ProcessPaths(context.Background(), []string{path})

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if !errors.Is(results[0].GetError(), wantErr) {
		t.Errorf("expected processor error, got %v", results[0].Error)
	}
}

func TestBatchProcessor_ProcessPaths_Empty(t *testing.T) {
	b := NewBatchProcessor(&mockProcessor{}, 2)
	results := b.ProcessPaths(context.Background(), nil)
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestBatchProcessor_ProcessPaths_MissingFile(t *testing.T) {
	b := NewBatchProcessor(&mockProcessor{}, 1)
	results := b.ProcessPaths(context.Background(), []string{"/nonexistent/sub.yaml"})

	if len(results) != 1 || results[0].GetError() == nil {
		t.Fatalf("expected load error, got %+v", results)
	}
}

func TestReadPathsFromFile(t *testing.T) {
	dir := t.TempDir()
	list := writeFile(t, dir, "list.txt", `# submissions
sub1.yaml

sub2.json
/abs/sub3.yaml
sub1.yaml
`)

	paths, err := ReadPathsFromFile(list)
	if err != nil {
		t.Fatalf("ReadPathsFromFile: %v", err)
	}

	want := []string{
		filepath.Join(dir, "sub1.yaml"),
		filepath.Join(dir, "sub2.json"),
		"/abs/sub3.yaml",
	}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v, want %v", paths, want)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestReadPathsFromFile_NonExistent(t *testing.T) {
	_, err := ReadPathsFromFile("/nonexistent/list.txt")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", yamlSubmission)
	list := writeFile(t, dir, "list.txt", "a.yaml\n")

	b := NewBatchProcessor(&mockProcessor{}, 1)
	results, err := b.ProcessFile(context.Background(), list)
	if err != nil {
		t.Fatalf("ProcessFile: %v", err)
	}
	if len(results) != 1 || results[0].GetError() != nil {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestLoadSubmission(t *testing.T) {
	dir := t.TempDir()

	t.Run("yaml", func(t *testing.T) {
		path := writeFile(t, dir, "s.yaml", yamlSubmission)
		sub, err := LoadSubmission(path)
		if err != nil {
			t.Fatalf("LoadSubmission: %v", err)
		}
		if len(sub.Fragments) != 1 || sub.Fragments[0].NumberHint != "1" {
			t.Errorf("unexpected submission: %+v", sub)
		}
	})

	t.Run("json", func(t *testing.T) {
		path := writeFile(t, dir, "s.json", jsonSubmission)
		sub, err := LoadSubmission(path)
		if err != nil {
			t.Fatalf("LoadSubmission: %v", err)
		}
		if len(sub.Fragments) != 1 || sub.Fragments[0].NumberHint != "2" {
			t.Errorf("unexpected submission: %+v", sub)
		}
	})

	t.Run("empty", func(t *testing.T) {
		path := writeFile(t, dir, "empty.yaml", "fragments: []\n")
		if _, err := LoadSubmission(path); err == nil {
			t.Error("expected error for a submission with no fragments")
		}
	})

	t.Run("malformed", func(t *testing.T) {
		path := writeFile(t, dir, "bad.json", "{not json")
		if _, err := LoadSubmission(path); err == nil {
			t.Error("expected parse error")
		}
	})
}
