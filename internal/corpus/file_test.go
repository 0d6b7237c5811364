package corpus

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dhowell/papermatch/internal/model"
)

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

const paperFixture = `
papers:
  - board: Edexcel
    code: 1MA1/1H
    series: June 2019
    qualification: GCSE Mathematics
    questions:
      - number: "4"
        text: Find the value of x when 2x+3=7
`

const schemeFixture = `
schemes:
  - board: Edexcel
    code: 1MA1/1H
    series: June 2019
    question: "4"
    points:
      - code: M1
        guidance: isolates the x term
      - code: A1
        answer: x = 2
`

func TestFileSource_Load(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "papers.yaml", paperFixture)
	writeFixture(t, dir, "schemes.yaml", schemeFixture)
	writeFixture(t, dir, "notes.txt", "ignored")

	snap, err := NewFileSource(dir).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(snap.Papers) != 1 {
		t.Fatalf("papers = %d, want 1", len(snap.Papers))
	}
	if len(snap.Schemes) != 1 {
		t.Fatalf("schemes = %d, want 1", len(snap.Schemes))
	}
	if snap.LoadedAt.IsZero() {
		t.Error("LoadedAt not set")
	}
}

func TestFileSource_RejectsBrokenCorpus(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "broken.yaml", `
papers:
  - board: Edexcel
    code: 1MA1/1H
    series: June 2019
    questions: []
`) // missing qualification

	_, err := NewFileSource(dir).Load(context.Background())
	if err == nil {
		t.Fatal("Load accepted a paper without qualification")
	}
	var ie *model.IntegrityError
	if !errors.As(err, &ie) {
		t.Fatalf("error type %T, want *model.IntegrityError", err)
	}
}

func TestFileSource_MissingDir(t *testing.T) {
	_, err := NewFileSource(filepath.Join(t.TempDir(), "nope")).Load(context.Background())
	if err == nil {
		t.Fatal("Load of missing directory succeeded")
	}
}
