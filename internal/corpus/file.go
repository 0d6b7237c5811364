package corpus

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dhowell/papermatch/internal/model"
	"github.com/dhowell/papermatch/internal/validate"
)

// FileSource loads the corpus from a directory of YAML/JSON documents. Each
// document may carry papers, schemes, or both. Used for fixture corpora and
// offline operation.
type FileSource struct {
	dir string
}

// NewFileSource creates a file source rooted at dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

// Load reads every corpus document under the directory, normalizes it, and
// validates the assembled snapshot.
func (s *FileSource) Load(ctx context.Context) (*model.Snapshot, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read corpus dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml", ".json":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	snap := &model.Snapshot{LoadedAt: time.Now()}
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			return nil, fmt.Errorf("read corpus document %s: %w", name, err)
		}

		isJSON := strings.EqualFold(filepath.Ext(name), ".json")
		doc, err := parseDocument(data, isJSON)
		if err != nil {
			return nil, fmt.Errorf("parse corpus document %s: %w", name, err)
		}

		for _, p := range doc.Papers {
			snap.Papers = append(snap.Papers, p.normalize())
		}
		for _, sch := range doc.Schemes {
			snap.Schemes = append(snap.Schemes, sch.normalize())
		}
	}

	if err := validate.Snapshot(snap); err != nil {
		return nil, err
	}
	return snap, nil
}
