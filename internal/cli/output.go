package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dhowell/papermatch/internal/model"
	"github.com/dhowell/papermatch/internal/pipeline"
)

// schemeMapDocument is the on-disk output shape: the per-group entries plus
// the pass statistics.
type schemeMapDocument struct {
	Entries []model.SchemeMapEntry    `json:"entries"`
	Stats   model.DetectionStatistics `json:"stats"`
}

// writeResult renders one processed submission as indented JSON. Path "-"
// writes to stdout.
func writeResult(result *pipeline.Result, path string) error {
	doc := schemeMapDocument{
		Entries: result.Entries,
		Stats:   result.Stats,
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	data = append(data, '\n')

	if path == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", path)
	}
	return nil
}
