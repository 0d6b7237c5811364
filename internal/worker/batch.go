package worker

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dhowell/papermatch/internal/model"
	"github.com/dhowell/papermatch/internal/pipeline"
)

// Processor resolves one submission into its scheme map.
type Processor interface {
	Process(ctx context.Context, sub model.Submission) (*pipeline.Result, error)
}

// SubmissionJob loads and processes one submission file.
type SubmissionJob struct {
	Path      string
	Processor Processor
}

// Execute executes the submission job
func (j *SubmissionJob) Execute(ctx context.Context) Result {
	sub, err := LoadSubmission(j.Path)
	if err != nil {
		return &SubmissionResult{Path: j.Path, Error: err}
	}

	out, err := j.Processor.Process(ctx, *sub)
	if err != nil {
		return &SubmissionResult{Path: j.Path, Error: err}
	}
	return &SubmissionResult{Path: j.Path, Output: out}
}

// SubmissionResult is the outcome of one submission job.
type SubmissionResult struct {
	Path   string
	Output *pipeline.Result
	Error  error
}

// GetError returns the error from the submission result
func (r *SubmissionResult) GetError() error {
	return r.Error
}

// BatchProcessor processes multiple submission files concurrently
type BatchProcessor struct {
	processor   Processor
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(processor Processor, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		processor:   processor,
		concurrency: concurrency,
	}
}

// ProcessPaths processes multiple submission files concurrently
func (b *BatchProcessor) ProcessPaths(ctx context.Context, paths []string) []*SubmissionResult {
	if len(paths) == 0 {
		return []*SubmissionResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, path := range paths {
		pool.Submit(&SubmissionJob{
			Path:      path,
			Processor: b.processor,
		})
	}

	results := pool.Wait()

	subResults := make([]*SubmissionResult, len(results))
	for i, result := range results {
		subResults[i] = result.(*SubmissionResult)
	}

	return subResults
}

// ProcessFile reads submission paths from a list file and processes them
// concurrently.
func (b *BatchProcessor) ProcessFile(ctx context.Context, listPath string) ([]*SubmissionResult, error) {
	paths, err := ReadPathsFromFile(listPath)
	if err != nil {
		return nil, fmt.Errorf("read paths: %w", err)
	}

	return b.ProcessPaths(ctx, paths), nil
}

// ReadPathsFromFile reads submission file paths from a file (one per line).
// Relative paths are resolved against the list file's directory.
func ReadPathsFromFile(listPath string) ([]string, error) {
	file, err := os.Open(listPath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	baseDir := filepath.Dir(listPath)

	var paths []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !filepath.IsAbs(line) {
			line = filepath.Join(baseDir, line)
		}

		// Deduplicate paths
		if !seen[line] {
			seen[line] = true
			paths = append(paths, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return paths, nil
}

// LoadSubmission reads one submission document. JSON by extension,
// YAML otherwise.
func LoadSubmission(path string) (*model.Submission, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read submission: %w", err)
	}

	var sub model.Submission
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := json.Unmarshal(data, &sub); err != nil {
			return nil, fmt.Errorf("parse submission %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, &sub); err != nil {
			return nil, fmt.Errorf("parse submission %s: %w", path, err)
		}
	}

	if len(sub.Fragments) == 0 {
		return nil, fmt.Errorf("submission %s has no fragments", path)
	}
	return &sub, nil
}
