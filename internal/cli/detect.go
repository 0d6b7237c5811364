package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhowell/papermatch/internal/model"
	"github.com/dhowell/papermatch/internal/worker"
)

var (
	corpusDir   string
	corpusURL   string
	outJSON     string
	timeout     time.Duration
	userAgent   string
	maxBytes    int64
	noCache     bool
	paperHint   string
	httpProxy   string
	httpsProxy  string
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// detectCmd represents the detect command
var detectCmd = &cobra.Command{
	Use:   "detect <submission-file>",
	Short: "Resolve one submission against the corpus",
	Long: `Detect reads one submission file (YAML or JSON) of OCR'd question
fragments and resolves it against the corpus:
- Group fragments by base question number
- Detect the source paper and question for each group
- Retrieve or compose the official marking scheme
- Synthesize a generic rubric for anything unmatched

Example:
  papermatch detect submission.yaml --corpus ./papers
  papermatch detect submission.yaml --corpus-url https://corpus.example.com --json out.json
  papermatch detect submission.yaml --corpus ./papers --paper-hint "AQA 8300/1H June 2023"`,
	Args: cobra.ExactArgs(1),
	RunE: runDetect,
}

func init() {
	rootCmd.AddCommand(detectCmd)

	// Corpus flags
	detectCmd.Flags().StringVar(&corpusDir, "corpus", "", "directory of corpus documents (YAML/JSON)")
	detectCmd.Flags().StringVar(&corpusURL, "corpus-url", "", "base URL of a corpus service")

	// Output flags
	detectCmd.Flags().StringVar(&outJSON, "json", "schememap.json", "output JSON path (- for stdout)")

	// Detection flags
	detectCmd.Flags().StringVar(&paperHint, "paper-hint", "", "externally known paper descriptor, e.g. \"AQA 8300/1H June 2023\"")

	// HTTP flags
	detectCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "overall detection timeout")
	detectCmd.Flags().StringVar(&userAgent, "ua", "papermatch/0.1 (+https://github.com/dhowell/papermatch)", "HTTP User-Agent")
	detectCmd.Flags().Int64Var(&maxBytes, "max-bytes", 20_000_000, "max response bytes to read")
	detectCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
	detectCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	detectCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")

	// LLM flags
	detectCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable LLM guidance condensation")
	detectCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	detectCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

// buildConfig assembles the run configuration from flags and environment.
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.Corpus.Dir = corpusDir
	cfg.Corpus.URL = corpusURL
	cfg.HTTP.Timeout = timeout
	cfg.HTTP.UserAgent = userAgent
	cfg.HTTP.MaxBodyBytes = maxBytes
	cfg.HTTP.HTTPProxy = httpProxy
	cfg.HTTP.HTTPSProxy = httpsProxy
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose

	if llmEnabled {
		cfg.LLM.Provider = llmProvider
		cfg.LLM.Model = llmModel

		// Get API key from environment
		switch llmProvider {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
			}
		case "anthropic", "claude":
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
			if cfg.LLM.APIKey == "" {
				return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
			}
		case "ollama":
			// Ollama doesn't need an API key
			baseURL := os.Getenv("OLLAMA_BASE_URL")
			if baseURL != "" {
				cfg.LLM.BaseURL = baseURL
			}
		}
	}

	return cfg, nil
}

func runDetect(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Submission: %s\n", path)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", !noCache)
		fmt.Fprintln(os.Stderr)
	}

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	sub, err := worker.LoadSubmission(path)
	if err != nil {
		return err
	}
	if paperHint != "" {
		sub.PaperHint = paperHint
	}

	orch, err := newOrchestrator(cfg)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "⚙️  Detecting %d fragments...\n", len(sub.Fragments))
	}

	result, err := orch.Process(ctx, *sub)
	if err != nil {
		return fmt.Errorf("detect failed: %w", err)
	}

	if verbose {
		printStats(os.Stderr, result.Stats)
	}

	if err := writeResult(result, outJSON); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	return nil
}

func printStats(w *os.File, stats model.DetectionStatistics) {
	fmt.Fprintf(w, "✓ Detected %d/%d question groups\n", stats.Detected, stats.Total)
	fmt.Fprintf(w, "✓ Schemes resolved: %d official, %d generic\n", stats.WithScheme, stats.WithoutScheme)
	if stats.ConsensusPaper != "" {
		fmt.Fprintf(w, "✓ Consensus paper: %s\n", stats.ConsensusPaper)
	}
	if len(stats.RescuedQuestions) > 0 {
		fmt.Fprintf(w, "✓ Rescued by consensus: %v\n", stats.RescuedQuestions)
	}
	if stats.HintDiscarded {
		fmt.Fprintf(w, "! Paper hint discarded after poor adherence\n")
	}
	fmt.Fprintln(w)
}
