package model

import "time"

// Config is the full papermatch configuration.
type Config struct {
	Corpus      CorpusConfig      `yaml:"corpus"`
	Detection   DetectionConfig   `yaml:"detection"`
	HTTP        HTTPConfig        `yaml:"http"`
	Cache       CacheConfig       `yaml:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	LLM         LLMConfig         `yaml:"llm"`
	Output      OutputConfig      `yaml:"output"`
}

// CorpusConfig selects where the reference corpus is loaded from. Exactly
// one of Dir or URL should be set.
type CorpusConfig struct {
	Dir string        `yaml:"dir"` // directory of YAML/JSON corpus documents
	URL string        `yaml:"url"` // base URL of a corpus service
	TTL time.Duration `yaml:"ttl"` // snapshot time-to-live
}

// DetectionConfig holds the scoring and acceptance thresholds. These are
// tunable heuristics, not derived constants; the defaults are the values
// validated against the labeled corpus.
type DetectionConfig struct {
	StrictThreshold float64 `yaml:"strict_threshold"` // unconditional acceptance
	RelativeWinner  float64 `yaml:"relative_winner"`  // acceptance when clearly ahead
	RelativeMargin  float64 `yaml:"relative_margin"`  // required lead over the runner-up
	RescueThreshold float64 `yaml:"rescue_threshold"` // acceptance in rescue mode
	TextFloor       float64 `yaml:"text_floor"`       // minimum raw text similarity
	RescueTextFloor float64 `yaml:"rescue_text_floor"`
	AuditFloor      float64 `yaml:"audit_floor"` // candidates below this are not ranked
	WeakMatch       float64 `yaml:"weak_match"`  // matches below this are flagged weak
}

// HTTPConfig configures the corpus-service client.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	RatePerSec   float64       `yaml:"rate_per_sec"`
	Burst        int           `yaml:"burst"`
	HTTPProxy    string        `yaml:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy"`
}

// CacheConfig configures the byte cache in front of the corpus service.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// ConcurrencyConfig configures the batch runner.
type ConcurrencyConfig struct {
	BatchWorkers int `yaml:"batch_workers"`
}

// LLMConfig configures the optional guidance condenser. Disabled unless a
// provider is named. The condenser never affects detection.
type LLMConfig struct {
	Provider  string `yaml:"provider"` // "openai", "anthropic", "ollama" or ""
	Model     string `yaml:"model"`
	APIKey    string `yaml:"api_key"`
	BaseURL   string `yaml:"base_url"`
	Timeout   int    `yaml:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens"`
}

// OutputConfig controls CLI output behaviour.
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			TTL: time.Hour,
		},
		Detection: DefaultDetectionConfig(),
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "papermatch/0.1 (+https://github.com/dhowell/papermatch)",
			MaxBodyBytes: 20_000_000,
			RatePerSec:   5,
			Burst:        5,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 15 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			BatchWorkers: 4,
		},
		LLM: LLMConfig{
			Timeout:   30,
			MaxTokens: 500,
		},
	}
}

// DefaultDetectionConfig returns the default thresholds.
func DefaultDetectionConfig() DetectionConfig {
	return DetectionConfig{
		StrictThreshold: 0.80,
		RelativeWinner:  0.65,
		RelativeMargin:  0.15,
		RescueThreshold: 0.35,
		TextFloor:       0.25,
		RescueTextFloor: 0.15,
		AuditFloor:      0.15,
		WeakMatch:       0.70,
	}
}
