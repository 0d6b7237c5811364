package llm

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/dhowell/papermatch/internal/model"
)

// Provider is one LLM backend able to condense a marking scheme's examiner
// guidance into a short note for the grading prompt.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Condense rewrites the scheme's guidance into a compact note.
	Condense(ctx context.Context, req CondenseRequest) (*CondenseResponse, error)

	// IsAvailable checks if the provider is properly configured and reachable.
	IsAvailable(ctx context.Context) bool
}

// CondenseRequest is the input for guidance condensation.
type CondenseRequest struct {
	// Scheme is the resolved marking scheme whose guidance is condensed.
	Scheme *model.SchemeEntry

	// Prompt overrides the default prompt when set.
	Prompt string

	// Model is the specific model to use (provider-specific).
	Model string

	// MaxTokens limits the response length.
	MaxTokens int
}

// CondenseResponse is the provider's output.
type CondenseResponse struct {
	// Note is the condensed guidance text.
	Note string

	// CitedCodes are the mark-point codes the note references, for
	// verification against the scheme.
	CitedCodes []string

	// Model is the model that generated the response.
	Model string

	// TokensUsed tracks token consumption.
	TokensUsed int
}

// Config holds LLM provider configuration.
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", "".
	Provider string

	// Model name (provider-specific).
	Model string

	// APIKey for OpenAI/Anthropic.
	APIKey string

	// BaseURL for custom endpoints (e.g. Ollama).
	BaseURL string

	// Timeout for API requests, in seconds.
	Timeout int

	// StrictCodes rejects notes that cite mark codes absent from the
	// scheme. The note goes to examiners; an invented "M3" on a
	// two-point question is worse than no note.
	StrictCodes bool

	// MaxTokens for response generation.
	MaxTokens int

	// Proxy settings.
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults. The condenser is disabled until
// a provider is named.
func DefaultConfig() Config {
	return Config{
		Provider:    "",
		Model:       "",
		Timeout:     30,
		StrictCodes: true,
		MaxTokens:   500,
	}
}

const systemPrompt = "You are a marking assistant that condenses official examiner guidance. Reference only mark codes that appear in the supplied scheme."

// BuildPrompt constructs the default condensation prompt from a scheme.
func BuildPrompt(scheme *model.SchemeEntry) string {
	var b strings.Builder
	fmt.Fprintf(&b, `Condense the examiner guidance below into 2-3 sentences an examiner can apply while marking.

RULES:
1. Reference ONLY the mark codes listed here:
%s

2. Do not invent mark codes, values or acceptable answers beyond the list.
3. Keep the register of the original guidance. Do not add encouragement or filler.

Question %s (%s %s, %s), %d marks.

Mark points:
`, joinCodes(scheme.Points), scheme.QuestionKey, scheme.Board, scheme.Code, scheme.Series, scheme.TotalMarks())

	for _, p := range scheme.Points {
		fmt.Fprintf(&b, "- %s (%d): %s\n", p.Code, p.Value, p.Guidance)
	}
	if scheme.Guidance != "" {
		fmt.Fprintf(&b, "\nGeneral guidance: %s\n", scheme.Guidance)
	}

	b.WriteString("\nProvide the condensed note only, no preamble.")
	return b.String()
}

func joinCodes(points []model.MarkPoint) string {
	if len(points) == 0 {
		return "(no mark points)"
	}
	codes := make([]string, 0, len(points))
	for _, p := range points {
		codes = append(codes, p.Code)
	}
	return strings.Join(codes, ", ")
}

// markCodePattern matches scheme-style mark codes: a letter family followed
// by a number, e.g. M1, A2, B1, SC1.
var markCodePattern = regexp.MustCompile(`\b[A-Z]{1,2}\d{1,2}\b`)

// extractCodes pulls the mark codes a note references, deduplicated in
// order of first appearance.
func extractCodes(text string) []string {
	matches := markCodePattern.FindAllString(text, -1)

	seen := make(map[string]bool)
	var unique []string
	for _, code := range matches {
		if !seen[code] {
			seen[code] = true
			unique = append(unique, code)
		}
	}
	return unique
}

// verifyCodes returns the first cited code that does not appear in the
// scheme, or "" when every citation is legitimate.
func verifyCodes(cited []string, scheme *model.SchemeEntry) string {
	allowed := make(map[string]bool, len(scheme.Points)+len(scheme.AltPoints))
	for _, p := range scheme.Points {
		allowed[p.Code] = true
	}
	for _, p := range scheme.AltPoints {
		allowed[p.Code] = true
	}
	for _, code := range cited {
		if !allowed[code] {
			return code
		}
	}
	return ""
}
