package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dhowell/papermatch/internal/model"
	"github.com/sashabaranov/go-openai"
)

func condenseScheme() *model.SchemeEntry {
	return &model.SchemeEntry{
		Board:       "AQA",
		Code:        "8300/1H",
		Series:      "June 2023",
		QuestionKey: "4",
		Points: []model.MarkPoint{
			{Code: "M1", Value: 1, Guidance: "valid rearrangement of the equation"},
			{Code: "A1", Value: 1, Guidance: "x = 4 with correct working"},
		},
		Guidance: "Accept equivalent fractions throughout.",
	}
}

func TestOpenAIProvider_Condense_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected Authorization header Bearer test-key, got %s", r.Header.Get("Authorization"))
		}

		resp := openai.ChatCompletionResponse{
			ID:      "chatcmpl-123",
			Object:  "chat.completion",
			Created: 1677652288,
			Model:   "gpt-4o-mini",
			Choices: []openai.ChatCompletionChoice{
				{
					Index: 0,
					Message: openai.ChatCompletionMessage{
						Role:    "assistant",
						Content: "Award M1 for any valid rearrangement, A1 only with working shown.",
					},
					FinishReason: "stop",
				},
			},
			Usage: openai.Usage{
				TotalTokens: 100,
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	config := Config{
		APIKey:      "test-key",
		BaseURL:     server.URL,
		Model:       "gpt-4o-mini",
		Timeout:     5,
		StrictCodes: true,
	}
	provider, err := NewOpenAIProvider(config)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Condense(context.Background(), CondenseRequest{Scheme: condenseScheme()})
	if err != nil {
		t.Fatalf("Condense failed: %v", err)
	}

	if resp.Note != "Award M1 for any valid rearrangement, A1 only with working shown." {
		t.Errorf("Unexpected note: %s", resp.Note)
	}
	if len(resp.CitedCodes) != 2 || resp.CitedCodes[0] != "M1" || resp.CitedCodes[1] != "A1" {
		t.Errorf("Unexpected cited codes: %v", resp.CitedCodes)
	}
	if resp.TokensUsed != 100 {
		t.Errorf("Unexpected token usage: %d", resp.TokensUsed)
	}
}

func TestOpenAIProvider_Condense_RejectsInventedCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := openai.ChatCompletionResponse{
			Model: "gpt-4o-mini",
			Choices: []openai.ChatCompletionChoice{
				{
					Message: openai.ChatCompletionMessage{
						Role:    "assistant",
						Content: "Award M1, then M3 for the final answer.",
					},
				},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	config := Config{
		APIKey:      "test-key",
		BaseURL:     server.URL,
		Timeout:     5,
		StrictCodes: true,
	}
	provider, err := NewOpenAIProvider(config)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Condense(context.Background(), CondenseRequest{Scheme: condenseScheme()})
	if err == nil {
		t.Fatal("Expected rejection of the invented M3 code, got nil")
	}
}

func TestOpenAIProvider_Condense_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "Internal Server Error", "type": "server_error"}}`))
	}))
	defer server.Close()

	config := Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Timeout: 5,
	}
	provider, err := NewOpenAIProvider(config)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Condense(context.Background(), CondenseRequest{Scheme: condenseScheme()})
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
}

func TestOpenAIProvider_RequiresAPIKey(t *testing.T) {
	_, err := NewOpenAIProvider(Config{})
	if err == nil {
		t.Fatal("Expected error for missing API key, got nil")
	}
}
