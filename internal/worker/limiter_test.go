package worker

import (
	"context"
	"testing"
)

func TestLimiter_New(t *testing.T) {
	limiter := NewLimiter(10, 5)
	if limiter.burst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.burst)
	}

	l2 := NewLimiter(10, -1)
	if l2.burst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.burst)
	}
}

func TestLimiter_Wait(t *testing.T) {
	limiter := NewLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "http://papers.example.org/AQA/8300-1H.json"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	// A different host has its own bucket
	if err := limiter.Wait(ctx, "http://mirror.example.net/index.json"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestLimiter_RateLimit(t *testing.T) {
	// 1 rps, burst 1
	limiter := NewLimiter(1, 1)
	ctx := context.Background()
	url := "http://papers.example.org"

	if err := limiter.Wait(ctx, url); err != nil {
		t.Errorf("first wait failed: %v", err)
	}

	// Burst of 1 is spent, Allow must refuse without blocking
	if limiter.Allow(url) {
		t.Errorf("expected allow to fail (exhausted tokens)")
	}

	// Another host still has a fresh bucket
	if !limiter.Allow("http://mirror.example.net") {
		t.Errorf("expected allow for other host")
	}
}

func TestLimiter_InvalidURL(t *testing.T) {
	limiter := NewLimiter(10, 5)

	if err := limiter.Wait(context.Background(), "::invalid"); err == nil {
		t.Errorf("expected error for invalid URL")
	}
	if limiter.Allow("::invalid") {
		t.Errorf("expected allow to fail for invalid URL")
	}
}

func TestHostOf(t *testing.T) {
	host, err := hostOf("http://papers.example.org/AQA/8300-1H.json")
	if err != nil {
		t.Fatalf("hostOf failed: %v", err)
	}
	if host != "papers.example.org" {
		t.Errorf("expected papers.example.org, got %s", host)
	}

	_, err = hostOf("::invalid")
	if err == nil {
		t.Errorf("expected error for invalid URL")
	}
}
