package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestUserMessage(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{fmt.Errorf("groq: %w", ErrRateLimited), "rate limit"},
		{fmt.Errorf("groq: %w", ErrUnauthorized), "credentials"},
		{ErrNotConfigured, "not configured"},
		{context.DeadlineExceeded, "too long"},
		{errors.New("boom"), "unavailable"},
	}
	for _, c := range cases {
		got := UserMessage("summary", c.err)
		if !strings.Contains(got, c.want) {
			t.Fatalf("UserMessage(%v) = %q, want it to mention %q", c.err, got, c.want)
		}
	}
	if UserMessage("summary", nil) != "" {
		t.Fatalf("expected empty message for nil error")
	}
}
