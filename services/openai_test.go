package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/openai/openai-go"
)

// mockOpenAIClient implements openaiClient for testing
type mockOpenAIClient struct {
	completionFunc func(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error)
}

func (m *mockOpenAIClient) CreateChatCompletion(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
	return m.completionFunc(ctx, params)
}

func TestNewOpenAIService_MissingAPIKey(t *testing.T) {
	_, err := NewOpenAIService("", "gpt-4o", 4096)
	if err == nil {
		t.Fatal("expected error when API key is missing")
	}
	if !strings.Contains(err.Error(), "OPENAI_API_KEY is required") {
		t.Errorf("unexpected error message: %v", err)
	}
}

func TestNewOpenAIService_WithAPIKey(t *testing.T) {
	service, err := NewOpenAIService("test-api-key", "gpt-4o-mini", 2048)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if service.model != "gpt-4o-mini" {
		t.Errorf("model = %s, want gpt-4o-mini", service.model)
	}
	if service.maxTokens != 2048 {
		t.Errorf("maxTokens = %d, want 2048", service.maxTokens)
	}
}

func TestOpenAIInvokeWithPrompt_Success(t *testing.T) {
	SetGlobalRegistry(NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig))

	mockClient := &mockOpenAIClient{
		completionFunc: func(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
			return &openai.ChatCompletion{
				Choices: []openai.ChatCompletionChoice{
					{
						Message: openai.ChatCompletionMessage{
							Content: "Markets were active this quarter.",
						},
					},
				},
			}, nil
		},
	}

	service := newOpenAIServiceWithClient(mockClient, "gpt-4o", 4096)

	result, err := service.InvokeWithPrompt(context.Background(), "You are an analyst", "Summarize the IPO market")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "Markets were active this quarter." {
		t.Errorf("unexpected result: %q", result)
	}
}

func TestOpenAIInvokeWithPrompt_EmptyChoices(t *testing.T) {
	SetGlobalRegistry(NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig))

	mockClient := &mockOpenAIClient{
		completionFunc: func(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
			return &openai.ChatCompletion{}, nil
		},
	}

	service := newOpenAIServiceWithClient(mockClient, "gpt-4o", 4096)

	_, err := service.InvokeWithPrompt(context.Background(), "system", "user")
	if err == nil {
		t.Fatal("expected error for empty choices")
	}
	if !strings.Contains(err.Error(), "empty response") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestOpenAIInvokeWithPrompt_ClientError(t *testing.T) {
	SetGlobalRegistry(NewCircuitBreakerRegistry(DefaultCircuitBreakerConfig))

	mockClient := &mockOpenAIClient{
		completionFunc: func(ctx context.Context, params openai.ChatCompletionNewParams) (*openai.ChatCompletion, error) {
			return nil, errors.New("rate limit exceeded")
		},
	}

	service := newOpenAIServiceWithClient(mockClient, "gpt-4o", 4096)

	_, err := service.InvokeWithPrompt(context.Background(), "system", "user")
	if err == nil {
		t.Fatal("expected error from client failure")
	}
}

func TestCategorizeAPIError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"Nil error", nil, "none"},
		{"Timeout", errors.New("request timeout"), "timeout"},
		{"Deadline", errors.New("context deadline exceeded"), "timeout"},
		{"Rate limit", errors.New("rate limit exceeded"), "rate_limit"},
		{"HTTP 429", errors.New("status 429"), "rate_limit"},
		{"Unauthorized", errors.New("unauthorized access"), "auth_error"},
		{"Connection", errors.New("connection refused"), "connection_error"},
		{"Unknown", errors.New("something odd"), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := categorizeAPIError(tt.err); got != tt.want {
				t.Errorf("categorizeAPIError() = %v, want %v", got, tt.want)
			}
		})
	}
}
