package llm

import (
	"context"
	"fmt"
)

type MockLLM struct{}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

// Compose echoes its inputs so the full turn can run without credentials.
func (m *MockLLM) Compose(_ context.Context, userText, weatherText string) (string, error) {
	if weatherText != "" {
		return fmt.Sprintf("You asked %q. Here is what I found: %s", userText, weatherText), nil
	}
	return fmt.Sprintf("You asked %q. Tell me a city and I can look up its weather.", userText), nil
}
