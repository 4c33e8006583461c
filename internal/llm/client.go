package llm

import (
	"fmt"
	"os"

	openai "github.com/sashabaranov/go-openai"
)

// NewClientFromEnv builds an OpenAI-compatible chat client from environment
// variables. LLM_API_KEY is required; LLM_BASE_URL retargets the client at
// any compatible endpoint; LLM_MODEL selects the model name.
func NewClientFromEnv() (*openai.Client, string, error) {
	key := os.Getenv("LLM_API_KEY")
	if key == "" {
		return nil, "", fmt.Errorf("llm: LLM_API_KEY is not set")
	}

	cfg := openai.DefaultConfig(key)
	if base := os.Getenv("LLM_BASE_URL"); base != "" {
		cfg.BaseURL = base
	}

	model := os.Getenv("LLM_MODEL")
	if model == "" {
		model = openai.GPT4oMini
	}
	return openai.NewClientWithConfig(cfg), model, nil
}
