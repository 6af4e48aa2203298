package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/spf13/cobra"
	"google.golang.org/genai"

	"github.com/maestoso/scorekit/pkg/notegen"
)

var (
	backendName string
	modelName   string
)

const (
	defaultGeminiModel = "gemini-2.5-flash"
	defaultOpenAIModel = "gpt-4o"
)

func addGeneratorFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&backendName, "backend", "gemini", "model backend (gemini or openai)")
	cmd.Flags().StringVar(&modelName, "model", "", "model id (default depends on backend)")
}

// newGenerator builds the model backend from flags and environment.
// Credentials come from GEMINI_API_KEY or OPENAI_API_KEY; OpenAI also
// honors OPENAI_BASE_URL for compatible endpoints.
func newGenerator(ctx context.Context) (notegen.Generator, error) {
	switch backendName {
	case "gemini":
		apiKey := os.Getenv("GEMINI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY not set")
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
		if err != nil {
			return nil, fmt.Errorf("genai client: %w", err)
		}
		model := modelName
		if model == "" {
			model = defaultGeminiModel
		}
		return &notegen.GeminiGenerator{Client: client, Model: model}, nil

	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY not set")
		}
		opts := []option.RequestOption{option.WithAPIKey(apiKey)}
		useSystemRole := false
		if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
			opts = append(opts, option.WithBaseURL(baseURL))
			// Compatible endpoints rarely accept the developer role.
			useSystemRole = true
		}
		client := openai.NewClient(opts...)
		model := modelName
		if model == "" {
			model = defaultOpenAIModel
		}
		return &notegen.OpenAIGenerator{Client: &client, Model: model, UseSystemRole: useSystemRole}, nil

	default:
		return nil, fmt.Errorf("unknown backend %q (want gemini or openai)", backendName)
	}
}
