package agent

import (
	"context"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/interop-desk/mcpgate/pkg/apperrors"
)

// CompletionClient is the seam between the agent loop and the model
// provider. Implementations must be safe for sequential reuse.
type CompletionClient interface {
	Complete(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion, tools []openai.ChatCompletionToolParam) (*openai.ChatCompletion, error)
	ModelName() string
}

// OpenAIConfig configures the OpenAI-compatible chat backend. Any endpoint
// speaking the chat completions API works via BaseURL.
type OpenAIConfig struct {
	APIKey      string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	BaseURL     string        `envconfig:"BASE_URL" split_words:"true"`
	Model       string        `envconfig:"MODEL" split_words:"true" required:"true"`
	Temperature float64       `envconfig:"TEMPERATURE" split_words:"true" default:"0"`
	MaxTokens   int64         `envconfig:"MAX_TOKENS" split_words:"true" default:"512"`
	Timeout     time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"60s"`
}

// LoadOpenAIConfig reads the OPENAI_* environment block.
func LoadOpenAIConfig() (OpenAIConfig, error) {
	var cfg OpenAIConfig
	if err := envconfig.Process("openai", &cfg); err != nil {
		return OpenAIConfig{}, apperrors.New(apperrors.ErrCodeInternal, "invalid openai configuration", err)
	}
	return cfg, nil
}

// OpenAIClient implements CompletionClient over the OpenAI SDK.
type OpenAIClient struct {
	client openai.Client
	cfg    OpenAIConfig
}

// NewOpenAIClient builds a client from cfg.
func NewOpenAIClient(cfg OpenAIConfig) *OpenAIClient {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}
	return &OpenAIClient{
		client: openai.NewClient(opts...),
		cfg:    cfg,
	}
}

func (c *OpenAIClient) Complete(ctx context.Context, messages []openai.ChatCompletionMessageParamUnion, tools []openai.ChatCompletionToolParam) (*openai.ChatCompletion, error) {
	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.cfg.Model),
		Messages:    messages,
		Temperature: openai.Float(c.cfg.Temperature),
		MaxTokens:   openai.Int(c.cfg.MaxTokens),
	}
	if len(tools) > 0 {
		params.Tools = tools
	}
	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, apperrors.New(apperrors.ErrCodeLLMFailed, "chat completion failed", err)
	}
	return completion, nil
}

func (c *OpenAIClient) ModelName() string {
	return c.cfg.Model
}
