// Package ai provides the embedding capability consumed by the ingestion
// pipeline. The recommendation engine itself never computes embeddings; it
// only reads vectors the pipeline has stored.
package ai

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/hrygo/tastefeed/internal/profile"
)

const (
	defaultBaseURL        = "https://api.openai.com/v1"
	defaultEmbeddingModel = "text-embedding-3-small"
	defaultMaxRetries     = 3
	defaultTimeout        = 30 * time.Second
)

// Config holds the embedding provider configuration.
type Config struct {
	BaseURL        string
	APIKey         string
	EmbeddingModel string
	MaxRetries     int
	Timeout        time.Duration
}

// NewConfigFromProfile builds a provider config from the server profile.
func NewConfigFromProfile(p *profile.Profile) *Config {
	cfg := &Config{
		BaseURL:        p.AIBaseURL,
		APIKey:         p.AIAPIKey,
		EmbeddingModel: p.AIEmbeddingModel,
		MaxRetries:     defaultMaxRetries,
		Timeout:        defaultTimeout,
	}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.EmbeddingModel == "" {
		c.EmbeddingModel = defaultEmbeddingModel
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = defaultMaxRetries
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate checks the configuration without touching the network.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("API key is required, set TASTEFEED_AI_API_KEY environment variable")
	}
	return nil
}

// Provider generates embeddings through an OpenAI-compatible API.
type Provider struct {
	client *openai.Client
	config *Config
}

// NewProvider creates a new embedding provider.
func NewProvider(cfg *Config) (*Provider, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = cfg.BaseURL

	return &Provider{
		client: openai.NewClientWithConfig(clientConfig),
		config: cfg,
	}, nil
}

// Embedding generates an embedding vector for the given text.
func (p *Provider) Embedding(ctx context.Context, text string) ([]float32, error) {
	var vector []float32
	err := p.doWithRetry(ctx, func() error {
		resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
			Input: []string{text},
			Model: openai.EmbeddingModel(p.config.EmbeddingModel),
		})
		if err != nil {
			return err
		}
		if len(resp.Data) == 0 {
			return fmt.Errorf("empty embedding response")
		}
		vector = resp.Data[0].Embedding
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate embedding: %w", err)
	}
	return vector, nil
}

// Ping verifies connectivity by embedding a probe string.
func (p *Provider) Ping(ctx context.Context) error {
	if _, err := p.Embedding(ctx, "ping"); err != nil {
		return fmt.Errorf("embedding provider unreachable: %w", err)
	}
	slog.Info("embedding provider reachable",
		"embedding_model", p.config.EmbeddingModel)
	return nil
}

// doWithRetry runs fn with exponential backoff, honoring ctx cancellation
// between attempts.
func (p *Provider) doWithRetry(ctx context.Context, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt < p.config.MaxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt == p.config.MaxRetries-1 {
			break
		}
		backoff := time.Duration(math.Pow(2, float64(attempt))) * time.Second
		slog.Debug("embedding request failed, retrying",
			"attempt", attempt+1,
			"backoff", backoff,
			"error", lastErr)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return lastErr
}
