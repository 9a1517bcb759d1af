// Package generation drives the external content-generation service: it
// composes the bounded request envelope, calls out, validates the structured
// response against hard business constraints, and retries with corrective
// feedback on failure.
package generation

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// Generator is the capability boundary to the external generation service.
// The orchestrator owns all prompt construction and response parsing; the
// service behind this interface is opaque. Tests substitute a deterministic
// stub.
type Generator interface {
	Generate(ctx context.Context, systemInstructions, userPrompt string, maxOutputTokens int) (string, error)
}

// defaultAttemptTimeout bounds one Gemini call when no timeout is
// configured.
const defaultAttemptTimeout = 30 * time.Second

// GeminiConfig configures the Gemini-backed Generator. Timeout bounds each
// individual call; zero selects the default.
type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// geminiGenerator implements Generator against the Gemini API.
type geminiGenerator struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiGenerator creates a Gemini-backed Generator.
func NewGeminiGenerator(ctx context.Context, cfg GeminiConfig) (Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-2.5-flash"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultAttemptTimeout
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &geminiGenerator{client: client, model: model, timeout: timeout}, nil
}

// Generate performs one blocking call to the Gemini API, bounded by the
// per-attempt timeout on top of the caller's context. A timed-out attempt
// surfaces as an error and is counted as a failed attempt by the retry loop.
func (g *geminiGenerator) Generate(ctx context.Context, systemInstructions, userPrompt string, maxOutputTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.Models.GenerateContent(ctx,
		g.model,
		genai.Text(userPrompt),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemInstructions, genai.RoleUser),
			MaxOutputTokens:   int32(maxOutputTokens),
		},
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return resp.Text(), nil
}
