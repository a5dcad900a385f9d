// Package gemini turns receipt photos, voice notes and free-text
// descriptions into expense candidates using the Google Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gitlab.com/yelinaung/spendwise/internal/metrics"
	"google.golang.org/genai"
)

// ModelName is the Gemini model to use for receipt OCR and categorization.
const ModelName = "gemini-2.5-flash"

// Recognizer kinds used as metric labels.
const (
	kindReceipt  = "receipt"
	kindVoice    = "voice"
	kindCategory = "category"
)

// ErrNoResponse indicates Gemini returned no candidates or no text.
var ErrNoResponse = errors.New("no response from Gemini")

// ContentGenerator defines the interface for generating content via Gemini.
// This abstraction enables testing without making actual API calls.
type ContentGenerator interface {
	GenerateContent(
		ctx context.Context,
		model string,
		contents []*genai.Content,
		config *genai.GenerateContentConfig,
	) (*genai.GenerateContentResponse, error)
}

// modelsAdapter wraps *genai.Models to implement ContentGenerator.
type modelsAdapter struct {
	models *genai.Models
}

func (m *modelsAdapter) GenerateContent(
	ctx context.Context,
	model string,
	contents []*genai.Content,
	config *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	resp, err := m.models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("genai.GenerateContent: %w", err)
	}
	return resp, nil
}

// Client runs the receipt, voice and category recognizers against Gemini.
type Client struct {
	generator ContentGenerator
}

// NewClient creates a new Gemini client with the provided API key.
func NewClient(ctx context.Context, apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Client{generator: &modelsAdapter{models: client.Models}}, nil
}

// NewClientWithGenerator creates a Client with a custom ContentGenerator.
// This is primarily used for testing with mock generators.
func NewClientWithGenerator(generator ContentGenerator) *Client {
	return &Client{
		generator: generator,
	}
}

// generateFromMedia sends an inline blob plus a prompt and returns the
// concatenated text of the first candidate.
func (c *Client) generateFromMedia(ctx context.Context, mimeType string, data []byte, prompt string) (string, error) {
	resp, err := c.generator.GenerateContent(ctx, ModelName, []*genai.Content{
		{
			Parts: []*genai.Part{
				{InlineData: &genai.Blob{MIMEType: mimeType, Data: data}},
				{Text: prompt},
			},
		},
	}, nil)
	if err != nil {
		return "", err
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrNoResponse
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("empty response from Gemini: %w", ErrNoResponse)
	}
	return sb.String(), nil
}

// stripCodeFence removes a surrounding markdown code block.
func stripCodeFence(response string) string {
	response = strings.TrimSpace(response)
	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")
	return strings.TrimSpace(response)
}

// observe records the outcome of a recognizer call.
func observe(kind string, err error) {
	outcome := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrParseTimeout), errors.Is(err, ErrVoiceParseTimeout):
		outcome = "timeout"
	case errors.Is(err, ErrNoData), errors.Is(err, ErrNoVoiceData):
		outcome = "empty"
	default:
		outcome = "error"
	}
	metrics.RecognizerRequests.WithLabelValues(kind, outcome).Inc()
}
