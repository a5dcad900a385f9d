package gemini

import (
	"context"
	"sync"

	"google.golang.org/genai"
)

// mockGenerator returns a canned response and records the last request.
type mockGenerator struct {
	response *genai.GenerateContentResponse
	err      error

	mu       sync.Mutex
	calls    int
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (m *mockGenerator) GenerateContent(
	_ context.Context,
	_ string,
	contents []*genai.Content,
	config *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.contents = contents
	m.config = config
	return m.response, m.err
}

// textResponse wraps text in a single-candidate response.
func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{
				Content: &genai.Content{
					Parts: []*genai.Part{{Text: text}},
				},
			},
		},
	}
}
