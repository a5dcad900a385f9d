package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gitlab.com/yelinaung/spendwise/internal/logger"
	"gitlab.com/yelinaung/spendwise/internal/models"
	"google.golang.org/genai"
)

// SuggestCategoryTimeout bounds a single category suggestion call.
const SuggestCategoryTimeout = 10 * time.Second

// CategorySuggestion is the model's pick for a free-text expense.
type CategorySuggestion struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

var errNotInitialized = errors.New("gemini client not initialized")

// SuggestCategory asks the model which of the available categories fits a
// free-text description. A nil category list falls back to
// models.Categories. The returned category always uses the list's casing.
func (c *Client) SuggestCategory(ctx context.Context, description string, availableCategories []string) (suggestion *CategorySuggestion, err error) {
	defer func() { observe(kindCategory, err) }()

	if availableCategories == nil {
		availableCategories = models.Categories
	}

	switch {
	case c.generator == nil:
		return nil, errNotInitialized
	case description == "":
		return nil, errors.New("description is required")
	case len(availableCategories) == 0:
		return nil, errors.New("no categories available")
	}

	log := logger.Log.With().Str("description_hash", hashDescription(description)).Logger()

	timeoutCtx, cancel := context.WithTimeout(ctx, SuggestCategoryTimeout)
	defer cancel()

	prompt := buildCategorySuggestionPrompt(sanitizeDescription(description), availableCategories)
	resp, err := c.generator.GenerateContent(timeoutCtx, ModelName, []*genai.Content{
		{Role: "user", Parts: []*genai.Part{{Text: prompt}}},
	}, categoryConfig(availableCategories))
	if err != nil {
		return nil, fmt.Errorf("gemini API call failed: %w", err)
	}
	if resp == nil {
		return nil, ErrNoResponse
	}

	text := resp.Text()
	if text == "" {
		return nil, errors.New("no text content in response")
	}

	jsonText := extractJSON(text)
	if jsonText == "" {
		return nil, errors.New("no JSON found in response")
	}

	suggestion = &CategorySuggestion{}
	if err := json.Unmarshal([]byte(jsonText), suggestion); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	matched := matchCategory(suggestion.Category, availableCategories)
	if matched == "" {
		log.Warn().Str("suggested_category", suggestion.Category).Msg("Suggested category not in available list")
		return nil, fmt.Errorf("suggested category '%s' not in available categories", suggestion.Category)
	}
	suggestion.Category = matched

	if suggestion.Confidence < 0 || suggestion.Confidence > 1 {
		return nil, fmt.Errorf("confidence out of range: %f", suggestion.Confidence)
	}

	suggestion.Reasoning = sanitizeReasoning(suggestion.Reasoning)

	log.Debug().
		Str("category", suggestion.Category).
		Float64("confidence", suggestion.Confidence).
		Msg("Category suggested")

	return suggestion, nil
}

// categoryConfig restricts the response to a JSON object whose category is
// one of categories.
func categoryConfig(categories []string) *genai.GenerateContentConfig {
	temp := float32(0.3)
	return &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: 500,
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{
				{Text: "You are a JSON API. Respond with a single JSON object and nothing else."},
			},
		},
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"category":   {Type: genai.TypeString, Enum: categories},
				"confidence": {Type: genai.TypeNumber, Description: "Confidence score between 0 and 1"},
				"reasoning":  {Type: genai.TypeString, Description: "One short sentence"},
			},
			Required: []string{"category", "confidence", "reasoning"},
		},
	}
}

func buildCategorySuggestionPrompt(description string, categories []string) string {
	return fmt.Sprintf(`Categorize this personal expense: "%s"

Available categories:
- %s

Rules:
- "Food" for meals, snacks, coffee and groceries
- "Transport" for taxi, metro, bus, train and fuel
- "Subscription" only for recurring memberships and streaming services
- "Other" when nothing else fits
- Confidence 0.8-1.0 for obvious matches, 0.5-0.7 for ambiguous ones

Return JSON only:
{"category": "exact category name", "confidence": 0.0-1.0, "reasoning": "brief explanation"}`,
		description, strings.Join(categories, "\n- "))
}

// extractJSON returns the outermost {...} in text, or "" when there is none.
// The model sometimes prefixes the object with prose even in JSON mode.
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return ""
	}
	return text[start : end+1]
}
