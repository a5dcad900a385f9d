package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gitlab.com/yelinaung/spendwise/internal/logger"
	"gitlab.com/yelinaung/spendwise/internal/models"
)

// ParseReceiptTimeout is the timeout for Gemini API calls.
const ParseReceiptTimeout = 30 * time.Second

// MaxReceiptItems caps how many line items a single receipt may yield.
const MaxReceiptItems = 50

// ErrParseTimeout indicates the Gemini API call timed out.
var ErrParseTimeout = errors.New("receipt parsing timed out")

// ErrNoData indicates no usable data could be extracted from the receipt.
var ErrNoData = errors.New("no usable data extracted from receipt")

// receiptResponse is the JSON structure returned by Gemini.
type receiptResponse struct {
	Merchant string        `json:"merchant"`
	Date     string        `json:"date"`
	Items    []receiptItem `json:"items"`
}

type receiptItem struct {
	Amount      string `json:"amount"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// ParseReceipt extracts one expense candidate per line item from a receipt
// image. It applies a 30-second timeout to the API call.
func (c *Client) ParseReceipt(ctx context.Context, imageBytes []byte, mimeType string) (candidates []models.ExpenseCandidate, err error) {
	defer func() { observe(kindReceipt, err) }()

	if len(imageBytes) == 0 {
		return nil, fmt.Errorf("image data is required")
	}

	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, ParseReceiptTimeout)
	defer cancel()

	text, err := c.generateFromMedia(timeoutCtx, mimeType, imageBytes, buildReceiptPrompt(models.Categories))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrParseTimeout
		}
		if errors.Is(err, ErrNoResponse) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	candidates, err = parseReceiptResponse(text, models.Categories)
	if err != nil {
		return nil, err
	}

	if len(candidates) == 0 {
		return nil, ErrNoData
	}

	return candidates, nil
}

func buildReceiptPrompt(categories []string) string {
	sanitized := make([]string, len(categories))
	for i, cat := range categories {
		sanitized[i] = SanitizeCategoryName(cat)
	}
	categoryList := strings.Join(sanitized, ", ")
	return fmt.Sprintf(`Analyze this receipt image and extract every purchased line item.
Return ONLY a JSON object with no additional text or markdown formatting.

Required fields:
- merchant: The merchant/store name
- date: The date of purchase in YYYY-MM-DD format
- items: An array of line items, each with:
  - amount: The amount paid for the item (numeric string, e.g., "54.60")
  - description: A short name for the item
  - category: One of these categories that best matches: %s

If the receipt has no itemization, return a single item for the total.
If a field cannot be determined, use an empty string for text fields or "0" for amount.

Example response:
{"merchant": "Corner Cafe", "date": "2024-01-15", "items": [{"amount": "4.50", "description": "Latte", "category": "Food"}]}`, categoryList)
}

// parseReceiptResponse converts the model output to candidates. Items
// without an amount and description, or with a negative amount, are dropped.
// An unreadable amount is left nil for the ledger to default.
func parseReceiptResponse(response string, categories []string) ([]models.ExpenseCandidate, error) {
	var rr receiptResponse
	if err := json.Unmarshal([]byte(stripCodeFence(response)), &rr); err != nil {
		return nil, fmt.Errorf("failed to parse receipt response: %w", err)
	}

	var date time.Time
	if rr.Date != "" {
		if d, err := time.Parse(time.DateOnly, rr.Date); err == nil {
			date = d
		}
	}

	merchant := SanitizeForPrompt(rr.Merchant, MaxDescriptionLength)
	candidates := make([]models.ExpenseCandidate, 0, len(rr.Items))
	for _, item := range rr.Items {
		if len(candidates) == MaxReceiptItems {
			break
		}

		c := models.ExpenseCandidate{
			Description: SanitizeForPrompt(item.Description, MaxDescriptionLength),
			Category:    matchCategory(item.Category, categories),
			Date:        date,
		}

		c.Amount = parseCandidateAmount(item.Amount)
		if c.Amount != nil && c.Amount.IsNegative() {
			continue
		}

		if c.Amount == nil && c.Description == "" {
			continue
		}
		if c.Description == "" {
			c.Description = merchant
		}
		candidates = append(candidates, c)
	}

	return candidates, nil
}

// parseCandidateAmount returns nil for an empty, zero or unparseable amount.
func parseCandidateAmount(raw string) *decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "0" {
		return nil
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		logger.Log.Debug().Err(err).Int("length", len(raw)).Msg("Unparseable amount from recognizer")
		return nil
	}
	return &amount
}

// matchCategory returns the category from the list that equals name
// ignoring case, or "" when there is none.
func matchCategory(name string, categories []string) string {
	name = strings.TrimSpace(name)
	for _, cat := range categories {
		if strings.EqualFold(cat, name) {
			return cat
		}
	}
	return ""
}
