package gemini

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"gitlab.com/yelinaung/spendwise/internal/models"
)

// MaxDescriptionLength is the maximum allowed length for expense descriptions.
const MaxDescriptionLength = 200

// MaxCategoryNameLength is the maximum allowed length for category names.
const MaxCategoryNameLength = models.MaxCategoryNameLength

const maxReasoningLength = 500

// SanitizeForPrompt makes user text safe to embed in a quoted prompt:
// quotes become apostrophes, control bytes and line breaks collapse to
// single spaces, and the result is cut to maxLength bytes.
func SanitizeForPrompt(input string, maxLength int) string {
	input = strings.NewReplacer(`"`, `'`, "`", "'", "\x00", "").Replace(input)
	return truncate(strings.Join(strings.Fields(input), " "), maxLength)
}

// SanitizeCategoryName sanitizes a category name for a prompt.
func SanitizeCategoryName(name string) string {
	return SanitizeForPrompt(name, MaxCategoryNameLength)
}

func sanitizeDescription(description string) string {
	return SanitizeForPrompt(description, MaxDescriptionLength)
}

// sanitizeReasoning normalizes model-provided reasoning before it is logged
// or shown.
func sanitizeReasoning(reasoning string) string {
	return truncate(strings.Join(strings.Fields(reasoning), " "), maxReasoningLength)
}

func truncate(s string, n int) string {
	if len(s) > n {
		return strings.TrimSpace(s[:n])
	}
	return s
}

// hashDescription returns a short SHA-256 prefix for logging descriptions.
func hashDescription(description string) string {
	hash := sha256.Sum256([]byte(description))
	return hex.EncodeToString(hash[:8])
}
