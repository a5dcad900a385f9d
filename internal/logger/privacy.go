package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MinHashSaltLength is the shortest salt accepted by SetHashSalt.
const MinHashSaltLength = 32

// ErrHashSaltTooShort is returned when a configured salt is too short.
var ErrHashSaltTooShort = fmt.Errorf("LOG_HASH_SALT must be at least %d characters", MinHashSaltLength)

var hashSalt = "default-salt-change-in-production"

// SetHashSalt replaces the salt used for id hashing.
func SetHashSalt(salt string) error {
	switch {
	case salt == "":
		return errors.New("LOG_HASH_SALT is empty")
	case len(salt) < MinHashSaltLength:
		return ErrHashSaltTooShort
	}
	hashSalt = salt
	return nil
}

// HashUserID returns a short salted hash of a Telegram user id, so actions
// can be correlated without logging the id.
func HashUserID(userID int64) string {
	return hashID(userID)
}

// HashChatID returns a short salted hash of a Telegram chat id.
func HashChatID(chatID int64) string {
	return hashID(chatID)
}

func hashID(id int64) string {
	sum := sha256.Sum256([]byte(strconv.FormatInt(id, 10) + ":" + hashSalt))
	return hex.EncodeToString(sum[:4])
}

// RedactMobile keeps only the last two digits of a phone number.
func RedactMobile(mobile string) string {
	if len(mobile) <= 2 {
		return "<redacted>"
	}
	return strings.Repeat("*", len(mobile)-2) + mobile[len(mobile)-2:]
}

// SanitizeDescription replaces an expense description with its shape.
func SanitizeDescription(desc string) string {
	if desc == "" {
		return "<empty>"
	}
	return fmt.Sprintf("<redacted: %d words, %d chars>", len(strings.Fields(desc)), len(desc))
}

// SanitizeText redacts arbitrary user text, keeping a three-byte prefix of
// longer inputs for debugging.
func SanitizeText(text string) string {
	switch {
	case text == "":
		return "<empty>"
	case len(text) <= 10:
		return fmt.Sprintf("<%d chars>", len(text))
	}
	return fmt.Sprintf("%s...<%d chars>", text[:3], len(text))
}
