package locator

import (
	"regexp"
	"strings"
)

var (
	// "digit 3", "pin 1234", "number12", "key 0"
	keypadPattern = regexp.MustCompile(`(?:number|digit|key|pin)\s*(\d+)`)
	// a lone digit closing the description: "press 7"
	trailingDigitPattern = regexp.MustCompile(`\b(\d)\s*$`)
)

// Query is a parsed element description.
type Query struct {
	Description string `json:"description"`
	// TargetDigit is set when the description names a numeric key.
	TargetDigit string `json:"target_digit,omitempty"`
}

// ParseQuery derives a Query from free text. Keypad phrasing ("digit 3")
// takes priority over a bare trailing digit ("press 3").
func ParseQuery(description string) Query {
	return Query{
		Description: description,
		TargetDigit: extractTargetDigit(description),
	}
}

func extractTargetDigit(description string) string {
	lower := strings.ToLower(description)

	if m := keypadPattern.FindStringSubmatch(lower); m != nil {
		return m[1]
	}
	if m := trailingDigitPattern.FindStringSubmatch(lower); m != nil {
		return m[1]
	}
	return ""
}
