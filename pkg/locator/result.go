package locator

import (
	"fmt"
)

// ElementType classifies a resolved element.
type ElementType string

// ElementType values
const (
	ElementButton  ElementType = "button"
	ElementGeneric ElementType = "element"
)

// Result is the outcome of a resolution. It serializes as the flat record
// found, x, y, element_type, confidence, description.
type Result struct {
	Found       bool        `json:"found"`
	X           uint32      `json:"x"`
	Y           uint32      `json:"y"`
	ElementType ElementType `json:"element_type"`
	Confidence  float32     `json:"confidence"`
	Description string      `json:"description"`
}

// NotFound is the zero-point, zero-confidence result.
func NotFound(description string) Result {
	return Result{
		ElementType: ElementGeneric,
		Description: description,
	}
}

// Point returns the resolved device coordinate.
func (r Result) Point() (uint32, uint32) {
	return r.X, r.Y
}

// Percent returns the confidence as a whole percentage.
func (r Result) Percent() int {
	return int(r.Confidence*100 + 0.5)
}

func matchLabel(label string, confidence float32) string {
	return fmt.Sprintf("Found '%s' via UI dump (similarity: %.0f%%)", label, confidence*100)
}
