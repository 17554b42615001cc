package core

// ErrorCategory classifies the type of error for better debugging and reporting
type ErrorCategory int

const (
	ErrCategoryNone       ErrorCategory = iota // No error
	ErrCategoryMatch                           // No candidate reached the acceptance threshold
	ErrCategoryDump                            // Hierarchy dump unusable
	ErrCategoryQuery                           // Query empty after filtering
	ErrCategoryGeometry                        // Zero-sized window or device screen
	ErrCategoryConnection                      // Device, host tool or remote service unavailable
	ErrCategoryConfig                          // Invalid configuration, missing required field
)

// String returns the string representation of ErrorCategory
func (c ErrorCategory) String() string {
	switch c {
	case ErrCategoryNone:
		return "none"
	case ErrCategoryMatch:
		return "match"
	case ErrCategoryDump:
		return "dump"
	case ErrCategoryQuery:
		return "query"
	case ErrCategoryGeometry:
		return "geometry"
	case ErrCategoryConnection:
		return "connection"
	case ErrCategoryConfig:
		return "config"
	default:
		return "unknown"
	}
}

// Strategy names the matcher that produced a resolution.
type Strategy string

// Strategy values
const (
	StrategyDump   Strategy = "dump"   // Heuristic scoring over the hierarchy dump
	StrategyVision Strategy = "vision" // Screenshot-based AI matcher
)
