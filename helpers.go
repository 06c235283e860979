package gemini

import "time"

// IntPtr returns a pointer to an int value
func IntPtr(v int) *int {
	return &v
}

// Float64Ptr returns a pointer to a float64 value
func Float64Ptr(v float64) *float64 {
	return &v
}

// DurationPtr returns a pointer to a time.Duration value
func DurationPtr(v time.Duration) *time.Duration {
	return &v
}
