package errors

import (
	"math"
	"strings"
	"unicode"
)

// maxDimension caps tile and canvas sizes well above anything a device can
// allocate, so overflow in index arithmetic is impossible.
const maxDimension = 1 << 30

// ValidateDimension checks that v is a usable positive size.
// The name is used in the error message (e.g. "tile width").
func ValidateDimension(name string, v int) error {
	if v <= 0 {
		return New(ErrCodeInvalidInput, "%s must be positive, got %d", name, v)
	}
	if v > maxDimension {
		return New(ErrCodeInvalidInput, "%s too large (max %d), got %d", name, maxDimension, v)
	}
	return nil
}

// ValidateCanvas checks canvas pixel dimensions.
// Canvas sizes come from the host window and must be finite and positive.
func ValidateCanvas(width, height float64) error {
	if !isFinite(width) || !isFinite(height) {
		return New(ErrCodeInvalidInput, "canvas size must be finite, got %gx%g", width, height)
	}
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidInput, "canvas size must be positive, got %gx%g", width, height)
	}
	return nil
}

// ValidateZoomRange checks that min and max zoom bound a non-empty interval.
func ValidateZoomRange(min, max float64) error {
	if !isFinite(min) || !isFinite(max) {
		return New(ErrCodeInvalidConfig, "zoom bounds must be finite")
	}
	if min <= 0 {
		return New(ErrCodeInvalidConfig, "minimum zoom must be positive, got %g", min)
	}
	if max < min {
		return New(ErrCodeInvalidConfig, "maximum zoom %g below minimum %g", max, min)
	}
	return nil
}

// ValidatePath validates a user-supplied file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateAddr validates a listen address of the form host:port or :port.
func ValidateAddr(addr string) error {
	if addr == "" {
		return New(ErrCodeInvalidConfig, "listen address cannot be empty")
	}
	i := strings.LastIndex(addr, ":")
	if i < 0 || i == len(addr)-1 {
		return New(ErrCodeInvalidConfig, "listen address must include a port: %q", addr)
	}
	for _, r := range addr[i+1:] {
		if r < '0' || r > '9' {
			return New(ErrCodeInvalidConfig, "invalid port in listen address: %q", addr)
		}
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
