package utils

import (
	"fmt"
	"math"
)

// CheckMultiplyOverflow reports whether a*b would overflow uint64.
func CheckMultiplyOverflow(a, b uint64) error {
	if a == 0 || b == 0 {
		return nil
	}
	if a > math.MaxUint64/b {
		return fmt.Errorf("multiplication overflow: %d * %d exceeds uint64 max", a, b)
	}
	return nil
}

// SafeMultiply multiplies two uint64 values, failing instead of wrapping.
func SafeMultiply(a, b uint64) (uint64, error) {
	if err := CheckMultiplyOverflow(a, b); err != nil {
		return 0, err
	}
	return a * b, nil
}

// ValidateBufferSize rejects a zero or unreasonably large size before an
// allocation. Used to bound hierarchy page reads (CorruptMetadata) and chunk
// byte_size values coming from an untrusted hierarchy entry.
func ValidateBufferSize(size, maxSize uint64, description string) error {
	if size == 0 {
		return fmt.Errorf("%s: size cannot be zero", description)
	}
	if size > maxSize {
		return fmt.Errorf("%s: size %d exceeds maximum %d", description, size, maxSize)
	}
	return nil
}

// Common buffer size limits for untrusted, file-supplied sizes.
const (
	// MaxHierarchyPageSize bounds a single hierarchy page read; COPC pages
	// are small (one 32-byte entry per node) so a legitimate page is never
	// anywhere near this.
	MaxHierarchyPageSize = 64 * 1024 * 1024

	// MaxChunkSize bounds a single decompressed point chunk, and doubles as
	// the bound for an EVLR payload and for a serialized chunk table (both
	// are also length-prefixed, file-supplied, and otherwise unbounded).
	MaxChunkSize = 1024 * 1024 * 1024

	// MaxVLRPayloadSize bounds a VLR payload. The on-disk length field is
	// already a u16, so this mostly documents intent rather than narrowing
	// the type's own range.
	MaxVLRPayloadSize = 0xFFFF
)
