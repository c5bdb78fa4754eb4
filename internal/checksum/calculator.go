package checksum

import (
	"crypto/sha256"
	"encoding/hex"
)

// ShortLength is the number of hex characters Short keeps.
const ShortLength = 12

// Calculator computes checksums of opaque payloads.
type Calculator interface {
	// Calculate returns the hex-encoded checksum of content.
	Calculate(content []byte) string
}

// SHA256 implements Calculator using SHA-256.
//
// SHA256 is a zero-size type and is safe for concurrent use by multiple goroutines.
type SHA256 struct{}

// New creates a new SHA-256 based calculator.
func New() SHA256 {
	return SHA256{}
}

// Calculate computes SHA-256 of the raw bytes.
func (c SHA256) Calculate(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// Short truncates a hex checksum for display.
func Short(sum string) string {
	if len(sum) <= ShortLength {
		return sum
	}
	return sum[:ShortLength]
}
