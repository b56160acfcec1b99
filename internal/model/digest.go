package model

import (
	"encoding/hex"
	"unicode/utf8"

	"golang.org/x/crypto/sha3"
)

// MessageDigest returns the hex SHA3-256 digest of a message.
// Messages may carry one-time codes or card numbers, so logs and the
// session history refer to them by digest only.
func MessageDigest(message string) string {
	sum := sha3.Sum256([]byte(message))
	return hex.EncodeToString(sum[:])
}

// ShortDigest returns the first 12 hex characters of MessageDigest.
func ShortDigest(message string) string {
	return MessageDigest(message)[:12]
}

// RuneLength returns the number of characters in a message.
func RuneLength(message string) int {
	return utf8.RuneCountInString(message)
}
