// Package id generates the public, prefixed identifiers of ledger and queue records.
package id

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	// Base62 alphabet: 0-9, A-Z, a-z
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	DefaultLength = 12
)

const (
	PrefixTransfer   = "tr"
	PrefixQueueEntry = "qe"
)

var alphabetLen = big.NewInt(int64(len(alphabet)))

// Generate creates a cryptographically random Base62 string.
func Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}

	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		out[i] = alphabet[n.Int64()]
	}
	return string(out), nil
}

// GenerateWithPrefix creates an id of the form "prefix_randomstring".
func GenerateWithPrefix(prefix string) (string, error) {
	s, err := Generate(DefaultLength)
	if err != nil {
		return "", err
	}
	return prefix + "_" + s, nil
}

func NewTransferID() (string, error) {
	return GenerateWithPrefix(PrefixTransfer)
}

func NewQueueEntryID() (string, error) {
	return GenerateWithPrefix(PrefixQueueEntry)
}

// ValidatePrefix checks that sid is "<expected>_<base62>".
func ValidatePrefix(sid, expected string) error {
	prefix, rest, ok := strings.Cut(sid, "_")
	if !ok || rest == "" {
		return fmt.Errorf("invalid prefixed ID format: %s", sid)
	}
	if prefix != expected {
		return fmt.Errorf("invalid prefix: expected %s, got %s", expected, prefix)
	}
	for i := 0; i < len(rest); i++ {
		if !strings.ContainsRune(alphabet, rune(rest[i])) {
			return fmt.Errorf("invalid character in ID: %s", sid)
		}
	}
	return nil
}
