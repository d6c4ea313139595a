// Package auth provides password hashing and session tokens.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// KeyFileName is the session key file inside the data directory.
const KeyFileName = "session.key"

// PASETO v4 local tokens need a 256-bit key.
const keyLength = 32

// LoadOrGenerateKey returns the session key stored hex-encoded in
// <dir>/session.key, creating the file with a fresh random key on first use.
func LoadOrGenerateKey(dir string) ([]byte, error) {
	keyPath := filepath.Join(dir, KeyFileName)

	//#nosec G304 -- key path is derived from the configured data directory
	if raw, err := os.ReadFile(keyPath); err == nil {
		return decodeKey(strings.TrimSpace(string(raw)))
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read session key: %w", err)
	}

	key := make([]byte, keyLength)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate session key: %w", err)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create key directory: %w", err)
	}
	if err := os.WriteFile(keyPath, []byte(hex.EncodeToString(key)), 0o600); err != nil {
		return nil, fmt.Errorf("failed to save session key: %w", err)
	}
	return key, nil
}

func decodeKey(keyHex string) ([]byte, error) {
	if len(keyHex) != keyLength*2 {
		return nil, fmt.Errorf("invalid session key length: expected %d hex chars, got %d", keyLength*2, len(keyHex))
	}
	key, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid session key format: not valid hex: %w", err)
	}
	return key, nil
}
