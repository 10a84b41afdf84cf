package utils

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"os"

	kerrors "github.com/passyvault/passy/internal/errors"
	"github.com/passyvault/passy/internal/secrets"
)

// KeyEnv holds a hex-encoded vault key.
const KeyEnv = "PASSY_KEY"

// ParseKey accepts a key as 64 hex characters (surrounding whitespace
// ignored) or as exactly 32 raw bytes.
func ParseKey(data []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == hex.EncodedLen(secrets.KeySize) {
		key := make([]byte, secrets.KeySize)
		if _, err := hex.Decode(key, trimmed); err == nil {
			return key, nil
		}
	}

	if len(data) == secrets.KeySize {
		return append([]byte(nil), data...), nil
	}

	return nil, fmt.Errorf("%w: expected %d bytes or %d hex characters",
		kerrors.ErrInvalidKeyLength, secrets.KeySize, hex.EncodedLen(secrets.KeySize))
}

// KeySource says where LoadKey looks for the key, in order.
type KeySource struct {
	File string
	Env  func(string) string

	// Prompt reads a hidden line from the terminal. Nil disables prompting.
	Prompt func(prompt string) ([]byte, error)
}

// LoadKey returns the vault key from src.File, then $PASSY_KEY, then the prompt.
func LoadKey(src KeySource) ([]byte, error) {
	if src.File != "" {
		data, err := os.ReadFile(src.File)
		if err != nil {
			return nil, fmt.Errorf("failed to read key file: %w", err)
		}
		defer secrets.Zero(data)
		return ParseKey(data)
	}

	getenv := src.Env
	if getenv == nil {
		getenv = os.Getenv
	}
	if v := getenv(KeyEnv); v != "" {
		return ParseKey([]byte(v))
	}

	if src.Prompt == nil {
		return nil, fmt.Errorf("no key provided (hint: use --key-file or set %s)", KeyEnv)
	}

	input, err := src.Prompt("Vault key (hex): ")
	if err != nil {
		return nil, err
	}
	defer secrets.Zero(input)
	return ParseKey(input)
}

// GenerateKey returns a new random vault key, hex encoded.
func GenerateKey() (string, error) {
	key, err := secrets.CreateSymmetricKey()
	if err != nil {
		return "", err
	}
	defer secrets.Zero(key)
	return hex.EncodeToString(key), nil
}
