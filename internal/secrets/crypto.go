package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	kerrors "github.com/passyvault/passy/internal/errors"
	"golang.org/x/crypto/chacha20poly1305"
)

const (
	// KeySize is the symmetric key length in bytes.
	KeySize = 32

	// NonceSize is the AEAD nonce length stored at the start of every record.
	NonceSize = 12
)

// Suite names an AEAD construction with a 256-bit key and 96-bit nonce.
type Suite string

const (
	SuiteAESGCM           Suite = "aes-256-gcm"
	SuiteChaCha20Poly1305 Suite = "chacha20-poly1305"
)

// DefaultSuite is used when no suite is configured.
const DefaultSuite = SuiteAESGCM

// ParseSuite validates a configured suite name. The empty string selects
// DefaultSuite.
func ParseSuite(name string) (Suite, error) {
	switch Suite(name) {
	case "":
		return DefaultSuite, nil
	case SuiteAESGCM, SuiteChaCha20Poly1305:
		return Suite(name), nil
	}
	return "", fmt.Errorf("unknown cipher suite %q (expected %q or %q)", name, SuiteAESGCM, SuiteChaCha20Poly1305)
}

func (s Suite) aead(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d bytes", kerrors.ErrInvalidKeyLength, KeySize, len(key))
	}

	switch s {
	case SuiteChaCha20Poly1305:
		return chacha20poly1305.New(key)
	case SuiteAESGCM, "":
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}
		return cipher.NewGCM(block)
	}
	return nil, fmt.Errorf("unknown cipher suite %q", string(s))
}

// Encrypt seals plaintext under key with a fresh random nonce. The returned
// ciphertext has the 16-byte authentication tag appended.
func (s Suite) Encrypt(key, plaintext []byte) (ciphertext, nonce []byte, err error) {
	aead, err := s.aead(key)
	if err != nil {
		return nil, nil, err
	}

	nonce = make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, nil, fmt.Errorf("%w: generating nonce: %v", kerrors.ErrCipher, err)
	}

	return aead.Seal(nil, nonce, plaintext, nil), nonce, nil
}

// Decrypt opens ciphertext sealed by Encrypt. Any authentication failure,
// including a nonce of the wrong length, is reported as ErrDecipher.
func (s Suite) Decrypt(key, nonce, ciphertext []byte) ([]byte, error) {
	aead, err := s.aead(key)
	if err != nil {
		return nil, err
	}

	if len(nonce) != aead.NonceSize() {
		return nil, fmt.Errorf("%w: nonce must be %d bytes, got %d", kerrors.ErrDecipher, aead.NonceSize(), len(nonce))
	}

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, kerrors.ErrDecipher
	}
	return plaintext, nil
}

// Encrypt seals plaintext with the default suite.
func Encrypt(key, plaintext []byte) (ciphertext, nonce []byte, err error) {
	return DefaultSuite.Encrypt(key, plaintext)
}

// Decrypt opens ciphertext sealed with the default suite.
func Decrypt(key, nonce, ciphertext []byte) ([]byte, error) {
	return DefaultSuite.Decrypt(key, nonce, ciphertext)
}

// CreateSymmetricKey generates a new random vault key.
func CreateSymmetricKey() ([]byte, error) {
	symKey := make([]byte, KeySize)
	if _, err := rand.Read(symKey); err != nil {
		return nil, err
	}

	return symKey, nil
}

// Zero overwrites b with zeros.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
