package utils

import (
	"bytes"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	kerrors "github.com/passyvault/passy/internal/errors"
)

func testKey() []byte {
	return bytes.Repeat([]byte{0xab}, 32)
}

func TestParseKey(t *testing.T) {
	key := testKey()
	hexKey := hex.EncodeToString(key)

	tests := []struct {
		name  string
		input []byte
		ok    bool
	}{
		{"Hex", []byte(hexKey), true},
		{"HexWithNewline", []byte(hexKey + "\n"), true},
		{"HexUppercase", []byte(strings.ToUpper(hexKey)), true},
		{"Raw", key, true},
		{"TooShort", []byte("abcd"), false},
		{"BadHex", []byte(strings.Repeat("zz", 32)), false},
		{"Empty", nil, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseKey(tc.input)
			if !tc.ok {
				if !errors.Is(err, kerrors.ErrInvalidKeyLength) {
					t.Errorf("expected ErrInvalidKeyLength, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseKey: %v", err)
			}
			if !bytes.Equal(got, key) {
				t.Errorf("got %x", got)
			}
		})
	}
}

func TestLoadKey_Precedence(t *testing.T) {
	fileKey := bytes.Repeat([]byte{1}, 32)
	envKey := bytes.Repeat([]byte{2}, 32)
	promptKey := bytes.Repeat([]byte{3}, 32)

	keyFile := filepath.Join(t.TempDir(), "vault.key")
	if err := os.WriteFile(keyFile, []byte(hex.EncodeToString(fileKey)+"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	env := func(v string) func(string) string {
		return func(name string) string {
			if name == KeyEnv {
				return v
			}
			return ""
		}
	}
	prompt := func(string) ([]byte, error) {
		return []byte(hex.EncodeToString(promptKey)), nil
	}

	t.Run("FileFirst", func(t *testing.T) {
		got, err := LoadKey(KeySource{File: keyFile, Env: env(hex.EncodeToString(envKey)), Prompt: prompt})
		if err != nil || !bytes.Equal(got, fileKey) {
			t.Errorf("got %x, %v", got, err)
		}
	})

	t.Run("EnvSecond", func(t *testing.T) {
		got, err := LoadKey(KeySource{Env: env(hex.EncodeToString(envKey)), Prompt: prompt})
		if err != nil || !bytes.Equal(got, envKey) {
			t.Errorf("got %x, %v", got, err)
		}
	})

	t.Run("PromptLast", func(t *testing.T) {
		got, err := LoadKey(KeySource{Env: env(""), Prompt: prompt})
		if err != nil || !bytes.Equal(got, promptKey) {
			t.Errorf("got %x, %v", got, err)
		}
	})

	t.Run("NoSource", func(t *testing.T) {
		_, err := LoadKey(KeySource{Env: env("")})
		if err == nil || !strings.Contains(err.Error(), KeyEnv) {
			t.Errorf("expected hint about %s, got %v", KeyEnv, err)
		}
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := LoadKey(KeySource{File: filepath.Join(t.TempDir(), "nope")})
		if err == nil {
			t.Error("expected error for missing key file")
		}
	})
}

func TestGenerateKey(t *testing.T) {
	a, err := GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	b, err := GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Error("keys should differ")
	}
	if _, err := ParseKey([]byte(a)); err != nil {
		t.Errorf("generated key does not parse: %v", err)
	}
}

func TestReadAll(t *testing.T) {
	if _, err := readAll(strings.NewReader("")); err == nil {
		t.Error("expected error for empty input")
	}
	got, err := readAll(strings.NewReader(`{"plugin":"p"}`))
	if err != nil || string(got) != `{"plugin":"p"}` {
		t.Errorf("got %q, %v", got, err)
	}
}
