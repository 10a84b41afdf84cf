// Package secrets implements passy's encrypted vault storage.
//
// A vault is a directory tree owned by one user. Each entry is a single
// file whose path, relative to the vault root and without the ".passy"
// suffix, is the entry's logical path:
//
//	<appdata>/alice/work/github.passy  ->  entry "work/github"
//
// # Record Format
//
// A record file is a 12-byte random nonce followed by the AEAD ciphertext
// of the entry's attribute map:
//
//	[nonce (12)][ciphertext || tag (16)]
//
// The nonce is regenerated on every write, so rewriting an entry with the
// same attributes produces a different file. The authentication tag is the
// only integrity check on stored secrets: a wrong key or a single flipped
// bit makes Read fail with ErrDecipher rather than return corrupted data.
//
// # Attribute Encoding
//
// Attributes are stored as "key:value" lines. A line is split at its first
// colon, so values may contain colons but keys may not. Keys and values may
// not contain newlines. Write rejects attributes that break these rules
// instead of storing something that would read back differently.
//
// # Cipher Suites
//
// AES-256-GCM is the default. ChaCha20-Poly1305 uses the same key, nonce
// and tag sizes and can be selected for the whole vault in config.toml.
// The suite is not recorded in the file.
//
// # Consistency
//
// Enumerate either returns every entry or fails: one unreadable record
// aborts the walk. Delete removes the record file only; parent directories
// left empty are kept.
package secrets
