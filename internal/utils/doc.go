// Package utils provides shared helpers for the passy command line.
//
// # Key Utilities
//
// Functions for obtaining the 32-byte vault key:
//   - ParseKey: accepts 64 hex characters or 32 raw bytes
//   - LoadKey: reads the key from a file, $PASSY_KEY, or a hidden prompt
//   - GenerateKey: returns a fresh random key in hex
//
// # System Utilities
//
// Functions for interacting with the operating system:
//   - GetUsername: returns the current system username
//   - SanitizeUsername: normalizes a name for use as a vault directory
//
// # String Utilities
//
// Functions for validation and formatting:
//   - IsValidUsername: checks a vault user name
//   - FormatPaths: formats entry paths for human-readable output
//
// # Terminal and I/O Utilities
//
// Hidden passphrase input through golang.org/x/term, and reading piped
// input from stdin.
package utils
