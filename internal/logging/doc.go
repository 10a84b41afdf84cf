// Package logger provides leveled console logging for passy commands.
//
// Verbosity is controlled by two command-line flags:
//
//   - --verbose: shows info messages
//   - --debug: shows debug messages as well
//
// Warnings and errors are always shown on stderr.
//
// # Usage
//
//	log := Logger{Verbose: verbose, Debug: debug}
//	log.Infof("Loaded %d plugins", n)
//
// The zero Logger is silent apart from warnings and errors, which makes it a
// safe default for library code that was not handed one.
package logger
