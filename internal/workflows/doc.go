// Package workflows provides high-level orchestration for passy commands.
//
// Workflows coordinate the configs, session, secrets and audit packages to
// implement complete user-facing features, independent of CLI concerns like
// flag parsing, spinners and output formatting.
//
// The cmd/ package should be a thin layer that:
//   - Parses command-line flags and arguments
//   - Calls the appropriate workflow function
//   - Formats the result for display
//
// # Available Workflows
//
//   - Open: resolves settings and configuration and builds a session.Host
//   - Unlock: Open followed by a login with a key from file, env or prompt
//   - SetAttributes: applies key=value assignments to an entry
//   - Log: reads and filters the audit trail
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package so the CLI
// can pick a message with errors.Is instead of string matching:
//
//	host, err := workflows.Unlock(ctx, opts)
//	if errors.Is(err, kerrors.ErrUserNotFound) {
//	    // suggest "passy users create"
//	}
package workflows
