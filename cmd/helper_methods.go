package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/briandowns/spinner"
	kerrors "github.com/passyvault/passy/internal/errors"
	"github.com/passyvault/passy/internal/ui"
)

// startSpinner creates and starts a spinner with the given message when not
// in verbose or debug mode. The returned cleanup must be deferred.
//
// spinner.FinalMSG values do not need trailing newlines; cleanup adds one.
func startSpinner(message string, verbose bool) (*spinner.Spinner, func()) {
	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	quiet := !verbose && !debug
	if quiet {
		s.Start()
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		if quiet {
			log.SetOutput(os.Stdout)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Cleared so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if quiet {
			s.Stop()
		}

		// Printed to stdout so tests can capture it.
		if finalMsg != "" {
			fmt.Print(finalMsg)
		}
	}

	return s, cleanup
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// formatError turns a core error into the message shown to the user.
func formatError(err error) string {
	fail := ui.Error.Sprint("✗") + " "
	hint := "\n" + ui.Info.Sprint("→") + " "

	switch {
	case errors.Is(err, kerrors.ErrUserNotFound):
		return fail + kerrors.Render(err) + hint +
			"Run " + ui.Code.Sprint("passy users create <name>") + " or pass " + ui.Code.Sprint("--user")

	case errors.Is(err, kerrors.ErrInvalidKeyLength):
		return fail + kerrors.Render(err) + hint +
			"Generate a key with " + ui.Code.Sprint("passy keygen")

	case errors.Is(err, kerrors.ErrDecipher):
		return fail + kerrors.Render(err) + hint +
			"Check that the key and the [vault] cipher in config.toml are the ones this vault was written with"

	case errors.Is(err, kerrors.ErrNoAuditLog):
		return ui.Info.Sprint("ℹ") + " No audit log found. Operations are recorded as soon as you use your vault."

	case errors.Is(err, kerrors.ErrUnsupportedPlatform):
		return fail + kerrors.Render(err)

	case errors.Is(err, kerrors.ErrPluginLoad):
		return fail + kerrors.Render(err) + hint +
			"Set " + ui.Code.Sprint("skip_broken = true") + " under [plugins] in config.toml to load the remaining plugins"

	default:
		return fail + kerrors.Render(err)
	}
}

// isUnexpectedError reports whether err should produce a non-zero exit
// status rather than just a message.
func isUnexpectedError(err error) bool {
	switch {
	case errors.Is(err, kerrors.ErrUserNotFound),
		errors.Is(err, kerrors.ErrUserAlreadyExists),
		errors.Is(err, kerrors.ErrInvalidUsername),
		errors.Is(err, kerrors.ErrNoAuditLog):
		return false
	default:
		return true
	}
}

// fail sets the spinner's final message for err and returns the error the
// command should exit with.
func fail(s *spinner.Spinner, err error) error {
	Logger.Debugf("Command failed: %v", err)
	s.FinalMSG = formatError(err)
	if isUnexpectedError(err) {
		return errSilent
	}
	return nil
}

// errSilent makes the process exit non-zero after a message was already shown.
var errSilent = errors.New("")

// IsSilent reports whether err was already reported to the user.
func IsSilent(err error) bool {
	return errors.Is(err, errSilent)
}
