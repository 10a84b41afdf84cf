// Package cmd contains testing utilities shared between command tests.
// This file provides helpers for setting up an isolated appdata directory,
// capturing output, and running the CLI in-process.
package cmd

import (
	"bytes"
	"encoding/hex"
	"io"
	"log"
	"os"
	"testing"

	logger "github.com/passyvault/passy/internal/logging"
	"github.com/passyvault/passy/internal/plugins"
	"github.com/spf13/cobra"
)

// setupTestEnvironment points passy at a fresh appdata directory and sets
// a vault key in the environment. It returns the appdata path and the key.
func setupTestEnvironment(t *testing.T) (string, []byte) {
	t.Helper()

	appdata := t.TempDir()
	key := bytes.Repeat([]byte{0x5a}, 32)

	t.Setenv("PASSY_HOME", appdata)
	t.Setenv("PASSY_KEY", hex.EncodeToString(key))
	t.Setenv("NO_COLOR", "1")

	ResetGlobalState()
	t.Cleanup(func() {
		ResetGlobalState()
		pluginOpener = nil
	})

	return appdata, key
}

// setTestOpener replaces the native plugin loader for the current test.
func setTestOpener(t *testing.T, opener plugins.Opener) {
	t.Helper()
	pluginOpener = opener
	t.Cleanup(func() { pluginOpener = nil })
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	outputChan := make(chan string, 2)

	drain := func(r io.Reader) {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, r); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		outputChan <- buf.String()
	}
	go drain(stdoutReader)
	go drain(stderrReader)

	err := fn()

	stdoutWriter.Close()
	stderrWriter.Close()

	os.Stdout = originalStdout
	os.Stderr = originalStderr

	stdout := <-outputChan
	stderr := <-outputChan

	return stdout + stderr, err
}

// withStdin runs fn with os.Stdin reading input.
func withStdin(t *testing.T, input string, fn func() error) error {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.WriteString(input); err != nil {
		t.Fatal(err)
	}
	w.Close()

	original := os.Stdin
	os.Stdin = r
	defer func() {
		os.Stdin = original
		r.Close()
	}()

	return fn()
}

// createTestCLI creates a complete CLI instance running args. Flag values
// left over from a previous run are cleared first.
func createTestCLI(args ...string) *cobra.Command {
	ResetGlobalState()
	Logger = logger.Logger{}

	rootCmd := &cobra.Command{
		Use:           "passy",
		Short:         "Passy - a local secrets vault with native plugins.",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	rootCmd.AddCommand(UsersCmd)
	rootCmd.AddCommand(VaultCmd)
	rootCmd.AddCommand(PluginsCmd)
	rootCmd.AddCommand(KeygenCmd)
	rootCmd.AddCommand(AuditCmd)
	rootCmd.AddCommand(ConfigCmd)

	for _, group := range rootCmd.Commands() {
		resetCobraFlagState(group)
	}

	rootCmd.SetArgs(args)
	return rootCmd
}

// runCLI executes args and returns the combined output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return captureOutput(func() error {
		return createTestCLI(args...).Execute()
	})
}
