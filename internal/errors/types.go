package errors

import (
	"errors"
	"fmt"
)

// EntryError records a failed vault operation and the file it concerned.
type EntryError struct {
	Op   string // "read", "write", "delete", "create", "enumerate"
	Path string
	Err  error
}

func (e *EntryError) Error() string {
	switch e.Op {
	case "read":
		return fmt.Sprintf("Failed to read password at %s, %v", e.Path, e.Err)
	case "write":
		return fmt.Sprintf("Failed to write password at path %s, %v", e.Path, e.Err)
	case "delete":
		if errors.Is(e.Err, ErrDeletionFailed) {
			return fmt.Sprintf("Failed to delete password at %s", e.Path)
		}
		return fmt.Sprintf("Failed to delete password at %s, %v", e.Path, e.Err)
	case "mkdir":
		return fmt.Sprintf("Failed to create directory at path %s, reason : %v", e.Path, e.Err)
	case "readdir":
		return fmt.Sprintf("Failed to read directory at %s", e.Path)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }

// PluginError records a failure attributed to a single plugin.
//
// Err is one of the plugin sentinels. Reason carries the load failure
// reason or the detail the plugin reported after the "err:" marker.
type PluginError struct {
	Plugin  string
	Command string
	Reason  string
	Err     error
}

func (e *PluginError) Error() string {
	var kind string
	switch {
	case errors.Is(e.Err, ErrPluginLoad):
		kind = fmt.Sprintf("failed to load plugin, reason : %s", e.Reason)
	case errors.Is(e.Err, ErrSymbolNotFound):
		kind = fmt.Sprintf("Failed to invoke function %s, command not found", e.Command)
	case errors.Is(e.Err, ErrPluginReported):
		kind = fmt.Sprintf("Failed to invoke function %s, couldn't serialize return value, error details: %s", e.Command, e.Reason)
	default:
		kind = e.Err.Error()
		if e.Reason != "" {
			kind += ": " + e.Reason
		}
	}
	return fmt.Sprintf("Error happened in plugin %s, %s", e.Plugin, kind)
}

func (e *PluginError) Unwrap() error { return e.Err }

// Detail returns the text a plugin reported after the error marker.
// It is empty for failures that did not come from the plugin itself.
func (e *PluginError) Detail() string {
	if errors.Is(e.Err, ErrPluginReported) {
		return e.Reason
	}
	return ""
}

// Render converts err to the human-readable text shown outside the core.
// The structured kind does not survive rendering.
func Render(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
