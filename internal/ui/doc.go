// Package ui provides semantic text formatting for passy's terminal output.
//
// Formatters colorize content by role (paths, commands, plugin names,
// errors). When NO_COLOR is set or the terminal has no color support they
// fall back to plain decorations such as `backticks` or 'quotes'.
//
//	ui.Path.Sprint("work/github")         // entry paths
//	ui.Highlight.Sprint("notes")          // plugin ids, usernames
//	ui.Error.Sprint("✗")                  // failure markers
//
// Attribute values are secrets. Attributes renders them masked unless the
// caller explicitly asks for them to be revealed.
package ui
