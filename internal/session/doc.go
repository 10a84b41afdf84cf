// Package session holds the state of a running passy process.
//
// A Host is created once at startup and passed to every operation. It owns
// the resolved settings and configuration, the logged-in session (user and
// key) and the plugin registry from the latest load pass. Each of the last
// two is guarded by its own lock, and neither lock is held while a plugin
// runs, so a slow plugin never blocks vault operations or other
// invocations.
//
// Every vault, session and plugin operation is recorded in the audit
// trail. Attribute values and plugin payloads are never recorded.
package session
