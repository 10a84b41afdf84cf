package audit

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Operation names recorded in the trail.
const (
	OpLogin   = "login"
	OpLogout  = "logout"
	OpOpen    = "open"
	OpCreate  = "create"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OpLoad    = "load"
	OpInvoke  = "invoke"
	OpAddUser = "add_user"
)

// TimestampFormat is the UTC layout of Entry.Timestamp.
const TimestampFormat = "2006-01-02T15:04:05.000000Z"

// Entry represents a single audit log entry.
type Entry struct {
	ID        string `json:"id"`
	Timestamp string `json:"ts"` // RFC3339 with microseconds.
	User      string `json:"user,omitempty"`
	Operation string `json:"op"`
	OK        bool   `json:"ok"`

	// Optional fields depending on operation.
	Path    string `json:"path,omitempty"`    // For create/update/delete.
	Plugin  string `json:"plugin,omitempty"`  // For invoke.
	Command string `json:"command,omitempty"` // For invoke.
	Count   int    `json:"count,omitempty"`   // For open/load.
	Error   string `json:"error,omitempty"`
}

// Trail appends entries to a JSON Lines file. A nil *Trail or one with an
// empty Path records nothing.
type Trail struct {
	Path string

	mu sync.Mutex
}

// NewTrail returns a trail writing to path.
func NewTrail(path string) *Trail {
	return &Trail{Path: path}
}

// Log appends entry, filling in its id and timestamp when unset.
func (t *Trail) Log(entry Entry) {
	if t == nil || t.Path == "" {
		return
	}

	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(TimestampFormat)
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	f, err := os.OpenFile(t.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return
	}
	defer f.Close()

	_, _ = f.Write(append(data, '\n'))
}

// Result fills in OK and Error from err and returns the entry.
func (e Entry) Result(err error) Entry {
	e.OK = err == nil
	if err != nil {
		e.Error = err.Error()
	}
	return e
}

// ReadEntries reads all entries from the trail.
// Returns an empty slice if the log doesn't exist.
func (t *Trail) ReadEntries() ([]Entry, error) {
	if t == nil || t.Path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(t.Path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}
