package workflows

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/passyvault/passy/internal/audit"
	kerrors "github.com/passyvault/passy/internal/errors"
)

// LogOptions configures the log workflow.
type LogOptions struct {
	// Limit is the maximum number of entries to return. 0 means no limit.
	Limit int

	// Reverse orders entries from most recent to oldest when true.
	Reverse bool

	// User filters entries by vault user.
	User string

	// Operations filters entries by operation types (comma-separated).
	Operations string

	// Plugin filters invoke and load entries by plugin id.
	Plugin string

	// FailedOnly keeps only entries whose operation failed.
	FailedOnly bool

	// Since filters entries after this date (YYYY-MM-DD format).
	Since string

	// Until filters entries before this date (YYYY-MM-DD format).
	Until string
}

// LogResult contains the outcome of a log operation.
type LogResult struct {
	// Entries are the filtered audit log entries.
	Entries []audit.Entry

	// TotalEntriesBeforeFilter is the count of entries before filtering.
	TotalEntriesBeforeFilter int
}

// Log reads and filters the audit trail.
//
// Returns ErrNoAuditLog if nothing has been recorded yet.
// Returns ErrInvalidDateFormat if a date filter is malformed.
func Log(ctx context.Context, trail *audit.Trail, opts LogOptions) (*LogResult, error) {
	if trail == nil || trail.Path == "" {
		return nil, kerrors.ErrNoAuditLog
	}

	data, err := os.ReadFile(trail.Path)
	if os.IsNotExist(err) {
		return nil, kerrors.ErrNoAuditLog
	}
	if err != nil {
		return nil, fmt.Errorf("reading audit log: %w", err)
	}

	entries, err := audit.ParseEntries(data)
	if err != nil {
		return nil, fmt.Errorf("parsing audit log: %w", err)
	}

	result := &LogResult{
		TotalEntriesBeforeFilter: len(entries),
	}

	if len(entries) == 0 {
		result.Entries = entries
		return result, nil
	}

	filtered := entries

	if opts.User != "" {
		filtered = filterByUser(filtered, opts.User)
	}

	if opts.Operations != "" {
		ops := strings.Split(opts.Operations, ",")
		for i := range ops {
			ops[i] = strings.TrimSpace(ops[i])
		}
		filtered = filterByOperations(filtered, ops)
	}

	if opts.Plugin != "" {
		filtered = filterEntries(filtered, func(e audit.Entry) bool { return e.Plugin == opts.Plugin })
	}

	if opts.FailedOnly {
		filtered = filterEntries(filtered, func(e audit.Entry) bool { return !e.OK })
	}

	if opts.Since != "" {
		sinceTime, err := time.Parse("2006-01-02", opts.Since)
		if err != nil {
			return nil, fmt.Errorf("%w: --since date format invalid, use YYYY-MM-DD", kerrors.ErrInvalidDateFormat)
		}
		filtered = filterSince(filtered, sinceTime)
	}

	if opts.Until != "" {
		untilTime, err := time.Parse("2006-01-02", opts.Until)
		if err != nil {
			return nil, fmt.Errorf("%w: --until date format invalid, use YYYY-MM-DD", kerrors.ErrInvalidDateFormat)
		}
		// Include the entire day.
		untilTime = untilTime.Add(24*time.Hour - time.Nanosecond)
		filtered = filterUntil(filtered, untilTime)
	}

	if opts.Reverse {
		for i, j := 0, len(filtered)-1; i < j; i, j = i+1, j-1 {
			filtered[i], filtered[j] = filtered[j], filtered[i]
		}
	}

	// The limit always keeps the most recent entries.
	if opts.Limit > 0 && len(filtered) > opts.Limit {
		if opts.Reverse {
			filtered = filtered[:opts.Limit]
		} else {
			filtered = filtered[len(filtered)-opts.Limit:]
		}
	}

	result.Entries = filtered
	return result, nil
}

func filterEntries(entries []audit.Entry, keep func(audit.Entry) bool) []audit.Entry {
	var result []audit.Entry
	for _, e := range entries {
		if keep(e) {
			result = append(result, e)
		}
	}
	return result
}

// filterByUser filters entries by user (case-insensitive).
func filterByUser(entries []audit.Entry, user string) []audit.Entry {
	return filterEntries(entries, func(e audit.Entry) bool {
		return strings.EqualFold(e.User, user)
	})
}

// filterByOperations filters entries by operation types.
func filterByOperations(entries []audit.Entry, ops []string) []audit.Entry {
	opSet := make(map[string]bool, len(ops))
	for _, op := range ops {
		opSet[strings.ToLower(op)] = true
	}
	return filterEntries(entries, func(e audit.Entry) bool {
		return opSet[strings.ToLower(e.Operation)]
	})
}

// filterSince keeps entries at or after since. Unparseable timestamps are dropped.
func filterSince(entries []audit.Entry, since time.Time) []audit.Entry {
	return filterEntries(entries, func(e audit.Entry) bool {
		t, ok := parseTimestamp(e.Timestamp)
		return ok && !t.Before(since)
	})
}

// filterUntil keeps entries at or before until. Unparseable timestamps are dropped.
func filterUntil(entries []audit.Entry, until time.Time) []audit.Entry {
	return filterEntries(entries, func(e audit.Entry) bool {
		t, ok := parseTimestamp(e.Timestamp)
		return ok && !t.After(until)
	})
}

func parseTimestamp(ts string) (time.Time, bool) {
	t, err := time.Parse(audit.TimestampFormat, ts)
	if err != nil {
		t, err = time.Parse(time.RFC3339, ts)
	}
	return t, err == nil
}

// FormatDate formats a timestamp string to YYYY-MM-DD format.
func FormatDate(ts string) string {
	if t, ok := parseTimestamp(ts); ok {
		return t.Format("2006-01-02")
	}
	if len(ts) >= 10 {
		return ts[:10]
	}
	return ts
}

// FormatDateTime formats a timestamp string to YYYY-MM-DD HH:MM:SS format.
func FormatDateTime(ts string) string {
	if t, ok := parseTimestamp(ts); ok {
		return t.Format("2006-01-02 15:04:05")
	}
	if len(ts) >= 19 {
		return ts[:19]
	}
	return ts
}

// FormatDetails formats the details for a log entry in verbose format.
func FormatDetails(e audit.Entry) string {
	details := formatTarget(e)
	switch e.Operation {
	case audit.OpOpen:
		details = fmt.Sprintf("%d entries", e.Count)
	case audit.OpLoad:
		details = fmt.Sprintf("%d plugins", e.Count)
	}
	if !e.OK {
		if details != "" {
			details += "  "
		}
		details += "failed: " + e.Error
	}
	return details
}

// FormatDetailsOneline formats the details for a log entry in oneline format.
func FormatDetailsOneline(e audit.Entry) string {
	details := formatTarget(e)
	if e.Operation == audit.OpOpen || e.Operation == audit.OpLoad {
		details = fmt.Sprintf("%d", e.Count)
	}
	if !e.OK {
		details += " (failed)"
	}
	return strings.TrimSpace(details)
}

func formatTarget(e audit.Entry) string {
	switch e.Operation {
	case audit.OpCreate, audit.OpUpdate, audit.OpDelete:
		return e.Path
	case audit.OpInvoke:
		return e.Plugin + "." + e.Command
	}
	return ""
}
