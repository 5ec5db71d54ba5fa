package logger

import (
	"log/slog"
	"slices"
	"strings"
	"time"
)

// Closed vocabularies for the status and outcome fields. Unknown statuses are
// passed through lowercased; unknown outcomes are dropped.
var (
	statuses = []string{"ok", "fail", "skip", "retry", "denied", "cancelled"}
	outcomes = []string{"ok", "fail", "cancelled", "denied", "usage", "not_found"}
)

// defaultKeyOrder is the field order used when logging.keys_order is unset.
// Fields not listed here follow in alphabetical order.
var defaultKeyOrder = strings.Fields(`
	ts level component event status
	rid rid_full ts_unix_nano
	update_id user_id chat_id chat_type handler
	operation op cb_key outcome duration_ms messages kb
	role command session_id remark selected count page pages total target_id payload
	lang username
	mode listen public_url http_code
	err err_code cause retryable attempts backoff_ms
	collapsed repeats pending_count
`)

// levelName maps slog levels onto the four names the log schema allows.
func levelName(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "ERROR"
	case l >= slog.LevelWarn:
		return "WARN"
	case l >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

func normalizeStatus(status string) (string, bool) {
	status = strings.ToLower(strings.TrimSpace(status))
	return status, status != "" && slices.Contains(statuses, status)
}

func normalizeOutcome(outcome string) (string, bool) {
	outcome = strings.ToLower(strings.TrimSpace(outcome))
	return outcome, outcome != "" && slices.Contains(outcomes, outcome)
}

// Status is "fail" for a non-nil err and "ok" otherwise.
func Status(err error) string {
	if err != nil {
		return "fail"
	}
	return "ok"
}

// RoundMS rounds d to whole milliseconds. Negative durations become zero.
func RoundMS(d time.Duration) time.Duration {
	return max(d, 0).Round(time.Millisecond)
}

// SummarizeStrings joins at most limit values with ", " and reports whether
// any were left out.
func SummarizeStrings(values []string, limit int) (string, bool) {
	limit = max(limit, 0)
	if len(values) <= limit {
		return strings.Join(values, ", "), false
	}
	return strings.Join(values[:limit], ", "), true
}
