package catalog

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tunedeck/tunedeck/util"
)

var (
	// ErrScanRunning means another scan of the same library is in progress.
	ErrScanRunning = errors.New("scan already running")
	// ErrScanDebounced means the server refused a scan requested too soon after the last one.
	ErrScanDebounced = errors.New("scan debounced")
)

// DebouncedError carries the server's retry hint.
type DebouncedError struct {
	// RetryAfter is zero when the server gave no hint.
	RetryAfter time.Duration
	Message    string
}

func (e *DebouncedError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s, retry in ~%ds", ErrScanDebounced, int(e.RetryAfter.Seconds()))
	}
	return ErrScanDebounced.Error()
}

func (e *DebouncedError) Is(target error) bool {
	return target == ErrScanDebounced
}

var retryHint = regexp.MustCompile(`~?(?P<seconds>\d+)s\b`)

// classify maps a scan failure onto the sentinel errors. status is 0 for websocket messages.
func classify(status int, message string) error {
	lower := strings.ToLower(message)

	switch {
	case status == http.StatusConflict || strings.Contains(lower, "already running"):
		return ErrScanRunning
	case status == http.StatusTooManyRequests || strings.Contains(lower, "debounced"):
		e := &DebouncedError{Message: message}
		if secs, err := strconv.Atoi(util.ReGroups(retryHint, message)["seconds"]); err == nil {
			e.RetryAfter = time.Duration(secs) * time.Second
		}
		return e
	case status != 0:
		return fmt.Errorf("scan failed: %d %s %s", status, http.StatusText(status), strings.TrimSpace(message))
	default:
		return fmt.Errorf("scan failed: %s", message)
	}
}
