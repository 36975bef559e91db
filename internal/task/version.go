package task

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidVersion is returned when a version token cannot be parsed.
var ErrInvalidVersion = errors.New("version must be a decimal timestamp token")

// Version is a task's last-modification timestamp in Unix nanoseconds. It is
// the optimistic concurrency token: callers echo back the version they last
// saw, and it is compared by exact equality.
type Version int64

// NewVersion returns the version for t.
func NewVersion(t time.Time) Version {
	return Version(t.UnixNano())
}

// Next returns a version stamped at now that is strictly greater than v.
func (v Version) Next(now time.Time) Version {
	next := NewVersion(now)
	if next <= v {
		next = v + 1
	}
	return next
}

// Time returns the timestamp the version encodes.
func (v Version) Time() time.Time {
	return time.Unix(0, int64(v))
}

// IsZero reports whether the version is unset.
func (v Version) IsZero() bool {
	return v == 0
}

// String returns the token form used on the command line.
func (v Version) String() string {
	return strconv.FormatInt(int64(v), 10)
}

// ParseVersion parses a token produced by Version.String.
func ParseVersion(s string) (Version, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return 0, ErrInvalidVersion
	}
	return Version(n), nil
}
