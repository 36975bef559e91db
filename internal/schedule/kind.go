package schedule

import (
	"errors"

	"github.com/javiermolinar/wasabi/internal/conflict"
	"github.com/javiermolinar/wasabi/internal/guard"
	"github.com/javiermolinar/wasabi/internal/slot"
	"github.com/javiermolinar/wasabi/internal/task"
)

// Kind classifies an engine result for the request layer.
type Kind int

const (
	KindNone Kind = iota
	KindInvalidInput
	KindInvalidInterval
	KindOverlapExceeded
	KindVersionConflict
	KindNotFound
	KindInternal
)

var kindNames = map[Kind]string{
	KindNone:            "none",
	KindInvalidInput:    "invalid_input",
	KindInvalidInterval: "invalid_interval",
	KindOverlapExceeded: "overlap_exceeded",
	KindVersionConflict: "version_conflict",
	KindNotFound:        "not_found",
	KindInternal:        "internal",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Recoverable reports whether new user input can resolve the error.
func (k Kind) Recoverable() bool {
	switch k {
	case KindInvalidInput, KindInvalidInterval, KindOverlapExceeded, KindVersionConflict:
		return true
	default:
		return false
	}
}

// KindOf maps an error returned by the Engine to its Kind.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, slot.ErrInvalidInterval):
		return KindInvalidInterval
	case errors.Is(err, task.ErrInvalidDraft), errors.Is(err, slot.ErrInvalidClock):
		return KindInvalidInput
	case errors.Is(err, conflict.ErrOverlapExceeded):
		return KindOverlapExceeded
	case errors.Is(err, guard.ErrVersionConflict):
		return KindVersionConflict
	case errors.Is(err, task.ErrTaskNotFound), errors.Is(err, task.ErrCalendarNotFound):
		return KindNotFound
	default:
		return KindInternal
	}
}
