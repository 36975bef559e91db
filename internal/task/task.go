// Package task defines the core domain types for wasabi.
package task

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/samber/mo"

	"github.com/javiermolinar/wasabi/internal/dateutil"
	"github.com/javiermolinar/wasabi/internal/slot"
)

// Validation errors. All of them wrap ErrInvalidDraft.
var (
	ErrInvalidDraft     = errors.New("invalid task")
	ErrEmptyTopic       = fmt.Errorf("%w: topic cannot be empty", ErrInvalidDraft)
	ErrTopicTooLong     = fmt.Errorf("%w: topic must be at most %d characters", ErrInvalidDraft, MaxTopicLen)
	ErrInvalidTag       = fmt.Errorf("%w: tag should contain only letters, numbers and spaces", ErrInvalidDraft)
	ErrTagTooLong       = fmt.Errorf("%w: tag must be at most %d characters", ErrInvalidDraft, MaxTagLen)
	ErrFieldTooLong     = fmt.Errorf("%w: field too long", ErrInvalidDraft)
	ErrEmptyCalendar    = fmt.Errorf("%w: calendar name cannot be empty", ErrInvalidDraft)
	ErrCalendarNameLong = fmt.Errorf("%w: calendar name must be at most %d characters", ErrInvalidDraft, MaxCalendarNameLen)
)

// Lookup errors.
var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrCalendarNotFound = errors.New("calendar not found")
)

// Field limits.
const (
	MaxTopicLen        = 200
	MaxTagLen          = 30
	MaxLocationLen     = 200
	MaxLinkLen         = 200
	MaxNotesLen        = 500
	MaxCalendarNameLen = 15
)

// Calendar is a shared board that tasks are scheduled on.
type Calendar struct {
	ID        int64
	Name      string
	Owner     string
	CreatedAt time.Time
}

// NewCalendar creates a Calendar with validation.
func NewCalendar(name, owner string) (*Calendar, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyCalendar
	}
	if len([]rune(name)) > MaxCalendarNameLen {
		return nil, ErrCalendarNameLong
	}
	return &Calendar{Name: name, Owner: owner, CreatedAt: time.Now()}, nil
}

// Fields holds the replaceable part of a task. Interval fields are always
// written together.
type Fields struct {
	Topic     string
	Tag       string
	Location  string
	Link      string
	Notes     string
	Date      time.Time
	Start     slot.Clock
	End       slot.Clock
	UpdatedBy string
}

// Task is a committed scheduled item on a calendar.
type Task struct {
	ID         int64
	CalendarID int64
	Fields
	CreatedBy string
	CreatedAt time.Time
	Version   Version
}

// Range returns the task's time span.
func (t *Task) Range() slot.Range {
	return slot.Range{Start: t.Start, End: t.End}
}

// Duration returns the task duration in minutes.
func (t *Task) Duration() int {
	return t.End.MinuteOfDay() - t.Start.MinuteOfDay()
}

// OnDate reports whether the task is scheduled on the given day.
func (t *Task) OnDate(day time.Time) bool {
	return dateutil.SameDay(t.Date, day)
}

// Covers reports whether the task occupies the instant c, i.e. Start <= c < End.
func (t *Task) Covers(c slot.Clock) bool {
	return t.Range().Contains(c)
}

// Draft is the caller-supplied content of a create or update, before
// normalization.
type Draft struct {
	Topic    string
	Tag      string
	Location string
	Link     string
	Notes    string
	Date     time.Time
	Start    slot.Clock
	End      slot.Clock
	Actor    string
}

// NewDraft parses the raw date and clock strings of a request.
// date can be empty (defaults to today) or in YYYY-MM-DD format.
func NewDraft(topic, date, start, end string) (Draft, error) {
	d := Draft{Topic: topic}

	var err error
	if d.Date, err = dateutil.ParseDate(date); err != nil {
		return Draft{}, err
	}
	if d.Start, err = slot.ParseClock(start); err != nil {
		return Draft{}, fmt.Errorf("start time: %w", err)
	}
	if d.End, err = slot.ParseClock(end); err != nil {
		return Draft{}, fmt.Errorf("end time: %w", err)
	}
	return d, nil
}

// Validate checks the free-text fields. The interval is checked by the
// normalizer, not here.
func (d Draft) Validate() error {
	topic := strings.TrimSpace(d.Topic)
	if topic == "" {
		return ErrEmptyTopic
	}
	if len([]rune(topic)) > MaxTopicLen {
		return ErrTopicTooLong
	}
	if len([]rune(d.Tag)) > MaxTagLen {
		return ErrTagTooLong
	}
	for _, r := range d.Tag {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != ' ' {
			return ErrInvalidTag
		}
	}
	if len([]rune(d.Location)) > MaxLocationLen {
		return fmt.Errorf("%w: location must be at most %d characters", ErrFieldTooLong, MaxLocationLen)
	}
	if len([]rune(d.Link)) > MaxLinkLen {
		return fmt.Errorf("%w: link must be at most %d characters", ErrFieldTooLong, MaxLinkLen)
	}
	if len([]rune(d.Notes)) > MaxNotesLen {
		return fmt.Errorf("%w: notes must be at most %d characters", ErrFieldTooLong, MaxNotesLen)
	}
	return nil
}

// Fields returns the replaceable fields for the draft placed on r.
func (d Draft) Fields(r slot.Range) Fields {
	return Fields{
		Topic:     strings.TrimSpace(d.Topic),
		Tag:       strings.TrimSpace(d.Tag),
		Location:  d.Location,
		Link:      d.Link,
		Notes:     d.Notes,
		Date:      dateutil.TruncateToDay(d.Date),
		Start:     r.Start,
		End:       r.End,
		UpdatedBy: d.Actor,
	}
}

// Candidate is an interval that has not been committed yet.
type Candidate struct {
	CalendarID int64
	Date       time.Time
	Range      slot.Range
	// Exclude is the task the candidate would replace, if any.
	Exclude mo.Option[int64]
}

// Excludes reports whether id is the task being replaced.
func (c Candidate) Excludes(id int64) bool {
	ex, ok := c.Exclude.Get()
	return ok && ex == id
}
