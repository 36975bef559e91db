// Package ical writes calendars and their tasks as iCalendar (.ics) data.
package ical

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	goical "github.com/emersion/go-ical"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/javiermolinar/wasabi/internal/task"
)

const (
	productID = "-//wasabi//Shared Task Calendar//EN"

	// floatingLayout renders a wall-clock date-time without a zone, which
	// calendar clients show in the viewer's local time.
	floatingLayout = "20060102T150405"

	// PropVersion carries the task's version token so an exported event can
	// be edited again.
	PropVersion = "X-WASABI-VERSION"
)

// Lister returns a calendar's tasks between two dates (inclusive).
type Lister interface {
	List(ctx context.Context, calendarID int64, from, to time.Time) ([]*task.Task, error)
}

// EventUID returns the stable UID used for a task's event.
func EventUID(taskID int64) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, fmt.Appendf(nil, "wasabi:task:%d", taskID)).String()
}

// Build converts a calendar and its tasks into an iCalendar object.
func Build(cal *task.Calendar, tasks []*task.Task, stamp time.Time) *goical.Calendar {
	out := goical.NewCalendar()
	out.Props.SetText(goical.PropProductID, productID)
	out.Props.SetText(goical.PropVersion, "2.0")
	out.Props.SetText(goical.PropName, cal.Name)

	for _, t := range tasks {
		out.Children = append(out.Children, event(t, stamp).Component)
	}
	return out
}

func event(t *task.Task, stamp time.Time) *goical.Event {
	ev := goical.NewEvent()
	ev.Props.SetText(goical.PropUID, EventUID(t.ID))
	ev.Props.SetText(goical.PropSummary, t.Topic)
	ev.Props.SetDateTime(goical.PropDateTimeStamp, stamp.UTC())
	ev.Props.Set(floating(goical.PropDateTimeStart, t.Start.On(t.Date)))
	ev.Props.Set(floating(goical.PropDateTimeEnd, t.End.On(t.Date)))
	ev.Props.SetDateTime(goical.PropLastModified, t.Version.Time().UTC())
	ev.Props.SetText(PropVersion, t.Version.String())

	if !t.CreatedAt.IsZero() {
		ev.Props.SetDateTime(goical.PropCreated, t.CreatedAt.UTC())
	}
	if t.Tag != "" {
		ev.Props.SetText(goical.PropCategories, t.Tag)
	}
	if t.Location != "" {
		ev.Props.SetText(goical.PropLocation, t.Location)
	}
	if t.Notes != "" {
		ev.Props.SetText(goical.PropDescription, t.Notes)
	}
	if t.Link != "" {
		ev.Props.SetText(goical.PropURL, t.Link)
	}
	return ev
}

func floating(name string, t time.Time) *goical.Prop {
	p := goical.NewProp(name)
	p.SetValueType(goical.ValueDateTime)
	p.Value = t.Format(floatingLayout)
	return p
}

// Write encodes a calendar and its tasks to w.
func Write(w io.Writer, cal *task.Calendar, tasks []*task.Task, stamp time.Time) error {
	if err := goical.NewEncoder(w).Encode(Build(cal, tasks, stamp)); err != nil {
		return fmt.Errorf("encoding calendar %d: %w", cal.ID, err)
	}
	return nil
}

// FileName returns the .ics file name for a calendar.
func FileName(cal *task.Calendar) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', ' ':
			return '-'
		}
		return r
	}, strings.ToLower(cal.Name))
	return fmt.Sprintf("%d-%s.ics", cal.ID, name)
}

// WriteFiles exports each calendar to its own file in dir, querying and
// encoding the calendars concurrently. Calendars with no tasks in the range
// are skipped. It returns the written paths in the order of cals.
func WriteFiles(ctx context.Context, dir string, src Lister, cals []*task.Calendar, from, to time.Time) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating export directory: %w", err)
	}

	stamp := time.Now()
	paths := make([]string, len(cals))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, cal := range cals {
		g.Go(func() error {
			tasks, err := src.List(ctx, cal.ID, from, to)
			if err != nil {
				return fmt.Errorf("listing calendar %d: %w", cal.ID, err)
			}
			if len(tasks) == 0 {
				return nil
			}

			path := filepath.Join(dir, FileName(cal))
			if err := writeFile(path, cal, tasks, stamp); err != nil {
				return err
			}
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return slices.DeleteFunc(paths, func(p string) bool { return p == "" }), nil
}

func writeFile(path string, cal *task.Calendar, tasks []*task.Task, stamp time.Time) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, cerr)
		}
	}()
	return Write(f, cal, tasks, stamp)
}
