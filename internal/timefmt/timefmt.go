// Package timefmt renders date templates for a day offset from now under a
// scoped locale.
package timefmt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/agis/stenotime/internal/locale"
)

// WeekPlaceholder is replaced by the ISO week of the target date.
const WeekPlaceholder = "KW %W"

// LocaleError reports a locale that could not be activated.
type LocaleError struct {
	Locale string
	Err    error
}

func (e *LocaleError) Error() string {
	return fmt.Sprintf("locale %q: %v", e.Locale, e.Err)
}

func (e *LocaleError) Unwrap() error { return e.Err }

type Formatter struct {
	Ambient  *locale.Ambient
	Now      func() time.Time
	Location *time.Location
}

// Format renders template for now shifted by offsetDays, with locale
// active for the duration of the call. The previous ambient locale is
// restored before Format returns, whatever the outcome.
func (f *Formatter) Format(template, localeName string, offsetDays int) (out string, err error) {
	loc, restore, err := f.ambient().Use(localeName)
	if err != nil {
		return "", &LocaleError{Locale: localeName, Err: err}
	}
	defer restore()
	defer func() {
		if r := recover(); r != nil {
			out, err = "", fmt.Errorf("render %q: %v", template, r)
		}
	}()

	target := Target(f.now(), offsetDays)
	return Render(SubstituteWeek(template, target), target, loc)
}

func (f *Formatter) ambient() *locale.Ambient {
	if f.Ambient == nil {
		return locale.Process()
	}
	return f.Ambient
}

func (f *Formatter) now() time.Time {
	now := time.Now
	if f.Now != nil {
		now = f.Now
	}
	t := now()
	if f.Location != nil {
		t = t.In(f.Location)
	}
	return t
}

// Target shifts now by a whole number of calendar days.
func Target(now time.Time, offsetDays int) time.Time {
	if offsetDays == 0 {
		return now
	}
	return now.AddDate(0, 0, offsetDays)
}

// SubstituteWeek replaces WeekPlaceholder with the zero-padded ISO 8601
// week number of t.
func SubstituteWeek(template string, t time.Time) string {
	if !strings.Contains(template, WeekPlaceholder) {
		return template
	}
	_, week := t.ISOWeek()
	return strings.ReplaceAll(template, WeekPlaceholder, fmt.Sprintf("KW %02d", week))
}

// Marker converts a Format error into the bracketed text handed to the
// dictionary host in place of a translation.
func Marker(err error) string {
	if err == nil {
		return ""
	}
	var le *LocaleError
	if errors.As(err, &le) {
		return fmt.Sprintf("[Locale Error: %s]", le.Locale)
	}
	if errors.Is(err, ErrFormatInvalid) {
		return fmt.Sprintf("[Format Error: %s]", strings.TrimPrefix(err.Error(), ErrFormatInvalid.Error()+": "))
	}
	return fmt.Sprintf("[Error: %s]", err.Error())
}
