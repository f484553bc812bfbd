// Package locale owns the process-wide active locale used when rendering
// localized date components, and resolves locale identifiers against the
// catalog of supported locales.
package locale

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goodsign/monday"
	"golang.org/x/text/language"
)

// POSIX is the ambient locale a process starts with.
const POSIX = "C"

var ErrUnavailable = errors.New("locale unavailable")

var catalog = sync.OnceValue(func() map[monday.Locale]struct{} {
	out := map[monday.Locale]struct{}{}
	for _, l := range monday.ListLocales() {
		out[l] = struct{}{}
	}
	return out
})

// Resolve maps identifiers such as "de_DE", "de-DE", "de_DE.UTF-8" or
// "de_DE@euro" to a supported locale. "C" and "POSIX" resolve to en_US.
func Resolve(name string) (monday.Locale, error) {
	raw := strings.TrimSpace(name)
	if raw == "" {
		return "", fmt.Errorf("%w: empty identifier", ErrUnavailable)
	}
	base := raw
	if i := strings.IndexAny(base, ".@"); i >= 0 {
		base = base[:i]
	}
	switch base {
	case "C", "POSIX":
		return monday.LocaleEnUS, nil
	}
	if _, ok := catalog()[monday.Locale(base)]; ok {
		return monday.Locale(base), nil
	}

	tag, err := language.Parse(strings.ReplaceAll(base, "_", "-"))
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnavailable, raw)
	}
	lang, _ := tag.Base()
	region, conf := tag.Region()
	if conf == language.No {
		return "", fmt.Errorf("%w: %s", ErrUnavailable, raw)
	}
	candidate := monday.Locale(lang.String() + "_" + region.String())
	if _, ok := catalog()[candidate]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnavailable, raw)
	}
	return candidate, nil
}

// Available lists the supported locale identifiers in sorted order.
func Available() []string {
	out := make([]string, 0, len(catalog()))
	for l := range catalog() {
		out = append(out, string(l))
	}
	sort.Strings(out)
	return out
}

// Ambient is a process-wide locale setting. Changes go through Use, which
// holds the setting for the whole acquire/render/restore section.
type Ambient struct {
	section sync.Mutex

	mu      sync.RWMutex
	current string
}

var process = NewAmbient(POSIX)

// Process returns the ambient locale shared by the whole process.
func Process() *Ambient { return process }

func NewAmbient(initial string) *Ambient {
	if strings.TrimSpace(initial) == "" {
		initial = POSIX
	}
	return &Ambient{current: initial}
}

// Current reports the active locale identifier.
func (a *Ambient) Current() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.current
}

// Use activates name and returns the resolved locale together with a
// restore func that reinstates the previous setting. The restore func is
// idempotent and must be called on every path, typically via defer. When
// name cannot be resolved the ambient setting is left untouched.
func (a *Ambient) Use(name string) (monday.Locale, func(), error) {
	resolved, err := Resolve(name)
	if err != nil {
		return "", func() {}, err
	}
	a.section.Lock()
	prev := a.swap(strings.TrimSpace(name))
	var once sync.Once
	restore := func() {
		once.Do(func() {
			a.swap(prev)
			a.section.Unlock()
		})
	}
	return resolved, restore, nil
}

func (a *Ambient) swap(next string) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	prev := a.current
	a.current = next
	return prev
}
