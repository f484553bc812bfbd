// Package stroke decodes dictionary keys into a rendering template, a
// locale and a day offset.
package stroke

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	// DefaultLocale applies when a key does not name a locale.
	DefaultLocale = "de_DE"

	// TextPrefix introduces the ad-hoc form "time:<format>[>>[locale][|±N]]".
	TextPrefix = "time:"

	localeSep = ">>"
	offsetSep = "|"
)

var (
	ErrNotRecognized   = errors.New("not recognized")
	ErrUnknownCommand  = fmt.Errorf("%w: unknown base command", ErrNotRecognized)
	ErrUnknownModifier = fmt.Errorf("%w: unknown modifier", ErrNotRecognized)
	ErrMalformed       = fmt.Errorf("%w: malformed key", ErrNotRecognized)
)

type Parsed struct {
	Command  string
	Template string
	Locale   string
	Offset   int
}

type Parser struct {
	DefaultLocale string
}

func (p Parser) defaultLocale() string {
	if v := strings.TrimSpace(p.DefaultLocale); v != "" {
		return v
	}
	return DefaultLocale
}

// SumOffsets validates every token as a modifier and adds up their deltas.
// Any unknown token rejects the whole sequence.
func SumOffsets(tokens []string) (int, error) {
	total := 0
	for _, tok := range tokens {
		m, ok := LookupModifier(tok)
		if !ok {
			return 0, fmt.Errorf("%w %q", ErrUnknownModifier, tok)
		}
		total += m.Days
	}
	return total, nil
}

// ParseStrokes decodes a stroke sequence. Modifiers are validated before
// the base command, so on ErrUnknownCommand the returned Parsed still
// carries the modifier offset. On ErrUnknownModifier the offset is zero.
func (p Parser) ParseStrokes(strokes []string) (Parsed, error) {
	if len(strokes) == 0 {
		return Parsed{}, fmt.Errorf("%w: empty key", ErrMalformed)
	}
	if len(strokes) > LongestKey {
		return Parsed{}, fmt.Errorf("%w: %d strokes exceeds %d", ErrMalformed, len(strokes), LongestKey)
	}
	offset, err := SumOffsets(strokes[1:])
	if err != nil {
		return Parsed{}, err
	}
	cmd, ok := LookupCommand(strokes[0])
	if !ok {
		return Parsed{Offset: offset}, fmt.Errorf("%w %q", ErrUnknownCommand, strokes[0])
	}
	return Parsed{
		Command:  cmd.Name,
		Template: cmd.Template,
		Locale:   p.defaultLocale(),
		Offset:   offset,
	}, nil
}

// ParseText decodes "time:<format>[>>[locale][|±N]]". The payload is split
// at the first ">>"; an empty locale falls back to the default, and an
// optional signed integer after "|" is the day offset.
func (p Parser) ParseText(key string) (Parsed, error) {
	payload, ok := strings.CutPrefix(key, TextPrefix)
	if !ok {
		return Parsed{}, fmt.Errorf("%w: missing %q prefix", ErrMalformed, TextPrefix)
	}
	format, rest, _ := strings.Cut(payload, localeSep)
	if format == "" {
		return Parsed{}, fmt.Errorf("%w: empty format", ErrMalformed)
	}
	name, rawOffset, hasOffset := strings.Cut(rest, offsetSep)
	offset := 0
	if hasOffset {
		n, err := strconv.Atoi(strings.TrimSpace(rawOffset))
		if err != nil {
			return Parsed{}, fmt.Errorf("%w: invalid offset %q", ErrMalformed, rawOffset)
		}
		offset = n
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = p.defaultLocale()
	}
	return Parsed{Template: format, Locale: name, Offset: offset}, nil
}
