package timefmt

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/goodsign/monday"
	"github.com/ncruces/go-strftime"
)

var ErrFormatInvalid = errors.New("invalid format")

// Directives rendered by go-strftime unchanged. None of them carry
// locale-dependent names.
const passthrough = "CdDeFgGHIjmMnprRStTuUVwWyYzZ%"

// Render expands strftime-style directives in layout against t. Weekday
// and month names come from loc.
func Render(layout string, t time.Time, loc monday.Locale) (string, error) {
	var b strings.Builder
	b.Grow(len(layout) + 16)
	for i := 0; i < len(layout); i++ {
		c := layout[i]
		if c != '%' {
			b.WriteByte(c)
			continue
		}
		if i+1 >= len(layout) {
			return "", fmt.Errorf("%w: trailing %%", ErrFormatInvalid)
		}
		r, size := utf8.DecodeRuneInString(layout[i+1:])
		i += size
		s, err := directive(r, t, loc)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

func directive(r rune, t time.Time, loc monday.Locale) (string, error) {
	switch r {
	case 'a':
		return monday.Format(t, "Mon", loc), nil
	case 'A':
		return monday.Format(t, "Monday", loc), nil
	case 'b', 'h':
		return monday.Format(t, "Jan", loc), nil
	case 'B':
		return monday.Format(t, "January", loc), nil
	case 'c':
		return Render("%a %b %e %H:%M:%S %Y", t, loc)
	case 'x':
		return Render("%m/%d/%y", t, loc)
	case 'X':
		return Render("%H:%M:%S", t, loc)
	case 'f':
		return fmt.Sprintf("%06d", t.Nanosecond()/int(time.Microsecond)), nil
	case 's':
		return strconv.FormatInt(t.Unix(), 10), nil
	case 'k':
		return fmt.Sprintf("%2d", t.Hour()), nil
	case 'l':
		h := t.Hour() % 12
		if h == 0 {
			h = 12
		}
		return fmt.Sprintf("%2d", h), nil
	case 'P':
		return strings.ToLower(strftime.Format("%p", t)), nil
	}
	if r < utf8.RuneSelf && strings.ContainsRune(passthrough, r) {
		return strftime.Format("%"+string(r), t), nil
	}
	return "", fmt.Errorf("%w: unsupported directive %%%c", ErrFormatInvalid, r)
}
