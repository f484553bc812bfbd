// Package dictionary adapts the stroke parser and the date formatter to the
// lookup contract of a steno dictionary host.
package dictionary

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/agis/stenotime/internal/locale"
	"github.com/agis/stenotime/internal/state"
	"github.com/agis/stenotime/internal/stroke"
	"github.com/agis/stenotime/internal/timefmt"
)

// AttachPrefix is the Plover operator that suppresses the space before a
// translation.
const AttachPrefix = "{^}"

// Translator is the surface a dictionary host calls.
type Translator interface {
	Lookup(Key) (string, bool)
	ReverseLookup(string) []string
}

// Key is either a stroke sequence or a "time:" string.
type Key struct {
	strokes []string
	text    string
	isText  bool
}

func Strokes(s ...string) Key {
	return Key{strokes: append([]string(nil), s...)}
}

func Text(s string) Key {
	return Key{text: s, isText: true}
}

func (k Key) IsText() bool { return k.isText }

func (k Key) String() string {
	if k.isText {
		return k.text
	}
	return strings.Join(k.strokes, "/")
}

// Translation describes a recognized key. Err is set when the key was
// recognized but could not be rendered; Text then holds the error marker.
type Translation struct {
	Key      string `json:"key"`
	Command  string `json:"command,omitempty"`
	Template string `json:"template"`
	Locale   string `json:"locale"`
	Offset   int    `json:"offset"`
	Text     string `json:"text"`
	Err      error  `json:"-"`
}

type Options struct {
	DefaultLocale string
	Location      *time.Location
	Now           func() time.Time
	Attach        bool
	Store         state.Store
	Ambient       *locale.Ambient
	Logger        *slog.Logger
}

type Dictionary struct {
	parser    stroke.Parser
	formatter *timefmt.Formatter
	advisor   *state.Advisor
	attach    bool
	log       *slog.Logger
}

var _ Translator = (*Dictionary)(nil)

func New(opts Options) *Dictionary {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Dictionary{
		parser: stroke.Parser{DefaultLocale: opts.DefaultLocale},
		formatter: &timefmt.Formatter{
			Ambient:  opts.Ambient,
			Now:      opts.Now,
			Location: opts.Location,
		},
		advisor: state.NewAdvisor(opts.Store, log),
		attach:  opts.Attach,
		log:     log,
	}
}

// Lookup returns the translation for key, or false when the key is not
// recognized. Recognized keys that fail to render yield a bracketed error
// marker rather than false.
func (d *Dictionary) Lookup(key Key) (string, bool) {
	tr, err := d.Translate(key)
	if err != nil {
		return "", false
	}
	return tr.Text, true
}

// ReverseLookup is unsupported; it always returns an empty result.
func (d *Dictionary) ReverseLookup(string) []string {
	return []string{}
}

// LongestKey is the maximum number of strokes Lookup accepts.
func (d *Dictionary) LongestKey() int { return stroke.LongestKey }

// Translate is Lookup with the parse details kept. The only error it
// returns wraps stroke.ErrNotRecognized.
func (d *Dictionary) Translate(key Key) (tr Translation, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("lookup panicked", "key", key.String(), "panic", r)
			tr, err = Translation{}, fmt.Errorf("%w: %v", stroke.ErrNotRecognized, r)
		}
	}()

	parsed, err := d.parse(key)
	if err != nil {
		d.log.Debug("key not recognized", "key", key.String(), "err", err)
		return Translation{}, err
	}
	tr = Translation{
		Key:      key.String(),
		Command:  parsed.Command,
		Template: parsed.Template,
		Locale:   parsed.Locale,
		Offset:   parsed.Offset,
	}
	out, ferr := d.formatter.Format(parsed.Template, parsed.Locale, parsed.Offset)
	if ferr != nil {
		d.log.Warn("render failed", "key", tr.Key, "locale", parsed.Locale, "err", ferr)
		tr.Text, tr.Err = timefmt.Marker(ferr), ferr
		return tr, nil
	}
	if d.attach {
		out = AttachPrefix + out
	}
	tr.Text = out
	d.log.Debug("translated", "key", tr.Key, "offset", tr.Offset, "text", out)
	return tr, nil
}

func (d *Dictionary) parse(key Key) (stroke.Parsed, error) {
	if key.isText {
		return d.parser.ParseText(key.text)
	}
	parsed, err := d.parser.ParseStrokes(key.strokes)
	if err == nil || errors.Is(err, stroke.ErrUnknownModifier) || errors.Is(err, stroke.ErrUnknownCommand) {
		d.advisor.Record(parsed.Offset)
	}
	return parsed, err
}

// LastOffset reports the advisory offset of the most recent stroke lookup.
func (d *Dictionary) LastOffset() (int, bool) {
	return d.advisor.Last()
}

// Close clears the advisory record and releases the store. Hosts call it
// once at shutdown.
func (d *Dictionary) Close() error {
	d.advisor.Clear()
	return d.advisor.Close()
}

// Release closes the store and leaves the advisory record in place, for
// callers that do not own the host lifetime.
func (d *Dictionary) Release() error {
	return d.advisor.Close()
}
