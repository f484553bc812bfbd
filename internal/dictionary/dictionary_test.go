package dictionary

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agis/stenotime/internal/locale"
	"github.com/agis/stenotime/internal/state"
	"github.com/agis/stenotime/internal/stroke"
)

// Friday 2024-03-15, ISO week 11.
var testNow = time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

func newTestDictionary(t *testing.T, defaultLocale string) (*Dictionary, *state.Memory, *locale.Ambient) {
	t.Helper()
	store := &state.Memory{}
	ambient := locale.NewAmbient("en_US")
	d := New(Options{
		DefaultLocale: defaultLocale,
		Location:      time.UTC,
		Now:           func() time.Time { return testNow },
		Store:         store,
		Ambient:       ambient,
	})
	return d, store, ambient
}

func TestLookupScenarios(t *testing.T) {
	d, _, _ := newTestDictionary(t, "en_US")
	cases := []struct {
		key  Key
		want string
	}{
		{Strokes("WeekDate"), "KW 11: Friday 15.03.2024"},
		{Strokes("WeekDate", "ForwardOneDay"), "KW 11: Saturday 16.03.2024"},
		{Strokes("WeekDate", "BackwardOneWeek"), "KW 10: Friday 08.03.2024"},
		{Text("time:%Y-%m-%d>>en_GB"), "2024-03-15"},
		{Text("time:%Y-%m-%d>>"), "2024-03-15"},
		{Strokes("Z-TZ"), "2024-03-15_"},
		{Strokes("Z-Z", "U"), "Saturday"},
		{Strokes("Z-DZ", "EU"), "KW 15: Friday 12.04.2024 14:30"},
		{Text("time:%A %H:%M>>en_GB|-1"), "Thursday 14:30"},
	}
	for _, tc := range cases {
		got, ok := d.Lookup(tc.key)
		if !ok {
			t.Fatalf("Lookup(%s) not recognized", tc.key)
		}
		if got != tc.want {
			t.Fatalf("Lookup(%s) = %q, want %q", tc.key, got, tc.want)
		}
	}
}

func TestLookupGermanDefault(t *testing.T) {
	d, _, _ := newTestDictionary(t, "")
	got, ok := d.Lookup(Strokes("Z-D"))
	if !ok || got != "KW 11: Freitag 15.03.2024" {
		t.Fatalf("Lookup = %q, %v", got, ok)
	}
	got, ok = d.Lookup(Text("time:%A>>"))
	if !ok || got != "Freitag" {
		t.Fatalf("empty locale fallback = %q, %v", got, ok)
	}
}

func TestLookupBareCommandsUseZeroOffset(t *testing.T) {
	d, store, _ := newTestDictionary(t, "en_US")
	for _, c := range stroke.Commands {
		byName, ok := d.Lookup(Strokes(c.Name))
		if !ok {
			t.Fatalf("%s not recognized", c.Name)
		}
		byStroke, ok := d.Lookup(Strokes(c.Stroke))
		if !ok || byStroke != byName {
			t.Fatalf("%s: stroke %q gave %q, name gave %q", c.Name, c.Stroke, byStroke, byName)
		}
		if n, _ := store.Offset(); n != 0 {
			t.Fatalf("%s: recorded offset %d", c.Name, n)
		}
	}
}

func TestLookupNotRecognized(t *testing.T) {
	d, _, _ := newTestDictionary(t, "en_US")
	keys := []Key{
		Strokes("WeekDate", "Bogus"),
		Strokes("Z-D", "U", "O", "#"),
		Strokes("Nope"),
		Strokes(),
		Text("date:%Y"),
		Text("time:"),
		Text("time:%A>>en_GB|soon"),
	}
	for _, k := range keys {
		if got, ok := d.Lookup(k); ok || got != "" {
			t.Fatalf("Lookup(%s) = %q, %v; want not recognized", k, got, ok)
		}
		if _, err := d.Translate(k); !errors.Is(err, stroke.ErrNotRecognized) {
			t.Fatalf("Translate(%s) err=%v", k, err)
		}
	}
}

func TestLookupAdvisoryOffset(t *testing.T) {
	d, store, _ := newTestDictionary(t, "en_US")

	d.Lookup(Strokes("Z-D", "O", "U"))
	if n, _ := store.Offset(); n != 8 {
		t.Fatalf("offset after success = %d", n)
	}
	d.Lookup(Strokes("Z-D", "O", "bogus"))
	if n, _ := store.Offset(); n != 0 || !store.Written() {
		t.Fatalf("offset after modifier reject = %d", n)
	}
	d.Lookup(Strokes("Z-Q", "A"))
	if n, _ := store.Offset(); n != -7 {
		t.Fatalf("offset after unknown command = %d", n)
	}
	if n, ok := d.LastOffset(); !ok || n != -7 {
		t.Fatalf("LastOffset = %d, %v", n, ok)
	}

	store.SetOffset(99)
	got, _ := d.Lookup(Strokes("Z-TZ"))
	if got != "2024-03-15_" {
		t.Fatalf("stored offset leaked into translation: %q", got)
	}
	d.Lookup(Text("time:%Y>>en_US|5"))
	if n, _ := store.Offset(); n != 0 {
		t.Fatalf("text form must not record, got %d", n)
	}

	if err := d.Close(); err != nil {
		t.Fatal(err)
	}
	if store.Written() {
		t.Fatalf("Close did not clear advisory state")
	}
}

type brokenStore struct{ state.Nop }

func (brokenStore) SetOffset(int) error { return errors.New("read-only file system") }

func TestLookupIgnoresStoreFailures(t *testing.T) {
	d := New(Options{
		DefaultLocale: "en_US",
		Now:           func() time.Time { return testNow },
		Location:      time.UTC,
		Store:         brokenStore{},
		Ambient:       locale.NewAmbient(""),
	})
	got, ok := d.Lookup(Strokes("Z-D", "U"))
	if !ok || got != "KW 11: Saturday 16.03.2024" {
		t.Fatalf("Lookup = %q, %v", got, ok)
	}
}

func TestLookupFileStoreUnwritable(t *testing.T) {
	dir := t.TempDir()
	// A regular file where the state directory should be.
	blocker := filepath.Join(dir, "blocker")
	if err := state.NewFileStore(blocker).SetOffset(1); err != nil {
		t.Fatal(err)
	}
	d := New(Options{
		DefaultLocale: "en_US",
		Now:           func() time.Time { return testNow },
		Store:         state.NewFileStore(filepath.Join(blocker, "date_offset.json")),
		Ambient:       locale.NewAmbient(""),
	})
	if _, ok := d.Lookup(Strokes("Z-Z")); !ok {
		t.Fatalf("lookup failed because of state store")
	}
}

func TestLookupErrorMarkers(t *testing.T) {
	d, _, ambient := newTestDictionary(t, "en_US")

	got, ok := d.Lookup(Text("time:%A>>xx_YY"))
	if !ok || got != "[Locale Error: xx_YY]" {
		t.Fatalf("locale marker = %q, %v", got, ok)
	}
	got, ok = d.Lookup(Text("time:%Q>>en_GB"))
	if !ok || !strings.HasPrefix(got, "[Format Error:") {
		t.Fatalf("format marker = %q, %v", got, ok)
	}
	tr, err := d.Translate(Text("time:%Q>>en_GB"))
	if err != nil || tr.Err == nil {
		t.Fatalf("Translate = %+v, %v", tr, err)
	}
	if got := ambient.Current(); got != "en_US" {
		t.Fatalf("ambient locale after errors = %q", got)
	}
}

func TestLookupRestoresAmbientLocale(t *testing.T) {
	d, _, ambient := newTestDictionary(t, "de_DE")
	for _, k := range []Key{Text("time:%Y-%m-%d>>en_GB"), Strokes("Z-D"), Text("time:%A>>fr_FR")} {
		if _, ok := d.Lookup(k); !ok {
			t.Fatalf("Lookup(%s) failed", k)
		}
		if got := ambient.Current(); got != "en_US" {
			t.Fatalf("after %s ambient = %q", k, got)
		}
	}
}

func TestAttachPrefix(t *testing.T) {
	d := New(Options{
		DefaultLocale: "en_US",
		Now:           func() time.Time { return testNow },
		Location:      time.UTC,
		Attach:        true,
		Ambient:       locale.NewAmbient(""),
	})
	got, ok := d.Lookup(Strokes("Z-TZ"))
	if !ok || got != "{^}2024-03-15_" {
		t.Fatalf("Lookup = %q, %v", got, ok)
	}
	got, _ = d.Lookup(Text("time:%A>>xx_YY"))
	if got != "[Locale Error: xx_YY]" {
		t.Fatalf("markers must not be attached: %q", got)
	}
}

func TestReverseLookupEmpty(t *testing.T) {
	d, _, _ := newTestDictionary(t, "en_US")
	got := d.ReverseLookup("KW 11: Friday 15.03.2024")
	if got == nil || len(got) != 0 {
		t.Fatalf("ReverseLookup = %#v", got)
	}
	if d.LongestKey() != stroke.LongestKey {
		t.Fatalf("LongestKey = %d", d.LongestKey())
	}
}

func TestKeyString(t *testing.T) {
	if got := Strokes("Z-D", "U").String(); got != "Z-D/U" {
		t.Fatalf("String = %q", got)
	}
	if k := Text("time:%A"); !k.IsText() || k.String() != "time:%A" {
		t.Fatalf("text key = %+v", k)
	}
}

func TestReleaseKeepsAdvisoryState(t *testing.T) {
	d, store, _ := newTestDictionary(t, "en_US")
	d.Lookup(Strokes("Z-D", "O"))
	if err := d.Release(); err != nil {
		t.Fatal(err)
	}
	if n, _ := store.Offset(); n != 7 || !store.Written() {
		t.Fatalf("Release cleared state: %d", n)
	}
}
