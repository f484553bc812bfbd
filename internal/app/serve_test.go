package app

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/agis/stenotime/internal/contract"
	"github.com/agis/stenotime/internal/dictionary"
	"github.com/agis/stenotime/internal/locale"
	"github.com/agis/stenotime/internal/state"
)

func serveDictionary(store state.Store) *dictionary.Dictionary {
	return dictionary.New(dictionary.Options{
		DefaultLocale: "en_US",
		Location:      time.UTC,
		Now:           func() time.Time { return time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC) },
		Store:         store,
		Ambient:       locale.NewAmbient(locale.POSIX),
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func decodeResponses(t *testing.T, raw string) []contract.ServeResponse {
	t.Helper()
	var out []contract.ServeResponse
	sc := bufio.NewScanner(strings.NewReader(raw))
	for sc.Scan() {
		var r contract.ServeResponse
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			t.Fatalf("decode %q: %v", sc.Text(), err)
		}
		out = append(out, r)
	}
	return out
}

func TestServeAnswersEachLine(t *testing.T) {
	in := strings.Join([]string{
		`{"strokes":["Z-D","U"]}`,
		``,
		`{"text":"time:%A>>fr_FR"}`,
		`{"strokes":["Z-D","X"]}`,
		`{"op":"reverse_lookup","text":"Friday"}`,
		`not json`,
		`{"op":"lookup"}`,
		`{"op":"delete"}`,
	}, "\n")
	var out bytes.Buffer
	d := serveDictionary(state.Nop{})
	if err := serve(context.Background(), d, strings.NewReader(in), &out, slog.New(slog.NewTextHandler(io.Discard, nil))); err != nil {
		t.Fatalf("serve: %v", err)
	}
	got := decodeResponses(t, out.String())
	if len(got) != 7 {
		t.Fatalf("expected 7 responses, got %d: %s", len(got), out.String())
	}
	if !got[0].Found || got[0].Translation != "KW 11: Saturday 16.03.2024" {
		t.Fatalf("response 0: %+v", got[0])
	}
	if !got[1].Found || got[1].Translation != "vendredi" {
		t.Fatalf("response 1: %+v", got[1])
	}
	if got[2].Found || got[2].Code != contract.ErrNotRecognized {
		t.Fatalf("response 2: %+v", got[2])
	}
	if got[3].Found || len(got[3].Reverse) != 0 || got[3].Code != "" {
		t.Fatalf("response 3: %+v", got[3])
	}
	for i := 4; i < 7; i++ {
		if got[i].Code != contract.ErrInvalidUsage || got[i].Error == "" {
			t.Fatalf("response %d: %+v", i, got[i])
		}
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	var out bytes.Buffer
	go func() {
		done <- serve(ctx, serveDictionary(state.Nop{}), pr, &out, slog.New(slog.NewTextHandler(io.Discard, nil)))
	}()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("serve did not stop after cancel")
	}
}

func TestServeCommandClearsRecordOnExit(t *testing.T) {
	tmp := isolateConfig(t)
	path := filepath.Join(tmp, "offset.json")
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(`{"strokes":["Z-TZ","EU"]}` + "\n"))
	cmd.SetArgs([]string{"serve", "--state", "file", "--state-path", path, "--locale", "en_US"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("serve failed: %v", err)
	}
	got := decodeResponses(t, out.String())
	if len(got) != 1 || !got[0].Found || !strings.HasSuffix(got[0].Translation, "_") {
		t.Fatalf("unexpected responses: %s", out.String())
	}
	n, err := state.NewFileStore(path).Offset()
	if err != nil || n != 0 {
		t.Fatalf("expected cleared record, got %d err=%v", n, err)
	}
}
