// Package state keeps the advisory record of the last computed day offset.
// The record is diagnostic only: nothing reads it back into a translation,
// and failures to read or write it never reach a lookup.
package state

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

type Store interface {
	Offset() (int, error)
	SetOffset(int) error
	Clear() error
	Close() error
}

const (
	KindFile   = "file"
	KindSQLite = "sqlite"
	KindNone   = "none"
)

// DefaultDir is the per-user temp location of the advisory record.
func DefaultDir() string {
	return filepath.Join(os.TempDir(), "stenotime")
}

// Open selects a store by kind. An empty path uses the default location
// for that kind.
func Open(kind, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", KindFile:
		if strings.TrimSpace(path) == "" {
			path = filepath.Join(DefaultDir(), "date_offset.json")
		}
		return NewFileStore(path), nil
	case KindSQLite:
		if strings.TrimSpace(path) == "" {
			path = filepath.Join(DefaultDir(), "state.db")
		}
		return OpenSQLite(path)
	case KindNone:
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown state store: %s", kind)
	}
}

type Nop struct{}

func (Nop) Offset() (int, error) { return 0, nil }
func (Nop) SetOffset(int) error  { return nil }
func (Nop) Clear() error         { return nil }
func (Nop) Close() error         { return nil }

// Memory is an in-process Store.
type Memory struct {
	mu     sync.Mutex
	offset int
	set    bool
}

func (m *Memory) Offset() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.offset, nil
}

func (m *Memory) SetOffset(n int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.offset, m.set = n, true
	return nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.offset, m.set = 0, false
	return nil
}

func (m *Memory) Close() error { return nil }

// Written reports whether an offset has been recorded since the last Clear.
func (m *Memory) Written() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.set
}

// Advisor records offsets into a Store on a best-effort basis.
type Advisor struct {
	store Store
	log   *slog.Logger
}

func NewAdvisor(store Store, log *slog.Logger) *Advisor {
	if store == nil {
		store = Nop{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Advisor{store: store, log: log}
}

func (a *Advisor) Record(offset int) {
	if err := a.store.SetOffset(offset); err != nil {
		a.log.Debug("advisory offset not saved", "offset", offset, "err", err)
	}
}

// Last returns the recorded offset; ok is false when it cannot be read.
func (a *Advisor) Last() (offset int, ok bool) {
	n, err := a.store.Offset()
	if err != nil {
		a.log.Debug("advisory offset not readable", "err", err)
		return 0, false
	}
	return n, true
}

func (a *Advisor) Clear() {
	if err := a.store.Clear(); err != nil {
		a.log.Debug("advisory offset not cleared", "err", err)
	}
}

func (a *Advisor) Close() error {
	return a.store.Close()
}
