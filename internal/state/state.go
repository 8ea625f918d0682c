// Package state tracks the active browser session between invocations.
// Only one session is tracked at a time; saving a new one overwrites the old.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// TempSessionPrefix marks machine-generated ephemeral session names.
const TempSessionPrefix = "temp-"

// Session is the on-disk session marker.
type Session struct {
	HARRecording bool       `json:"harRecording"`
	StartedAt    *time.Time `json:"startedAt,omitempty"`
	SessionName  string     `json:"sessionName,omitempty"`
}

// Ephemeral reports whether the session name was generated rather than
// supplied by the user.
func (s *Session) Ephemeral() bool {
	return s != nil && strings.HasPrefix(s.SessionName, TempSessionPrefix)
}

// Store persists the session marker. Load returns nil, nil when no session
// is tracked.
type Store interface {
	Load() (*Session, error)
	Save(s *Session) error
	Clear() error
}

// FileStore keeps the marker in a JSON file.
type FileStore struct {
	Path string
}

// NewFileStore returns a store backed by session.json inside dir.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Path: filepath.Join(dir, "session.json")}
}

// Load loads the session file
func (f *FileStore) Load() (*Session, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("corrupt session file %s: %w", f.Path, err)
	}
	return &s, nil
}

// Save overwrites the session file
func (f *FileStore) Save(s *Session) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(f.Path, data, 0600)
}

// Clear removes the session file
func (f *FileStore) Clear() error {
	if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// MemoryStore is an in-process Store.
type MemoryStore struct {
	mu      sync.Mutex
	session *Session
}

// NewMemoryStore returns a store holding s (which may be nil).
func NewMemoryStore(s *Session) *MemoryStore {
	return &MemoryStore{session: s}
}

func (m *MemoryStore) Load() (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil, nil
	}
	cp := *m.session
	return &cp, nil
}

func (m *MemoryStore) Save(s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.session = &cp
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	return nil
}
