package session

import (
	"os"
	"strconv"
	"sync"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Cookie is one entry of the persisted session state.
type Cookie struct {
	Name   string
	Value  string
	Domain string
}

// StateStore persists the browser session state (cookies) as JSON on disk.
// It is the only resource shared across bulk-mode workers, so every access
// holds the mutex for the full read or write.
type StateStore struct {
	mu   sync.Mutex
	path string
}

func NewStateStore(path string) *StateStore {
	return &StateStore{path: path}
}

// Exists reports whether a state snapshot is present on disk.
func (s *StateStore) Exists() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := os.Stat(s.path)
	return err == nil
}

// Snapshot returns the raw state JSON, or "" when none has been saved.
func (s *StateStore) Snapshot() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Save replaces the state snapshot on disk.
func (s *StateStore) Save(raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return os.WriteFile(s.path, []byte(raw), 0o600)
}

// Cookies parses the cookie list out of the snapshot.
func (s *StateStore) Cookies() ([]Cookie, error) {
	raw, err := s.Snapshot()
	if err != nil || raw == "" {
		return nil, err
	}
	var cookies []Cookie
	gjson.Get(raw, "cookies").ForEach(func(_, entry gjson.Result) bool {
		cookies = append(cookies, Cookie{
			Name:   entry.Get("name").String(),
			Value:  entry.Get("value").String(),
			Domain: entry.Get("domain").String(),
		})
		return true
	})
	return cookies, nil
}

// SetCookie updates or appends one cookie in the snapshot.
func (s *StateStore) SetCookie(c Cookie) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw := "{}"
	if data, err := os.ReadFile(s.path); err == nil {
		raw = string(data)
	}

	idx := -1
	gjson.Get(raw, "cookies").ForEach(func(i, entry gjson.Result) bool {
		if entry.Get("name").String() == c.Name && entry.Get("domain").String() == c.Domain {
			idx = int(i.Int())
			return false
		}
		return true
	})

	key := "cookies.-1"
	if idx >= 0 {
		key = "cookies." + strconv.Itoa(idx)
	}
	updated, err := sjson.Set(raw, key, map[string]any{
		"name":   c.Name,
		"value":  c.Value,
		"domain": c.Domain,
	})
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte(updated), 0o600)
}
