package auth

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/example/pewma/pkg/models"
)

const slotPrefix = "pewma_auth_"

// Slot caches the authenticated user on the local machine, one entry per key
type Slot interface {
	Load(key string) (*models.AuthData, error)
	Save(key string, data models.AuthData) error
	Clear(key string) error
	Keys() ([]string, error)
}

// FileSlot stores each entry as a JSON file in Dir
type FileSlot struct {
	Dir string
}

// NewFileSlot creates a slot rooted at dir
func NewFileSlot(dir string) *FileSlot {
	return &FileSlot{Dir: dir}
}

func (s *FileSlot) path(key string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, key)
	return filepath.Join(s.Dir, slotPrefix+clean+".json")
}

// Load returns the cached entry, or nil when there is none
func (s *FileSlot) Load(key string) (*models.AuthData, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read auth slot: %w", err)
	}

	var auth models.AuthData
	if err := json.Unmarshal(data, &auth); err != nil {
		return nil, fmt.Errorf("parse auth slot: %w", err)
	}
	return &auth, nil
}

// Save replaces the cached entry
func (s *FileSlot) Save(key string, auth models.AuthData) error {
	if err := os.MkdirAll(s.Dir, 0o700); err != nil {
		return fmt.Errorf("create auth slot directory: %w", err)
	}

	data, err := json.MarshalIndent(auth, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal auth slot: %w", err)
	}

	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write auth slot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace auth slot: %w", err)
	}
	return nil
}

// Clear removes the cached entry; clearing a missing entry is not an error
func (s *FileSlot) Clear(key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove auth slot: %w", err)
	}
	return nil
}

// Keys lists the keys that currently have an entry
func (s *FileSlot) Keys() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list auth slots: %w", err)
	}

	var keys []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, slotPrefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(strings.TrimPrefix(name, slotPrefix), ".json"))
	}
	sort.Strings(keys)
	return keys, nil
}
