package cache

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultDir is the directory under the user's home used by NewHome.
const DefaultDir = ".apicache"

// Mode selects a Backend implementation.
type Mode string

const (
	ModeNone Mode = "none"
	ModeHome Mode = "home"
	ModeDir  Mode = "dir"
)

// ParseMode validates s as a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeNone, ModeHome, ModeDir:
		return m, nil
	default:
		return "", fmt.Errorf("unknown cache mode %q (want none, home or dir)", s)
	}
}

// NewHome returns a FileBackend rooted at DefaultDir in the user's home
// directory, creating it if needed.
func NewHome(opts ...Option) (*FileBackend, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("locate home directory: %w", err)
	}
	dir := filepath.Join(home, DefaultDir)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, &StorageError{Op: "mkdir", Path: dir, Err: err}
	}
	return newFileBackend(dir, opts...), nil
}

// NewDir returns a FileBackend rooted at dir, which must already exist.
func NewDir(dir string, opts ...Option) (*FileBackend, error) {
	if dir == "" {
		return nil, fmt.Errorf("cache directory required")
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("cache directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("cache directory %s is not a directory", dir)
	}
	return newFileBackend(dir, opts...), nil
}

// New builds the Backend selected by mode. dir is only used by ModeDir.
func New(mode Mode, dir string, opts ...Option) (Backend, error) {
	switch mode {
	case ModeNone:
		return NewNoop(), nil
	case ModeHome:
		fb, err := NewHome(opts...)
		if err != nil {
			return nil, err
		}
		return fb, nil
	case ModeDir:
		fb, err := NewDir(dir, opts...)
		if err != nil {
			return nil, err
		}
		return fb, nil
	default:
		return nil, fmt.Errorf("unknown cache mode %q", mode)
	}
}
