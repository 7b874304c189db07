package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"
)

// FilesystemCriticalError wraps an I/O error that indicates the token
// store cannot function at all (disk full, filesystem read-only) rather
// than a transient or missing-file condition. Callers should treat this
// as fatal instead of silently continuing unauthenticated.
type FilesystemCriticalError struct {
	Path string
	Err  error
}

func (e *FilesystemCriticalError) Error() string {
	return fmt.Sprintf("critical filesystem error at %s: %v", e.Path, e.Err)
}

func (e *FilesystemCriticalError) Unwrap() error { return e.Err }

func isCriticalFSError(err error) bool {
	return errors.Is(err, syscall.ENOSPC) || errors.Is(err, syscall.EROFS)
}

const (
	oauth1FileName = "oauth1_token.json"
	oauth2FileName = "oauth2_token.json"
)

// Store persists the OAuth1 and OAuth2 halves of the credential pair as
// two independent JSON files under dir, each written with a
// write-to-temp, rename-into-place sequence so a crash mid-write never
// leaves a corrupt or partial file behind. Keeping them separate means a
// corrupt oauth2_token.json (say, from a crash during a token refresh)
// never takes the still-good oauth1_token.json down with it.
type Store struct {
	dir string
}

// NewStore returns a Store backed by the oauth1/oauth2 token files
// under dir.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) oauth1Path() string { return filepath.Join(s.dir, oauth1FileName) }
func (s *Store) oauth2Path() string { return filepath.Join(s.dir, oauth2FileName) }

// Load reads both token files independently. A missing file is not an
// error: "never logged in" is expected. Malformed JSON in one file is
// logged and treated as absent for that file only; the other file is
// still loaded, so a login is required only for the half that is
// actually unusable.
func (s *Store) Load() (*Tokens, error) {
	oauth1, err := loadHalf[OAuth1Token](s.oauth1Path())
	if err != nil {
		return nil, err
	}
	oauth2, err := loadHalf[OAuth2Token](s.oauth2Path())
	if err != nil {
		return nil, err
	}
	return &Tokens{OAuth1: oauth1, OAuth2: oauth2}, nil
}

// loadHalf reads and unmarshals one token file. A missing file returns
// (nil, nil). A critical filesystem error is fatal. A parse error is
// logged and treated as absent, per the "corrupt token = treated as
// absent" contract.
func loadHalf[T any](path string) (*T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		if isCriticalFSError(err) {
			return nil, &FilesystemCriticalError{Path: path, Err: err}
		}
		return nil, fmt.Errorf("read token file %s: %w", path, err)
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		slog.Warn("discarding corrupt token file, treating as absent", "path", path, "error", err)
		return nil, nil
	}
	return &v, nil
}

// Save atomically writes each non-nil half of tokens to its own file,
// creating the parent directory if needed and restricting permissions
// to the owner. A nil half is left untouched on disk.
func (s *Store) Save(tokens *Tokens) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		if isCriticalFSError(err) {
			return &FilesystemCriticalError{Path: s.dir, Err: err}
		}
		return fmt.Errorf("create token directory: %w", err)
	}

	if tokens.OAuth1 != nil {
		if err := writeAtomic(s.dir, s.oauth1Path(), tokens.OAuth1); err != nil {
			return err
		}
	}
	if tokens.OAuth2 != nil {
		if err := writeAtomic(s.dir, s.oauth2Path(), tokens.OAuth2); err != nil {
			return err
		}
	}
	return nil
}

func writeAtomic(dir, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}

	tmp, err := os.CreateTemp(dir, ".token-*.tmp")
	if err != nil {
		if isCriticalFSError(err) {
			return &FilesystemCriticalError{Path: dir, Err: err}
		}
		return fmt.Errorf("create temp token file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		if isCriticalFSError(err) {
			return &FilesystemCriticalError{Path: tmpPath, Err: err}
		}
		return fmt.Errorf("write temp token file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		if isCriticalFSError(err) {
			return &FilesystemCriticalError{Path: tmpPath, Err: err}
		}
		return fmt.Errorf("close temp token file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		if isCriticalFSError(err) {
			return &FilesystemCriticalError{Path: path, Err: err}
		}
		return fmt.Errorf("rename token file into place: %w", err)
	}
	return nil
}

// Clear removes both token files from disk. A missing file is not an
// error.
func (s *Store) Clear() error {
	for _, path := range []string{s.oauth1Path(), s.oauth2Path()} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove token file %s: %w", path, err)
		}
	}
	return nil
}
