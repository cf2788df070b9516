package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/notegenius/notegenius/internal/model"
)

// FileTokenStore persists the credential as token.json under the user config
// directory, so a session survives process restarts.
type FileTokenStore struct {
	dir string
}

// NewFileTokenStore uses dir, or the XDG-style default when dir is empty.
func NewFileTokenStore(dir string) *FileTokenStore {
	if dir == "" {
		dir = defaultConfigDir()
	}
	return &FileTokenStore{dir: dir}
}

func defaultConfigDir() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "notegenius")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "notegenius")
}

type tokenFile struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (s *FileTokenStore) path() string { return filepath.Join(s.dir, "token.json") }

// Save writes the credential with 0600 permissions.
func (s *FileTokenStore) Save(toks model.Tokens) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(tokenFile{AccessToken: toks.AccessToken, ExpiresAt: toks.ExpiresAt}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(), b, 0o600)
}

// Load returns the stored credential, failing when absent or expired.
func (s *FileTokenStore) Load() (model.Tokens, error) {
	b, err := os.ReadFile(s.path())
	if err != nil {
		return model.Tokens{}, err
	}
	var tf tokenFile
	if err := json.Unmarshal(b, &tf); err != nil {
		return model.Tokens{}, err
	}
	if tf.AccessToken == "" || time.Now().After(tf.ExpiresAt) {
		return model.Tokens{}, errors.New("no valid token (login required)")
	}
	return model.Tokens{AccessToken: tf.AccessToken, ExpiresAt: tf.ExpiresAt}, nil
}

// Clear removes the token file; a missing file is not an error.
func (s *FileTokenStore) Clear() error {
	err := os.Remove(s.path())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
