package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tartampluch/hpde-analytics/internal/config"
)

// ErrNoTokens is returned when no usable access tokens are stored.
var ErrNoTokens = errors.New(config.ErrNoTokens)

// Tokens are the persisted OAuth access credentials and the profile
// details learned while validating them.
type Tokens struct {
	AccessToken       string           `json:"access_token"`
	AccessTokenSecret string           `json:"access_token_secret"`
	ProfileID         string           `json:"profile_id"`
	Organizations     []map[string]any `json:"organizations"`
}

// Valid reports whether both token halves are present.
func (t Tokens) Valid() bool {
	return t.AccessToken != "" && t.AccessTokenSecret != ""
}

// TokenStore persists access tokens between runs.
type TokenStore interface {
	Load() (Tokens, error)
	Save(Tokens) error
	Clear() error
}

// FileTokenStore keeps tokens in a JSON file readable by the owner only.
type FileTokenStore struct {
	Path string
}

// Load reads the token file. A missing file or incomplete tokens yield ErrNoTokens.
func (s *FileTokenStore) Load() (Tokens, error) {
	content, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return Tokens{}, ErrNoTokens
	}
	if err != nil {
		return Tokens{}, fmt.Errorf("%s: %w", config.ErrTokenLoad, err)
	}

	var t Tokens
	if err := json.Unmarshal(content, &t); err != nil {
		return Tokens{}, fmt.Errorf("%s: %w", config.ErrTokenLoad, err)
	}
	if !t.Valid() {
		return Tokens{}, ErrNoTokens
	}
	return t, nil
}

// Save writes the tokens, creating the parent directory when needed.
func (s *FileTokenStore) Save(t Tokens) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), config.DirPermUserRWX); err != nil {
		return fmt.Errorf("%s: %w", config.ErrTokenSave, err)
	}

	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrTokenSave, err)
	}
	if err := os.WriteFile(s.Path, data, config.FilePermUserRW); err != nil {
		return fmt.Errorf("%s: %w", config.ErrTokenSave, err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(s.Path, config.FilePermUserRW); err != nil {
		return fmt.Errorf("%s: %w", config.ErrTokenSave, err)
	}
	return nil
}

// Clear deletes the token file.
func (s *FileTokenStore) Clear() error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
