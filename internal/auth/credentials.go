// Package auth handles consumer credentials, access tokens and the
// three-legged OAuth 1.0a flow against MotorsportReg.
package auth

import (
	"errors"
	"fmt"
	"os"

	"github.com/tartampluch/hpde-analytics/internal/config"
	"github.com/zalando/go-keyring"
	"go.uber.org/zap"
)

// ErrNoCredentials is returned when neither the keyring nor the
// environment holds a consumer key and secret.
var ErrNoCredentials = errors.New(config.ErrNoCredentials)

// Source names where credentials were found.
type Source string

const (
	SourceKeyring Source = "keyring"
	SourceEnv     Source = "environment"
	SourceNone    Source = "none"
)

// Credentials is an OAuth consumer key pair.
type Credentials struct {
	ConsumerKey    string
	ConsumerSecret string
}

// Complete reports whether both halves are present.
func (c Credentials) Complete() bool {
	return c.ConsumerKey != "" && c.ConsumerSecret != ""
}

// Status summarises where credentials are configured.
type Status struct {
	KeyringAvailable bool
	InKeyring        bool
	InEnv            bool
	Active           Source
}

// CredentialManager reads consumer credentials from the system keyring
// first and the environment second.
type CredentialManager struct {
	Service string
	Getenv  func(string) string
}

// NewCredentialManager returns a manager bound to the application's
// keyring service and the process environment.
func NewCredentialManager() *CredentialManager {
	return &CredentialManager{Service: config.KeyringService, Getenv: os.Getenv}
}

// KeyringAvailable probes the keyring backend with a lookup that is
// expected to miss.
func (m *CredentialManager) KeyringAvailable() bool {
	_, err := keyring.Get(m.Service, config.KeyringProbeUser)
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

// FromKeyring returns the stored credentials, if any.
func (m *CredentialManager) FromKeyring() (Credentials, bool) {
	key, err := keyring.Get(m.Service, config.KeyringConsumerKey)
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			zap.L().Debug(config.MsgKeyringFailed,
				zap.String(config.LogKeyComponent, config.CompCreds),
				zap.Error(err),
			)
		}
		return Credentials{}, false
	}
	secret, err := keyring.Get(m.Service, config.KeyringConsumerSecret)
	if err != nil {
		return Credentials{}, false
	}
	c := Credentials{ConsumerKey: key, ConsumerSecret: secret}
	return c, c.Complete()
}

// FromEnv returns the credentials set in the environment, if any.
func (m *CredentialManager) FromEnv() (Credentials, bool) {
	getenv := m.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	c := Credentials{
		ConsumerKey:    getenv(config.EnvConsumerKey),
		ConsumerSecret: getenv(config.EnvConsumerSecret),
	}
	return c, c.Complete()
}

// Get returns credentials from the best available source.
func (m *CredentialManager) Get() (Credentials, Source, error) {
	if c, ok := m.FromKeyring(); ok {
		return c, SourceKeyring, nil
	}
	if c, ok := m.FromEnv(); ok {
		return c, SourceEnv, nil
	}
	return Credentials{}, SourceNone, ErrNoCredentials
}

// Store saves credentials in the keyring.
func (m *CredentialManager) Store(c Credentials) error {
	if !c.Complete() {
		return errors.New(config.ErrInputEmpty)
	}
	if !m.KeyringAvailable() {
		return errors.New(config.ErrKeyringMissing)
	}
	if err := keyring.Set(m.Service, config.KeyringConsumerKey, c.ConsumerKey); err != nil {
		return fmt.Errorf("%s: %w", config.ErrKeyringStore, err)
	}
	if err := keyring.Set(m.Service, config.KeyringConsumerSecret, c.ConsumerSecret); err != nil {
		return fmt.Errorf("%s: %w", config.ErrKeyringStore, err)
	}
	return nil
}

// Delete removes stored credentials. Missing entries are not an error.
func (m *CredentialManager) Delete() error {
	for _, user := range []string{config.KeyringConsumerKey, config.KeyringConsumerSecret} {
		if err := keyring.Delete(m.Service, user); err != nil && !errors.Is(err, keyring.ErrNotFound) {
			return fmt.Errorf("%s: %w", config.ErrKeyringDelete, err)
		}
	}
	return nil
}

// HasStored reports whether complete credentials are in the keyring.
func (m *CredentialManager) HasStored() bool {
	_, ok := m.FromKeyring()
	return ok
}

// Status reports every source and which one Get would use.
func (m *CredentialManager) Status() Status {
	s := Status{
		KeyringAvailable: m.KeyringAvailable(),
		InKeyring:        m.HasStored(),
	}
	_, s.InEnv = m.FromEnv()

	switch {
	case s.InKeyring:
		s.Active = SourceKeyring
	case s.InEnv:
		s.Active = SourceEnv
	default:
		s.Active = SourceNone
	}
	return s
}
