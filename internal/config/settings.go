package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Settings holds runtime configuration resolved from the environment.
// Environment variables always win over values from a .env file.
type Settings struct {
	BaseURL        string
	CallbackURL    string
	CallbackPort   int
	TokenFile      string
	OrganizationID string

	// Consumer credentials found in the environment. The keyring is
	// consulted separately by the auth package and takes priority.
	ConsumerKey    string
	ConsumerSecret string
}

// Load reads an optional .env file from the working directory and then the
// process environment.
func Load() (*Settings, error) {
	v := newViper()

	v.SetDefault(EnvBaseURL, DefaultBaseURL)
	v.SetDefault(EnvCallbackPort, DefaultCallbackPort)

	s := &Settings{
		BaseURL:        strings.TrimRight(v.GetString(EnvBaseURL), "/"),
		CallbackURL:    v.GetString(EnvCallbackURL),
		CallbackPort:   v.GetInt(EnvCallbackPort),
		TokenFile:      v.GetString(EnvTokenFile),
		OrganizationID: v.GetString(EnvOrgID),
		ConsumerKey:    v.GetString(EnvConsumerKey),
		ConsumerSecret: v.GetString(EnvConsumerSecret),
	}

	if err := s.validate(); err != nil {
		return nil, err
	}

	if s.CallbackURL == "" {
		s.CallbackURL = fmt.Sprintf(FormatCallbackURL, CallbackHost, s.CallbackPort, CallbackPath)
	}

	if s.TokenFile == "" {
		path, err := DefaultTokenFile()
		if err != nil {
			return nil, err
		}
		s.TokenFile = path
	}

	return s, nil
}

// DefaultTokenFile returns the per-user location of the stored access tokens.
func DefaultTokenFile() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", ErrConfigDir, err)
	}
	return filepath.Join(dir, AppCommand, TokenFileName), nil
}

func (s *Settings) validate() error {
	if s.CallbackPort < 1 || s.CallbackPort > 65535 {
		return errors.New(ErrCallbackPort)
	}
	return nil
}

func newViper() *viper.Viper {
	// A missing .env is normal; real deployments use the environment.
	if err := godotenv.Load(); err != nil {
		zap.L().Debug(MsgEnvMissing, zap.String(LogKeyComponent, CompConfig))
	} else {
		zap.L().Debug(MsgEnvLoaded, zap.String(LogKeyComponent, CompConfig))
	}

	v := viper.New()
	v.AutomaticEnv()
	return v
}
