// Package logging builds the process-wide zap logger.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tartampluch/hpde-analytics/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Stderr is the zap sink name for the standard error stream.
const Stderr = "stderr"

// New builds a JSON zap logger writing to logPath (when set) and, in
// verbose mode, to stderr as well. Verbose mode also lowers the level to debug.
func New(verbose bool, logPath string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	cfg.OutputPaths = nil
	cfg.ErrorOutputPaths = []string{Stderr}

	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		cfg.OutputPaths = append(cfg.OutputPaths, Stderr)
	}

	if logPath != "" {
		// The file is reset on every run and created with owner-only permissions.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.ErrLogFile, err)
		}
		_ = f.Close()
		cfg.OutputPaths = append(cfg.OutputPaths, logPath)
	}

	if len(cfg.OutputPaths) == 0 {
		return zap.NewNop(), nil
	}

	return cfg.Build()
}

// FilePath returns the log file location in the user's cache directory,
// creating the application folder if needed.
func FilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppCommand)
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(appDir, config.LogFileName), nil
}

// Setup builds the logger and installs it as the zap global. A log file
// that cannot be opened is reported on stderr and logging continues
// without it. The returned function flushes buffered entries.
func Setup(verbose bool) func() {
	logPath, err := FilePath()
	if err != nil {
		fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, "", err)
		logPath = ""
	}

	logger, err := New(verbose, logPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		logger, _ = New(verbose, "")
	}

	restore := zap.ReplaceGlobals(logger)
	return func() {
		_ = logger.Sync()
		restore()
	}
}
