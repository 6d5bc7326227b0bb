// Package cli implements the hpde-analytics command tree.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/cli/browser"
	"github.com/tartampluch/hpde-analytics/internal/auth"
	"github.com/tartampluch/hpde-analytics/internal/config"
	"github.com/tartampluch/hpde-analytics/internal/engine"
	"github.com/tartampluch/hpde-analytics/internal/logging"
	"github.com/tartampluch/hpde-analytics/internal/msr"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// App carries the dependencies shared by every command. Fields are
// replaceable for tests.
type App struct {
	In  io.Reader
	Out io.Writer

	Verbose bool
	OrgID   string

	Settings    *config.Settings
	Credentials *auth.CredentialManager
	Clock       engine.Clock

	LoadSettings func() (*config.Settings, error)
	SetupLogging func(verbose bool) func()
	OpenBrowser  func(url string) error
	ReadSecret   func() (string, error)

	// NewFlow builds the OAuth flow once settings and credentials are known.
	NewFlow func(s *config.Settings, c auth.Credentials, openBrowser func(string) error, out io.Writer) *auth.Flow

	flush  func()
	reader *bufio.Reader
}

// NewApp wires the production dependencies.
func NewApp() *App {
	a := &App{
		In:           os.Stdin,
		Out:          os.Stdout,
		Credentials:  auth.NewCredentialManager(),
		Clock:        engine.RealClock{},
		LoadSettings: config.Load,
		SetupLogging: logging.Setup,
		OpenBrowser:  browser.OpenURL,
		NewFlow:      auth.NewFlow,
	}
	a.ReadSecret = a.readSecret
	return a
}

// Close flushes the logger installed by the root command.
func (a *App) Close() {
	if a.flush != nil {
		a.flush()
		a.flush = nil
	}
}

// setup runs before every command.
func (a *App) setup() error {
	if a.SetupLogging != nil && a.flush == nil {
		a.flush = a.SetupLogging(a.Verbose)
		logStartupInfo()
	}
	if a.Settings != nil {
		return nil
	}
	s, err := a.LoadSettings()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	a.Settings = s
	return nil
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	zap.L().Info(config.MsgAppStarting,
		zap.String(config.LogKeyComponent, config.CompMain),
		zap.String(config.LogKeyVersion, config.Version),
		zap.String(config.LogKeyCommit, config.Commit),
		zap.String(config.LogKeyBuilt, config.Date),
		zap.String(config.LogKeyGoVer, runtime.Version()),
		zap.String(config.LogKeyOS, runtime.GOOS),
		zap.String(config.LogKeyArch, runtime.GOARCH),
		zap.Int(config.LogKeyPID, os.Getpid()),
	)
}

// flow resolves consumer credentials and builds the OAuth flow.
func (a *App) flow() (*auth.Flow, error) {
	creds, _, err := a.Credentials.Get()
	if err != nil {
		return nil, err
	}
	return a.NewFlow(a.Settings, creds, a.OpenBrowser, a.Out), nil
}

// authenticate runs the full browser flow when needed.
func (a *App) authenticate(ctx context.Context) (*auth.Flow, *auth.Session, error) {
	flow, err := a.flow()
	if err != nil {
		return nil, nil, err
	}
	session, err := flow.Run(ctx)
	if err != nil {
		return nil, nil, err
	}
	return flow, session, nil
}

// session requires stored tokens and validates them.
func (a *App) session(ctx context.Context) (*auth.Session, error) {
	flow, err := a.flow()
	if err != nil {
		return nil, err
	}
	return flow.Session(ctx)
}

// client builds the API client for a session. The organization comes
// from --org-id, then MSR_ORG_ID, then the first organization of the profile.
func (a *App) client(session *auth.Session) *msr.Client {
	orgID := a.OrgID
	if orgID == "" && a.Settings != nil {
		orgID = a.Settings.OrganizationID
	}
	if orgID == "" {
		orgID = msr.DefaultOrganization(session.Profile)
	}
	return msr.NewClient(session.HTTP, a.Settings.BaseURL, orgID)
}

func (a *App) prompt(text string) (string, error) {
	_, _ = fmt.Fprint(a.Out, text)
	if a.reader == nil {
		a.reader = bufio.NewReader(a.In)
	}
	line, err := a.reader.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("%s: %w", config.ErrReadPrompt, err)
	}
	return strings.TrimSpace(line), nil
}

// readSecret reads without echo on a terminal and falls back to a plain
// line otherwise.
func (a *App) readSecret() (string, error) {
	if f, ok := a.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		_, _ = fmt.Fprintln(a.Out)
		if err != nil {
			return "", fmt.Errorf("%s: %w", config.ErrReadPrompt, err)
		}
		return strings.TrimSpace(string(b)), nil
	}
	return a.prompt("")
}
