package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/dghubble/oauth1"
	"github.com/tartampluch/hpde-analytics/internal/config"
	"github.com/tartampluch/hpde-analytics/internal/msr"
	"go.uber.org/zap"
)

// Flow errors.
var (
	ErrNoVerifier     = errors.New(config.ErrNoVerifier)
	ErrTokensRejected = errors.New(config.ErrTokensRejected)
)

// OAuthConfig is the subset of *oauth1.Config the flow relies on.
type OAuthConfig interface {
	RequestToken() (requestToken, requestSecret string, err error)
	AuthorizationURL(requestToken string) (*url.URL, error)
	AccessToken(requestToken, requestSecret, verifier string) (accessToken, accessSecret string, err error)
	Client(ctx context.Context, t *oauth1.Token) *http.Client
}

// Flow runs the three-legged OAuth 1.0a authorization.
type Flow struct {
	OAuth       OAuthConfig
	BaseURL     string
	Store       TokenStore
	Server      *CallbackServer
	OpenBrowser func(url string) error
	Out         io.Writer
	Timeout     time.Duration
}

// NewOAuthConfig builds the signing configuration for the API.
func NewOAuthConfig(s *config.Settings, c Credentials) *oauth1.Config {
	return &oauth1.Config{
		ConsumerKey:    c.ConsumerKey,
		ConsumerSecret: c.ConsumerSecret,
		CallbackURL:    s.CallbackURL,
		Endpoint: oauth1.Endpoint{
			RequestTokenURL: s.BaseURL + config.PathRequestToken,
			AuthorizeURL:    config.DefaultAuthorizeURL,
			AccessTokenURL:  s.BaseURL + config.PathAccessToken,
		},
	}
}

// NewFlow wires a flow from settings and consumer credentials.
func NewFlow(s *config.Settings, c Credentials, openBrowser func(string) error, out io.Writer) *Flow {
	return &Flow{
		OAuth:       NewOAuthConfig(s, c),
		BaseURL:     s.BaseURL,
		Store:       &FileTokenStore{Path: s.TokenFile},
		Server:      NewCallbackServer(fmt.Sprintf("%s:%d", config.CallbackHost, s.CallbackPort)),
		OpenBrowser: openBrowser,
		Out:         out,
		Timeout:     config.CallbackTimeout,
	}
}

// Session is an authenticated API context.
type Session struct {
	HTTP    *http.Client
	Tokens  Tokens
	Profile map[string]any
}

// Client signs requests with the given access tokens.
func (f *Flow) Client(ctx context.Context, t Tokens) *http.Client {
	return f.OAuth.Client(ctx, oauth1.NewToken(t.AccessToken, t.AccessTokenSecret))
}

// Session validates stored tokens without starting a new authorization.
func (f *Flow) Session(ctx context.Context) (*Session, error) {
	tokens, err := f.Store.Load()
	if err != nil {
		return nil, err
	}
	return f.Validate(ctx, tokens)
}

// Validate calls /rest/me with the tokens. A 401 clears the stored tokens.
// On success the organizations are refreshed and saved.
func (f *Flow) Validate(ctx context.Context, t Tokens) (*Session, error) {
	httpClient := f.Client(ctx, t)
	me, err := msr.NewClient(httpClient, f.BaseURL, "").Me(ctx)
	if err != nil {
		if msr.IsUnauthorized(err) {
			if clearErr := f.Store.Clear(); clearErr != nil {
				zap.L().Warn(config.ErrTokenSave,
					zap.String(config.LogKeyComponent, config.CompAuth),
					zap.Error(clearErr),
				)
			}
			return nil, fmt.Errorf("%w: %w", ErrTokensRejected, err)
		}
		return nil, err
	}

	profile := msr.Profile(me)
	if id, ok := profile[config.IDKey]; ok && id != nil {
		t.ProfileID = fmt.Sprint(id)
	}
	t.Organizations = organizations(profile)

	if err := f.Store.Save(t); err != nil {
		return nil, err
	}

	zap.L().Info(config.MsgTokensSaved,
		zap.String(config.LogKeyComponent, config.CompAuth),
		zap.String(config.LogKeyProfile, t.ProfileID),
	)
	return &Session{HTTP: httpClient, Tokens: t, Profile: profile}, nil
}

// Run reuses stored tokens when they still validate and otherwise runs the
// browser authorization.
func (f *Flow) Run(ctx context.Context) (*Session, error) {
	log := zap.L().With(zap.String(config.LogKeyComponent, config.CompAuth))

	if tokens, err := f.Store.Load(); err == nil {
		log.Info(config.MsgTokensLoaded)
		session, err := f.Validate(ctx, tokens)
		if err == nil {
			return session, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.Warn(config.MsgTokensInvalid, zap.Error(err))
	}

	// 1. Bind the callback port before anything else.
	if err := f.Server.Listen(); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrCallbackServer, err)
	}

	srvCtx, stop := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = f.Server.Start(srvCtx)
	}()
	defer func() {
		stop()
		wg.Wait()
	}()

	// 2. Request token
	requestToken, requestSecret, err := f.OAuth.RequestToken()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrRequestToken, err)
	}

	// 3. User authorization
	authURL, err := f.OAuth.AuthorizationURL(requestToken)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrAuthorizeURL, err)
	}
	f.printf(config.MsgVisitURL, authURL.String())

	if f.OpenBrowser != nil {
		if err := f.OpenBrowser(authURL.String()); err != nil {
			log.Warn(config.MsgBrowserFailed, zap.Error(err))
		}
	}

	f.printf(config.MsgWaitingCallback, f.Server.URL())
	verifier, err := f.waitForVerifier(ctx)
	if err != nil {
		return nil, err
	}

	// 4. Access token
	accessToken, accessSecret, err := f.OAuth.AccessToken(requestToken, requestSecret, verifier)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrAccessToken, err)
	}

	return f.Validate(ctx, Tokens{AccessToken: accessToken, AccessTokenSecret: accessSecret})
}

func (f *Flow) waitForVerifier(ctx context.Context) (string, error) {
	timeout := f.Timeout
	if timeout <= 0 {
		timeout = config.CallbackTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-f.Server.Results():
		if res.Err != nil {
			return "", res.Err
		}
		return res.Verifier, nil
	case <-timer.C:
		return "", ErrNoVerifier
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (f *Flow) printf(format string, args ...any) {
	if f.Out != nil {
		_, _ = fmt.Fprintf(f.Out, format, args...)
	}
}

func organizations(profile map[string]any) []map[string]any {
	raw, _ := profile[config.OrgsKey].([]any)
	orgs := make([]map[string]any, 0, len(raw))
	for _, o := range raw {
		if m, ok := o.(map[string]any); ok {
			orgs = append(orgs, m)
		}
	}
	return orgs
}
