package auth

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/tartampluch/hpde-analytics/internal/config"
	"go.uber.org/zap"
)

// ErrAuthDenied is delivered when the user refuses the authorization.
var ErrAuthDenied = errors.New(config.ErrAuthDenied)

const (
	pageWaiting = `<html><head><title>Waiting...</title></head>
<body style="font-family: Arial, sans-serif; text-align: center; padding: 50px;">
<p>Waiting for MotorsportReg authorization callback...</p>
<p>Please complete the authorization on motorsportreg.com</p>
</body></html>`

	pageSuccess = `<html><head><title>Authorization Successful</title></head>
<body style="font-family: Arial, sans-serif; text-align: center; padding: 50px;">
<h1 style="color: green;">Authorization Successful!</h1>
<p>You can close this window and return to the terminal.</p>
</body></html>`

	pageDenied = `<html><head><title>Authorization Denied</title></head>
<body style="font-family: Arial, sans-serif; text-align: center; padding: 50px;">
<h1 style="color: red;">Authorization Denied</h1>
<p>Error: %s</p>
<p>%s</p>
</body></html>`

	pageMissing = `<html><head><title>Authorization Issue</title></head>
<body style="font-family: Arial, sans-serif; text-align: center; padding: 50px;">
<h1 style="color: orange;">Missing Verification Code</h1>
<p>Received callback but no oauth_verifier parameter.</p>
</body></html>`

	paramVerifier         = "oauth_verifier"
	paramToken            = "oauth_token"
	paramError            = "error"
	paramErrorDescription = "error_description"
	unknownError          = "Unknown error"
)

// CallbackResult is what the browser redirect delivered.
type CallbackResult struct {
	Token    string
	Verifier string
	Err      error
}

// CallbackServer receives the OAuth redirect on a local port.
type CallbackServer struct {
	Addr string

	mu       sync.Mutex
	listener net.Listener
	results  chan CallbackResult
}

// NewCallbackServer creates a server for addr ("host:port").
func NewCallbackServer(addr string) *CallbackServer {
	return &CallbackServer{
		Addr:    addr,
		results: make(chan CallbackResult, config.ChannelBufferSize),
	}
}

// Listen binds the port so that failures surface before the flow starts.
func (s *CallbackServer) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return nil
	}
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
	s.listener = ln
	return nil
}

// URL returns the callback URL of the bound listener.
func (s *CallbackServer) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	addr := s.Addr
	if s.listener != nil {
		addr = s.listener.Addr().String()
	}
	return "http://" + addr + config.CallbackPath
}

// Results delivers the first callback carrying a verifier or an error.
func (s *CallbackServer) Results() <-chan CallbackResult {
	return s.results
}

// Start serves callbacks and blocks until the context is cancelled.
func (s *CallbackServer) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}

	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()

	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleCallback)

	srv := &http.Server{
		Handler:      mux,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		zap.L().Info(config.MsgCallbackListen,
			zap.String(config.LogKeyComponent, config.CompCallback),
			zap.String(config.LogKeyURL, s.URL()),
		)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		zap.L().Info(config.MsgCallbackStop, zap.String(config.LogKeyComponent, config.CompCallback))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		err = fmt.Errorf("%s: %w", config.ErrCallbackServer, err)
		s.deliver(CallbackResult{Err: err})
		return err
	}
}

// deliver hands a result to the waiting flow; later results are dropped.
func (s *CallbackServer) deliver(res CallbackResult) {
	select {
	case s.results <- res:
	default:
	}
}

// handleCallback answers the browser and extracts the OAuth parameters.
func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(config.HeaderContentType, config.MimeHTML)
	w.Header().Set(config.HeaderXContentType, config.MimeNoSniff)

	// Favicon and root requests get the waiting page.
	if !strings.HasPrefix(r.URL.Path, config.CallbackPath) {
		_, _ = fmt.Fprint(w, pageWaiting)
		return
	}

	q := r.URL.Query()
	zap.L().Debug(config.MsgCallbackRequest,
		zap.String(config.LogKeyComponent, config.CompCallback),
		zap.Bool(config.LogKeyVerifier, q.Get(paramVerifier) != ""),
	)

	if verifier := q.Get(paramVerifier); verifier != "" {
		_, _ = fmt.Fprint(w, pageSuccess)
		s.deliver(CallbackResult{Token: q.Get(paramToken), Verifier: verifier})
		return
	}

	if oauthErr := q.Get(paramError); oauthErr != "" {
		desc := q.Get(paramErrorDescription)
		if desc == "" {
			desc = unknownError
		}
		_, _ = fmt.Fprintf(w, pageDenied, html.EscapeString(oauthErr), html.EscapeString(desc))
		s.deliver(CallbackResult{Err: fmt.Errorf("%w: %s: %s", ErrAuthDenied, oauthErr, desc)})
		return
	}

	_, _ = fmt.Fprint(w, pageMissing)
}
