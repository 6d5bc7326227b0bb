package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/hpde-analytics/internal/auth"
	"github.com/tartampluch/hpde-analytics/internal/cli"
	"github.com/tartampluch/hpde-analytics/internal/config"
	"github.com/zalando/go-keyring"
)

// -----------------------------------------------------------------------------
// Mocks & Fixtures
// -----------------------------------------------------------------------------

type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

var fixedTime = time.Date(2025, 6, 14, 9, 30, 15, 0, time.UTC)

var payloads = map[string]string{
	"/rest/me.json": `{"response": {"profile": {"id": "P1", "firstName": "Pat", "lastName": "Driver",
		"email": "pat@example.com", "organizations": [{"id": "ORG", "name": "Club"}]}}}`,
	"/rest/calendars/organization/ORG.json": `{"response": {"events": [
		{"id": "EV1", "name": "Spring TT", "start": "2025-05-03", "end": "2025-05-04"}]}}`,
	"/rest/events/EV1/entrylist.json": `{"response": {"assignments": [
		{"firstName": "John", "lastName": "Doe", "segment": "Saturday Time Trials",
		 "group": "Time Trials - Sport 1", "class": "Sport 1"}]}}`,
	"/rest/events/EV1/attendees.json": `{"response": {"attendees": [
		{"firstName": "John", "lastName": "Doe", "email": "john@example.com"}]}}`,
	"/rest/events/EV1/assignments.json": `{"response": {"assignments": []}}`,
}

// newAPI serves the canned payloads to requests signed with the "at" token.
func newAPI(t *testing.T) *httptest.Server {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Authorization"), `oauth_token="at"`) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		body, ok := payloads[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(ts.Close)
	return ts
}

type harness struct {
	app *cli.App
	out *bytes.Buffer
	env map[string]string
}

func newHarness(t *testing.T, baseURL string, input string) *harness {
	t.Helper()
	keyring.MockInit()

	h := &harness{out: &bytes.Buffer{}, env: map[string]string{}}
	settings := &config.Settings{
		BaseURL:      baseURL,
		CallbackPort: config.DefaultCallbackPort,
		CallbackURL:  "http://localhost:8089/callback",
		TokenFile:    filepath.Join(t.TempDir(), "tokens.json"),
	}

	h.app = cli.NewApp()
	h.app.In = strings.NewReader(input)
	h.app.Out = h.out
	h.app.Clock = MockClock{CurrentTime: fixedTime}
	h.app.SetupLogging = nil
	h.app.LoadSettings = func() (*config.Settings, error) { return settings, nil }
	h.app.OpenBrowser = func(string) error { return errors.New("no browser in tests") }
	h.app.Credentials = &auth.CredentialManager{
		Service: config.KeyringService,
		Getenv:  func(k string) string { return h.env[k] },
	}
	return h
}

func (h *harness) withEnvCredentials() *harness {
	h.env[config.EnvConsumerKey] = "ck"
	h.env[config.EnvConsumerSecret] = "cs"
	return h
}

func (h *harness) withTokens(t *testing.T) *harness {
	t.Helper()
	s, err := h.app.LoadSettings()
	require.NoError(t, err)
	store := &auth.FileTokenStore{Path: s.TokenFile}
	require.NoError(t, store.Save(auth.Tokens{AccessToken: "at", AccessTokenSecret: "as"}))
	return h
}

func (h *harness) run(args ...string) error {
	cmd := cli.NewRootCmd(h.app)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}

// -----------------------------------------------------------------------------
// Credentials
// -----------------------------------------------------------------------------

func TestCredentialsCmd_EnvironmentActive(t *testing.T) {
	h := newHarness(t, "http://127.0.0.1:1", "").withEnvCredentials()

	require.NoError(t, h.run("credentials"))

	out := h.out.String()
	assert.Contains(t, out, "System keyring available: Yes")
	assert.Contains(t, out, "Credentials in keyring: No")
	assert.Contains(t, out, "Credentials in environment: Yes")
	assert.Contains(t, out, "[Active] Using credentials from environment variables")
}

func TestCredentialsCmd_NoneConfigured(t *testing.T) {
	h := newHarness(t, "http://127.0.0.1:1", "")

	require.NoError(t, h.run("credentials"))
	assert.Contains(t, h.out.String(), "[Warning] No credentials configured")
}

func TestConfigureCmd_StoresCredentials(t *testing.T) {
	h := newHarness(t, "http://127.0.0.1:1", "my-key\nmy-secret\n")

	require.NoError(t, h.run("configure"))

	key, err := keyring.Get(config.KeyringService, config.KeyringConsumerKey)
	require.NoError(t, err)
	secret, err := keyring.Get(config.KeyringService, config.KeyringConsumerSecret)
	require.NoError(t, err)
	assert.Equal(t, "my-key", key)
	assert.Equal(t, "my-secret", secret)
	assert.Contains(t, h.out.String(), config.TextCredsStored)
}

func TestConfigureCmd_ReplaceDeclined(t *testing.T) {
	h := newHarness(t, "http://127.0.0.1:1", "n\n")
	require.NoError(t, h.app.Credentials.Store(auth.Credentials{ConsumerKey: "old", ConsumerSecret: "old-secret"}))

	require.NoError(t, h.run("configure"))

	key, err := keyring.Get(config.KeyringService, config.KeyringConsumerKey)
	require.NoError(t, err)
	assert.Equal(t, "old", key)
	assert.Contains(t, h.out.String(), config.TextConfigCancelled)
}

func TestConfigureCmd_EmptyKey(t *testing.T) {
	h := newHarness(t, "http://127.0.0.1:1", "\n")

	err := h.run("configure")
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrInputEmpty)
}

func TestConfigureCmd_KeyringUnavailable(t *testing.T) {
	h := newHarness(t, "http://127.0.0.1:1", "")
	keyring.MockInitWithError(errors.New("no backend"))

	err := h.run("configure")
	require.Error(t, err)
	assert.Contains(t, h.out.String(), "MSR_CONSUMER_KEY=your_key_here")
}

// -----------------------------------------------------------------------------
// Authenticated commands
// -----------------------------------------------------------------------------

func TestAuthCmd_WithStoredTokens(t *testing.T) {
	ts := newAPI(t)
	h := newHarness(t, ts.URL, "").withEnvCredentials().withTokens(t)

	require.NoError(t, h.run("auth"))

	out := h.out.String()
	assert.Contains(t, out, "Pat Driver")
	assert.Contains(t, out, "Profile ID")
	assert.Contains(t, out, "Club (ID: ORG)")
}

func TestDiscoverCmd_WritesInventory(t *testing.T) {
	ts := newAPI(t)
	h := newHarness(t, ts.URL, "").withEnvCredentials().withTokens(t)
	inventory := filepath.Join(t.TempDir(), "inventory.yaml")

	require.NoError(t, h.run("discover", "--output", inventory))

	assert.FileExists(t, inventory)
	out := h.out.String()
	assert.Contains(t, out, config.TextDiscovery)
	assert.Contains(t, out, "[entrylist]")
	assert.Contains(t, out, "timing: 0 new fields", "The timing feed 404s and is skipped")
}

func TestDiscoverCmd_RequiresTokens(t *testing.T) {
	ts := newAPI(t)
	h := newHarness(t, ts.URL, "").withEnvCredentials()

	err := h.run("discover")
	assert.ErrorIs(t, err, auth.ErrNoTokens)
}

func TestExportCmd(t *testing.T) {
	ts := newAPI(t)
	h := newHarness(t, ts.URL, "").withEnvCredentials().withTokens(t)
	outDir := t.TempDir()

	require.NoError(t, h.run("export", "--event-id", "EV1", "--output-dir", outDir, "--name", "HPDE_TT_1"))

	dir := filepath.Join(outDir, "HPDE_TT_1_20250614_093015")
	assert.FileExists(t, filepath.Join(dir, config.FileEntryList))
	assert.FileExists(t, filepath.Join(dir, config.FileCalendarICS))
	assert.Contains(t, h.out.String(), "Files exported to: "+dir)

	content, err := os.ReadFile(filepath.Join(dir, "export_summary.json"))
	require.NoError(t, err)
	var summary map[string]any
	require.NoError(t, json.Unmarshal(content, &summary))
	assert.Equal(t, "ORG", summary["organization_id"], "Defaults to the first organization of the profile")
}

func TestExportCmd_OrgFlagWins(t *testing.T) {
	ts := newAPI(t)
	h := newHarness(t, ts.URL, "").withEnvCredentials().withTokens(t)
	outDir := t.TempDir()

	require.NoError(t, h.run("export", "--event-id", "EV1", "--output-dir", outDir, "--org-id", "OTHER"))

	content, err := os.ReadFile(filepath.Join(outDir, "export_20250614_093015", "export_summary.json"))
	require.NoError(t, err)
	assert.Contains(t, string(content), `"organization_id": "OTHER"`)
}

func TestExportCmd_RequiresEventID(t *testing.T) {
	h := newHarness(t, "http://127.0.0.1:1", "").withEnvCredentials()

	err := h.run("export")
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.FlagEventID)
}

func TestMissingCredentials(t *testing.T) {
	h := newHarness(t, "http://127.0.0.1:1", "")

	err := h.run("auth")
	require.ErrorIs(t, err, auth.ErrNoCredentials)

	var buf bytes.Buffer
	cli.PrintError(&buf, err)
	assert.Contains(t, buf.String(), "Configuration error:")
	assert.Equal(t, config.ExitCodeError, cli.ExitCode(err))
}

// -----------------------------------------------------------------------------
// Report
// -----------------------------------------------------------------------------

func TestReportCmd_Localised(t *testing.T) {
	h := newHarness(t, "http://127.0.0.1:1", "")
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileEntryList), []byte(
		"firstName,lastName,segment,group,class\nJohn,Doe,Saturday Time Trials,Time Trials - Sport 1,Sport 1\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.FileAttendees), []byte("firstName,lastName\n"), 0o600))

	require.NoError(t, h.run("report", "--export-dir", dir, "--format", "csv", "--lang", "fr", "--name", "TT"))

	path := filepath.Join(dir, "TT_20250614_093015.csv")
	assert.Contains(t, h.out.String(), "Report saved to: "+path+" (1 participants)")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "Prénom,"))
}

func TestReportCmd_RequiresExportDir(t *testing.T) {
	h := newHarness(t, "http://127.0.0.1:1", "")

	err := h.run("report")
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.FlagExportDir)
}

// -----------------------------------------------------------------------------
// Root
// -----------------------------------------------------------------------------

func TestVersionFlag(t *testing.T) {
	h := newHarness(t, "http://127.0.0.1:1", "")

	require.NoError(t, h.run("--version"))
	assert.Contains(t, h.out.String(), "HPDE Analytics version "+config.Version)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, config.ExitCodeSuccess, cli.ExitCode(nil))
	assert.Equal(t, config.ExitCodeCancelled, cli.ExitCode(context.Canceled))
	assert.Equal(t, config.ExitCodeError, cli.ExitCode(errors.New("boom")))
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	cli.PrintError(&buf, context.Canceled)
	assert.Contains(t, buf.String(), config.TextCancelled)

	buf.Reset()
	cli.PrintError(&buf, errors.New("boom"))
	assert.Contains(t, buf.String(), "Error: boom")
}
