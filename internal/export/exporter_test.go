package export_test

import (
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

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/hpde-analytics/internal/config"
	"github.com/tartampluch/hpde-analytics/internal/engine"
	"github.com/tartampluch/hpde-analytics/internal/export"
	"github.com/tartampluch/hpde-analytics/internal/msr"
)

// -----------------------------------------------------------------------------
// Mocks
// -----------------------------------------------------------------------------

type MockClock struct {
	CurrentTime time.Time
}

func (m MockClock) Now() time.Time {
	return m.CurrentTime
}

// fakeSource serves canned payloads keyed by endpoint name.
type fakeSource struct {
	data   map[string]map[string]any
	errs   map[string]error
	orgIDs []string
}

func (f *fakeSource) get(ctx context.Context, key string) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := f.errs[key]; err != nil {
		return nil, err
	}
	return f.data[key], nil
}

func (f *fakeSource) Me(ctx context.Context) (map[string]any, error) {
	return f.get(ctx, config.EndpointMe)
}

func (f *fakeSource) OrganizationCalendar(ctx context.Context, orgID string) (map[string]any, error) {
	f.orgIDs = append(f.orgIDs, orgID)
	return f.get(ctx, config.EndpointCalendar)
}

func (f *fakeSource) EventEntryList(ctx context.Context, _ string) (map[string]any, error) {
	return f.get(ctx, config.EndpointEntryList)
}

func (f *fakeSource) EventAttendees(ctx context.Context, _ string) (map[string]any, error) {
	return f.get(ctx, config.EndpointAttendees)
}

func (f *fakeSource) EventAssignments(ctx context.Context, _ string) (map[string]any, error) {
	return f.get(ctx, config.EndpointAssignments)
}

// -----------------------------------------------------------------------------
// Fixtures
// -----------------------------------------------------------------------------

var fixedTime = time.Date(2025, 6, 14, 9, 30, 15, 0, time.UTC)

func decode(t *testing.T, raw string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &m))
	return m
}

func newSource(t *testing.T) *fakeSource {
	return &fakeSource{
		data: map[string]map[string]any{
			config.EndpointMe: decode(t, `{"profile": {"id": "P1", "firstName": "Pat"}}`),
			config.EndpointCalendar: decode(t, `{"events": [
				{"id": "E1", "name": "Spring TT", "start": "2025-05-03", "end": "2025-05-04",
				 "venue": {"name": "Summit Point", "city": "Summit Point"}},
				{"id": "E2", "name": "TBD", "start": ""}
			]}`),
			config.EndpointEntryList: decode(t, `{"assignments": [
				{"firstName": "John", "lastName": "Doe", "segment": "Saturday Time Trials",
				 "group": "Time Trials - Sport 1", "class": "Sport 1", "make": "Honda",
				 "model": "Civic", "year": 2020, "vehicleNumber": 42},
				{"firstName": "Jane", "lastName": "Smith", "segment": "Saturday Time Trials",
				 "group": "Time Trials - Max 2", "class": "Max 2"}
			]}`),
			config.EndpointAttendees: decode(t, `{"attendees": [
				{"firstName": "John", "lastName": "Doe", "email": "john@example.com",
				 "memberId": "M001", "status": "Confirmed"}
			]}`),
			config.EndpointAssignments: decode(t, `{"assignments": [
				{"firstName": "John", "lastName": "Doe", "group": "Time Trials - Sport 1", "tireBrand": "Hoosier"}
			]}`),
		},
		errs: map[string]error{},
	}
}

func newExporter(t *testing.T, name string) *export.Exporter {
	return &export.Exporter{
		OutputDir:      t.TempDir(),
		Name:           name,
		OrganizationID: "ORG",
		Clock:          MockClock{CurrentTime: fixedTime},
	}
}

// -----------------------------------------------------------------------------
// Test Cases
// -----------------------------------------------------------------------------

func TestExport_Layout(t *testing.T) {
	e := newExporter(t, "HPDE_TT_1")
	src := newSource(t)

	res, err := e.Export(context.Background(), src, "EV1")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(e.OutputDir, "HPDE_TT_1_20250614_093015"), res.Dir)
	assert.Equal(t, filepath.Join(res.Dir, "raw_data"), res.RawDir)
	assert.Equal(t, []string{"ORG"}, src.orgIDs)

	assert.Equal(t, []string{
		"raw_profile",
		"raw_calendar", "raw_calendar_csv",
		"raw_entrylist", "raw_entrylist_csv",
		"raw_attendees", "raw_attendees_csv",
		"raw_assignments", "raw_assignments_csv",
		"profile",
		"calendar", "calendar_csv",
		"entrylist", "entrylist_csv",
		"attendees", "attendees_csv",
		"assignments", "assignments_csv",
		"calendar_ics", "attendees_vcf",
		"summary",
	}, res.Keys)

	expected := map[string]string{
		"raw_profile":       "raw_data/profile_full.json",
		"raw_calendar_csv":  "raw_data/calendar_full.csv",
		"raw_entrylist_csv": "raw_data/entrylist_full.csv",
		"profile":           "profile.json",
		"calendar_csv":      "calendar_events.csv",
		"entrylist_csv":     "entrylist.csv",
		"attendees_csv":     "attendees.csv",
		"assignments":       "assignments.json",
		"calendar_ics":      "calendar_events.ics",
		"attendees_vcf":     "attendees.vcf",
		"summary":           "export_summary.json",
	}
	for key, rel := range expected {
		assert.Equal(t, filepath.Join(res.Dir, filepath.FromSlash(rel)), res.Files[key], key)
		assert.FileExists(t, res.Files[key], key)
	}
}

func TestExport_Summary(t *testing.T) {
	e := newExporter(t, "")

	res, err := e.Export(context.Background(), newSource(t), "EV1")
	require.NoError(t, err)

	content, err := os.ReadFile(res.Files[export.KeySummary])
	require.NoError(t, err)

	var summary export.Summary
	require.NoError(t, json.Unmarshal(content, &summary))

	_, err = uuid.Parse(summary.ExportID)
	assert.NoError(t, err, "export_id must be a UUID")
	assert.Equal(t, res.ID, summary.ExportID)
	assert.Equal(t, "20250614_093015", summary.ExportTimestamp)
	assert.Equal(t, "EV1", summary.EventID)
	assert.Equal(t, "ORG", summary.OrganizationID)
	assert.Equal(t, res.Keys[:len(res.Keys)-1], summary.FilesExported, "The summary lists every file but itself")
	assert.Equal(t, filepath.Join(e.OutputDir, "export_20250614_093015"), summary.ExportDirectory)
	assert.Equal(t, res.RawDir, summary.RawDataDirectory)
}

func TestExport_FailedEndpointIsSkipped(t *testing.T) {
	src := newSource(t)
	src.errs[config.EndpointAttendees] = errors.New("boom")

	res, err := newExporter(t, "").Export(context.Background(), src, "EV1")
	require.NoError(t, err)

	for _, key := range []string{"raw_attendees", "attendees", "attendees_csv", export.KeyVCF} {
		assert.NotContains(t, res.Files, key)
	}
	assert.Contains(t, res.Files, "entrylist_csv")
	assert.NoFileExists(t, filepath.Join(res.Dir, "attendees.json"))
}

func TestExport_EmptyListWritesMarker(t *testing.T) {
	src := newSource(t)
	src.data[config.EndpointAssignments] = decode(t, `{"assignments": []}`)

	res, err := newExporter(t, "").Export(context.Background(), src, "EV1")
	require.NoError(t, err)

	content, err := os.ReadFile(res.Files["assignments_csv"])
	require.NoError(t, err)
	assert.Equal(t, config.CSVNoDataMarker+"\n", string(content))
}

func TestExport_EmptyPayloadOnlyInRawData(t *testing.T) {
	src := newSource(t)
	src.data[config.EndpointMe] = map[string]any{}

	res, err := newExporter(t, "").Export(context.Background(), src, "EV1")
	require.NoError(t, err)

	assert.Contains(t, res.Files, "raw_profile")
	assert.NotContains(t, res.Files, "profile")
}

func TestExport_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newExporter(t, "").Export(ctx, newSource(t), "EV1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestExport_FeedsReport(t *testing.T) {
	res, err := newExporter(t, "").Export(context.Background(), newSource(t), "EV1")
	require.NoError(t, err)

	gen := &engine.Generator{Clock: MockClock{CurrentTime: fixedTime}}
	out, err := gen.Generate(context.Background(), engine.GenerateConfig{
		ExportDir: res.Dir,
		Format:    config.FormatJSON,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Count)

	content, err := os.ReadFile(out.Path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"Hoosier"`)
	assert.Contains(t, string(content), `"2020 Honda Civic"`)
}

func TestExport_WithAPIClient(t *testing.T) {
	payloads := map[string]string{
		"/rest/me.json":                         `{"response": {"profile": {"id": "P1"}}}`,
		"/rest/calendars/organization/ORG.json": `{"response": {"events": []}}`,
		"/rest/events/EV1/entrylist.json":       `{"response": {"assignments": []}}`,
		"/rest/events/EV1/attendees.json":       `{"response": {"attendees": []}}`,
		"/rest/events/EV1/assignments.json":     `{"response": {"assignments": []}}`,
	}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := payloads[r.URL.Path]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	defer ts.Close()

	client := msr.NewClient(ts.Client(), ts.URL, "ORG")
	e := newExporter(t, "")

	res, err := e.Export(context.Background(), client, "EV1")
	require.NoError(t, err)

	assert.Contains(t, res.Files, "entrylist_csv")
	assert.NotContains(t, res.Files, export.KeyICS, "No events, no calendar file")

	content, err := os.ReadFile(res.Files["profile"])
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(content), `"id": "P1"`))
}
