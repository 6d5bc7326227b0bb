package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/tartampluch/hpde-analytics/internal/config"
	"github.com/tartampluch/hpde-analytics/internal/engine"
	"go.uber.org/zap"
)

// Source is the subset of the API client the exporter reads from.
// *msr.Client satisfies it.
type Source interface {
	Me(ctx context.Context) (map[string]any, error)
	OrganizationCalendar(ctx context.Context, orgID string) (map[string]any, error)
	EventEntryList(ctx context.Context, eventID string) (map[string]any, error)
	EventAttendees(ctx context.Context, eventID string) (map[string]any, error)
	EventAssignments(ctx context.Context, eventID string) (map[string]any, error)
}

// File keys reported in the result and the summary.
const (
	KeyRawPrefix = "raw_"
	KeyCSVSuffix = "_csv"
	KeyICS       = "calendar_ics"
	KeyVCF       = "attendees_vcf"
	KeySummary   = "summary"
)

// endpoint describes how one API payload is fetched and written.
type endpoint struct {
	key      string // fetched data key (config.EndpointX)
	export   string // file key in the filtered folder
	raw      string // base name in raw_data/
	filename string // base name in the filtered folder
	listKey  string // list written as CSV, "" for none
	fetch    func(ctx context.Context, src Source, orgID, eventID string) (map[string]any, error)
}

var endpoints = []endpoint{
	{
		key: config.EndpointMe, export: "profile", raw: "profile_full", filename: "profile",
		fetch: func(ctx context.Context, src Source, _, _ string) (map[string]any, error) {
			return src.Me(ctx)
		},
	},
	{
		key: config.EndpointCalendar, export: "calendar", raw: "calendar_full", filename: "calendar_events", listKey: config.EventsKey,
		fetch: func(ctx context.Context, src Source, orgID, _ string) (map[string]any, error) {
			return src.OrganizationCalendar(ctx, orgID)
		},
	},
	{
		key: config.EndpointEntryList, export: "entrylist", raw: "entrylist_full", filename: "entrylist", listKey: config.AssignmentsKey,
		fetch: func(ctx context.Context, src Source, _, eventID string) (map[string]any, error) {
			return src.EventEntryList(ctx, eventID)
		},
	},
	{
		key: config.EndpointAttendees, export: "attendees", raw: "attendees_full", filename: "attendees", listKey: config.AttendeesKey,
		fetch: func(ctx context.Context, src Source, _, eventID string) (map[string]any, error) {
			return src.EventAttendees(ctx, eventID)
		},
	},
	{
		key: config.EndpointAssignments, export: "assignments", raw: "assignments_full", filename: "assignments", listKey: config.AssignmentsKey,
		fetch: func(ctx context.Context, src Source, _, eventID string) (map[string]any, error) {
			return src.EventAssignments(ctx, eventID)
		},
	},
}

// Exporter writes one event's API data to a timestamped folder.
type Exporter struct {
	OutputDir      string
	Name           string
	OrganizationID string
	Clock          engine.Clock
}

// Result lists what an export produced. Keys keeps the write order.
type Result struct {
	ID     string
	Dir    string
	RawDir string
	Files  map[string]string
	Keys   []string
}

func (r *Result) add(key, path string) {
	r.Files[key] = path
	r.Keys = append(r.Keys, key)
}

// Summary is written as export_summary.json.
type Summary struct {
	ExportID         string   `json:"export_id"`
	ExportTimestamp  string   `json:"export_timestamp"`
	EventID          string   `json:"event_id"`
	OrganizationID   string   `json:"organization_id"`
	FilesExported    []string `json:"files_exported"`
	ExportDirectory  string   `json:"export_directory"`
	RawDataDirectory string   `json:"raw_data_directory"`
}

// Export fetches every endpoint, writes complete responses to raw_data/
// and the curated files next to it. A failing endpoint is logged and
// skipped; write failures and cancellation abort the export.
func (e *Exporter) Export(ctx context.Context, src Source, eventID string) (*Result, error) {
	log := zap.L().With(
		zap.String(config.LogKeyComponent, config.CompExport),
		zap.String(config.LogKeyEventID, eventID),
	)
	start := time.Now()

	clock := e.Clock
	if clock == nil {
		clock = engine.RealClock{}
	}
	stamp := engine.Timestamp(clock)

	outputDir := e.OutputDir
	if outputDir == "" {
		outputDir = config.DefaultOutputDir
	}
	name := e.Name
	if name == "" {
		name = config.FolderPrefix
	}

	res := &Result{
		ID:    uuid.NewString(),
		Dir:   filepath.Join(outputDir, fmt.Sprintf(config.FormatFolder, name, stamp)),
		Files: make(map[string]string),
	}
	res.RawDir = filepath.Join(res.Dir, config.DirRawData)
	if err := os.MkdirAll(res.RawDir, config.DirPermShared); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	// 1. Complete responses
	fetched := make(map[string]map[string]any, len(endpoints))
	for _, ep := range endpoints {
		data, err := ep.fetch(ctx, src, e.OrganizationID, eventID)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if err != nil {
			log.Warn(config.MsgExportFailed, zap.String(config.LogKeyEndpoint, ep.key), zap.Error(err))
			continue
		}

		if err := e.writeEndpoint(res, res.RawDir, KeyRawPrefix+ep.export, ep.raw, data, ep.listKey); err != nil {
			return nil, err
		}
		if len(data) > 0 {
			fetched[ep.key] = data
		}
	}

	// 2. Curated files
	for _, ep := range endpoints {
		data, ok := fetched[ep.key]
		if !ok {
			continue
		}
		if err := e.writeEndpoint(res, res.Dir, ep.export, ep.filename, data, ep.listKey); err != nil {
			return nil, err
		}
	}

	// 3. Calendar and contact cards
	if cal, ok := fetched[config.EndpointCalendar]; ok {
		data, n, err := CalendarICS(Items(cal, config.EventsKey), clock.Now())
		if err != nil {
			return nil, err
		}
		if n > 0 {
			if err := e.writeFile(res, KeyICS, filepath.Join(res.Dir, config.FileCalendarICS), data, n); err != nil {
				return nil, err
			}
		}
	}
	if att, ok := fetched[config.EndpointAttendees]; ok {
		data, n, err := AttendeesVCF(Items(att, config.AttendeesKey))
		if err != nil {
			return nil, err
		}
		if n > 0 {
			if err := e.writeFile(res, KeyVCF, filepath.Join(res.Dir, config.FileAttendeesVCF), data, n); err != nil {
				return nil, err
			}
		}
	}

	// 4. Summary
	summary := Summary{
		ExportID:         res.ID,
		ExportTimestamp:  stamp,
		EventID:          eventID,
		OrganizationID:   e.OrganizationID,
		FilesExported:    append([]string{}, res.Keys...),
		ExportDirectory:  res.Dir,
		RawDataDirectory: res.RawDir,
	}
	summaryPath := filepath.Join(res.Dir, config.FileSummary+config.ExtJSON)
	if err := WriteJSON(summaryPath, summary); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrWriteExport, err)
	}
	res.add(KeySummary, summaryPath)

	log.Info(config.MsgExportDone,
		zap.String(config.LogKeyExportID, res.ID),
		zap.String(config.LogKeyOrgID, e.OrganizationID),
		zap.String(config.LogKeyDir, res.Dir),
		zap.Int(config.LogKeyItems, len(res.Keys)),
		zap.Int64(config.LogKeyDuration, time.Since(start).Milliseconds()),
	)
	return res, nil
}

// writeEndpoint writes data as JSON and, when it carries a list under
// listKey, that list as CSV.
func (e *Exporter) writeEndpoint(res *Result, dir, key, base string, data map[string]any, listKey string) error {
	jsonPath := filepath.Join(dir, base+config.ExtJSON)
	if err := WriteJSON(jsonPath, data); err != nil {
		return fmt.Errorf("%s: %w", config.ErrWriteExport, err)
	}
	res.add(key, jsonPath)

	items := 0
	if _, ok := data[listKey].([]any); ok {
		list := Items(data, listKey)
		csvPath := filepath.Join(dir, base+config.ExtCSV)
		if err := WriteCSV(csvPath, list); err != nil {
			return fmt.Errorf("%s: %w", config.ErrWriteExport, err)
		}
		res.add(key+KeyCSVSuffix, csvPath)
		items = len(list)
	}

	zap.L().Debug(config.MsgExported,
		zap.String(config.LogKeyComponent, config.CompExport),
		zap.String(config.LogKeyFile, jsonPath),
		zap.Int(config.LogKeyItems, items),
	)
	return nil
}

func (e *Exporter) writeFile(res *Result, key, path string, data []byte, items int) error {
	if err := os.WriteFile(path, data, config.FilePermShared); err != nil {
		return fmt.Errorf("%s: %w", config.ErrWriteExport, err)
	}
	res.add(key, path)

	zap.L().Debug(config.MsgExported,
		zap.String(config.LogKeyComponent, config.CompExport),
		zap.String(config.LogKeyFile, path),
		zap.Int(config.LogKeyItems, items),
	)
	return nil
}
