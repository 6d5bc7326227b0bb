package discovery

import (
	"maps"
	"slices"

	"github.com/tartampluch/hpde-analytics/internal/config"
	"github.com/tartampluch/hpde-analytics/internal/engine"
	"go.uber.org/zap"
)

// arraySampleSize is how many array items are walked for type detection.
const arraySampleSize = 3

// Field is one discovered JSON path.
type Field struct {
	Path        string
	Type        FieldType
	Occurrences int
	Nullable    bool
	Sample      any
}

// Entry returns the serialisable form with a sanitised sample.
func (f *Field) Entry() FieldEntry {
	e := FieldEntry{
		Path:        f.Path,
		Type:        f.Type,
		Occurrences: f.Occurrences,
		Nullable:    f.Nullable,
	}
	if f.Sample != nil {
		e.Sample = SanitizeSample(f.Sample)
	}
	return e
}

// Discovery catalogs the fields of API responses.
type Discovery struct {
	Clock engine.Clock

	fields    map[string]*Field
	endpoints map[string][]string
	order     []string
}

// New returns an empty catalog.
func New() *Discovery {
	return &Discovery{
		Clock:     engine.RealClock{},
		fields:    make(map[string]*Field),
		endpoints: make(map[string][]string),
	}
}

// Analyze walks a response and returns the number of new fields.
// Error payloads ({"error": ...}) are skipped.
func (d *Discovery) Analyze(endpoint string, data any) int {
	if m, ok := data.(map[string]any); ok {
		if _, failed := m[config.ErrorKey]; failed {
			return 0
		}
	}

	before := len(d.fields)
	d.walk(data, "", endpoint)
	added := len(d.fields) - before

	zap.L().Debug(config.MsgFieldsFound,
		zap.String(config.LogKeyComponent, config.CompDiscovery),
		zap.String(config.LogKeyEndpoint, endpoint),
		zap.Int(config.LogKeyFields, added),
	)
	return added
}

// AnalyzeAll analyzes responses in endpoint name order and returns the
// new field count per endpoint.
func (d *Discovery) AnalyzeAll(responses map[string]any) map[string]int {
	counts := make(map[string]int, len(responses))
	for _, endpoint := range slices.Sorted(maps.Keys(responses)) {
		counts[endpoint] = d.Analyze(endpoint, responses[endpoint])
	}
	return counts
}

func (d *Discovery) walk(v any, path, endpoint string) {
	switch val := v.(type) {
	case map[string]any:
		for _, key := range slices.Sorted(maps.Keys(val)) {
			child := key
			if path != "" {
				child = path + "." + key
			}
			d.walk(val[key], child, endpoint)
		}
	case []any:
		d.record(path, TypeArray, nil, endpoint)
		for _, item := range val[:min(len(val), arraySampleSize)] {
			d.walk(item, path+"[]", endpoint)
		}
	default:
		d.record(path, DetectType(v), v, endpoint)
	}
}

func (d *Discovery) record(path string, t FieldType, sample any, endpoint string) {
	if path == "" {
		return
	}

	if f, ok := d.fields[path]; ok {
		f.Occurrences++
		switch {
		case t == TypeNull:
			f.Nullable = true
		case f.Type == TypeNull:
			f.Type = t
			f.Sample = sample
		}
	} else {
		f := &Field{Path: path, Type: t, Occurrences: 1}
		if t == TypeNull {
			f.Nullable = true
		} else {
			f.Sample = sample
		}
		d.fields[path] = f
	}

	paths, seen := d.endpoints[endpoint]
	if !seen {
		d.order = append(d.order, endpoint)
	}
	if !slices.Contains(paths, path) {
		d.endpoints[endpoint] = append(paths, path)
	}
}

// Field returns the catalog entry for path.
func (d *Discovery) Field(path string) (*Field, bool) {
	f, ok := d.fields[path]
	return f, ok
}

// Len returns the number of unique fields.
func (d *Discovery) Len() int {
	return len(d.fields)
}

// FieldsByType groups field paths by detected type, paths sorted.
func (d *Discovery) FieldsByType() map[FieldType][]string {
	byType := make(map[FieldType][]string)
	for _, path := range slices.Sorted(maps.Keys(d.fields)) {
		t := d.fields[path].Type
		byType[t] = append(byType[t], path)
	}
	return byType
}
