package discovery

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/tartampluch/hpde-analytics/internal/config"
	"github.com/tartampluch/hpde-analytics/internal/engine"
	"gopkg.in/yaml.v3"
)

// InventoryVersion is the schema version of the saved inventory.
const InventoryVersion = "1.0.0"

// FieldEntry is a field as written to the inventory.
type FieldEntry struct {
	Path        string    `json:"path" yaml:"path"`
	Type        FieldType `json:"type" yaml:"type"`
	Occurrences int       `json:"occurrences" yaml:"occurrences"`
	Nullable    bool      `json:"nullable" yaml:"nullable"`
	Sample      any       `json:"sample,omitempty" yaml:"sample,omitempty"`
}

// Metadata describes an inventory run.
type Metadata struct {
	GeneratedAt       string `json:"generated_at" yaml:"generated_at"`
	Version           string `json:"version" yaml:"version"`
	TotalFields       int    `json:"total_fields" yaml:"total_fields"`
	EndpointsAnalyzed int    `json:"endpoints_analyzed" yaml:"endpoints_analyzed"`
}

// Summary lists the analyzed endpoints in analysis order.
type Summary struct {
	Endpoints   []string       `json:"endpoints" yaml:"endpoints"`
	FieldCounts map[string]int `json:"field_counts" yaml:"field_counts"`
}

// EndpointFields holds the fields seen in one endpoint, sorted by path.
type EndpointFields struct {
	FieldCount int          `json:"field_count" yaml:"field_count"`
	Fields     []FieldEntry `json:"fields" yaml:"fields"`
}

// Inventory is the complete field catalog.
type Inventory struct {
	Metadata  Metadata                  `json:"metadata" yaml:"metadata"`
	Summary   Summary                   `json:"summary" yaml:"summary"`
	Endpoints map[string]EndpointFields `json:"endpoints" yaml:"endpoints"`
	AllFields []FieldEntry              `json:"all_fields" yaml:"all_fields"`
}

// Inventory snapshots the catalog.
func (d *Discovery) Inventory() Inventory {
	clock := d.Clock
	if clock == nil {
		clock = engine.RealClock{}
	}

	inv := Inventory{
		Metadata: Metadata{
			GeneratedAt:       clock.Now().Format(time.RFC3339),
			Version:           InventoryVersion,
			TotalFields:       len(d.fields),
			EndpointsAnalyzed: len(d.endpoints),
		},
		Summary: Summary{
			Endpoints:   append([]string{}, d.order...),
			FieldCounts: make(map[string]int, len(d.endpoints)),
		},
		Endpoints: make(map[string]EndpointFields, len(d.endpoints)),
		AllFields: make([]FieldEntry, 0, len(d.fields)),
	}

	for endpoint, paths := range d.endpoints {
		inv.Summary.FieldCounts[endpoint] = len(paths)

		sorted := slices.Sorted(slices.Values(paths))
		entries := make([]FieldEntry, 0, len(sorted))
		for _, p := range sorted {
			entries = append(entries, d.fields[p].Entry())
		}
		inv.Endpoints[endpoint] = EndpointFields{FieldCount: len(paths), Fields: entries}
	}

	for _, p := range slices.Sorted(maps.Keys(d.fields)) {
		inv.AllFields = append(inv.AllFields, d.fields[p].Entry())
	}
	return inv
}

// FormatFor picks the inventory format: explicit when given, otherwise
// from the file extension, JSON by default.
func FormatFor(path, format string) string {
	if format != "" {
		return strings.ToLower(format)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case config.ExtYAML, config.ExtYML:
		return config.FormatYAML
	default:
		return config.FormatJSON
	}
}

// Save writes the inventory as JSON or YAML, creating parent directories.
func Save(inv Inventory, path, format string) error {
	var (
		data []byte
		err  error
	)

	switch FormatFor(path, format) {
	case config.FormatJSON:
		data, err = json.MarshalIndent(inv, "", "  ")
	case config.FormatYAML:
		data, err = yaml.Marshal(inv)
	default:
		return fmt.Errorf("%s: %s: %q", config.ErrInventorySave, config.ErrFormatUnknown, format)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrInventorySave, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), config.DirPermShared); err != nil {
		return fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}
	if err := os.WriteFile(path, data, config.FilePermShared); err != nil {
		return fmt.Errorf("%s: %w", config.ErrInventorySave, err)
	}
	return nil
}
