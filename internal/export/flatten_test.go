package export_test

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/hpde-analytics/internal/config"
	"github.com/tartampluch/hpde-analytics/internal/export"
)

func TestFlatten(t *testing.T) {
	tests := []struct {
		name string
		in   map[string]any
		want map[string]any
	}{
		{
			name: "Simple",
			in:   map[string]any{"key1": "value1", "key2": 2.0},
			want: map[string]any{"key1": "value1", "key2": 2.0},
		},
		{
			name: "Nested",
			in:   map[string]any{"level1": map[string]any{"level2": "value"}},
			want: map[string]any{"level1.level2": "value"},
		},
		{
			name: "Deeply nested",
			in:   map[string]any{"a": map[string]any{"b": map[string]any{"c": "deep"}}},
			want: map[string]any{"a.b.c": "deep"},
		},
		{
			name: "List kept as JSON",
			in:   map[string]any{"tags": []any{"a", "b"}},
			want: map[string]any{"tags": `["a","b"]`},
		},
		{
			name: "Empty list",
			in:   map[string]any{"tags": []any{}},
			want: map[string]any{"tags": ""},
		},
		{
			name: "Null kept",
			in:   map[string]any{"sponsor": nil},
			want: map[string]any{"sponsor": nil},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, export.Flatten(tt.in))
		})
	}
}

func TestColumns_SortedUnion(t *testing.T) {
	cols := export.Columns([]map[string]any{
		{"b": 1, "a": 2},
		{"c": 3, "a": 4},
	})
	assert.Equal(t, []string{"a", "b", "c"}, cols)
}

func TestItems_IgnoresNonObjects(t *testing.T) {
	data := map[string]any{"events": []any{map[string]any{"id": "1"}, "junk", 3.0}}
	assert.Len(t, export.Items(data, "events"), 1)
	assert.Empty(t, export.Items(data, "missing"))
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	err := export.WriteCSV(path, []map[string]any{
		{"firstName": "John", "year": 2020.0, "vehicle": map[string]any{"make": "Honda"}},
		{"firstName": "Jane", "active": true},
	})
	require.NoError(t, err)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{"active", "firstName", "vehicle.make", "year"},
		{"", "John", "Honda", "2020"},
		{"true", "Jane", "", ""},
	}, records)
}

func TestWriteCSV_NoData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, export.WriteCSV(path, nil))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.CSVNoDataMarker+"\n", string(content))
}

func TestWriteJSON_NoHTMLEscaping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, export.WriteJSON(path, map[string]any{"name": "Tom & Jerry <TT>"}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"name\": \"Tom & Jerry <TT>\"\n}\n", string(content))
}
