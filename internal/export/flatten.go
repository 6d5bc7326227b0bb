package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strconv"

	"github.com/tartampluch/hpde-analytics/internal/config"
)

// Flatten collapses nested objects into dotted keys ("vehicle.make").
// Lists are kept as a JSON string; an empty list becomes "".
func Flatten(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	flattenInto(out, "", m)
	return out
}

func flattenInto(out map[string]any, prefix string, m map[string]any) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + config.FlattenSeparator + k
		}

		switch val := v.(type) {
		case map[string]any:
			flattenInto(out, key, val)
		case []any:
			if len(val) == 0 {
				out[key] = ""
				continue
			}
			encoded, err := json.Marshal(val)
			if err != nil {
				out[key] = fmt.Sprint(val)
				continue
			}
			out[key] = string(encoded)
		default:
			out[key] = val
		}
	}
}

// Columns returns the sorted union of keys across rows.
func Columns(rows []map[string]any) []string {
	seen := make(map[string]struct{})
	for _, r := range rows {
		for k := range r {
			seen[k] = struct{}{}
		}
	}
	cols := make([]string, 0, len(seen))
	for k := range seen {
		cols = append(cols, k)
	}
	slices.Sort(cols)
	return cols
}

// Items returns the objects stored under key, ignoring non-object entries.
func Items(data map[string]any, key string) []map[string]any {
	raw, _ := data[key].([]any)
	items := make([]map[string]any, 0, len(raw))
	for _, r := range raw {
		if m, ok := r.(map[string]any); ok {
			items = append(items, m)
		}
	}
	return items
}

// WriteCSV flattens items and writes them with a sorted header. Without
// items the file only holds the no-data marker.
func WriteCSV(path string, items []map[string]any) error {
	if len(items) == 0 {
		return os.WriteFile(path, []byte(config.CSVNoDataMarker+"\n"), config.FilePermShared)
	}

	rows := make([]map[string]any, 0, len(items))
	for _, item := range items {
		rows = append(rows, Flatten(item))
	}
	cols := Columns(rows)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(cols); err != nil {
		return err
	}
	record := make([]string, len(cols))
	for _, row := range rows {
		for i, c := range cols {
			record[i] = cellText(row[c])
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), config.FilePermShared)
}

// WriteJSON writes data indented by two spaces, without HTML escaping.
func WriteJSON(path string, data any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(data); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), config.FilePermShared)
}

// cellText renders a flattened value. Whole numbers keep their integer form.
func cellText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}
