package engine

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tartampluch/hpde-analytics/internal/config"
	"github.com/tartampluch/hpde-analytics/internal/report"
	"go.uber.org/zap"
)

const utf8BOM = "\ufeff"

// ReadCSV decodes a header-first CSV into one map per row. A file that
// holds only the no-data marker decodes to zero rows. Short rows leave the
// missing columns absent.
func ReadCSV(r io.Reader) ([]map[string]any, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}
	if len(header) == 1 && strings.HasPrefix(header[0], config.CSVNoDataMarker) {
		return nil, nil
	}

	var rows []map[string]any
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		row := make(map[string]any, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func readCSVFile(path string) ([]map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	rows, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return rows, nil
}

// readAssignments decodes the assignments JSON object and returns its
// "assignments" list. A missing file yields no rows.
func readAssignments(path string) ([]map[string]any, error) {
	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		zap.L().Debug(config.MsgInputMissing,
			zap.String(config.LogKeyComponent, config.CompEngine),
			zap.String(config.LogKeyFile, path),
		)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var doc struct {
		Assignments []map[string]any `json:"assignments"`
	}
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return doc.Assignments, nil
}

// LoadInput reads the entry list, attendee roster and assignment feed from
// an export directory.
func LoadInput(dir string) (report.Input, error) {
	var in report.Input

	entries, err := readCSVFile(filepath.Join(dir, config.FileEntryList))
	if err != nil {
		return in, fmt.Errorf("%s: %w", config.ErrReadInput, err)
	}
	attendees, err := readCSVFile(filepath.Join(dir, config.FileAttendees))
	if err != nil {
		return in, fmt.Errorf("%s: %w", config.ErrReadInput, err)
	}
	assignments, err := readAssignments(filepath.Join(dir, config.FileAssignments))
	if err != nil {
		return in, fmt.Errorf("%s: %w", config.ErrReadInput, err)
	}

	in.Entries = make([]report.ParticipationRecord, 0, len(entries))
	for _, m := range entries {
		in.Entries = append(in.Entries, report.ParticipationFromMap(m))
	}
	in.Attendees = make([]report.AttendeeRecord, 0, len(attendees))
	for _, m := range attendees {
		in.Attendees = append(in.Attendees, report.AttendeeFromMap(m))
	}
	in.Assignments = make([]report.AssignmentRecord, 0, len(assignments))
	for _, m := range assignments {
		in.Assignments = append(in.Assignments, report.AssignmentFromMap(m))
	}
	return in, nil
}
