package engine

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"unicode/utf8"

	"github.com/tartampluch/hpde-analytics/internal/config"
	"github.com/tartampluch/hpde-analytics/internal/report"
	"github.com/xuri/excelize/v2"
)

// Layout carries the localised labels a writer needs.
type Layout struct {
	Sheet   string
	Headers []string
}

// writerFunc renders a report to path.
type writerFunc func(path string, layout Layout, rep report.Report) error

var writers = map[string]writerFunc{
	config.FormatXLSX: writeXLSX,
	config.FormatCSV:  writeCSV,
	config.FormatJSON: writeJSON,
}

var extensions = map[string]string{
	config.FormatXLSX: config.ExtXLSX,
	config.FormatCSV:  config.ExtCSV,
	config.FormatJSON: config.ExtJSON,
}

// Formats lists the supported output formats.
func Formats() []string {
	return []string{config.FormatXLSX, config.FormatCSV, config.FormatJSON}
}

func writeCSV(path string, layout Layout, rep report.Report) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, config.FilePermShared)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write(layout.Headers); err != nil {
		_ = f.Close()
		return err
	}
	for _, row := range rep.Rows {
		if err := w.Write(row.Values()); err != nil {
			_ = f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

type jsonReport struct {
	Count   int          `json:"count"`
	Columns []string     `json:"columns"`
	Rows    []report.Row `json:"rows"`
}

func writeJSON(path string, layout Layout, rep report.Report) error {
	rows := rep.Rows
	if rows == nil {
		rows = []report.Row{}
	}

	data, err := json.MarshalIndent(jsonReport{
		Count:   rep.Count,
		Columns: layout.Headers,
		Rows:    rows,
	}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, config.FilePermShared)
}

func thinBorders() []excelize.Border {
	var borders []excelize.Border
	for _, side := range []string{"left", "top", "right", "bottom"} {
		borders = append(borders, excelize.Border{Type: side, Color: config.BorderColor, Style: 1})
	}
	return borders
}

func writeXLSX(path string, layout Layout, rep report.Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := layout.Sheet
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: config.HeaderFontColor},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{config.HeaderFillColor}},
		Border:    thinBorders(),
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	bodyStyle, err := f.NewStyle(&excelize.Style{Border: thinBorders()})
	if err != nil {
		return err
	}
	centeredStyle, err := f.NewStyle(&excelize.Style{
		Border:    thinBorders(),
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}

	widths := make([]int, len(layout.Headers))
	for i, h := range layout.Headers {
		widths[i] = utf8.RuneCountInString(h)
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellStr(sheet, cell, h); err != nil {
			return err
		}
	}

	for r, row := range rep.Rows {
		for c, v := range row.Values() {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellStr(sheet, cell, v); err != nil {
				return err
			}
			if n := utf8.RuneCountInString(v); c < len(widths) && n > widths[c] {
				widths[c] = n
			}
		}
	}

	lastRow := len(rep.Rows) + 1
	for c := range layout.Headers {
		col, _ := excelize.ColumnNumberToName(c + 1)

		if err := f.SetCellStyle(sheet, col+"1", col+"1", headerStyle); err != nil {
			return err
		}
		if lastRow > 1 {
			style := bodyStyle
			if slices.Contains(config.ReportCenteredColumns, c+1) {
				style = centeredStyle
			}
			if err := f.SetCellStyle(sheet, col+"2", fmt.Sprintf("%s%d", col, lastRow), style); err != nil {
				return err
			}
		}

		width := min(widths[c]+config.ColumnPadding, config.MaxColumnWidth)
		if err := f.SetColWidth(sheet, col, col, float64(width)); err != nil {
			return err
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: config.FreezeTopLeftCell,
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	return f.SaveAs(path)
}
