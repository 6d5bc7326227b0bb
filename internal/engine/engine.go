package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tartampluch/hpde-analytics/internal/config"
	"github.com/tartampluch/hpde-analytics/internal/report"
	"go.uber.org/zap"
)

// Translator resolves localised labels. Unknown keys come back unchanged.
type Translator interface {
	Msg(key string) string
}

// GenerateConfig contains all parameters required to produce a report.
type GenerateConfig struct {
	ExportDir  string // Folder written by the exporter
	OutputPath string // Explicit output file; derived from ExportDir when empty
	Name       string // Optional file name prefix
	Format     string // config.FormatXLSX (default), FormatCSV or FormatJSON
}

// Result describes a written report.
type Result struct {
	Path  string
	Count int
}

// Generator turns an export folder into the Time Trials report.
type Generator struct {
	Clock      Clock      // Interface for time mocking.
	Translator Translator // Optional; English headers when nil.
}

// Generate loads the export folder, builds the report and writes it in the
// requested format.
func (g *Generator) Generate(ctx context.Context, cfg GenerateConfig) (Result, error) {
	start := time.Now()
	log := zap.L().With(
		zap.String(config.LogKeyComponent, config.CompEngine),
		zap.String(config.LogKeyDir, cfg.ExportDir),
	)

	format := strings.ToLower(cfg.Format)
	if format == "" {
		format = config.FormatXLSX
	}
	write, ok := writers[format]
	if !ok {
		return Result{}, fmt.Errorf("%s: %q", config.ErrFormatUnknown, cfg.Format)
	}

	if info, err := os.Stat(cfg.ExportDir); err != nil || !info.IsDir() {
		if err == nil {
			err = errors.New(cfg.ExportDir)
		}
		return Result{}, fmt.Errorf("%s: %w", config.ErrExportDir, err)
	}

	log.Info(config.MsgReportStart, zap.String(config.LogKeyFormat, format))

	// 1. Load inputs
	in, err := LoadInput(cfg.ExportDir)
	if err != nil {
		return Result{}, err
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	// 2. Aggregate, enrich, assemble
	rep := report.Build(in)

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	// 3. Render
	path := cfg.OutputPath
	if path == "" {
		path = g.defaultPath(cfg, format)
	}

	if err := write(path, g.layout(), rep); err != nil {
		return Result{}, fmt.Errorf("%s: %w", config.ErrWriteReport, err)
	}

	log.Info(config.MsgReportDone,
		zap.String(config.LogKeyPath, path),
		zap.Int(config.LogKeyRowsIn, len(in.Entries)),
		zap.Int(config.LogKeyCount, rep.Count),
		zap.Int64(config.LogKeyDuration, time.Since(start).Milliseconds()),
	)

	return Result{Path: path, Count: rep.Count}, nil
}

// defaultPath builds <dir>/<name|tt_report>_<timestamp>.<ext>.
func (g *Generator) defaultPath(cfg GenerateConfig, format string) string {
	prefix := config.ReportPrefix
	if cfg.Name != "" {
		prefix = cfg.Name
	}
	name := fmt.Sprintf(config.FormatFolder, prefix, Timestamp(g.Clock)) + extensions[format]
	return filepath.Join(cfg.ExportDir, name)
}

// layout resolves the sheet name and column headers, falling back to
// English for any key the translator does not know.
func (g *Generator) layout() Layout {
	l := Layout{
		Sheet:   g.msg(config.TKeySheetName, config.ReportSheet),
		Headers: make([]string, 0, len(report.Columns)),
	}
	for _, c := range report.Columns {
		l.Headers = append(l.Headers, g.msg(config.TKeyPrefixColumn+string(c), report.DefaultHeaders[c]))
	}
	return l
}

func (g *Generator) msg(key, fallback string) string {
	if g.Translator == nil {
		return fallback
	}
	if v := g.Translator.Msg(key); v != "" && v != key {
		return v
	}
	return fallback
}
