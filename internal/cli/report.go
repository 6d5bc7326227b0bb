package cli

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/tartampluch/hpde-analytics/internal/config"
	"github.com/tartampluch/hpde-analytics/internal/engine"
	"github.com/tartampluch/hpde-analytics/internal/i18n"
)

func newReportCmd(a *App) *cobra.Command {
	var cfg engine.GenerateConfig
	var lang string

	cmd := &cobra.Command{
		Use:   config.CmdReport,
		Short: config.DescReport,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := &engine.Generator{
				Clock:      a.Clock,
				Translator: i18n.New(lang),
			}

			heading(a.Out, config.TextGenerating)
			res, err := gen.Generate(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			heading(a.Out, config.TextReportDone)
			line(a.Out, "\n"+config.TextReportSaved, res.Path, res.Count)
			line(a.Out, "\n%s", styles.Success.Render(config.TextDone))
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.ExportDir, config.FlagExportDir, "", config.FlagDescExportDir)
	cmd.Flags().StringVar(&cfg.OutputPath, config.FlagReportFile, "", config.FlagDescReportFile)
	cmd.Flags().StringVar(&cfg.Name, config.FlagName, "", config.FlagDescReportName)
	cmd.Flags().StringVar(&cfg.Format, config.FlagFormat, config.FormatXLSX, config.FlagDescFormat)
	cmd.Flags().StringVar(&lang, config.FlagLang, config.DefaultLanguage,
		config.FlagDescLang+": "+strings.Join(config.SupportedLanguages, ", "))
	_ = cmd.MarkFlagRequired(config.FlagExportDir)

	return cmd
}
