package cli

import (
	"github.com/spf13/cobra"
	"github.com/tartampluch/hpde-analytics/internal/config"
	"github.com/tartampluch/hpde-analytics/internal/export"
)

func newExportCmd(a *App) *cobra.Command {
	var eventID, outputDir, name string

	cmd := &cobra.Command{
		Use:   config.CmdExport,
		Short: config.DescExport,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			session, err := a.session(ctx)
			if err != nil {
				return err
			}
			a.showProfile(session.Profile)

			client := a.client(session)
			exporter := &export.Exporter{
				OutputDir:      outputDir,
				Name:           name,
				OrganizationID: client.OrganizationID,
				Clock:          a.Clock,
			}

			heading(a.Out, config.TextExporting)
			res, err := exporter.Export(ctx, client, eventID)
			if err != nil {
				return err
			}

			heading(a.Out, config.TextExportDone)
			line(a.Out, "\n"+config.TextExportedTo, res.Dir)
			line(a.Out, "\n%s", styles.Label.Render(config.TextExportedFiles))
			for _, key := range res.Keys {
				line(a.Out, config.TextFileLine, key, res.Files[key])
			}
			line(a.Out, "\n%s", styles.Success.Render(config.TextDone))
			return nil
		},
	}

	cmd.Flags().StringVar(&eventID, config.FlagEventID, "", config.FlagDescEventID)
	cmd.Flags().StringVar(&outputDir, config.FlagOutputDir, config.DefaultOutputDir, config.FlagDescOutputDir)
	cmd.Flags().StringVar(&name, config.FlagName, "", config.FlagDescExportName)
	_ = cmd.MarkFlagRequired(config.FlagEventID)

	return cmd
}
