package cli

import (
	"github.com/spf13/cobra"
	"github.com/tartampluch/hpde-analytics/internal/config"
)

func newAuthCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   config.CmdAuth,
		Short: config.DescAuth,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, session, err := a.authenticate(cmd.Context())
			if err != nil {
				return err
			}
			a.showProfile(session.Profile)
			line(a.Out, "\n%s", styles.Success.Render(config.TextDone))
			return nil
		},
	}
}
