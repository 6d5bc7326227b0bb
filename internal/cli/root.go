package cli

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"github.com/tartampluch/hpde-analytics/internal/config"
)

// NewRootCmd creates the root command. Without a subcommand it runs the
// full flow: authentication followed by field discovery.
func NewRootCmd(a *App) *cobra.Command {
	var disc discoverOptions

	rootCmd := &cobra.Command{
		Use:     config.AppCommand,
		Short:   config.DescRoot,
		Long:    config.DescRoot + "\n\n" + config.DescRootLong,
		Version: config.Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			_, session, err := a.authenticate(ctx)
			if err != nil {
				return err
			}
			a.showProfile(session.Profile)

			if err := a.discover(ctx, session, disc); err != nil {
				return err
			}
			line(a.Out, "\n%s", styles.Success.Render(config.TextDone))
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetVersionTemplate(fmt.Sprintf(config.MsgVersionOutput,
		config.AppName, config.Version, runtime.GOOS, runtime.GOARCH))
	rootCmd.SetIn(a.In)
	rootCmd.SetOut(a.Out)

	rootCmd.PersistentFlags().BoolVarP(&a.Verbose, config.FlagVerbose, config.FlagVerboseS, false, config.FlagDescVerbose)
	rootCmd.PersistentFlags().StringVar(&a.OrgID, config.FlagOrgID, "", config.FlagDescOrgID)
	disc.bind(rootCmd)

	rootCmd.AddCommand(newConfigureCmd(a))
	rootCmd.AddCommand(newCredentialsCmd(a))
	rootCmd.AddCommand(newAuthCmd(a))
	rootCmd.AddCommand(newDiscoverCmd(a))
	rootCmd.AddCommand(newExportCmd(a))
	rootCmd.AddCommand(newReportCmd(a))

	return rootCmd
}

// showProfile prints the profile, and its raw form in verbose mode.
func (a *App) showProfile(profile map[string]any) {
	if a.Verbose {
		printJSON(a.Out, profile, 0)
	}
	printProfile(a.Out, profile)
}
