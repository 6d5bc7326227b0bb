package cli

import (
	"context"
	"maps"
	"slices"

	"github.com/spf13/cobra"
	"github.com/tartampluch/hpde-analytics/internal/auth"
	"github.com/tartampluch/hpde-analytics/internal/config"
	"github.com/tartampluch/hpde-analytics/internal/discovery"
)

type discoverOptions struct {
	eventID string
	output  string
	format  string
}

func (o *discoverOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.eventID, config.FlagEventID, "", config.FlagDescEventID)
	cmd.Flags().StringVar(&o.output, config.FlagOutput, config.DefaultInventory, config.FlagDescOutput)
	cmd.Flags().StringVar(&o.format, config.FlagFormat, "", config.FlagDescInvFormat)
}

func newDiscoverCmd(a *App) *cobra.Command {
	var opts discoverOptions

	cmd := &cobra.Command{
		Use:   config.CmdDiscover,
		Short: config.DescDiscover,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			session, err := a.session(ctx)
			if err != nil {
				return err
			}
			a.showProfile(session.Profile)

			if err := a.discover(ctx, session, opts); err != nil {
				return err
			}
			line(a.Out, "\n%s", styles.Success.Render(config.TextDone))
			return nil
		},
	}
	opts.bind(cmd)
	return cmd
}

// discover fetches every endpoint, catalogs the fields and saves the inventory.
func (a *App) discover(ctx context.Context, session *auth.Session, opts discoverOptions) error {
	heading(a.Out, config.TextFetching)
	responses := a.client(session).FetchAll(ctx, opts.eventID)
	if err := ctx.Err(); err != nil {
		return err
	}

	if a.Verbose {
		subheading(a.Out, config.TextRawResponses)
		for _, endpoint := range slices.Sorted(maps.Keys(responses)) {
			line(a.Out, "\n[%s]", endpoint)
			printJSON(a.Out, responses[endpoint], config.RawPreviewLimit)
		}
	}

	d := discovery.New()
	d.Clock = a.Clock
	counts := d.AnalyzeAll(responses)
	for _, endpoint := range slices.Sorted(maps.Keys(counts)) {
		status := styles.Success.Render(config.TextOK)
		if counts[endpoint] == 0 {
			status = styles.Muted.Render(config.TextSkip)
		}
		line(a.Out, "  "+config.TextEndpointNew, status, endpoint, counts[endpoint])
	}

	inv := d.Inventory()
	a.printInventory(d, inv)

	if err := discovery.Save(inv, opts.output, opts.format); err != nil {
		return err
	}
	line(a.Out, "\n"+config.TextInventorySaved, opts.output)
	return nil
}

func (a *App) printInventory(d *discovery.Discovery, inv discovery.Inventory) {
	heading(a.Out, config.TextDiscovery)
	line(a.Out, "\n"+config.TextTotalFields, inv.Metadata.TotalFields)
	line(a.Out, config.TextEndpointsDone, inv.Metadata.EndpointsAnalyzed)

	line(a.Out, "\n%s", styles.Label.Render(config.TextByType))
	byType := d.FieldsByType()
	for _, t := range slices.Sorted(maps.Keys(byType)) {
		line(a.Out, config.TextTypeCount, t, len(byType[t]))
	}

	endpoints := slices.Sorted(maps.Keys(inv.Endpoints))
	line(a.Out, "\n%s", styles.Label.Render(config.TextPerEndpoint))
	for _, ep := range endpoints {
		line(a.Out, config.TextFieldCount, ep, inv.Endpoints[ep].FieldCount)
	}

	for _, ep := range endpoints {
		fields := inv.Endpoints[ep].Fields
		line(a.Out, "\n%s", styles.Title.Render("["+ep+"]"))
		for _, f := range fields[:min(len(fields), config.FieldListLimit)] {
			nullable := ""
			if f.Nullable {
				nullable = styles.Muted.Render(config.TextNullable)
			}
			line(a.Out, config.TextFieldLine, f.Path, f.Type, nullable)
		}
		if len(fields) > config.FieldListLimit {
			line(a.Out, config.TextMoreFields, len(fields)-config.FieldListLimit)
		}
	}
}
