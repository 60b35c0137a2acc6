package cmd

import (
	"context"
	"fmt"

	"github.com/frahmantamala/procurement-portal/internal/view"
	"github.com/spf13/cobra"
)

var routeCmd = &cobra.Command{
	Use:   "route <fragment>",
	Short: "Evaluate a fragment and print the rendered page",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		deps, err := initializeDependencies(ctx)
		if err != nil {
			return err
		}
		defer deps.Close()

		p := deps.Portal
		outcome := p.Router.Navigate(ctx, args[0])
		if outcome.Redirected() {
			fmt.Fprintf(cmd.ErrOrStderr(), "redirected %s -> %s (%s)\n", outcome.Requested, outcome.Fragment, outcome.Reason)
		}

		return p.Renderer.Layout(cmd.OutOrStdout(), view.PageData{
			Fragment:      outcome.Fragment,
			Page:          outcome.Page,
			User:          p.Session.Current(),
			Notifications: p.Inbox.Drain(),
			Containers:    p.Surface.Pick(view.PageContainers[outcome.Page]...),
		})
	},
}
