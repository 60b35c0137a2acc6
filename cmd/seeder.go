package cmd

import (
	"context"
	"fmt"

	"github.com/frahmantamala/procurement-portal/internal/normalize"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the document with the default admin and departments",
	Long: `Loading the document already inserts the seed admin and departments when missing.
With --clear every collection is reset to the seed and the session slots are emptied.`,
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
		if clearData {
			if err := p.Repo.Reset(ctx, normalize.Document(nil)); err != nil {
				return fmt.Errorf("failed to reset document: %w", err)
			}
			if err := p.Token.Clear(ctx); err != nil {
				return fmt.Errorf("failed to clear session: %w", err)
			}
			if err := p.Pending.Clear(ctx); err != nil {
				return fmt.Errorf("failed to clear pending verification: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Document reset to seed data")
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Seed admin: %s\n", normalize.SeedAdminEmail)
		fmt.Fprintf(cmd.OutOrStdout(), "accounts=%d departments=%d employees=%d requests=%d\n",
			len(p.Repo.Accounts()), len(p.Repo.Departments()), len(p.Repo.Employees()), len(p.Repo.Document().Requests))
		return nil
	},
}
