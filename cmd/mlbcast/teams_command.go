package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newTeamsCommand() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "teams",
		Short: "List the teams known to the generation service",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			app, err := buildApp(ctx)
			if err != nil {
				return err
			}
			defer app.close(ctx)

			teams, err := app.gw.FetchTeams(ctx, refresh)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(teams))
			for _, t := range teams {
				rows = append(rows, []string{t.Name, t.Abbreviation, t.ID})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Team", "Abbr", "ID"}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the session cache")
	return cmd
}
