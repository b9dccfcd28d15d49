package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mlbcast/internal/domain/podcast"
	"mlbcast/internal/wizard"
)

// newGenerateCommand is the non-interactive path through the wizard: same
// validation and default-merge semantics, driven by flags instead of keys.
func newGenerateCommand() *cobra.Command {
	var (
		team     string
		language string
		opponent string
		gameType string
		players  []string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a podcast without the interactive wizard",
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

			lang := app.cfg.Language
			if language != "" {
				canonical, ok := podcast.CanonicalLanguage(language)
				if !ok {
					return fmt.Errorf("unsupported language %q (supported: %v)", language, podcast.Languages())
				}
				lang = canonical
			}

			ctrl := wizard.New(app.gw, wizard.Options{
				Logger:          app.logger,
				DefaultLanguage: lang,
			})

			// Enter Configure and wait for its fetches so unset opponent and
			// game type can default from the last game.
			ctrl.SelectTeam(ctx, team)
			if opponent != "" {
				ctrl.SetOpponent(opponent)
			}
			if gameType != "" {
				ctrl.SetGameType(gameType)
			}
			for _, p := range players {
				ctrl.TogglePlayer(p)
			}

			waitForConfigure(ctrl)

			if err := ctrl.Submit(ctx); err != nil {
				return err
			}

			snap := ctrl.Snapshot()
			if snap.Result == nil {
				return fmt.Errorf("generation produced no result")
			}
			fmt.Fprintln(cmd.OutOrStdout(), snap.Result.Title)
			fmt.Fprintln(cmd.OutOrStdout(), snap.Result.URL)
			if snap.Result.Message != "" {
				fmt.Fprintln(cmd.OutOrStdout(), snap.Result.Message)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&team, "team", "", "team name (required)")
	cmd.Flags().StringVar(&language, "language", "", "podcast language")
	cmd.Flags().StringVar(&opponent, "opponent", "", "opponent; defaults to the last game's")
	cmd.Flags().StringVar(&gameType, "game-type", "", "game type; defaults to the last game's")
	cmd.Flags().StringSliceVar(&players, "player", nil, "player to feature (repeatable)")
	_ = cmd.MarkFlagRequired("team")
	return cmd
}

// waitForConfigure blocks until the Configure-step fetches settle. Failures
// are tolerated: submission falls back to the user-supplied values.
func waitForConfigure(ctrl *wizard.Controller) {
	deadline := time.Now().Add(15 * time.Second)
	for time.Now().Before(deadline) {
		if !ctrl.Snapshot().ConfigureLoading() {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
}
