package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newPairingsCmd() *cobra.Command {
	var rounds int

	cmd := &cobra.Command{
		Use:   "pairings <tournament-id>",
		Short: "Show round pairings, generating them if needed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := fetchPairings(cmd.Context(), args[0], rounds)
			if err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(*result)
			return nil
		},
	}

	cmd.Flags().IntVarP(&rounds, "rounds", "r", 0, "Number of rounds (server default if unset)")
	cmd.AddCommand(newPairingsResetCmd())

	return cmd
}

func newPairingsResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <tournament-id>",
		Short: "Discard stored pairings so they are regenerated",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(cmd.Context(), tournamentPath(args[0], "pairings")); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage("Pairings reset")
			return nil
		},
	}
}

func newRankingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rankings <tournament-id>",
		Short: "Show final rankings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result RankingsResult
			if err := client.Get(cmd.Context(), tournamentPath(args[0], "rankings"), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newReportCmd() *cobra.Command {
	var rounds int

	cmd := &cobra.Command{
		Use:   "report <tournament-id>",
		Short: "Show pairings and rankings together",
		Long: `report fetches pairings first so that the rankings reflect the same
schedule, then prints both.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tournamentID := args[0]

			// Pairings settle the stored schedule; the roster and rankings
			// reads that follow are independent of each other.
			pairings, err := fetchPairings(cmd.Context(), tournamentID, rounds)
			if err != nil {
				return err
			}

			var (
				rankings    RankingsResult
				competitors CompetitorList
			)
			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				return client.Get(ctx, tournamentPath(tournamentID, "rankings"), &rankings)
			})
			g.Go(func() error {
				return client.Get(ctx, tournamentPath(tournamentID, "competitors"), &competitors)
			})
			if err := g.Wait(); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(Report{
				TournamentID: tournamentID,
				Competitors:  competitors.Competitors,
				Pairings:     *pairings,
				Rankings:     rankings.Rankings,
			})
			return nil
		},
	}

	cmd.Flags().IntVarP(&rounds, "rounds", "r", 0, "Number of rounds (server default if unset)")

	return cmd
}

func fetchPairings(ctx context.Context, tournamentID string, rounds int) (*PairingsResult, error) {
	path := tournamentPath(tournamentID, "pairings")
	if rounds != 0 {
		path += "?rounds=" + strconv.Itoa(rounds)
	}

	var result PairingsResult
	if err := client.Get(ctx, path, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
