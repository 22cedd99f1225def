package cli

import (
	"github.com/spf13/cobra"
)

func newCompetitorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "competitors",
		Aliases: []string{"players"},
		Short:   "Manage tournament enrollments",
	}

	cmd.AddCommand(newCompetitorsListCmd())
	cmd.AddCommand(newCompetitorsEnrollCmd())
	cmd.AddCommand(newCompetitorsWithdrawCmd())

	return cmd
}

func newCompetitorsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <tournament-id>",
		Short: "List enrolled competitors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result CompetitorList
			if err := client.Get(cmd.Context(), tournamentPath(args[0], "competitors"), &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}
}

func newCompetitorsEnrollCmd() *cobra.Command {
	var college, gender string

	cmd := &cobra.Command{
		Use:   "enroll <tournament-id> <competitor-id> <username>",
		Short: "Enroll a competitor (re-enrolling updates their details)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			body := Competitor{
				ID:       args[1],
				Username: args[2],
				College:  college,
				Gender:   gender,
			}

			var result Competitor
			if err := client.Post(cmd.Context(), tournamentPath(args[0], "competitors"), body, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&college, "college", "", "Competitor's college or club")
	cmd.Flags().StringVar(&gender, "gender", "", "Competitor's gender")

	return cmd
}

func newCompetitorsWithdrawCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "withdraw <tournament-id> <competitor-id>",
		Short: "Withdraw a competitor",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Delete(cmd.Context(), tournamentPath(args[0], "competitors", args[1])); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).PrintMessage("Competitor withdrawn")
			return nil
		},
	}
}
