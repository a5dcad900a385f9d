package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(rewardsCmd)
}

var rewardsCmd = &cobra.Command{
	Use:   "rewards",
	Short: "Show the reward catalog and current balance",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		eng, closeStore, err := openEngine(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer closeStore()

		stats := eng.Stats()
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Balance: %d points (level %d)\n\n", stats.Points, stats.Level)
		for _, r := range eng.Rewards() {
			mark := " "
			if stats.Points >= r.Cost {
				mark = "*"
			}
			fmt.Fprintf(out, "%s %-10s %-16s %5d  %s\n", mark, r.ID, r.Name, r.Cost, r.Description)
		}
		return nil
	},
}
