package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gitlab.com/yelinaung/spendwise/internal/bot"
	"gitlab.com/yelinaung/spendwise/internal/logger"
)

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("output", "o", "", "Write the CSV to this file instead of stdout")
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the ledger as CSV",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func runExport(cmd *cobra.Command, _ []string) error {
	output, _ := cmd.Flags().GetString("output")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	eng, closeStore, err := openEngine(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	data, err := bot.GenerateExpensesCSV(eng.Expenses(), eng.Location())
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", output, err)
		}
		defer f.Close()
		w = f
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}

	logger.Log.Info().Int("count", len(eng.Expenses())).Msg("Expenses exported")
	return nil
}
