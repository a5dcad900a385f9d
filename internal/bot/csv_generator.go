package bot

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"gitlab.com/yelinaung/spendwise/internal/models"
)

// csvHeader is the first row of every export.
var csvHeader = []string{"ID", "Date", "Amount", "Category", "Description"}

// GenerateExpensesCSV generates a CSV file from a list of expenses. Dates
// are written in loc.
func GenerateExpensesCSV(expenses []models.Expense, loc *time.Location) ([]byte, error) {
	if loc == nil {
		loc = time.Local
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i := range expenses {
		row := []string{
			expenses[i].ID,
			expenses[i].Date.In(loc).Format(time.DateTime),
			expenses[i].Amount.StringFixed(2),
			expenses[i].Category,
			expenses[i].Description,
		}

		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// exportFilename names the CSV export for the given day.
func exportFilename(now time.Time) string {
	return fmt.Sprintf("spendwise_expenses_%s.csv", now.Format(time.DateOnly))
}
