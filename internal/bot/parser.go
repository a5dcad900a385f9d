package bot

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	appmodels "gitlab.com/yelinaung/spendwise/internal/models"
)

// ParsedExpense represents a parsed expense from user input.
type ParsedExpense struct {
	Amount       decimal.Decimal
	Description  string
	CategoryName string
}

// Candidate converts the parsed input to an engine candidate.
func (p *ParsedExpense) Candidate() appmodels.ExpenseCandidate {
	amount := p.Amount
	return appmodels.ExpenseCandidate{
		Amount:      &amount,
		Category:    p.CategoryName,
		Description: p.Description,
	}
}

// amountRegex matches amounts like "5", "5.50", "5,50".
var amountRegex = regexp.MustCompile(`^(\d+(?:[.,]\d{1,2})?)`)

// ParseExpenseInput parses free-text expense input like "5.50 Coffee".
// Returns nil if the input cannot be parsed as an expense.
func ParseExpenseInput(input string) *ParsedExpense {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}

	match := amountRegex.FindString(input)
	if match == "" {
		return nil
	}

	amount, err := decimal.NewFromString(strings.ReplaceAll(match, ",", "."))
	if err != nil {
		return nil
	}

	if amount.LessThanOrEqual(decimal.Zero) {
		return nil
	}

	return &ParsedExpense{
		Amount:      amount,
		Description: strings.TrimSpace(input[len(match):]),
	}
}

// ParseAddCommand parses the /add command format: /add <amount> <description> [category].
func ParseAddCommand(input string) *ParsedExpense {
	return ParseExpenseInput(extractCommandArgs(input, "/add"))
}

// ParseAddCommandWithCategories parses /add and moves a trailing category
// name out of the description.
func ParseAddCommandWithCategories(input string, categoryNames []string) *ParsedExpense {
	return withCategory(ParseAddCommand(input), categoryNames)
}

// ParseExpenseInputWithCategories parses free-text with category matching.
func ParseExpenseInputWithCategories(input string, categoryNames []string) *ParsedExpense {
	return withCategory(ParseExpenseInput(input), categoryNames)
}

// withCategory matches the longest category name at the end of the
// description, case-insensitively.
func withCategory(parsed *ParsedExpense, categoryNames []string) *ParsedExpense {
	if parsed == nil || parsed.Description == "" {
		return parsed
	}

	descLower := strings.ToLower(parsed.Description)
	var matchedCategory string
	var matchedLen int

	for _, catName := range categoryNames {
		catLower := strings.ToLower(catName)
		if !strings.HasSuffix(descLower, catLower) || len(catName) <= matchedLen {
			continue
		}
		// Only whole words count: "Seafood" does not end in category "Food".
		head := descLower[:len(descLower)-len(catLower)]
		if head != "" && !strings.HasSuffix(head, " ") {
			continue
		}
		matchedCategory = catName
		matchedLen = len(catName)
	}

	if matchedCategory != "" {
		parsed.Description = strings.TrimSpace(parsed.Description[:len(parsed.Description)-matchedLen])
		parsed.CategoryName = matchedCategory
	}

	return parsed
}
