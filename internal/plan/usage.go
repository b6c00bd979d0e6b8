package plan

import (
	"errors"
	"fmt"
	"math"
)

var ErrUsageOfFunds = errors.New("usage of funds allocation is invalid")

// UsageOfFundsError reports a usage-of-funds table that does not add up to 100%.
type UsageOfFundsError struct {
	Total float64
	Rows  int
}

func (e *UsageOfFundsError) Error() string {
	if e.Rows == 0 {
		return "usage of funds table is empty"
	}

	return fmt.Sprintf("usage of funds allocation totals %s%%, expected 100%%", formatPercent(e.Total))
}

func (e *UsageOfFundsError) Is(target error) bool {
	return target == ErrUsageOfFunds
}

// ValidateUsageOfFunds проверяет, что таблица не пуста и округленная сумма процентов равна 100.
func ValidateUsageOfFunds(rows []UsageOfFundsRow) error {
	if len(rows) == 0 {
		return &UsageOfFundsError{}
	}

	var total float64
	for _, row := range rows {
		total += row.AllocationPercent
	}
	if math.Round(total) != 100 {
		return &UsageOfFundsError{Total: roundTenth(total), Rows: len(rows)}
	}

	return nil
}

func formatPercent(value float64) string {
	if value == math.Trunc(value) {
		return fmt.Sprintf("%.0f", value)
	}

	return fmt.Sprintf("%.1f", value)
}
