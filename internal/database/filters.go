package database

import (
	"fmt"
	"strings"

	"github.com/Renal37/go-quote-relay/internal/models"
)

// buildQuoteFilter собирает условие WHERE для выборки заявок.
// DateTo включает весь день, поэтому граница сдвигается на сутки вперёд.
func buildQuoteFilter(filter models.QuoteFilter) (string, []interface{}) {
	var (
		conditions []string
		args       []interface{}
	)

	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	if filter.DateFrom != nil {
		args = append(args, *filter.DateFrom)
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", len(args)))
	}

	if filter.DateTo != nil {
		args = append(args, filter.DateTo.AddDate(0, 0, 1))
		conditions = append(conditions, fmt.Sprintf("created_at < $%d", len(args)))
	}

	if len(conditions) == 0 {
		return "", args
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}
