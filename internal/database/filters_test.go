package database

import (
	"testing"
	"time"

	"github.com/Renal37/go-quote-relay/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestBuildQuoteFilter(t *testing.T) {
	status := models.StatusERPFailed
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		testName      string
		filter        models.QuoteFilter
		expectedWhere string
		expectedArgs  []interface{}
	}{
		{
			testName:      "Should return empty condition without filters",
			filter:        models.QuoteFilter{},
			expectedWhere: "",
		},
		{
			testName:      "Should filter by status",
			filter:        models.QuoteFilter{Status: &status},
			expectedWhere: "WHERE status = $1",
			expectedArgs:  []interface{}{"erp_failed"},
		},
		{
			testName:      "Should combine every filter with AND and include the last day",
			filter:        models.QuoteFilter{Status: &status, DateFrom: &from, DateTo: &to},
			expectedWhere: "WHERE status = $1 AND created_at >= $2 AND created_at < $3",
			expectedArgs:  []interface{}{"erp_failed", from, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
		},
		{
			testName:      "Should filter by upper date only",
			filter:        models.QuoteFilter{DateTo: &to},
			expectedWhere: "WHERE created_at < $1",
			expectedArgs:  []interface{}{time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			where, args := buildQuoteFilter(tc.filter)

			assert.Equal(t, tc.expectedWhere, where)
			assert.Equal(t, tc.expectedArgs, args)
		})
	}
}
