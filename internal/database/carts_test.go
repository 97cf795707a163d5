package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAttributes(t *testing.T) {
	testCases := []struct {
		testName      string
		data          string
		expected      map[string]string
		expectedError bool
	}{
		{
			testName: "Should keep string values",
			data:     `{"cas_number":"64-17-5","purity":"99.8%"}`,
			expected: map[string]string{"cas_number": "64-17-5", "purity": "99.8%"},
		},
		{
			testName: "Should keep numbers as written",
			data:     `{"molecular_weight":46.07,"pack_size":500,"density":7.89e-1}`,
			expected: map[string]string{"molecular_weight": "46.07", "pack_size": "500", "density": "7.89e-1"},
		},
		{
			testName: "Should stringify booleans and nulls",
			data:     `{"hazardous":true,"cold_chain":false,"grade":null}`,
			expected: map[string]string{"hazardous": "true", "cold_chain": "false", "grade": ""},
		},
		{
			testName: "Should keep nested values as compact JSON",
			data:     `{"storage":{"min": 2, "max": 8},"synonyms":["ethanol", "EtOH"]}`,
			expected: map[string]string{"storage": `{"max":8,"min":2}`, "synonyms": `["ethanol","EtOH"]`},
		},
		{
			testName: "Should return empty map for empty object",
			data:     `{}`,
			expected: map[string]string{},
		},
		{
			testName: "Should return nil for null column",
			data:     `null`,
			expected: nil,
		},
		{
			testName:      "Should fail on malformed JSON",
			data:          `{"molecular_weight":`,
			expectedError: true,
		},
		{
			testName:      "Should fail on non-object JSON",
			data:          `[1,2]`,
			expectedError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.testName, func(t *testing.T) {
			attributes, err := decodeAttributes([]byte(tc.data))
			if tc.expectedError {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expected, attributes)
		})
	}
}
