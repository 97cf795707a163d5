package validation

import "strings"

var taxIDWeights = [10]int{5, 4, 3, 2, 7, 6, 5, 4, 3, 2}

// NormalizeTaxID оставляет в идентификаторе только цифры.
func NormalizeTaxID(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidTaxID проверяет 11-значный налоговый идентификатор по контрольной цифре.
// Разделители (дефисы, пробелы) игнорируются.
func ValidTaxID(raw string) bool {
	digits := NormalizeTaxID(raw)
	if len(digits) != 11 {
		return false
	}

	sum := 0
	for i, w := range taxIDWeights {
		sum += int(digits[i]-'0') * w
	}

	r := sum % 11
	expected := r
	if r >= 2 {
		expected = 11 - r
	}

	return expected == int(digits[10]-'0')
}

// FormatTaxID приводит идентификатор к виду XX-XXXXXXXX-X.
// Строки другой длины возвращаются без изменений.
func FormatTaxID(raw string) string {
	digits := NormalizeTaxID(raw)
	if len(digits) != 11 {
		return raw
	}
	return digits[:2] + "-" + digits[2:10] + "-" + digits[10:]
}
