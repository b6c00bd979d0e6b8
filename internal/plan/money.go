package plan

import (
	"math"
	"strconv"
	"strings"
)

// ParseAmount извлекает число из денежной строки вроде "$1,200.50" или "100 000 USD".
// Все символы, кроме цифр, точки и ведущего минуса, отбрасываются.
func ParseAmount(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	var b strings.Builder
	seenDot := false
	seenDigit := false
	negative := false
	for _, r := range value {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			seenDigit = true
		case r == '.' && !seenDot:
			b.WriteRune(r)
			seenDot = true
		case r == '-' && !seenDigit:
			negative = true
		}
	}
	if !seenDigit {
		return 0, false
	}

	parsed, err := strconv.ParseFloat(strings.TrimSuffix(b.String(), "."), 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return 0, false
	}
	if negative {
		parsed = -parsed
	}

	return parsed, true
}

// FormatAmount печатает сумму с разделителями тысяч и без символа валюты.
// Дробная часть выводится, только если она есть (до двух знаков).
func FormatAmount(value float64) string {
	value = roundCents(value)
	negative := value < 0
	if negative {
		value = -value
	}

	whole := math.Floor(value)
	cents := int64(math.Round((value - whole) * 100))
	if cents == 100 {
		whole++
		cents = 0
	}

	digits := strconv.FormatFloat(whole, 'f', 0, 64)
	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	for i, ch := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}
	if cents > 0 {
		b.WriteByte('.')
		if cents < 10 {
			b.WriteByte('0')
		}
		b.WriteString(strconv.FormatInt(cents, 10))
	}

	return b.String()
}

// normalizeAmount переформатирует денежную строку; нечисловой текст возвращается как есть.
func normalizeAmount(value string) string {
	if parsed, ok := ParseAmount(value); ok {
		return FormatAmount(parsed)
	}

	return strings.TrimSpace(value)
}

func roundCents(value float64) float64 {
	return math.Round(value*100) / 100
}
