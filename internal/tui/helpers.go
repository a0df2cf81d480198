package tui

import (
	"fmt"
	"unicode/utf8"
)

// truncStr truncates a string to maxLen runes, appending an ellipsis if needed.
func truncStr(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:maxLen-1]) + "…"
}

// formatMoney renders a dollar amount, e.g. "$1250.00".
func formatMoney(v float64) string {
	if v < 0 {
		return fmt.Sprintf("-$%.2f", -v)
	}
	return fmt.Sprintf("$%.2f", v)
}

// formatGain renders a signed dollar amount, e.g. "+$40.00" or "-$12.50".
func formatGain(v float64) string {
	if v < 0 {
		return fmt.Sprintf("-$%.2f", -v)
	}
	return fmt.Sprintf("+$%.2f", v)
}

// formatGainPercent renders a signed percentage, e.g. "+26.7%".
func formatGainPercent(v float64) string {
	return fmt.Sprintf("%+.1f%%", v)
}
