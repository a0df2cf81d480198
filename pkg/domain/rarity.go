package domain

import "strings"

// Rarity is the tier implied by a serial-number marker. It drives display
// weight only; serials are never semantically validated.
type Rarity int

// Rarity tiers, lowest to highest.
const (
	RarityBase Rarity = iota
	RarityLimited
	RarityNinetyNine
	RaritySeventyFive
	RarityFifty
	RarityTwentyFive
	RarityTen
	RarityFive
	RarityOneOfOne
)

// RarityOf maps a serial marker to its tier. Empty or unrecognized
// serials are base rarity.
func RarityOf(serial string) Rarity {
	if serial == "" {
		return RarityBase
	}
	if serial == "/1" || serial == "1/1" {
		return RarityOneOfOne
	}
	switch {
	case strings.Contains(serial, "/5") && !strings.Contains(serial, "/50"):
		return RarityFive
	case strings.Contains(serial, "/10") && !strings.Contains(serial, "/100"):
		return RarityTen
	case strings.Contains(serial, "/25"):
		return RarityTwentyFive
	case strings.Contains(serial, "/50"):
		return RarityFifty
	case strings.Contains(serial, "/75"):
		return RaritySeventyFive
	case strings.Contains(serial, "/99"):
		return RarityNinetyNine
	case strings.Contains(serial, "/150"), strings.Contains(serial, "/199"):
		return RarityLimited
	default:
		return RarityBase
	}
}
