package parser

import "strings"

const (
	inchesPerCentimeter = 0.3937007874
	poundsPerKilogram   = 2.2046226218
)

// NormalizeLength converts a length to inches. An empty or unknown unit is
// treated as inches.
func NormalizeLength(value float64, unit string) float64 {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "cm", "cms", "centimetro", "centimetros":
		return value * inchesPerCentimeter
	default:
		return value
	}
}

// NormalizeWeight converts a weight to pounds. An empty or unknown unit is
// treated as pounds.
func NormalizeWeight(value float64, unit string) float64 {
	switch strings.ToLower(strings.TrimSpace(unit)) {
	case "kg", "kgs", "kilo", "kilos", "kilogramo", "kilogramos":
		return value * poundsPerKilogram
	default:
		return value
	}
}

// PoundsToKilograms is used by the freight heuristics, which are priced per kg.
func PoundsToKilograms(pounds float64) float64 {
	return pounds / poundsPerKilogram
}
