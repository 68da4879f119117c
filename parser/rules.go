package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// Building blocks shared by every extraction rule. All patterns run against
// folded (lowercase, diacritic-free) text.
const (
	numPattern        = `(\d+(?:\.\d+)?)`
	lengthUnitPattern = `(centimetros?|cms?|inches|inch|in|pulgadas?|")?`
	separatorPattern  = `\s*(?:x|×|\*|by|por)\s*`
	weightUnitPattern = `(kilogramos?|kilos?|kgs?|pounds?|libras?|lbs?)`
	weightKeyword     = `(weighing|weighs|weights|weight|pesan|pesa|peso)`
	weightJoiner      = `\s*(?:of|de|about|around|approx\.?|aprox\.?|is|es|:|=)?\s*`
	axisPattern       = numPattern + `\s*` + lengthUnitPattern
	dimensionPattern  = `\b` + axisPattern + separatorPattern + axisPattern + separatorPattern + axisPattern
	weightPattern     = `(?:` + weightKeyword + weightJoiner + `)?` + numPattern + `\s*` + weightUnitPattern + `?\b`

	// fillerPattern sits between a dimension triple and its weight: same
	// clause, no digits.
	fillerPattern = `[^\d\n;]{0,40}?`
)

var (
	dimensionRule = regexp.MustCompile(dimensionPattern)
	weightRule    = regexp.MustCompile(weightPattern)
	combinedRule  = regexp.MustCompile(dimensionPattern + fillerPattern + weightPattern)

	// generalWeightRule finds a shipment-level "weight: N" phrase.
	generalWeightRule = regexp.MustCompile(`\b(?:total\s+)?(?:weight|peso)\s*(?:total\s*)?(?:of|de|is|es|:|=)?\s*` + numPattern + `\s*` + weightUnitPattern + `?\b`)
	palletRule        = regexp.MustCompile(`\b(?:pallets?|palets?|paletas?|tarimas?|skids?)\b`)
	zipRule           = regexp.MustCompile(`\b\d{5}(?:-\d{4})?\b`)
)

// dimensionMatch is one dimension triple, already in inches.
type dimensionMatch struct {
	Span   []int
	Length float64
	Width  float64
	Height float64
}

// weightMatch is one weight expression, already in pounds.
type weightMatch struct {
	Span   []int
	Pounds float64
}

// submatch returns the text of capture group n, or "" when it did not take part.
func submatch(s string, loc []int, n int) string {
	if 2*n+1 >= len(loc) || loc[2*n] < 0 {
		return ""
	}
	return s[loc[2*n]:loc[2*n+1]]
}

func parseNumber(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

// dimensionFrom reads a triple from groups first..first+5 of loc. Each axis
// keeps its own unit; an axis without one takes the last unit stated in the
// triple ("30x30x30 cm").
func dimensionFrom(s string, loc []int, first int) dimensionMatch {
	var values [3]float64
	var units [3]string
	trailing := ""
	for i := range 3 {
		values[i] = parseNumber(submatch(s, loc, first+2*i))
		units[i] = submatch(s, loc, first+2*i+1)
		if units[i] != "" {
			trailing = units[i]
		}
	}
	for i := range units {
		if units[i] == "" {
			units[i] = trailing
		}
	}
	return dimensionMatch{
		Span:   []int{loc[0], loc[1]},
		Length: NormalizeLength(values[0], units[0]),
		Width:  NormalizeLength(values[1], units[1]),
		Height: NormalizeLength(values[2], units[2]),
	}
}

// weightFrom reads a weight from groups first..first+2 (keyword, number,
// unit). A bare number without keyword or unit is not a weight.
func weightFrom(s string, loc []int, first int) (weightMatch, bool) {
	keyword := submatch(s, loc, first)
	unit := submatch(s, loc, first+2)
	if keyword == "" && unit == "" {
		return weightMatch{}, false
	}
	return weightMatch{
		Span:   []int{loc[0], loc[1]},
		Pounds: NormalizeWeight(parseNumber(submatch(s, loc, first+1)), unit),
	}, true
}

func findDimensions(s string) []dimensionMatch {
	locs := dimensionRule.FindAllStringSubmatchIndex(s, -1)
	out := make([]dimensionMatch, 0, len(locs))
	for _, loc := range locs {
		out = append(out, dimensionFrom(s, loc, 1))
	}
	return out
}

func findWeights(s string) []weightMatch {
	locs := weightRule.FindAllStringSubmatchIndex(s, -1)
	out := make([]weightMatch, 0, len(locs))
	for _, loc := range locs {
		if w, ok := weightFrom(s, loc, 1); ok {
			out = append(out, w)
		}
	}
	return out
}

func findGeneralWeight(s string) (float64, bool) {
	loc := generalWeightRule.FindStringSubmatchIndex(s)
	if loc == nil {
		return 0, false
	}
	pounds := NormalizeWeight(parseNumber(submatch(s, loc, 1)), submatch(s, loc, 2))
	return pounds, pounds > 0
}

// measurementSpans returns every dimension and weight span in s.
func measurementSpans(s string) [][]int {
	var spans [][]int
	for _, d := range findDimensions(s) {
		spans = append(spans, d.Span)
	}
	for _, w := range findWeights(blank(s, spans)) {
		spans = append(spans, w.Span)
	}
	return spans
}

func containsMeasurement(s string) bool {
	if dimensionRule.MatchString(s) {
		return true
	}
	return len(findWeights(s)) > 0
}
