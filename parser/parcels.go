package parser

// DefaultWeightPounds is used when a parcel's weight cannot be found anywhere.
const DefaultWeightPounds = 10.0

// ExtractParcels finds every parcel in folded text. Senders either write
// self-contained lines ("50x50x50 50lb") or list dimensions and weights
// separately, so a combined pass runs first and a positional pairing pass
// is the fallback.
func ExtractParcels(text string) []Parcel {
	if parcels := extractCombined(text); len(parcels) > 0 {
		return parcels
	}
	return extractPositional(text)
}

// extractCombined returns one parcel per "dimensions + weight" match.
func extractCombined(text string) []Parcel {
	var parcels []Parcel
	for _, loc := range combinedRule.FindAllStringSubmatchIndex(text, -1) {
		w, ok := weightFrom(text, loc, 7)
		if !ok {
			continue
		}
		d := dimensionFrom(text, loc, 1)
		parcels = appendValid(parcels, Parcel{Length: d.Length, Width: d.Width, Height: d.Height, Weight: w.Pounds})
	}
	return parcels
}

// extractPositional pairs the i-th dimension triple with the i-th weight.
func extractPositional(text string) []Parcel {
	dims := findDimensions(text)
	if len(dims) == 0 {
		return nil
	}
	spans := make([][]int, 0, len(dims))
	for _, d := range dims {
		spans = append(spans, d.Span)
	}
	rest := blank(text, spans)
	weights := findWeights(rest)

	fallback := DefaultWeightPounds
	if general, ok := findGeneralWeight(rest); ok {
		fallback = general
	}

	var parcels []Parcel
	for i, d := range dims {
		weight := fallback
		if i < len(weights) {
			weight = weights[i].Pounds
		}
		parcels = appendValid(parcels, Parcel{Length: d.Length, Width: d.Width, Height: d.Height, Weight: weight})
	}
	return parcels
}

func appendValid(parcels []Parcel, p Parcel) []Parcel {
	if p.Length <= 0 || p.Width <= 0 || p.Height <= 0 || p.Weight <= 0 {
		return parcels
	}
	return append(parcels, p)
}

// IsPallet reports whether folded text mentions palletized freight.
func IsPallet(text string) bool {
	return palletRule.MatchString(text)
}
