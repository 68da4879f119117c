// Package parser turns a free-text shipping request (English or Spanish)
// into a ParsedRequest: parcels in inches/pounds, origin and destination
// text, and the country classification used for routing.
package parser

import "strings"

// Parse extracts everything the quoting pipeline needs from raw text. It is
// deterministic: the same text always yields the same ParsedRequest.
func Parse(raw string) ParsedRequest {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ParsedRequest{Parcels: []Parcel{}, OriginCountry: defaultCountry, DestCountry: defaultCountry}
	}
	text := fold(raw)

	parcels := ExtractParcels(text.Match)
	if parcels == nil {
		parcels = []Parcel{}
	}
	origin, destination := ExtractLocations(raw)

	req := ParsedRequest{
		Parcels:       parcels,
		Origin:        origin,
		Destination:   destination,
		OriginCountry: DetectCountry(origin),
		DestCountry:   DetectCountry(destination),
		IsPallet:      IsPallet(text.Match),
	}
	req.IsInternational = req.OriginCountry != req.DestCountry || HasInternationalIndicator(raw)
	req.NeedsBothQuotes = NeedsBoth(req)
	return req
}
