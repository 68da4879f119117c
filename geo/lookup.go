package geo

import "context"

// Geocoder converts between free text, coordinates and addresses.
//
//go:generate mockgen -package=geo -destination=mock_lookup_test.go -source=lookup.go
type Geocoder interface {
	Search(ctx context.Context, query string) (Place, error)
	Reverse(ctx context.Context, lat, lon float64) (Place, error)
}

// PostalLookup is a ZIP code database.
type PostalLookup interface {
	// LookupZIP returns the city and state for a US ZIP code.
	LookupZIP(ctx context.Context, zip string) (Address, error)
	// LookupCity returns a ZIP code for a city in a state.
	LookupCity(ctx context.Context, state, city string) (string, error)
}
