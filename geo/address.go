// Package geo resolves free-text locations into postal addresses for rate
// providers that need city, state and ZIP.
package geo

import "github.com/pkg/errors"

var (
	// ErrNotFound is returned by lookups that reached the service but got no match.
	ErrNotFound = errors.New("no match found")
	// ErrUnresolved means a location could not be turned into a usable address.
	ErrUnresolved = errors.New("address could not be resolved")
)

// Address is a resolved postal address.
type Address struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// Complete reports whether both city and state are known.
func (a Address) Complete() bool {
	return a.City != "" && a.State != ""
}

// Place is a geocoder hit: an address plus its coordinates.
type Place struct {
	Address
	Lat float64
	Lon float64
}

// HasCoordinates reports whether the geocoder returned a position.
func (p Place) HasCoordinates() bool {
	return p.Lat != 0 || p.Lon != 0
}
