// Package routing decides which rate providers a parsed request is sent to.
package routing

import "shipquote/parser"

// Routing labels reported to callers.
const (
	FreightosOnly = "Freightos only"
	ShippoOnly    = "Shippo only"
	Both          = "Both"
	Incomplete    = "incomplete"
	Error         = "error"
)

// SmallParcelMaxPounds is the weight below which a lone domestic box goes to
// Shippo alone.
const SmallParcelMaxPounds = 70.0

// Classify returns FreightosOnly, ShippoOnly or Both for a complete request.
// It performs no I/O.
func Classify(req parser.ParsedRequest) string {
	needsBoth := parser.NeedsBoth(req)
	switch {
	case req.IsPallet || (req.IsInternational && !needsBoth):
		return FreightosOnly
	case !req.IsInternational && len(req.Parcels) == 1 && req.Parcels[0].Weight < SmallParcelMaxPounds:
		return ShippoOnly
	default:
		return Both
	}
}

// UsesShippo reports whether the label includes the small-parcel provider.
func UsesShippo(label string) bool {
	return label == ShippoOnly || label == Both
}

// UsesFreightos reports whether the label includes the freight provider.
func UsesFreightos(label string) bool {
	return label == FreightosOnly || label == Both
}
