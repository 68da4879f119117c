package parser

// Thresholds past which a shipment is quoted by both providers.
const (
	HeavyWeightPounds  = 150.0
	BulkyVolumeInches3 = 50000.0
)

// Parcel is one box in inches and pounds.
type Parcel struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Weight float64 `json:"weight"`
}

// Volume returns the parcel volume in cubic inches.
func (p Parcel) Volume() float64 {
	return p.Length * p.Width * p.Height
}

// ParsedRequest is the structured form of a free-text shipping request.
type ParsedRequest struct {
	Parcels         []Parcel `json:"parcels"`
	Origin          string   `json:"origin"`
	Destination     string   `json:"destination"`
	OriginCountry   string   `json:"originCountry"`
	DestCountry     string   `json:"destCountry"`
	IsInternational bool     `json:"isInternational"`
	IsPallet        bool     `json:"isPallet"`
	NeedsBothQuotes bool     `json:"needsBothQuotes"`
}

// TotalWeight sums parcel weights in pounds.
func (r ParsedRequest) TotalWeight() float64 {
	var total float64
	for _, p := range r.Parcels {
		total += p.Weight
	}
	return total
}

// TotalVolume sums parcel volumes in cubic inches.
func (r ParsedRequest) TotalVolume() float64 {
	var total float64
	for _, p := range r.Parcels {
		total += p.Volume()
	}
	return total
}

// IsFreightClass reports a heavy, bulky or palletized load.
func (r ParsedRequest) IsFreightClass() bool {
	return r.IsPallet || r.TotalWeight() > HeavyWeightPounds || r.TotalVolume() > BulkyVolumeInches3
}

// MissingInfo lists which of dimensions, origin and destination are absent.
func (r ParsedRequest) MissingInfo() []string {
	var missing []string
	if len(r.Parcels) == 0 {
		missing = append(missing, "dimensions")
	}
	if r.Origin == "" {
		missing = append(missing, "origin")
	}
	if r.Destination == "" {
		missing = append(missing, "destination")
	}
	return missing
}

// NeedsBoth derives NeedsBothQuotes from the other fields.
func NeedsBoth(r ParsedRequest) bool {
	return len(r.Parcels) > 1 ||
		(r.IsInternational && !r.IsPallet) ||
		r.TotalWeight() > HeavyWeightPounds ||
		r.TotalVolume() > BulkyVolumeInches3
}
