package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"shipquote/parser"
)

func box(weight float64) parser.Parcel {
	return parser.Parcel{Length: 10, Width: 10, Height: 10, Weight: weight}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		req  parser.ParsedRequest
		want string
	}{
		{"light domestic box", parser.ParsedRequest{Parcels: []parser.Parcel{box(20)}}, ShippoOnly},
		{"domestic box at the small parcel limit", parser.ParsedRequest{Parcels: []parser.Parcel{box(70)}}, Both},
		{"several domestic boxes", parser.ParsedRequest{Parcels: []parser.Parcel{box(5), box(5)}}, Both},
		{"domestic pallet", parser.ParsedRequest{Parcels: []parser.Parcel{box(500)}, IsPallet: true}, FreightosOnly},
		{"international pallet", parser.ParsedRequest{Parcels: []parser.Parcel{box(500)}, IsPallet: true, IsInternational: true}, FreightosOnly},
		{"international box", parser.ParsedRequest{Parcels: []parser.Parcel{box(5)}, IsInternational: true}, Both},
		{"heavy domestic box", parser.ParsedRequest{Parcels: []parser.Parcel{box(200)}}, Both},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.req))
		})
	}
}

func TestClassify_Scenarios(t *testing.T) {
	assert.Equal(t, ShippoOnly, Classify(parser.Parse("Ship a 24x10x10 box weighing 20lbs from 33142 to 90210")))
	assert.Equal(t, Both, Classify(parser.Parse("ship 3 boxes from Miami to Los Angeles. 50x50x50 50lb, 50x10x10 10lb, 50x10x10 10lb")))
	assert.Equal(t, FreightosOnly, Classify(parser.Parse("Ship a pallet 48x40x48 500lbs from New York to London")))
	assert.Equal(t, ShippoOnly, Classify(parser.Parse("Ship a 40x40x40 cm box weighing 30 kg from Miami to Dallas")))
}

func TestClassify_Deterministic(t *testing.T) {
	req := parser.ParsedRequest{Parcels: []parser.Parcel{box(30), box(40)}, IsInternational: true}
	first := Classify(req)
	for range 50 {
		assert.Equal(t, first, Classify(req))
	}
}

func TestUsesProvider(t *testing.T) {
	assert.True(t, UsesShippo(Both))
	assert.True(t, UsesShippo(ShippoOnly))
	assert.False(t, UsesShippo(FreightosOnly))
	assert.True(t, UsesFreightos(Both))
	assert.False(t, UsesFreightos(ShippoOnly))
	assert.False(t, UsesFreightos(Incomplete))
}
