package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeLength(t *testing.T) {
	cases := []struct {
		unit string
		want float64
	}{
		{"cm", 10 * 0.3937007874},
		{"CMS", 10 * 0.3937007874},
		{"centimetros", 10 * 0.3937007874},
		{"in", 10},
		{"inches", 10},
		{`"`, 10},
		{"pulgadas", 10},
		{"", 10},
		{"furlongs", 10},
	}
	for _, tc := range cases {
		assert.InDeltaf(t, tc.want, NormalizeLength(10, tc.unit), 1e-9, "unit %q", tc.unit)
	}
}

func TestNormalizeWeight(t *testing.T) {
	cases := []struct {
		unit string
		want float64
	}{
		{"kg", 5 * 2.2046226218},
		{"Kgs", 5 * 2.2046226218},
		{"kilos", 5 * 2.2046226218},
		{"kilogramo", 5 * 2.2046226218},
		{"lb", 5},
		{"lbs", 5},
		{"libras", 5},
		{"", 5},
		{"stone", 5},
	}
	for _, tc := range cases {
		assert.InDeltaf(t, tc.want, NormalizeWeight(5, tc.unit), 1e-9, "unit %q", tc.unit)
	}
}

func TestPoundsToKilograms(t *testing.T) {
	assert.InDelta(t, 10.0, PoundsToKilograms(NormalizeWeight(10, "kg")), 1e-9)
}

func TestFold_StripsDiacriticsAndKeepsOffsets(t *testing.T) {
	f := fold("Envío desde BOGOTÁ hasta Medellín")
	assert.Equal(t, "Envio desde BOGOTA hasta Medellin", f.Display)
	assert.Equal(t, "envio desde bogota hasta medellin", f.Match)
	assert.Len(t, f.Match, len(f.Display))
}
