package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractLocations(t *testing.T) {
	cases := []struct {
		name        string
		text        string
		origin      string
		destination string
	}{
		{"zip codes after from/to", "Ship a 24x10x10 box weighing 20lbs from 33142 to 90210", "33142", "90210"},
		{"english from/to", "from Miami to Los Angeles", "Miami", "Los Angeles"},
		{"multi-word cities", "Ship from Rio de Janeiro to Miami", "Rio de Janeiro", "Miami"},
		{"spanish desde/hasta with diacritics", "Enviar una caja de 30x30x30 cm y 5 kg desde Bogotá hasta Medellín", "Bogota", "Medellin"},
		{"spanish de/a", "de Miami a Bogotá", "Miami", "Bogota"},
		{"destination first", "Ship to London from New York", "New York", "London"},
		{"spanish destination first", "quiero enviar a Bogota desde Miami", "Miami", "Bogota"},
		{"verb after to is skipped", "I need to ship from Miami to Denver", "Miami", "Denver"},
		{"bare zip codes", "33142 90210 10x10x10 5lb", "33142", "90210"},
		{"residual route fills missing origin", "Miami to Dallas 10x10x10 5lb", "Miami", "Dallas"},
		{"nothing to find", "hello there", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			origin, destination := ExtractLocations(tc.text)
			assert.Equal(t, tc.origin, origin)
			assert.Equal(t, tc.destination, destination)
		})
	}
}

func TestLocationRule_FromOnly(t *testing.T) {
	o, d := locationRules[0].apply(fold("shipping from Chicago, please"))
	assert.Equal(t, "Chicago", o)
	assert.Empty(t, d)
}

func TestCapture_RejectsMeasurements(t *testing.T) {
	o, d := locationRules[0].apply(fold("caja de 30x30x30 cm y 5 kg"))
	assert.Empty(t, o)
	assert.Empty(t, d)
}

func TestZipRoute(t *testing.T) {
	o, d := zipRoute(fold("pickup 10001 drop 02139-1234"))
	assert.Equal(t, "10001", o)
	assert.Equal(t, "02139-1234", d)
}

func TestResidualRoute_StripsNoiseWords(t *testing.T) {
	o, d := residualRoute(fold("quote my boxes Houston to Phoenix"))
	assert.Equal(t, "Houston", o)
	assert.Equal(t, "Phoenix", d)
}

func TestCleanLocation(t *testing.T) {
	assert.Equal(t, "Los Angeles", cleanLocation("  the   Los Angeles, "))
	assert.Equal(t, "Miami", cleanLocation("(Miami)"))
	assert.Equal(t, "", cleanLocation(" ,. "))
}
