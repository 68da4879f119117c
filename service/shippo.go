package service

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"shipquote/config"
	"shipquote/geo"
	"shipquote/parser"
)

// ShippoClient quotes small parcels through the Shippo shipments API.
type ShippoClient struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

func NewShippoClient(cfg config.Config) *ShippoClient {
	timeout := cfg.ShippoTimeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &ShippoClient{
		BaseURL:    strings.TrimRight(cfg.ShippoBaseURL, "/"),
		APIKey:     cfg.ShippoAPIKey,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

type shippoAddress struct {
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

type shippoParcel struct {
	Length       string `json:"length"`
	Width        string `json:"width"`
	Height       string `json:"height"`
	DistanceUnit string `json:"distance_unit"`
	Weight       string `json:"weight"`
	MassUnit     string `json:"mass_unit"`
}

type shippoShipmentRequest struct {
	AddressFrom shippoAddress  `json:"address_from"`
	AddressTo   shippoAddress  `json:"address_to"`
	Parcels     []shippoParcel `json:"parcels"`
	Async       bool           `json:"async"`
}

type shippoServiceLevel struct {
	Name  string `json:"name"`
	Token string `json:"token"`
}

type shippoRate struct {
	Provider      string             `json:"provider"`
	Amount        string             `json:"amount"`
	Currency      string             `json:"currency"`
	EstimatedDays *int               `json:"estimated_days"`
	DurationTerms string             `json:"duration_terms"`
	ServiceLevel  shippoServiceLevel `json:"servicelevel"`
}

type shippoShipmentResponse struct {
	Status string       `json:"status"`
	Rates  []shippoRate `json:"rates"`
}

// CreateShipment posts a synchronous shipment and returns its rates.
func (c *ShippoClient) CreateShipment(ctx context.Context, payload shippoShipmentRequest) (shippoShipmentResponse, error) {
	if c == nil {
		return shippoShipmentResponse{}, errors.New("shippo client is nil")
	}
	if c.APIKey == "" {
		return shippoShipmentResponse{}, ErrNoAPIKey
	}
	header := http.Header{}
	header.Set("Authorization", "ShippoToken "+c.APIKey)

	body, err := doRequest(ctx, c.HTTPClient, http.MethodPost, c.BaseURL+"/shipments/", header, payload)
	if err != nil {
		return shippoShipmentResponse{}, errors.Wrap(err, "shippo shipment")
	}
	var resp shippoShipmentResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return shippoShipmentResponse{}, errors.Wrap(err, "failed to decode shippo response")
	}
	return resp, nil
}

// Quote returns Shippo rates for the parcels, cheapest first.
func (c *ShippoClient) Quote(ctx context.Context, from, to geo.Address, parcels []parser.Parcel) ([]Quote, error) {
	resp, err := c.CreateShipment(ctx, buildShippoShipment(from, to, parcels))
	if err != nil {
		return nil, err
	}
	return mapShippoRates(resp.Rates), nil
}

func buildShippoShipment(from, to geo.Address, parcels []parser.Parcel) shippoShipmentRequest {
	req := shippoShipmentRequest{
		AddressFrom: toShippoAddress(from),
		AddressTo:   toShippoAddress(to),
		Parcels:     make([]shippoParcel, 0, len(parcels)),
	}
	for _, p := range parcels {
		req.Parcels = append(req.Parcels, shippoParcel{
			Length:       formatDecimal(p.Length),
			Width:        formatDecimal(p.Width),
			Height:       formatDecimal(p.Height),
			DistanceUnit: "in",
			Weight:       formatDecimal(p.Weight),
			MassUnit:     "lb",
		})
	}
	return req
}

func toShippoAddress(a geo.Address) shippoAddress {
	return shippoAddress{City: a.City, State: a.State, Zip: a.Zip, Country: a.Country}
}

// mapShippoRates drops rates without a parseable amount and sorts the rest
// by price.
func mapShippoRates(rates []shippoRate) []Quote {
	quotes := make([]Quote, 0, len(rates))
	for _, r := range rates {
		price, err := strconv.ParseFloat(strings.TrimSpace(r.Amount), 64)
		if err != nil || price <= 0 {
			continue
		}
		service := r.ServiceLevel.Name
		if service == "" {
			service = "Standard"
		}
		provider := r.Provider
		if provider == "" {
			provider = "Shippo"
		}
		q := Quote{Provider: provider, Service: service, Price: price, Currency: r.Currency}
		if r.EstimatedDays != nil && *r.EstimatedDays > 0 {
			q.TransitDays = TransitDays(*r.EstimatedDays)
		} else {
			q.TransitDays = TransitText(r.DurationTerms)
		}
		quotes = append(quotes, q)
	}
	sort.SliceStable(quotes, func(i, j int) bool { return quotes[i].Price < quotes[j].Price })
	return quotes
}

// formatDecimal renders at most two decimals without trailing zeros.
func formatDecimal(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
