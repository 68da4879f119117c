package service

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"shipquote/config"
	"shipquote/parser"
)

// FreightosClient quotes freight through the Freightos shipping estimator.
type FreightosClient struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewFreightosClient authenticates with an API key, or with OAuth2 client
// credentials when those are configured.
func NewFreightosClient(cfg config.Config) *FreightosClient {
	timeout := cfg.FreightosTimeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	httpClient := &http.Client{Timeout: timeout}
	if cfg.FreightosOAuthEnabled() {
		cc := clientcredentials.Config{
			ClientID:     cfg.FreightosClientID,
			ClientSecret: cfg.FreightosClientSecret,
			TokenURL:     cfg.FreightosTokenURL,
		}
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		httpClient = cc.Client(ctx)
		httpClient.Timeout = timeout
	}
	return &FreightosClient{
		BaseURL:    strings.TrimRight(cfg.FreightosBaseURL, "/"),
		APIKey:     cfg.FreightosAPIKey,
		HTTPClient: httpClient,
	}
}

// freightRequest is the single representative load submitted for a request.
type freightRequest struct {
	LoadType    string
	Weight      float64
	Length      float64
	Width       float64
	Height      float64
	Quantity    int
	Origin      string
	Destination string
}

// buildFreightRequest submits the average unit weight and the largest
// dimension on each axis.
func buildFreightRequest(req parser.ParsedRequest) freightRequest {
	fr := freightRequest{
		LoadType:    "boxes",
		Quantity:    max(len(req.Parcels), 1),
		Origin:      req.Origin,
		Destination: req.Destination,
	}
	if req.IsPallet {
		fr.LoadType = "pallets"
	}
	fr.Weight = req.TotalWeight() / float64(fr.Quantity)
	for _, p := range req.Parcels {
		fr.Length = max(fr.Length, p.Length)
		fr.Width = max(fr.Width, p.Width)
		fr.Height = max(fr.Height, p.Height)
	}
	return fr
}

func (fr freightRequest) query() url.Values {
	q := url.Values{}
	q.Set("loadtype", fr.LoadType)
	q.Set("weight", formatDecimal(fr.Weight))
	q.Set("length", formatDecimal(fr.Length))
	q.Set("width", formatDecimal(fr.Width))
	q.Set("height", formatDecimal(fr.Height))
	q.Set("quantity", strconv.Itoa(fr.Quantity))
	q.Set("origin", fr.Origin)
	q.Set("destination", fr.Destination)
	return q
}

// Estimate calls the estimator and returns the raw 2xx body.
func (c *FreightosClient) Estimate(ctx context.Context, fr freightRequest) ([]byte, error) {
	if c == nil {
		return nil, errors.New("freightos client is nil")
	}
	header := http.Header{}
	if c.APIKey != "" {
		header.Set("x-apikey", c.APIKey)
	}
	body, err := doRequest(ctx, c.HTTPClient, http.MethodGet, c.BaseURL+"?"+fr.query().Encode(), header, nil)
	return body, errors.Wrap(err, "freightos estimate")
}

// Quote returns freight quotes. Transport errors and non-2xx statuses are
// returned as errors; any 2xx body yields at least the heuristic estimate.
func (c *FreightosClient) Quote(ctx context.Context, req parser.ParsedRequest) ([]Quote, error) {
	body, err := c.Estimate(ctx, buildFreightRequest(req))
	if err != nil {
		return nil, err
	}
	return NormalizeFreight(body, ProfileFor(req)), nil
}
