package geo

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/time/rate"
)

// Nominatim is an OpenStreetMap Nominatim geocoder. Public instances allow
// one request per second and require an identifying User-Agent.
type Nominatim struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
	limiter    *rate.Limiter
}

func NewNominatim(baseURL, userAgent string, rps float64, timeout time.Duration) *Nominatim {
	if rps <= 0 {
		rps = 1
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Nominatim{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		UserAgent:  userAgent,
		HTTPClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}
}

type nominatimAddress struct {
	City         string `json:"city"`
	Town         string `json:"town"`
	Village      string `json:"village"`
	Hamlet       string `json:"hamlet"`
	Municipality string `json:"municipality"`
	County       string `json:"county"`
	State        string `json:"state"`
	ISOState     string `json:"ISO3166-2-lvl4"`
	Postcode     string `json:"postcode"`
	CountryCode  string `json:"country_code"`
}

type nominatimPlace struct {
	Lat     string           `json:"lat"`
	Lon     string           `json:"lon"`
	Address nominatimAddress `json:"address"`
	Error   string           `json:"error"`
}

// Search geocodes free text and returns the best hit.
func (n *Nominatim) Search(ctx context.Context, query string) (Place, error) {
	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "jsonv2")
	q.Set("addressdetails", "1")
	q.Set("limit", "1")

	var results []nominatimPlace
	if err := n.get(ctx, "/search", q, &results); err != nil {
		return Place{}, errors.Wrapf(err, "nominatim search %q", query)
	}
	if len(results) == 0 {
		return Place{}, ErrNotFound
	}
	return results[0].toPlace(), nil
}

// Reverse returns the address at a coordinate.
func (n *Nominatim) Reverse(ctx context.Context, lat, lon float64) (Place, error) {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("format", "jsonv2")
	q.Set("addressdetails", "1")

	var result nominatimPlace
	if err := n.get(ctx, "/reverse", q, &result); err != nil {
		return Place{}, errors.Wrap(err, "nominatim reverse")
	}
	if result.Error != "" {
		return Place{}, ErrNotFound
	}
	return result.toPlace(), nil
}

func (n *Nominatim) get(ctx context.Context, path string, q url.Values, out any) error {
	if n.limiter != nil {
		if err := n.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	header := http.Header{}
	if n.UserAgent != "" {
		header.Set("User-Agent", n.UserAgent)
	}
	return getJSON(ctx, httpClientOrDefault(n.HTTPClient), n.BaseURL+path+"?"+q.Encode(), header, out)
}

func (p nominatimPlace) toPlace() Place {
	a := p.Address
	country := strings.ToUpper(a.CountryCode)
	lat, _ := strconv.ParseFloat(p.Lat, 64)
	lon, _ := strconv.ParseFloat(p.Lon, 64)
	return Place{
		Address: Address{
			City:    firstNonEmpty(a.City, a.Town, a.Village, a.Hamlet, a.Municipality, a.County),
			State:   nominatimState(a, country),
			Zip:     strings.TrimSpace(a.Postcode),
			Country: country,
		},
		Lat: lat,
		Lon: lon,
	}
}

// nominatimState prefers the ISO 3166-2 subdivision ("US-FL" -> "FL") for US
// results and the display name elsewhere.
func nominatimState(a nominatimAddress, country string) string {
	if country != "US" {
		return a.State
	}
	if code, ok := strings.CutPrefix(a.ISOState, "US-"); ok && code != "" {
		return code
	}
	return StateCode(a.State)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
