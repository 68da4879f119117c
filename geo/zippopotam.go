package geo

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Zippopotam looks up US ZIP codes against the zippopotam.us API.
type Zippopotam struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewZippopotam(baseURL string, timeout time.Duration) *Zippopotam {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Zippopotam{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

type zipPlace struct {
	PlaceName         string `json:"place name"`
	State             string `json:"state"`
	StateAbbreviation string `json:"state abbreviation"`
	PostCode          string `json:"post code"`
}

type zipResponse struct {
	PostCode string     `json:"post code"`
	Country  string     `json:"country abbreviation"`
	Places   []zipPlace `json:"places"`
}

// LookupZIP returns the city and state registered for a ZIP code. ZIP+4
// suffixes are ignored.
func (z *Zippopotam) LookupZIP(ctx context.Context, zip string) (Address, error) {
	zip = strings.TrimSpace(zip)
	if i := strings.IndexByte(zip, '-'); i > 0 {
		zip = zip[:i]
	}
	var resp zipResponse
	if err := getJSON(ctx, httpClientOrDefault(z.HTTPClient), z.BaseURL+"/us/"+url.PathEscape(zip), nil, &resp); err != nil {
		return Address{}, errors.Wrapf(err, "zip lookup %s", zip)
	}
	if len(resp.Places) == 0 {
		return Address{}, ErrNotFound
	}
	p := resp.Places[0]
	return Address{
		City:    p.PlaceName,
		State:   firstNonEmpty(p.StateAbbreviation, StateCode(p.State)),
		Zip:     zip,
		Country: "US",
	}, nil
}

// LookupCity returns the first ZIP code listed for city in state.
func (z *Zippopotam) LookupCity(ctx context.Context, state, city string) (string, error) {
	endpoint := z.BaseURL + "/us/" + url.PathEscape(strings.ToLower(state)) + "/" + url.PathEscape(strings.ToLower(city))
	var resp zipResponse
	if err := getJSON(ctx, httpClientOrDefault(z.HTTPClient), endpoint, nil, &resp); err != nil {
		return "", errors.Wrapf(err, "city lookup %s, %s", city, state)
	}
	for _, p := range resp.Places {
		if p.PostCode != "" {
			return p.PostCode, nil
		}
	}
	return "", ErrNotFound
}
