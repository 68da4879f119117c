package service

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Provider names used in logs and ProviderResult.
const (
	ProviderShippo    = "shippo"
	ProviderFreightos = "freightos"
)

// Quote is one provider-agnostic rate. Price is in the provider's currency.
type Quote struct {
	Provider    string       `json:"provider"`
	Service     string       `json:"service"`
	Price       float64      `json:"price"`
	Currency    string       `json:"currency"`
	TransitDays *TransitTime `json:"transitDays,omitempty"`
	Mode        string       `json:"mode,omitempty"`
}

// TransitTime is either a day count or a free-text duration such as
// "3-7 days". It encodes as a JSON number or string accordingly.
type TransitTime struct {
	Days int
	Text string
}

func TransitDays(days int) *TransitTime {
	if days <= 0 {
		return nil
	}
	return &TransitTime{Days: days}
}

func TransitText(text string) *TransitTime {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return &TransitTime{Text: text}
}

func (t TransitTime) String() string {
	if t.Text != "" {
		return t.Text
	}
	return strconv.Itoa(t.Days) + " days"
}

func (t TransitTime) MarshalJSON() ([]byte, error) {
	if t.Text != "" {
		return json.Marshal(t.Text)
	}
	return json.Marshal(t.Days)
}

func (t *TransitTime) UnmarshalJSON(data []byte) error {
	var days float64
	if err := json.Unmarshal(data, &days); err == nil {
		*t = TransitTime{Days: int(days)}
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	*t = TransitTime{Text: text}
	return nil
}

// Status says how a provider call ended.
type Status string

const (
	StatusOK      Status = "ok"
	StatusNoRates Status = "no_rates"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// ProviderResult separates "provider had no rates" from "provider call
// failed" while still yielding a plain quote list.
type ProviderResult struct {
	Provider string
	Quotes   []Quote
	Status   Status
	Reason   string
}

func resultFrom(provider string, quotes []Quote, err error) ProviderResult {
	switch {
	case err != nil:
		return ProviderResult{Provider: provider, Status: StatusFailed, Reason: err.Error()}
	case len(quotes) == 0:
		return ProviderResult{Provider: provider, Status: StatusNoRates}
	default:
		return ProviderResult{Provider: provider, Quotes: quotes, Status: StatusOK}
	}
}

func skipped(provider, reason string) ProviderResult {
	return ProviderResult{Provider: provider, Status: StatusSkipped, Reason: reason}
}
