package service

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"shipquote/parser"
)

const freightosProvider = "Freightos"

// Heuristic rates in USD per kilogram.
const (
	airRatePerKg             = 3.5
	domesticSurfaceRatePerKg = 1.2
	surfaceRatePerKg         = 0.8
	verbatimRateLimit        = 5
)

var (
	airModes     = map[string]bool{"air": true, "express": true}
	surfaceModes = map[string]bool{"lcl": true, "fcl": true, "sea": true, "ocean": true, "ltl": true, "ftl": true}
)

// ShipmentProfile is what the freight tiers need to know about a request.
type ShipmentProfile struct {
	Domestic     bool
	FreightClass bool
	WeightKg     float64
}

func ProfileFor(req parser.ParsedRequest) ShipmentProfile {
	return ShipmentProfile{
		Domestic:     !req.IsInternational,
		FreightClass: req.IsFreightClass(),
		WeightKg:     parser.PoundsToKilograms(req.TotalWeight()),
	}
}

// domesticFreight loads are never offered air.
func (p ShipmentProfile) domesticFreight() bool {
	return p.Domestic && p.FreightClass
}

func (p ShipmentProfile) surfaceLabel() string {
	if p.domesticFreight() {
		return "Ground Freight"
	}
	return "Ocean Freight"
}

type responseKind int

const (
	kindEmpty responseKind = iota
	kindStructured
	kindFlat
)

// freightEntry is one priced option from either response shape.
type freightEntry struct {
	Tag      string
	Service  string
	Price    float64
	Currency string
	Transit  *TransitTime
}

// freightResponse is the tagged form of an estimator body. A structured
// body may also carry a flat rate list; an empty one carries neither.
type freightResponse struct {
	Kind  responseKind
	Modes []freightEntry
	Rates []freightEntry
}

type category int

const (
	categoryAir category = iota
	categorySurface
)

// tierState tracks which categories are filled and whether any tier has
// produced quotes.
type tierState struct {
	profile ShipmentProfile
	filled  map[category]bool
	quotes  []Quote
}

func (s *tierState) add(c category, q Quote) {
	s.filled[c] = true
	s.quotes = append(s.quotes, q)
}

// freightTier adds quotes for unfilled categories, or nothing to defer.
type freightTier func(resp freightResponse, s *tierState)

var freightTiers = []freightTier{structuredTier, flatTier, heuristicTier}

// NormalizeFreight runs an estimator body through the tier pipeline. A
// category filled by one tier is never filled again by a later one.
func NormalizeFreight(body []byte, profile ShipmentProfile) []Quote {
	resp := classifyFreight(body)
	state := &tierState{profile: profile, filled: map[category]bool{}}
	for _, tier := range freightTiers {
		tier(resp, state)
	}
	return state.quotes
}

// structuredTier takes the cheapest named mode in each bucket.
func structuredTier(resp freightResponse, s *tierState) {
	if resp.Kind != kindStructured {
		return
	}
	if !s.filled[categoryAir] && !s.profile.domesticFreight() {
		if e, ok := cheapest(resp.Modes, func(tag string) bool { return airModes[tag] }); ok {
			s.add(categoryAir, e.quote("Air Freight", e.Tag))
		}
	}
	if !s.filled[categorySurface] {
		if e, ok := cheapest(resp.Modes, func(tag string) bool { return surfaceModes[tag] }); ok {
			s.add(categorySurface, e.quote(s.profile.surfaceLabel(), e.Tag))
		}
	}
}

// flatTier takes the cheapest air-tagged and sea-tagged rates, or the first
// few rates verbatim when none is tagged and nothing was produced yet.
func flatTier(resp freightResponse, s *tierState) {
	if resp.Kind == kindEmpty || len(resp.Rates) == 0 {
		return
	}
	air, hasAir := cheapest(resp.Rates, isAirTag)
	sea, hasSea := cheapest(resp.Rates, isSeaTag)

	if hasAir && !s.filled[categoryAir] && !s.profile.domesticFreight() {
		s.add(categoryAir, air.quote(firstNonBlank(air.Service, "Air Freight"), "air"))
	}
	if hasSea && !s.filled[categorySurface] {
		s.add(categorySurface, sea.quote(firstNonBlank(sea.Service, s.profile.surfaceLabel()), "ocean"))
	}
	if hasAir || hasSea || len(s.quotes) > 0 {
		return
	}
	for i, e := range resp.Rates {
		if i == verbatimRateLimit {
			break
		}
		s.quotes = append(s.quotes, e.quote(firstNonBlank(e.Service, e.Tag, "Freight"), e.Tag))
	}
}

// heuristicTier synthesizes per-kg estimates when the API gave nothing usable.
func heuristicTier(_ freightResponse, s *tierState) {
	if len(s.quotes) > 0 {
		return
	}
	p := s.profile
	if !p.domesticFreight() {
		s.add(categoryAir, Quote{
			Provider:    freightosProvider,
			Service:     "Air Freight (estimate)",
			Price:       roundCents(p.WeightKg * airRatePerKg),
			Currency:    "USD",
			TransitDays: TransitText("3-7 days"),
			Mode:        "air",
		})
	}
	rate, transit, mode := surfaceRatePerKg, "15-30 days", "ocean"
	if p.domesticFreight() {
		rate, mode = domesticSurfaceRatePerKg, "ground"
	}
	if p.Domestic {
		transit = "2-7 days"
	}
	s.add(categorySurface, Quote{
		Provider:    freightosProvider,
		Service:     p.surfaceLabel() + " (estimate)",
		Price:       roundCents(p.WeightKg * rate),
		Currency:    "USD",
		TransitDays: TransitText(transit),
		Mode:        mode,
	})
}

func (e freightEntry) quote(service, mode string) Quote {
	return Quote{
		Provider:    freightosProvider,
		Service:     service,
		Price:       e.Price,
		Currency:    firstNonBlank(e.Currency, "USD"),
		TransitDays: e.Transit,
		Mode:        mode,
	}
}

func cheapest(entries []freightEntry, match func(tag string) bool) (freightEntry, bool) {
	var best freightEntry
	found := false
	for _, e := range entries {
		if e.Price <= 0 || !match(e.Tag) {
			continue
		}
		if !found || e.Price < best.Price {
			best, found = e, true
		}
	}
	return best, found
}

func isAirTag(tag string) bool {
	return strings.Contains(tag, "air") || strings.Contains(tag, "express")
}

func isSeaTag(tag string) bool {
	for _, t := range []string{"sea", "ocean", "lcl", "fcl"} {
		if strings.Contains(tag, t) {
			return true
		}
	}
	return false
}

// classifyFreight decodes an estimator body into its tagged form. Bodies
// that are not JSON are empty.
func classifyFreight(body []byte) freightResponse {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return freightResponse{Kind: kindEmpty}
	}
	resp := freightResponse{}
	if m, ok := payload.(map[string]any); ok {
		for _, path := range []string{"response.estimatedFreightRates.mode", "estimatedFreightRates.mode", "modes"} {
			if modes := modeEntries(getPath(m, path)); len(modes) > 0 {
				resp.Modes = modes
				break
			}
		}
		for _, path := range []string{"rates", "quotes", "results", "data", "response.rates"} {
			if list, ok := getPath(m, path).([]any); ok {
				resp.Rates = rateEntries(list)
				break
			}
		}
	} else if list, ok := payload.([]any); ok {
		resp.Rates = rateEntries(list)
	}

	switch {
	case len(resp.Modes) > 0:
		resp.Kind = kindStructured
	case len(resp.Rates) > 0:
		resp.Kind = kindFlat
	}
	return resp
}

// modeEntries accepts a single mode object or a list of them.
func modeEntries(v any) []freightEntry {
	var items []any
	switch t := v.(type) {
	case []any:
		items = t
	case map[string]any:
		items = []any{t}
	default:
		return nil
	}
	var out []freightEntry
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		tag := strings.ToLower(getString(m, []string{"mode", "name", "type"}))
		if !airModes[tag] && !surfaceModes[tag] {
			continue
		}
		price, ok := getNumber(m, []string{"price.min.moneyAmount.amount", "price.min.amount", "price.min", "price.amount", "price", "minPrice", "amount"})
		if !ok {
			continue
		}
		out = append(out, freightEntry{
			Tag:      tag,
			Price:    price,
			Currency: getString(m, []string{"price.min.moneyAmount.currency", "price.currency", "currency"}),
			Transit:  transitOf(m),
		})
	}
	return out
}

func rateEntries(list []any) []freightEntry {
	var out []freightEntry
	for _, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		price, ok := getNumber(m, []string{"price", "amount", "total", "totalPrice", "price.amount", "price.min"})
		if !ok {
			continue
		}
		out = append(out, freightEntry{
			Tag:      strings.ToLower(getString(m, []string{"mode", "type", "transportMode", "service", "name"})),
			Service:  getString(m, []string{"service", "serviceName", "name"}),
			Price:    price,
			Currency: getString(m, []string{"currency", "price.currency"}),
			Transit:  transitOf(m),
		})
	}
	return out
}

// transitOf reads a {min,max} transit window or a free-text transit field.
func transitOf(m map[string]any) *TransitTime {
	lo, hasLo := getNumber(m, []string{"transitTimes.min", "transitTime.min"})
	hi, hasHi := getNumber(m, []string{"transitTimes.max", "transitTime.max"})
	switch {
	case hasLo && hasHi && hi > lo:
		return TransitText(fmt.Sprintf("%d-%d days", int(lo), int(hi)))
	case hasLo:
		return TransitDays(int(lo))
	}
	if days, ok := getNumber(m, []string{"transitDays", "transit_days", "days"}); ok {
		return TransitDays(int(days))
	}
	return TransitText(getString(m, []string{"transitTime", "transit_time", "transit", "transitDays"}))
}

// getPath navigates a dot-separated key into nested maps.
func getPath(m map[string]any, path string) any {
	var cur any = m
	for _, p := range strings.Split(path, ".") {
		mm, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := mm[p]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// getString returns the first non-empty string from the candidate keys.
func getString(m map[string]any, keys []string) string {
	for _, k := range keys {
		if s, ok := getPath(m, k).(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// getNumber returns the first positive number, or numeric string, from the
// candidate keys.
func getNumber(m map[string]any, keys []string) (float64, bool) {
	for _, k := range keys {
		switch v := getPath(m, k).(type) {
		case float64:
			if v > 0 {
				return v, true
			}
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && f > 0 {
				return f, true
			}
		}
	}
	return 0, false
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
