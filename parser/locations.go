package parser

import (
	"regexp"
	"strings"
)

const (
	fromWords = `(?:from|desde|de)`
	toWords   = `(?:to|a|hasta|para)`
	stopWords = `(?:weighing|weighs|weight|with|please|asap|today|tomorrow|next|using|via|on|by|for|and|in|` +
		`con|peso|pesa|pesan|por favor|hoy|manana|y|en|que|a|an|the|pallets?|boxes|box|cajas?)`
	// locationEnd closes a capture: punctuation, end of text, a stop word, or
	// the start of a measurement.
	locationEnd = `(?:\s*[.;!?\n]|\s+` + stopWords + `\b|\s+\d+(?:\.\d+)?\s*[a-z"]*` + separatorPattern + `\d|\s+\d+(?:\.\d+)?\s*` + weightUnitPattern + `\b|\s*$)`
)

// locationRule anchors at a keyword and captures the text after it, plus an
// optional counterpart after a second keyword.
type locationRule struct {
	name    string
	keyword *regexp.Regexp
	tails   []*regexp.Regexp
	// swapped rules capture destination first.
	swapped bool
}

var locationRules = []locationRule{
	{
		name:    "from",
		keyword: regexp.MustCompile(`\b` + fromWords + `\s+`),
		tails: []*regexp.Regexp{
			regexp.MustCompile(`^(.+?)(?:\s+` + toWords + `\s+(.+?))?` + locationEnd),
		},
	},
	{
		name:    "to",
		keyword: regexp.MustCompile(`\b` + toWords + `\s+`),
		tails: []*regexp.Regexp{
			regexp.MustCompile(`^(.+?)(?:\s+(?:from|desde)\s+(.+?))?` + locationEnd),
			regexp.MustCompile(`^(.+?)(?:\s+de\s+(.+?))?` + locationEnd),
		},
		swapped: true,
	},
}

var (
	bareRouteRule = regexp.MustCompile(`^\s*(.+?)\s+(?:to|a|hasta)\s+(.+?)\s*$`)
	fromWordRule  = regexp.MustCompile(`\b(?:from|desde)\b`)
	verbRule      = regexp.MustCompile(`^(?:ship|send|enviar|mandar|cotizar|quote|get|know|check|find|see|have|be|do|make|move|deliver|entregar)\b`)
	residualNoise = wordsRule(
		"i", "we", "need", "needs", "want", "would", "like", "quiero", "necesito", "please", "quote",
		"cotizacion", "cotizar", "ship", "shipping", "send", "enviar", "envio", "mandar", "for", "my",
		"our", "un", "una", "box", "boxes", "package", "packages", "parcel", "parcels", "caja", "cajas",
		"paquete", "paquetes", "pallet", "pallets", "palet", "palets", "tarima", "tarimas", "skid",
		"skids", "weighing", "weighs", "weight", "peso", "pesa", "pesan", "cm", "cms", "in", "inches",
		"kg", "kgs", "lb", "lbs", "pounds", "libras", "kilos", "of", "de", "each", "cada",
	)
	leadingArticle = regexp.MustCompile(`^(?:the|a|an)\s+`)
)

// ExtractLocations finds origin and destination in the request text. The
// returned strings come from the diacritic-stripped, case-preserved text.
func ExtractLocations(raw string) (origin, destination string) {
	text := fold(raw)

	for _, rule := range locationRules {
		o, d := rule.apply(text)
		if origin == "" {
			origin = o
		}
		if destination == "" {
			destination = d
		}
	}
	if origin != "" && destination != "" {
		return origin, destination
	}

	o, d := fallbackRoute(text)
	switch {
	case origin == "" && destination == "":
		return o, d
	case origin == "" && strings.EqualFold(d, destination):
		origin = o
	case destination == "" && strings.EqualFold(o, origin):
		destination = d
	}
	return origin, destination
}

// fallbackRoute works on text with measurements blanked out: the first two
// ZIP codes, else a bare "<a> to <b>" split of what remains.
func fallbackRoute(text foldedText) (origin, destination string) {
	spans := measurementSpans(text.Match)
	masked := foldedText{Display: blank(text.Display, spans), Match: blank(text.Match, spans)}
	if o, d := zipRoute(masked); o != "" {
		return o, d
	}
	return residualRoute(masked)
}

// apply scans keyword positions left to right. The first candidate yielding
// both ends wins; otherwise the first yielding one end.
func (r locationRule) apply(text foldedText) (origin, destination string) {
	var firstO, firstD string
	for _, kw := range r.keyword.FindAllStringIndex(text.Match, -1) {
		start := kw[1]
		for _, tail := range r.tails {
			loc := tail.FindStringSubmatchIndex(text.Match[start:])
			if loc == nil {
				continue
			}
			a := capture(text, start, loc, 1)
			b := capture(text, start, loc, 2)
			if a == "" {
				continue
			}
			o, d := a, b
			if r.swapped {
				o, d = b, a
			}
			if o != "" && d != "" {
				return o, d
			}
			if firstO == "" && firstD == "" {
				firstO, firstD = o, d
			}
			break
		}
	}
	return firstO, firstD
}

// capture returns the cleaned text of group n, or "" if it is not a
// plausible location.
func capture(text foldedText, offset int, loc []int, n int) string {
	if loc[2*n] < 0 {
		return ""
	}
	from, to := offset+loc[2*n], offset+loc[2*n+1]
	match := text.Match[from:to]
	if containsMeasurement(match) || fromWordRule.MatchString(match) {
		return ""
	}
	cleaned := cleanLocation(text.Display[from:to])
	if cleaned == "" || verbRule.MatchString(asciiLower(cleaned)) {
		return ""
	}
	return cleaned
}

func zipRoute(text foldedText) (origin, destination string) {
	zips := zipRule.FindAllStringIndex(text.Match, 2)
	if len(zips) == 0 {
		return "", ""
	}
	origin = text.Display[zips[0][0]:zips[0][1]]
	if len(zips) > 1 {
		destination = text.Display[zips[1][0]:zips[1][1]]
	}
	return origin, destination
}

func residualRoute(text foldedText) (origin, destination string) {
	noise := residualNoise.FindAllStringIndex(text.Match, -1)
	residual := foldedText{Display: blank(text.Display, noise), Match: blank(text.Match, noise)}
	loc := bareRouteRule.FindStringSubmatchIndex(residual.Match)
	if loc == nil {
		return "", ""
	}
	origin = cleanLocation(residual.Display[loc[2]:loc[3]])
	destination = cleanLocation(residual.Display[loc[4]:loc[5]])
	if origin == "" || destination == "" {
		return "", ""
	}
	return origin, destination
}

// cleanLocation collapses whitespace and trims punctuation and a leading
// English article.
func cleanLocation(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	s = strings.Trim(s, " ,.;:!?\"'()-")
	lower := asciiLower(s)
	if loc := leadingArticle.FindStringIndex(lower); loc != nil {
		s = s[loc[1]:]
	}
	return strings.TrimSpace(s)
}
