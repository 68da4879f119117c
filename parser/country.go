package parser

import (
	"regexp"
	"strings"
)

const defaultCountry = "US"

var (
	bareZIPRule = regexp.MustCompile(`^\d{5}(?:-\d{4})?$`)
	usNameRule  = wordsRule("usa", "us", "united states", "america", "estados unidos", "eeuu", "ee.uu")
	usPlaceRule = wordsRule(
		"new york", "nueva york", "nyc", "brooklyn", "queens", "los angeles", "chicago", "houston",
		"phoenix", "philadelphia", "san antonio", "san diego", "dallas", "san jose", "austin",
		"jacksonville", "fort worth", "columbus", "charlotte", "san francisco", "indianapolis",
		"seattle", "denver", "washington", "boston", "el paso", "nashville", "detroit",
		"oklahoma city", "portland", "las vegas", "memphis", "louisville", "baltimore", "milwaukee",
		"albuquerque", "tucson", "fresno", "sacramento", "kansas city", "atlanta", "omaha",
		"raleigh", "miami", "doral", "hialeah", "fort lauderdale", "orlando", "tampa", "long beach",
		"oakland", "minneapolis", "tulsa", "new orleans", "cleveland", "pittsburgh", "st louis",
		"saint louis", "salt lake city", "honolulu", "anchorage", "beverly hills", "newark",
		"jersey city", "california", "texas", "florida", "new jersey", "new mexico", "illinois",
		"nevada", "arizona", "ohio", "michigan", "pennsylvania", "massachusetts", "colorado",
	)
)

// countryLexicon is checked in order; the first hit wins.
var countryLexicon = []struct {
	code string
	rule *regexp.Regexp
}{
	{"CN", wordsRule("china", "shanghai", "beijing", "shenzhen", "guangzhou", "ningbo", "xiamen", "qingdao", "tianjin", "yiwu")},
	{"GB", wordsRule("uk", "united kingdom", "england", "inglaterra", "reino unido", "great britain", "london", "londres", "manchester", "birmingham", "liverpool", "glasgow", "edinburgh")},
	{"DE", wordsRule("germany", "alemania", "deutschland", "berlin", "hamburg", "munich", "munchen", "frankfurt", "cologne")},
	{"FR", wordsRule("france", "francia", "paris", "lyon", "marseille", "le havre")},
	{"JP", wordsRule("japan", "japon", "tokyo", "osaka", "yokohama", "nagoya")},
	{"CA", wordsRule("canada", "toronto", "vancouver", "montreal", "calgary", "ottawa")},
	{"MX", wordsRule("mexico", "ciudad de mexico", "cdmx", "guadalajara", "monterrey", "tijuana", "cancun")},
	{"IN", wordsRule("india", "mumbai", "delhi", "new delhi", "bangalore", "chennai", "kolkata")},
	{"AU", wordsRule("australia", "sydney", "melbourne", "brisbane", "perth")},
	{"BR", wordsRule("brazil", "brasil", "sao paulo", "rio de janeiro", "santos", "brasilia")},
	{"ES", wordsRule("spain", "espana", "madrid", "barcelona", "valencia", "sevilla", "seville")},
	{"CO", wordsRule("colombia", "bogota", "medellin", "cali", "barranquilla", "cartagena")},
	{"AR", wordsRule("argentina", "buenos aires", "cordoba", "rosario")},
	{"PE", wordsRule("peru", "lima", "callao", "arequipa")},
	{"CL", wordsRule("chile", "santiago", "valparaiso")},
	{"VE", wordsRule("venezuela", "caracas", "maracaibo")},
	{"IT", wordsRule("italy", "italia", "rome", "roma", "milan", "milano")},
	{"NL", wordsRule("netherlands", "holland", "amsterdam", "rotterdam")},
	{"KR", wordsRule("south korea", "korea", "seoul", "busan")},
	{"AE", wordsRule("uae", "united arab emirates", "dubai", "abu dhabi")},
	{"EC", wordsRule("ecuador", "quito", "guayaquil")},
	{"GT", wordsRule("guatemala")},
	{"CR", wordsRule("costa rica", "san jose costa rica")},
	{"PA", wordsRule("panama")},
	{"DO", wordsRule("dominican republic", "republica dominicana", "santo domingo")},
}

var internationalRule = wordsRule(
	"international", "internacional", "overseas", "abroad", "export", "exportacion",
	"import", "importacion", "extranjero", "customs", "aduana", "worldwide",
)

func wordsRule(words ...string) *regexp.Regexp {
	quoted := make([]string, 0, len(words))
	for _, w := range words {
		quoted = append(quoted, regexp.QuoteMeta(w))
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

// DetectCountry classifies a free-text location into a 2-letter country
// code, defaulting to US.
func DetectCountry(location string) string {
	text := strings.TrimSpace(fold(location).Match)
	if text == "" {
		return defaultCountry
	}
	if bareZIPRule.MatchString(text) || usNameRule.MatchString(text) || usPlaceRule.MatchString(text) {
		return "US"
	}
	for _, c := range countryLexicon {
		if c.rule.MatchString(text) {
			return c.code
		}
	}
	return defaultCountry
}

// HasInternationalIndicator reports phrasing such as "overseas" or "export".
func HasInternationalIndicator(text string) bool {
	return internationalRule.MatchString(fold(text).Match)
}
