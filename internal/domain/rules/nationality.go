package rules

import "strings"

var nationalityCountries = map[string]string{
	"ghanaian":      "ghana",
	"nigerian":      "nigeria",
	"kenyan":        "kenya",
	"south african": "south africa",
	"ivorian":       "ivory coast",
	"togolese":      "togo",
	"senegalese":    "senegal",
	"cameroonian":   "cameroon",
	"ethiopian":     "ethiopia",
	"egyptian":      "egypt",
	"american":      "united states",
	"british":       "united kingdom",
	"canadian":      "canada",
	"german":        "germany",
	"french":        "france",
	"dutch":         "netherlands",
	"italian":       "italy",
	"spanish":       "spain",
	"chinese":       "china",
	"indian":        "india",
	"brazilian":     "brazil",
	"jamaican":      "jamaica",
	"australian":    "australia",
}

// CountryForNationality resolves a stated nationality to its country
// name, lowercased.
func CountryForNationality(nationality string) (string, bool) {
	country, ok := nationalityCountries[strings.ToLower(strings.TrimSpace(nationality))]
	return country, ok
}
