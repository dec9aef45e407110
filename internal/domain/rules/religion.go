package rules

import "strings"

// Religion group taxonomy used by the different-religion deal-breaker.
// Denominations are folded into five broad groups so that, for
// example, a methodist requester preferring "christian" does not
// exclude presbyterians.
const (
	ReligionGroupChristian   = "christian"
	ReligionGroupMuslim      = "muslim"
	ReligionGroupTraditional = "traditional"
	ReligionGroupEastern     = "eastern"
	ReligionGroupSecular     = "secular"
)

var religionGroups = map[string]string{
	"christian":    ReligionGroupChristian,
	"christianity": ReligionGroupChristian,
	"catholic":     ReligionGroupChristian,
	"protestant":   ReligionGroupChristian,
	"pentecostal":  ReligionGroupChristian,
	"charismatic":  ReligionGroupChristian,
	"methodist":    ReligionGroupChristian,
	"presbyterian": ReligionGroupChristian,
	"anglican":     ReligionGroupChristian,
	"baptist":      ReligionGroupChristian,
	"orthodox":     ReligionGroupChristian,
	"adventist":    ReligionGroupChristian,

	"muslim": ReligionGroupMuslim,
	"islam":  ReligionGroupMuslim,
	"sunni":  ReligionGroupMuslim,
	"shia":   ReligionGroupMuslim,
	"ahmadi": ReligionGroupMuslim,

	"traditional":         ReligionGroupTraditional,
	"traditionalist":      ReligionGroupTraditional,
	"african traditional": ReligionGroupTraditional,

	"hindu":    ReligionGroupEastern,
	"hinduism": ReligionGroupEastern,
	"buddhist": ReligionGroupEastern,
	"buddhism": ReligionGroupEastern,
	"sikh":     ReligionGroupEastern,

	"atheist":       ReligionGroupSecular,
	"agnostic":      ReligionGroupSecular,
	"none":          ReligionGroupSecular,
	"non-religious": ReligionGroupSecular,
	"secular":       ReligionGroupSecular,
}

// ReligionGroup maps a stated religion to its broad group. Unknown
// religions map to an empty group, which callers treat as no data.
func ReligionGroup(religion string) string {
	key := strings.ToLower(strings.TrimSpace(religion))
	if key == "" {
		return ""
	}
	if group, ok := religionGroups[key]; ok {
		return group
	}
	return ""
}

func SameReligionGroup(a, b string) bool {
	groupA := ReligionGroup(a)
	groupB := ReligionGroup(b)
	return groupA != "" && groupA == groupB
}
