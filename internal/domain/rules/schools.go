package rules

import (
	"encoding/json"
	"strings"
)

// ParseSchoolList parses the stored high-school preference blob (JSON
// string array or comma-separated list). The second return reports the
// "any school" sentinel, which disables the high-school stage.
func ParseSchoolList(raw string) ([]string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, true
	}

	var entries []string
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal([]byte(trimmed), &entries); err != nil {
			return nil, true
		}
	} else {
		entries = strings.Split(trimmed, ",")
	}

	schools := make([]string, 0, len(entries))
	for _, entry := range entries {
		school := strings.ToLower(strings.TrimSpace(entry))
		if school == "" {
			continue
		}
		if school == "any" || school == "any school" || school == "any high school" {
			return nil, true
		}
		schools = append(schools, school)
	}

	if len(schools) == 0 {
		return nil, true
	}
	return schools, false
}
