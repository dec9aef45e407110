package scoring

import (
	"strings"

	"github.com/shashanksGitHub/charlie-sub010/internal/domain/matching"
)

// Profile health factor weights.
const (
	healthPhotoWeight      = 0.25
	healthBioWeight        = 0.20
	healthCompletionWeight = 0.25
	healthActivatedWeight  = 0.15
	healthVerifiedWeight   = 0.15
)

// profileHealthScore depends only on the candidate record, so it needs
// neither I/O nor the requester.
func profileHealthScore(p matching.Profile) float64 {
	score := healthPhotoWeight*photoScore(p.Photos) +
		healthBioWeight*bioScore(p.Bio) +
		healthCompletionWeight*completionScore(p)
	if p.Activated {
		score += healthActivatedWeight
	}
	if p.Verified {
		score += healthVerifiedWeight
	}
	return score
}

func photoScore(photos []matching.Photo) float64 {
	hasPrimary := false
	for _, photo := range photos {
		if photo.Primary {
			hasPrimary = true
			break
		}
	}

	switch {
	case len(photos) == 0:
		return 0.1
	case len(photos) == 1:
		if hasPrimary {
			return 0.6
		}
		return 0.5
	case len(photos) == 2:
		if hasPrimary {
			return 0.75
		}
		return 0.7
	default:
		if hasPrimary {
			return 1.0
		}
		return 0.9
	}
}

func bioScore(bio string) float64 {
	bio = strings.TrimSpace(bio)
	if bio == "" {
		return 0.1
	}
	words := len(strings.Fields(bio))
	switch {
	case len(bio) < 20:
		return 0.3
	case len(bio) < 60:
		return 0.5
	case len(bio) < 160:
		return 0.8
	case words >= 25:
		return 1.0
	default:
		return 0.9
	}
}

// completionScore is the filled fraction of the ten core profile
// fields.
func completionScore(p matching.Profile) float64 {
	filled := 0
	if strings.TrimSpace(p.Location) != "" {
		filled++
	}
	if p.Birthdate != nil {
		filled++
	}
	if strings.TrimSpace(p.Religion) != "" {
		filled++
	}
	if strings.TrimSpace(p.Ethnicity) != "" {
		filled++
	}
	if strings.TrimSpace(p.Bio) != "" {
		filled++
	}
	if len(p.Photos) > 0 {
		filled++
	}
	if p.Smoking != "" {
		filled++
	}
	if p.Drinking != "" {
		filled++
	}
	if strings.TrimSpace(p.EducationLevel) != "" {
		filled++
	}
	if strings.TrimSpace(p.Profession) != "" {
		filled++
	}
	return float64(filled) / 10
}
