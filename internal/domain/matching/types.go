package matching

import (
	"time"

	"github.com/shashanksGitHub/charlie-sub010/internal/domain/enums"
)

// Distance preference sentinels. Stored in the preference record as
// miles and interpreted identically by every reader.
const (
	DistanceUnlimited   float64 = -1
	DistanceCountryOnly float64 = 9999
)

// IsCountryOnly reports whether a stored preference means "same
// country, any distance". Legacy rows can carry values above the
// sentinel, so anything at or past it reads as country-only.
func IsCountryOnly(miles float64) bool {
	return miles >= DistanceCountryOnly
}

type Photo struct {
	URL     string
	Primary bool
}

type Profile struct {
	ID          int64
	DisplayName string
	Birthdate   *time.Time
	Location    string

	CountryOfOrigin string
	Nationality     string
	Religion        string
	Ethnicity       string
	SecondaryTribes []string

	Suspended           bool
	SuspensionExpiresAt *time.Time
	Hidden              bool
	Activated           bool
	Verified            bool
	BlockedUserIDs      []int64

	Online       bool
	LastActiveAt *time.Time
	UpdatedAt    *time.Time

	// Tri-state strings: "yes", "no", or "" when the user never answered.
	HasChildren   string
	WantsChildren string
	Smoking       string
	Drinking      string

	Bio              string
	Photos           []Photo
	EducationLevel   string
	HighSchool       string
	Profession       string
	BodyType         string
	RelationshipGoal string
}

// HasBlocked reports whether the profile owner blocked the given user.
func (p Profile) HasBlocked(userID int64) bool {
	for _, id := range p.BlockedUserIDs {
		if id == userID {
			return true
		}
	}
	return false
}

type PreferenceRecord struct {
	UserID        int64
	MinAge        int
	MaxAge        int
	DistanceMiles float64

	// Legacy blobs parsed once at the pipeline boundary.
	DealBreakers string
	HighSchools  string

	PoolCountry           string
	HasChildrenPreference string
	ReligionPreferences   []string
}

type LocationRecord struct {
	Lat            float64
	Lon            float64
	City           string
	Country        string
	Timezone       string
	UTCOffsetHours *float64
	Confidence     float64
	Source         enums.LocationSource
}

// ContextProfile is the per-pair scoring output. All scores are in
// [0,1]; Neutral marks profiles filled with defaults because the
// evaluation deadline expired before the candidate was scored.
type ContextProfile struct {
	CandidateID   int64
	Temporal      float64
	Geographic    float64
	ProfileHealth float64
	Reciprocity   float64
	Overall       float64
	Neutral       bool
}
