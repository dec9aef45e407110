package dto

type LocationResolveResponse struct {
	Query          string   `json:"query"`
	Lat            float64  `json:"lat"`
	Lon            float64  `json:"lon"`
	City           string   `json:"city,omitempty"`
	Country        string   `json:"country,omitempty"`
	Timezone       string   `json:"timezone,omitempty"`
	UTCOffsetHours *float64 `json:"utc_offset_hours,omitempty"`
	Confidence     float64  `json:"confidence"`
	Source         string   `json:"source"`
}
