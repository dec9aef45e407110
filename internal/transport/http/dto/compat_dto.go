package dto

type CompatibilityRequest struct {
	UserID  int64 `json:"user_id"`
	OtherID int64 `json:"other_id"`
}

type FeatureScore struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
	Score  float64 `json:"score"`
}

type CompatibilityResponse struct {
	Score    float64        `json:"score"`
	Features []FeatureScore `json:"features"`
}
