package dto

type EvaluateRequest struct {
	RequesterID  int64   `json:"requester_id"`
	CandidateIDs []int64 `json:"candidate_ids"`
}

type CandidateEvaluation struct {
	CandidateID   int64   `json:"candidate_id"`
	Temporal      float64 `json:"temporal"`
	Geographic    float64 `json:"geographic"`
	ProfileHealth float64 `json:"profile_health"`
	Reciprocity   float64 `json:"reciprocity"`
	Overall       float64 `json:"overall"`
	Neutral       bool    `json:"neutral,omitempty"`
}

type EvaluateResponse struct {
	EvaluationID string                `json:"evaluation_id"`
	Requested    int                   `json:"requested"`
	Filtered     int                   `json:"filtered"`
	Candidates   []CandidateEvaluation `json:"candidates"`
}
