package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sort"

	"github.com/shashanksGitHub/charlie-sub010/internal/domain/matching"
	pgrepo "github.com/shashanksGitHub/charlie-sub010/internal/repo/postgres"
	filtersvc "github.com/shashanksGitHub/charlie-sub010/internal/services/filter"
	scoringsvc "github.com/shashanksGitHub/charlie-sub010/internal/services/scoring"
	"github.com/shashanksGitHub/charlie-sub010/internal/transport/http/dto"
	httperrors "github.com/shashanksGitHub/charlie-sub010/internal/transport/http/errors"
)

const maxEvaluateCandidates = 500

// ProfileStore is the slice of profile storage the evaluate endpoint
// needs.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID int64) (matching.Profile, error)
	ListProfiles(ctx context.Context, userIDs []int64) ([]matching.Profile, error)
	GetPreferences(ctx context.Context, userID int64) (matching.PreferenceRecord, error)
}

type EvaluateHandler struct {
	profiles    ProfileStore
	filter      *filtersvc.Service
	scorer      *scoringsvc.Service
	stageConfig filtersvc.Config
}

func NewEvaluateHandler(profiles ProfileStore, filter *filtersvc.Service, scorer *scoringsvc.Service, stageConfig filtersvc.Config) *EvaluateHandler {
	return &EvaluateHandler{
		profiles:    profiles,
		filter:      filter,
		scorer:      scorer,
		stageConfig: stageConfig,
	}
}

func (h *EvaluateHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.profiles == nil || h.filter == nil || h.scorer == nil {
		writeInternal(w, "MATCHING_UNAVAILABLE", "matching services are unavailable")
		return
	}

	var req dto.EvaluateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if req.RequesterID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "requester_id is required")
		return
	}
	if len(req.CandidateIDs) == 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "candidate_ids is required")
		return
	}
	if len(req.CandidateIDs) > maxEvaluateCandidates {
		writeBadRequest(w, "VALIDATION_ERROR", "too many candidate_ids")
		return
	}

	requester, err := h.profiles.GetProfile(r.Context(), req.RequesterID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			writeNotFound(w, "PROFILE_NOT_FOUND", "requester profile not found")
			return
		}
		writeInternal(w, "INTERNAL_ERROR", "failed to load requester profile")
		return
	}

	// A requester without a stored preference record is evaluated with
	// an empty one: stages that depend on a stated preference skip
	// themselves.
	prefs, err := h.profiles.GetPreferences(r.Context(), req.RequesterID)
	if err != nil && !errors.Is(err, pgrepo.ErrPreferencesNotFound) {
		writeInternal(w, "INTERNAL_ERROR", "failed to load preferences")
		return
	}

	candidates, err := h.profiles.ListProfiles(r.Context(), req.CandidateIDs)
	if err != nil {
		writeInternal(w, "INTERNAL_ERROR", "failed to load candidate profiles")
		return
	}

	surviving := h.filter.Apply(r.Context(), filtersvc.Request{
		Requester:  requester,
		Prefs:      prefs,
		Candidates: candidates,
		Config:     h.stageConfig,
	})

	result := h.scorer.EvaluateBatch(r.Context(), requester, prefs, surviving)

	evaluations := make([]dto.CandidateEvaluation, 0, len(result.Profiles))
	for _, profile := range result.Profiles {
		evaluations = append(evaluations, dto.CandidateEvaluation{
			CandidateID:   profile.CandidateID,
			Temporal:      profile.Temporal,
			Geographic:    profile.Geographic,
			ProfileHealth: profile.ProfileHealth,
			Reciprocity:   profile.Reciprocity,
			Overall:       profile.Overall,
			Neutral:       profile.Neutral,
		})
	}
	sort.Slice(evaluations, func(i, j int) bool {
		return evaluations[i].CandidateID < evaluations[j].CandidateID
	})

	httperrors.Write(w, http.StatusOK, dto.EvaluateResponse{
		EvaluationID: result.EvaluationID.String(),
		Requested:    len(req.CandidateIDs),
		Filtered:     len(surviving),
		Candidates:   evaluations,
	})
}

func decodeJSON(r *http.Request, target any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(target)
}

func writeBadRequest(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusBadRequest, httperrors.APIError{Code: code, Message: message})
}

func writeNotFound(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusNotFound, httperrors.APIError{Code: code, Message: message})
}

func writeInternal(w http.ResponseWriter, code, message string) {
	httperrors.Write(w, http.StatusInternalServerError, httperrors.APIError{Code: code, Message: message})
}
