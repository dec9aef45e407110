package handlers

import (
	"errors"
	"net/http"

	pgrepo "github.com/shashanksGitHub/charlie-sub010/internal/repo/postgres"
	compatsvc "github.com/shashanksGitHub/charlie-sub010/internal/services/compat"
	"github.com/shashanksGitHub/charlie-sub010/internal/transport/http/dto"
	httperrors "github.com/shashanksGitHub/charlie-sub010/internal/transport/http/errors"
)

type CompatibilityHandler struct {
	profiles ProfileStore
	compat   *compatsvc.Service
}

func NewCompatibilityHandler(profiles ProfileStore, compat *compatsvc.Service) *CompatibilityHandler {
	return &CompatibilityHandler{profiles: profiles, compat: compat}
}

func (h *CompatibilityHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.profiles == nil || h.compat == nil {
		writeInternal(w, "COMPAT_UNAVAILABLE", "compatibility service is unavailable")
		return
	}

	var req dto.CompatibilityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "invalid request body")
		return
	}
	if req.UserID <= 0 || req.OtherID <= 0 {
		writeBadRequest(w, "VALIDATION_ERROR", "user_id and other_id are required")
		return
	}

	profileA, err := h.profiles.GetProfile(r.Context(), req.UserID)
	if err != nil {
		writeProfileError(w, err)
		return
	}
	profileB, err := h.profiles.GetProfile(r.Context(), req.OtherID)
	if err != nil {
		writeProfileError(w, err)
		return
	}

	result := h.compat.Score(profileA, profileB)
	features := make([]dto.FeatureScore, 0, len(result.Features))
	for _, f := range result.Features {
		features = append(features, dto.FeatureScore{Name: f.Name, Weight: f.Weight, Score: f.Score})
	}

	httperrors.Write(w, http.StatusOK, dto.CompatibilityResponse{
		Score:    result.Score,
		Features: features,
	})
}

func writeProfileError(w http.ResponseWriter, err error) {
	if errors.Is(err, pgrepo.ErrProfileNotFound) {
		writeNotFound(w, "PROFILE_NOT_FOUND", "profile not found")
		return
	}
	writeInternal(w, "INTERNAL_ERROR", "failed to load profile")
}
