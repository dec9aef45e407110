package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/shashanksGitHub/charlie-sub010/internal/domain/matching"
	pgrepo "github.com/shashanksGitHub/charlie-sub010/internal/repo/postgres"
	compatsvc "github.com/shashanksGitHub/charlie-sub010/internal/services/compat"
	filtersvc "github.com/shashanksGitHub/charlie-sub010/internal/services/filter"
	scoringsvc "github.com/shashanksGitHub/charlie-sub010/internal/services/scoring"
	"github.com/shashanksGitHub/charlie-sub010/internal/transport/http/dto"
)

type profileStoreStub struct {
	profiles map[int64]matching.Profile
	prefs    map[int64]matching.PreferenceRecord
}

func (s profileStoreStub) GetProfile(_ context.Context, userID int64) (matching.Profile, error) {
	if profile, ok := s.profiles[userID]; ok {
		return profile, nil
	}
	return matching.Profile{}, pgrepo.ErrProfileNotFound
}

func (s profileStoreStub) ListProfiles(_ context.Context, userIDs []int64) ([]matching.Profile, error) {
	out := make([]matching.Profile, 0, len(userIDs))
	for _, id := range userIDs {
		if profile, ok := s.profiles[id]; ok {
			out = append(out, profile)
		}
	}
	return out, nil
}

func (s profileStoreStub) GetPreferences(_ context.Context, userID int64) (matching.PreferenceRecord, error) {
	if prefs, ok := s.prefs[userID]; ok {
		return prefs, nil
	}
	return matching.PreferenceRecord{}, pgrepo.ErrPreferencesNotFound
}

func newEvaluateHandler(store profileStoreStub) *EvaluateHandler {
	filter := filtersvc.NewService(nil, zap.NewNop())
	scorer := scoringsvc.NewService(nil, nil, scoringsvc.Config{}, zap.NewNop())
	return NewEvaluateHandler(store, filter, scorer, filtersvc.DefaultConfig())
}

func postJSON(t *testing.T, handler http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestEvaluateFiltersAndScores(t *testing.T) {
	smoker := matching.Profile{ID: 3, Activated: true, Smoking: "yes"}
	clean := matching.Profile{ID: 2, Activated: true}
	store := profileStoreStub{
		profiles: map[int64]matching.Profile{
			1: {ID: 1, Activated: true},
			2: clean,
			3: smoker,
		},
		prefs: map[int64]matching.PreferenceRecord{
			1: {UserID: 1, DealBreakers: `["smoking"]`},
		},
	}

	rec := postJSON(t, newEvaluateHandler(store).Handle, dto.EvaluateRequest{
		RequesterID:  1,
		CandidateIDs: []int64{2, 3},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (%s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp dto.EvaluateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.EvaluationID == "" {
		t.Fatalf("expected an evaluation id")
	}
	if resp.Requested != 2 || resp.Filtered != 1 {
		t.Fatalf("requested/filtered = %d/%d, want 2/1", resp.Requested, resp.Filtered)
	}
	if len(resp.Candidates) != 1 || resp.Candidates[0].CandidateID != 2 {
		t.Fatalf("candidates = %+v, want only candidate 2", resp.Candidates)
	}
	overall := resp.Candidates[0].Overall
	if overall < 0 || overall > 1 {
		t.Fatalf("overall = %v, want within [0,1]", overall)
	}
}

func TestEvaluateValidation(t *testing.T) {
	handler := newEvaluateHandler(profileStoreStub{})

	tests := []struct {
		name string
		req  dto.EvaluateRequest
		want int
	}{
		{"missing requester", dto.EvaluateRequest{CandidateIDs: []int64{2}}, http.StatusBadRequest},
		{"missing candidates", dto.EvaluateRequest{RequesterID: 1}, http.StatusBadRequest},
		{"unknown requester", dto.EvaluateRequest{RequesterID: 99, CandidateIDs: []int64{2}}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, handler.Handle, tt.req)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestEvaluateRejectsMalformedBody(t *testing.T) {
	handler := newEvaluateHandler(profileStoreStub{})
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	handler.Handle(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestCompatibilityHandler(t *testing.T) {
	store := profileStoreStub{profiles: map[int64]matching.Profile{
		1: {ID: 1, Religion: "methodist", Location: "Accra, Ghana"},
		2: {ID: 2, Religion: "catholic", Location: "Kumasi, Ghana"},
	}}
	handler := NewCompatibilityHandler(store, compatsvc.NewService(zap.NewNop()))

	rec := postJSON(t, handler.Handle, dto.CompatibilityRequest{UserID: 1, OtherID: 2})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (%s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var resp dto.CompatibilityResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if resp.Score < 0 || resp.Score > 1 {
		t.Fatalf("score = %v, want within [0,1]", resp.Score)
	}
	if len(resp.Features) != 8 {
		t.Fatalf("got %d features, want 8", len(resp.Features))
	}

	rec = postJSON(t, handler.Handle, dto.CompatibilityRequest{UserID: 1, OtherID: 42})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status for unknown profile = %d, want %d", rec.Code, http.StatusNotFound)
	}
}
