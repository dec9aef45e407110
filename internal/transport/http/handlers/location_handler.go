package handlers

import (
	"net/http"
	"strings"

	"github.com/shashanksGitHub/charlie-sub010/internal/pkg/validate"
	geosvc "github.com/shashanksGitHub/charlie-sub010/internal/services/geo"
	"github.com/shashanksGitHub/charlie-sub010/internal/transport/http/dto"
	httperrors "github.com/shashanksGitHub/charlie-sub010/internal/transport/http/errors"
)

type LocationHandler struct {
	service *geosvc.Service
}

func NewLocationHandler(service *geosvc.Service) *LocationHandler {
	return &LocationHandler{service: service}
}

func (h *LocationHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "LOCATION_SERVICE_UNAVAILABLE", "location service is unavailable")
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if !validate.Required(query) {
		writeBadRequest(w, "VALIDATION_ERROR", "q is required")
		return
	}

	record := h.service.Resolve(r.Context(), query)
	if record == nil {
		writeNotFound(w, "LOCATION_NOT_FOUND", "location could not be resolved")
		return
	}

	httperrors.Write(w, http.StatusOK, dto.LocationResolveResponse{
		Query:          query,
		Lat:            record.Lat,
		Lon:            record.Lon,
		City:           record.City,
		Country:        record.Country,
		Timezone:       record.Timezone,
		UTCOffsetHours: record.UTCOffsetHours,
		Confidence:     record.Confidence,
		Source:         string(record.Source),
	})
}
