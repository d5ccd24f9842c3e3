package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/pathfinder-ai/pathfinder/internal/calendar"
	"github.com/pathfinder-ai/pathfinder/internal/ctxkeys"
	"github.com/pathfinder-ai/pathfinder/internal/repository"
	"github.com/pathfinder-ai/pathfinder/internal/roadmap"
	"github.com/pathfinder-ai/pathfinder/internal/service"
)

const maxBodyBytes = 1 << 20

var errBadRequest = errors.New("malformed request body")

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// decodeJSON reads a single JSON object into v, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	err := dec.Decode(v)
	if err != nil {
		return fmt.Errorf("%w: %s", errBadRequest, err)
	}
	if dec.Decode(&struct{}{}) != io.EOF {
		return fmt.Errorf("%w: trailing data", errBadRequest)
	}
	return nil
}

// statusFor maps domain errors to HTTP status codes. Order matters where an
// error wraps more than one sentinel.
var statusFor = []struct {
	err    error
	status int
}{
	{errBadRequest, http.StatusBadRequest},
	{service.ErrInvalidInput, http.StatusBadRequest},
	{calendar.ErrInvalidDate, http.StatusBadRequest},
	{service.ErrInvalidPlan, http.StatusBadRequest},
	{service.ErrInvalidAnswer, http.StatusBadRequest},
	{service.ErrTargetDateInPast, http.StatusBadRequest},
	{roadmap.ErrUnknownStrategy, http.StatusBadRequest},
	{roadmap.ErrStrategyNotAllowed, http.StatusBadRequest},

	{service.ErrInvalidCredentials, http.StatusUnauthorized},
	{service.ErrInvalidSecurityKey, http.StatusUnauthorized},
	{service.ErrInvalidCurrentPassword, http.StatusUnauthorized},

	{service.ErrFeatureUnavailable, http.StatusPaymentRequired},
	{service.ErrCareerLimitReached, http.StatusForbidden},

	{repository.ErrUserNotFound, http.StatusNotFound},
	{repository.ErrProfileNotFound, http.StatusNotFound},
	{repository.ErrCareerNotFound, http.StatusNotFound},
	{repository.ErrSnapshotNotFound, http.StatusNotFound},
	{repository.ErrRoadmapNotFound, http.StatusNotFound},
	{repository.ErrQuestNotFound, http.StatusNotFound},
	{roadmap.ErrItemNotFound, http.StatusNotFound},
	{roadmap.ErrPhaseNotFound, http.StatusNotFound},

	{service.ErrUserAlreadyExists, http.StatusConflict},
	{service.ErrCareerAlreadyActive, http.StatusConflict},
	{service.ErrAlreadySubscribed, http.StatusConflict},
	{service.ErrActiveSubscription, http.StatusConflict},
	{service.ErrChallengeAlreadyDone, http.StatusConflict},
	{service.ErrRoadmapNotEmpty, http.StatusConflict},
	{service.ErrStaleRoadmap, http.StatusConflict},
	{roadmap.ErrAdaptationInProgress, http.StatusConflict},
	{repository.ErrQuestAlreadyResolved, http.StatusConflict},

	{service.ErrQuestExpired, http.StatusGone},

	{roadmap.ErrGenerationFailed, http.StatusBadGateway},
	{service.ErrExportUnavailable, http.StatusServiceUnavailable},
}

func errorStatus(err error) int {
	for _, m := range statusFor {
		if errors.Is(err, m.err) {
			return m.status
		}
	}
	return http.StatusInternalServerError
}

// writeError answers with the mapped status. Unmapped errors are logged and
// hidden behind a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errorStatus(err)
	message := err.Error()

	switch {
	case status == http.StatusInternalServerError:
		slog.Error("request failed",
			"error", err,
			"request_id", ctxkeys.RequestID(r.Context()),
			"path", r.URL.Path,
		)
		message = "internal server error"
	case status == http.StatusBadGateway:
		message = "the AI service is unavailable right now, please try again"
	}

	writeJSON(w, status, errorResponse{Error: message})
}

func userID(r *http.Request) string {
	return ctxkeys.UserID(r.Context())
}

// pathInt reads an integer path value such as {index}.
func pathInt(r *http.Request, name string) (int, error) {
	v, err := strconv.Atoi(r.PathValue(name))
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number", errBadRequest, name)
	}
	return v, nil
}

func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
}
