package handler

import (
	"net/http"

	"github.com/pathfinder-ai/pathfinder/internal/service"
)

type insightHandler struct {
	insightService *service.InsightService
}

func NewInsightHandler(insightService *service.InsightService) *insightHandler {
	return &insightHandler{insightService: insightService}
}

type chatRequest struct {
	CareerID string `json:"careerId"`
	Message  string `json:"message"`
}

func (h *insightHandler) News(w http.ResponseWriter, r *http.Request) {
	news, err := h.insightService.News(r.Context(), userID(r), r.PathValue("careerID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, news)
}

// Feed bundles news, trivia and the daily challenge of a career.
func (h *insightHandler) Feed(w http.ResponseWriter, r *http.Request) {
	feed, err := h.insightService.Feed(r.Context(), userID(r), r.PathValue("careerID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, feed)
}

func (h *insightHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	reply, err := h.insightService.Chat(r.Context(), userID(r), req.CareerID, req.Message)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}
