package handler

import (
	"net/http"

	"github.com/pathfinder-ai/pathfinder/internal/service"
)

type questHandler struct {
	questService *service.QuestService
}

func NewQuestHandler(questService *service.QuestService) *questHandler {
	return &questHandler{questService: questService}
}

type answerRequest struct {
	QuestID string `json:"questId"`
	Answer  int    `json:"answer"`
}

type choiceRequest struct {
	Choice int `json:"choice"`
}

func (h *questHandler) DailyChallenge(w http.ResponseWriter, r *http.Request) {
	challenge, err := h.questService.DailyChallenge(r.Context(), userID(r), r.PathValue("careerID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, challenge)
}

func (h *questHandler) SubmitDailyChallenge(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.questService.SubmitDailyChallenge(userID(r), r.PathValue("careerID"), req.QuestID, req.Answer)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *questHandler) StartSimulation(w http.ResponseWriter, r *http.Request) {
	sim, err := h.questService.StartSimulation(r.Context(), userID(r), r.PathValue("careerID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sim)
}

// FinishSimulation resolves the simulation in the path with the chosen option.
func (h *questHandler) FinishSimulation(w http.ResponseWriter, r *http.Request) {
	var req choiceRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.questService.FinishSimulation(userID(r), r.PathValue("questID"), req.Choice)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *questHandler) Trivia(w http.ResponseWriter, r *http.Request) {
	trivia, err := h.questService.Trivia(r.Context(), userID(r), r.PathValue("careerID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trivia)
}
