package handler

import (
	"net/http"

	"github.com/pathfinder-ai/pathfinder/internal/calendar"
	"github.com/pathfinder-ai/pathfinder/internal/roadmap"
	"github.com/pathfinder-ai/pathfinder/internal/service"
)

type roadmapHandler struct {
	roadmapService  *service.RoadmapService
	exportService   *service.ExportService
	generationLimit func(http.HandlerFunc) http.HandlerFunc
}

// NewRoadmapHandler takes the generation rate limit separately because
// after-phase only reaches the gateway for some choices.
func NewRoadmapHandler(roadmapService *service.RoadmapService, exportService *service.ExportService, generationLimit func(http.HandlerFunc) http.HandlerFunc) *roadmapHandler {
	return &roadmapHandler{
		roadmapService:  roadmapService,
		exportService:   exportService,
		generationLimit: generationLimit,
	}
}

type adaptRequest struct {
	Strategy   string        `json:"strategy"`
	TargetDate calendar.Date `json:"targetDate"`
}

type afterPhaseRequest struct {
	Choice roadmap.AfterPhaseChoice `json:"choice"`
}

func (h *roadmapHandler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.roadmapService.Overview(userID(r), r.PathValue("careerID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

// Generate retries the first roadmap of a career whose generation failed.
func (h *roadmapHandler) Generate(w http.ResponseWriter, r *http.Request) {
	overview, err := h.roadmapService.Generate(r.Context(), userID(r), r.PathValue("careerID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

func (h *roadmapHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.roadmapService.ToggleItem(r.Context(), userID(r), r.PathValue("careerID"), r.PathValue("itemID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (h *roadmapHandler) ResetPhase(w http.ResponseWriter, r *http.Request) {
	index, err := pathInt(r, "index")
	if err != nil {
		writeError(w, r, err)
		return
	}

	rm, err := h.roadmapService.ResetPhase(userID(r), r.PathValue("careerID"), index)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rm)
}

func (h *roadmapHandler) ResetRoadmap(w http.ResponseWriter, r *http.Request) {
	rm, err := h.roadmapService.ResetRoadmap(userID(r), r.PathValue("careerID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rm)
}

// ResetAll clears progress on every roadmap of the user.
func (h *roadmapHandler) ResetAll(w http.ResponseWriter, r *http.Request) {
	err := h.roadmapService.ResetAll(userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PlanDateChange lists the strategies offered for ?target=YYYY-MM-DD.
func (h *roadmapHandler) PlanDateChange(w http.ResponseWriter, r *http.Request) {
	target, err := calendar.Parse(r.URL.Query().Get("target"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	plan, err := h.roadmapService.PlanDateChange(userID(r), r.PathValue("careerID"), target)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (h *roadmapHandler) Adapt(w http.ResponseWriter, r *http.Request) {
	var req adaptRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	strategy, err := roadmap.ParseStrategy(req.Strategy)
	if err != nil {
		writeError(w, r, err)
		return
	}

	overview, err := h.roadmapService.Adapt(r.Context(), userID(r), r.PathValue("careerID"), strategy, req.TargetDate)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

// AfterPhase applies the choice made once a phase is completed.
func (h *roadmapHandler) AfterPhase(w http.ResponseWriter, r *http.Request) {
	var req afterPhaseRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	apply := func(w http.ResponseWriter, r *http.Request) {
		overview, err := h.roadmapService.AfterPhase(r.Context(), userID(r), r.PathValue("careerID"), req.Choice)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, overview)
	}

	if req.Choice.Regenerates() {
		apply = h.generationLimit(apply)
	}
	apply(w, r)
}

// Export stores a JSON copy of the roadmap and returns a download link.
func (h *roadmapHandler) Export(w http.ResponseWriter, r *http.Request) {
	result, err := h.exportService.Export(r.Context(), userID(r), r.PathValue("careerID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}
