package handler

import (
	"net/http"

	"github.com/pathfinder-ai/pathfinder/internal/calendar"
	"github.com/pathfinder-ai/pathfinder/internal/model"
	"github.com/pathfinder-ai/pathfinder/internal/service"
)

type careerHandler struct {
	careerService *service.CareerService
}

func NewCareerHandler(careerService *service.CareerService) *careerHandler {
	return &careerHandler{careerService: careerService}
}

type suggestRequest struct {
	Answers []string `json:"answers"`
}

type onboardRequest struct {
	Option          model.CareerOption    `json:"option"`
	EducationYear   string                `json:"educationYear"`
	ExperienceLevel model.ExperienceLevel `json:"experienceLevel"`
	FocusAreas      string                `json:"focusAreas"`
	TargetDate      calendar.Date         `json:"targetDate"`
}

type onboardResponse struct {
	Career    *model.CareerTrack `json:"career"`
	Generated bool               `json:"generated"`
}

type careerListResponse struct {
	Careers []*model.CareerTrack `json:"careers"`
}

// Suggest ranks careers for the questionnaire answers.
func (h *careerHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req suggestRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	options, err := h.careerService.Suggest(r.Context(), req.Answers)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, options)
}

// Search looks up careers matching ?q=.
func (h *careerHandler) Search(w http.ResponseWriter, r *http.Request) {
	options, err := h.careerService.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, options)
}

// Assessment returns skill questions for ?career=.
func (h *careerHandler) Assessment(w http.ResponseWriter, r *http.Request) {
	assessment, err := h.careerService.Assessment(r.Context(), r.URL.Query().Get("career"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, assessment)
}

func (h *careerHandler) Onboard(w http.ResponseWriter, r *http.Request) {
	var req onboardRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.careerService.Onboard(r.Context(), userID(r), service.OnboardInput{
		Option:          req.Option,
		EducationYear:   req.EducationYear,
		ExperienceLevel: req.ExperienceLevel,
		FocusAreas:      req.FocusAreas,
		TargetDate:      req.TargetDate,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, onboardResponse{Career: result.Career, Generated: result.Generated})
}

func (h *careerHandler) List(w http.ResponseWriter, r *http.Request) {
	careers, err := h.careerService.List(userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if careers == nil {
		careers = []*model.CareerTrack{}
	}
	writeJSON(w, http.StatusOK, careerListResponse{Careers: careers})
}

func (h *careerHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	option, err := h.careerService.Snapshot(userID(r), r.PathValue("careerID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, option)
}

// Switch makes the career in the path the current one.
func (h *careerHandler) Switch(w http.ResponseWriter, r *http.Request) {
	profile, err := h.careerService.Switch(userID(r), r.PathValue("careerID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *careerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	profile, err := h.careerService.Delete(userID(r), r.PathValue("careerID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
