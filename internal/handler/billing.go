package handler

import (
	"net/http"

	"github.com/pathfinder-ai/pathfinder/internal/service"
)

type BillingHandler struct {
	subscriptionService *service.SubscriptionService
}

func NewBillingHandler(subscriptionService *service.SubscriptionService) *BillingHandler {
	return &BillingHandler{subscriptionService: subscriptionService}
}

type subscribeRequest struct {
	Plan string `json:"plan"`
}

func (h *BillingHandler) Subscription(w http.ResponseWriter, r *http.Request) {
	sub, err := h.subscriptionService.Subscription(userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// Subscribe switches the user to a paid plan.
func (h *BillingHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	sub, err := h.subscriptionService.Subscribe(userID(r), req.Plan)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

func (h *BillingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	sub, err := h.subscriptionService.Cancel(userID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}
