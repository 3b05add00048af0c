package handler

import "net/http"

func (h *Handler) GetAllBeats(w http.ResponseWriter, r *http.Request) {
	beats, err := h.repository.GetAllBeats()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "beats fetched", beats)
}

func (h *Handler) GetAllPatrolCars(w http.ResponseWriter, r *http.Request) {
	cars, err := h.repository.GetAllPatrolCars()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "patrol cars fetched", cars)
}
