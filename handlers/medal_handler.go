package handlers

import (
	"net/http"
	"strconv"

	"github.com/Dosada05/tkd-competition/services"
)

type MedalHandler struct {
	medalService services.MedalService
}

func NewMedalHandler(medalService services.MedalService) *MedalHandler {
	return &MedalHandler{medalService: medalService}
}

func (h *MedalHandler) ListEventMedals(w http.ResponseWriter, r *http.Request) {
	eventID, err := getIDFromURL(r, "eventID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	winners, err := h.medalService.ListMedalWinners(r.Context(), eventID)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"medals": winners}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// MedalStandings: GET /medals/standings?event_id=1&event_id=2, без параметров по всем турнирам.
func (h *MedalHandler) MedalStandings(w http.ResponseWriter, r *http.Request) {
	var eventIDs []int
	for _, v := range r.URL.Query()["event_id"] {
		id, err := strconv.Atoi(v)
		if err != nil || id <= 0 {
			badRequestResponse(w, r, errInvalidQuery("event_id", v))
			return
		}
		eventIDs = append(eventIDs, id)
	}

	standings, err := h.medalService.MedalStandings(r.Context(), eventIDs)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
