package http

import (
	"errors"
	"net/http"

	"mastodonbridge/src/domain"

	"github.com/gorilla/mux"
)

func (s *Server) GetStatus(w http.ResponseWriter, r *http.Request) {
	statusID := mux.Vars(r)["id"]
	if statusID == "" {
		s.writeError(w, http.StatusBadRequest, "Status ID is required")
		return
	}

	status, err := s.resourceService.GetStatus(r.Context(), statusID)
	if err != nil {
		if errors.Is(err, domain.ErrEntityNotFound) {
			s.writeError(w, http.StatusNotFound, "Record not found")
			return
		}

		s.logger.Error("Failed to get status", "id", statusID, "error", err)
		s.writeError(w, http.StatusInternalServerError, domain.ErrUnavailableServer.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, MapStatusToResponse(status))
}
