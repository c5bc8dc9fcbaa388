package http

import (
	"errors"
	"net/http"

	"mastodonbridge/src/domain"

	"github.com/gorilla/mux"
)

func (s *Server) GetAccount(w http.ResponseWriter, r *http.Request) {
	accountID := mux.Vars(r)["id"]
	if accountID == "" {
		s.writeError(w, http.StatusBadRequest, "Account ID is required")
		return
	}

	account, err := s.resourceService.GetAccount(r.Context(), accountID)
	if err != nil {
		if errors.Is(err, domain.ErrEntityNotFound) {
			s.writeError(w, http.StatusNotFound, "Record not found")
			return
		}

		s.logger.Error("Failed to get account", "id", accountID, "error", err)
		s.writeError(w, http.StatusInternalServerError, domain.ErrUnavailableServer.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, MapAccountToResponse(account))
}
