package http

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"

	"mastodonbridge/src/domain"
)

func (s *Server) RegisterApplication(w http.ResponseWriter, r *http.Request) {
	request, err := decodeRegisterApplicationRequest(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	application, err := s.resourceService.RegisterApplication(r.Context(), domain.ApplicationRegistration{
		Name:        request.ClientName,
		Website:     request.Website,
		RedirectURI: request.RedirectURIs,
		Scopes:      request.Scopes,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidApplication) {
			s.writeError(w, http.StatusUnprocessableEntity, domain.ErrInvalidApplication.Error())
			return
		}

		s.logger.Error("Failed to register application", "error", err)
		s.writeError(w, http.StatusInternalServerError, domain.ErrUnavailableServer.Error())
		return
	}

	s.writeJSON(w, http.StatusOK, MapRegisteredApplicationToResponse(application))
}

func decodeRegisterApplicationRequest(r *http.Request) (*RegisterApplicationRequest, error) {
	var request RegisterApplicationRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			return nil, err
		}
		return &request, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, err
	}

	request.ClientName = r.PostForm.Get("client_name")
	request.RedirectURIs = r.PostForm.Get("redirect_uris")
	request.Scopes = r.PostForm.Get("scopes")
	request.Website = r.PostForm.Get("website")

	return &request, nil
}
