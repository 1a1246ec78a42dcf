package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/tcfw/starregistry/pkg/registry"
)

func init() {
	reg = append(reg, func() APIHandler { return &ClaimsHandler{} })
}

type ClaimsHandler struct {
	BaseHandler
}

type ValidationRequest struct {
	Address string `json:"address"`
}

func (h *ClaimsHandler) Setup(a *Api, r *mux.Router) error {
	h.a = a

	r.HandleFunc("/requestValidation", h.requestValidation).Methods("POST")
	r.HandleFunc("/submitstar", h.submitStar).Methods("POST")

	return nil
}

func (h *ClaimsHandler) requestValidation(w http.ResponseWriter, r *http.Request) {
	req := &ValidationRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "decoding request"))
		return
	}

	if req.Address == "" {
		writeError(w, http.StatusBadRequest, errors.New("address is required"))
		return
	}

	writeJSON(w, http.StatusOK, h.a.n.Registry().IssueChallenge(req.Address))
}

func claimStatus(err error) int {
	switch {
	case errors.Is(err, registry.ErrMalformedMessage), errors.Is(err, registry.ErrVerification):
		return http.StatusBadRequest
	case errors.Is(err, registry.ErrExpiredChallenge), errors.Is(err, registry.ErrInvalidSignature):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func (h *ClaimsHandler) submitStar(w http.ResponseWriter, r *http.Request) {
	c := registry.Claim{}
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "decoding claim"))
		return
	}

	b, err := h.a.n.Registry().SubmitClaim(r.Context(), c)
	if err != nil {
		writeError(w, claimStatus(err), err)
		return
	}

	writeJSON(w, http.StatusOK, b)
}
