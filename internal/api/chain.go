package api

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/tcfw/starregistry/pkg/ledger"
)

func init() {
	reg = append(reg, func() APIHandler { return &ChainHandler{} })
}

type ChainHandler struct {
	BaseHandler
}

type ValidationFinding struct {
	Height uint64      `json:"height"`
	Hash   ledger.Hash `json:"hash"`
	Reason string      `json:"reason"`
}

type ValidationResult struct {
	Valid  bool                `json:"valid"`
	Errors []ValidationFinding `json:"errors"`
}

func (h *ChainHandler) Setup(a *Api, r *mux.Router) error {
	h.a = a

	r.HandleFunc("/block/height/{height:[0-9]+}", h.blockByHeight).Methods("GET")
	r.HandleFunc("/block/hash/{hash}", h.blockByHash).Methods("GET")
	r.HandleFunc("/blocks/{address}", h.starsByAddress).Methods("GET")
	r.HandleFunc("/validateChain", h.validateChain).Methods("GET")

	return nil
}

var errBlockNotFound = errors.New("block not found")

func (h *ChainHandler) blockByHeight(w http.ResponseWriter, r *http.Request) {
	height, err := strconv.ParseUint(mux.Vars(r)["height"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, errors.Wrap(err, "parsing height"))
		return
	}

	b, ok := h.a.n.Ledger().FindByHeight(height)
	if !ok {
		writeError(w, http.StatusNotFound, errBlockNotFound)
		return
	}

	writeJSON(w, http.StatusOK, b)
}

func (h *ChainHandler) blockByHash(w http.ResponseWriter, r *http.Request) {
	b, ok := h.a.n.Ledger().FindByHash(ledger.Hash(mux.Vars(r)["hash"]))
	if !ok {
		writeError(w, http.StatusNotFound, errBlockNotFound)
		return
	}

	writeJSON(w, http.StatusOK, b)
}

func (h *ChainHandler) starsByAddress(w http.ResponseWriter, r *http.Request) {
	address := mux.Vars(r)["address"]

	stars, err := h.a.n.Ledger().CollectClaimsByAddress(r.Context(), address)
	if err != nil {
		var de ledger.DecodeErrors
		if !errors.As(err, &de) {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		//partial results are still served, the bad blocks show in validateChain
		h.a.n.Logger().WithError(err).Warn("serving stars with undecodable blocks")
	}

	writeJSON(w, http.StatusOK, stars)
}

func (h *ChainHandler) validateChain(w http.ResponseWriter, _ *http.Request) {
	findings := h.a.n.Ledger().ValidateChain()

	res := ValidationResult{
		Valid:  len(findings) == 0,
		Errors: make([]ValidationFinding, 0, len(findings)),
	}
	for _, f := range findings {
		res.Errors = append(res.Errors, ValidationFinding{
			Height: f.Block.Height,
			Hash:   f.Block.Hash,
			Reason: f.Reason,
		})
	}

	writeJSON(w, http.StatusOK, res)
}
