package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) handleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
	if err != nil || userID <= 0 {
		h.writeError(w, http.StatusBadRequest, ErrInvalidUser.Error())
		return
	}

	p, err := h.portfolios.GetPortfolio(r.Context(), userID)
	if err != nil {
		h.logger.Errorw("get portfolio failed", "request_id", middleware.GetReqID(r.Context()), "user_id", userID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, p)
}

func (h *Handler) handleSearchInstruments(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		h.writeError(w, http.StatusBadRequest, "query by ticker or name is required")
		return
	}

	result, err := h.instruments.Search(r.Context(), query)
	if err != nil {
		h.logger.Errorw("instrument search failed", "request_id", middleware.GetReqID(r.Context()), "query", query, "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.writeJSON(w, http.StatusOK, result)
}
