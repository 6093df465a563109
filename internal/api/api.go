package api

import (
	"context"
	"net/http"

	"github.com/STTM-NSU/trading-api/internal/logger"
	"github.com/STTM-NSU/trading-api/internal/model"
	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
)

type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req model.OrderRequest) (model.OrderResult, error)
}

type PortfolioReader interface {
	GetPortfolio(ctx context.Context, userID int64) (model.Portfolio, error)
}

type InstrumentSearcher interface {
	Search(ctx context.Context, query string) ([]model.InstrumentQuote, error)
}

type Handler struct {
	orders      OrderPlacer
	portfolios  PortfolioReader
	instruments InstrumentSearcher

	logger logger.Logger
}

func NewHandler(orders OrderPlacer, portfolios PortfolioReader, instruments InstrumentSearcher, logger logger.Logger) *Handler {
	return &Handler{
		orders:      orders,
		portfolios:  portfolios,
		instruments: instruments,
		logger:      logger,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/orders", h.handlePlaceOrder)
		r.Get("/portfolio/{userID}", h.handleGetPortfolio)
		r.Get("/instruments", h.handleSearchInstruments)
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := sonic.ConfigStd.NewEncoder(w).Encode(data); err != nil {
		h.logger.Errorf("%s: can't encode response", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string) {
	h.writeJSON(w, status, errorResponse{Error: message})
}
