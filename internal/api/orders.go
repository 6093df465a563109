package api

import (
	"errors"
	"net/http"

	"github.com/STTM-NSU/trading-api/internal/model"
	"github.com/STTM-NSU/trading-api/internal/orders"
	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5/middleware"
)

var (
	ErrSizeAndTotalAmount  = errors.New("size and total amount can't be set in the same request")
	ErrNoSizeOrTotalAmount = errors.New("either size or total amount must be set")
	ErrTotalAmountMarket   = errors.New("total amount is only supported for LIMIT orders")
	ErrLimitPrice          = errors.New("price must be greater than zero for LIMIT orders")
	ErrInvalidUser         = errors.New("invalid user id")
	ErrInvalidInstrument   = errors.New("invalid instrument id")
	ErrInvalidSide         = errors.New("invalid order side")
	ErrInvalidType         = errors.New("invalid order type")
)

func validateOrderRequest(req model.OrderRequest) error {
	switch {
	case req.UserID <= 0:
		return ErrInvalidUser
	case req.InstrumentID <= 0:
		return ErrInvalidInstrument
	case !req.Side.Valid():
		return ErrInvalidSide
	case !req.Type.Valid():
		return ErrInvalidType
	case req.Size > 0 && req.HasTotalAmount():
		return ErrSizeAndTotalAmount
	case req.Size <= 0 && !req.HasTotalAmount():
		return ErrNoSizeOrTotalAmount
	case req.Type == model.Market && req.HasTotalAmount():
		return ErrTotalAmountMarket
	}
	if _, ok := req.LimitPrice(); req.Type == model.Limit && !ok {
		return ErrLimitPrice
	}
	return nil
}

func (h *Handler) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req model.OrderRequest
	if err := sonic.ConfigStd.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := validateOrderRequest(req); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.orders.PlaceOrder(r.Context(), req)
	switch {
	case errors.Is(err, orders.ErrNoApplicableStrategy):
		h.writeError(w, http.StatusUnprocessableEntity, "no order strategy supports this request")
		return
	case err != nil:
		h.logger.Errorw("place order failed", "request_id", middleware.GetReqID(r.Context()), "error", err)
		h.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	switch {
	case result.Success:
		h.writeJSON(w, http.StatusOK, result)
	case result.Status == model.StatusRejected:
		h.writeJSON(w, http.StatusBadRequest, result)
	case result.Status == model.StatusCancelled:
		h.writeJSON(w, http.StatusConflict, result)
	default:
		h.writeJSON(w, http.StatusInternalServerError, result)
	}
}
