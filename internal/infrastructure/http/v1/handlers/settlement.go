package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"partstock/internal/domain/settlement"
	"partstock/internal/infrastructure/http/v1/dto"
)

// SettlementHandler settles deferred (on-hold/credit) transactions.
type SettlementHandler struct {
	BaseHandler
	service *settlement.Service
}

// NewSettlementHandler creates the settlement handler.
func NewSettlementHandler(base BaseHandler, service *settlement.Service) *SettlementHandler {
	return &SettlementHandler{BaseHandler: base, service: service}
}

// Settle creates the paid counterpart of a deferred transaction.
// Repeating the call for the same reference yields ALREADY_SETTLED.
func (h *SettlementHandler) Settle(c *gin.Context) {
	var req dto.SettleRequest
	if err := h.BindJSON(c, &req); err != nil {
		h.Fail(c, err)
		return
	}

	settled, err := h.service.Settle(c.Request.Context(), req.ReferenceNumber)
	if err != nil {
		h.Fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, settled)
}
