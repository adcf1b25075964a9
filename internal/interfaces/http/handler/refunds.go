package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/selfservice/portal/internal/application/payments"
	"github.com/selfservice/portal/internal/interfaces/http/middleware"
)

// RefundsHandler submits refunds against charges
type RefundsHandler struct {
	BaseHandler
	refunds *payments.RefundService
}

// NewRefundsHandler creates the refunds handler
func NewRefundsHandler(base BaseHandler, svc *payments.RefundService) *RefundsHandler {
	return &RefundsHandler{BaseHandler: base, refunds: svc}
}

// RegisterRoutes mounts the refund route on the account group
func (h *RefundsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/charges/:chargeId/refunds", h.submit)
}

type refundInput struct {
	Amount                string `json:"amount" binding:"required"`
	RefundAmountAvailable int64  `json:"refund_amount_available" binding:"required,min=1"`
}

func (h *RefundsHandler) submit(c *gin.Context) {
	gatewayAccountID, ok := h.requireAccount(c)
	if !ok {
		return
	}

	var input refundInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindingError(c, err)
		return
	}

	err := h.refunds.Submit(c.Request.Context(), payments.RefundRequest{
		GatewayAccountID:      gatewayAccountID,
		ChargeID:              c.Param("chargeId"),
		Amount:                input.Amount,
		RefundAmountAvailable: input.RefundAmountAvailable,
		CorrelationID:         middleware.GetCorrelationID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
