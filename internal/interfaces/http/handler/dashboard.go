package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/selfservice/portal/internal/application/dashboard"
	"github.com/selfservice/portal/internal/interfaces/http/dto"
	"github.com/selfservice/portal/internal/interfaces/http/middleware"
)

// DashboardHandler serves the merchant dashboard
type DashboardHandler struct {
	BaseHandler
	dashboard *dashboard.Service
}

// NewDashboardHandler creates the dashboard handler
func NewDashboardHandler(base BaseHandler, svc *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{BaseHandler: base, dashboard: svc}
}

// RegisterRoutes mounts the dashboard route on the account group
func (h *DashboardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.view)
}

func (h *DashboardHandler) view(c *gin.Context) {
	account, ok := middleware.GetAccount(c)
	if !ok {
		h.BadRequest(c, "Account context missing")
		return
	}

	view, err := h.dashboard.View(c.Request.Context(), dashboard.ViewRequest{
		AccountExternalID: account.ExternalID,
		CorrelationID:     middleware.GetCorrelationID(c),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	data := map[string]any{
		"account":       view.Account,
		"showKycBanner": view.ShowKYCBanner,
	}
	if view.SetupProgress != nil {
		data["stripeSetupProgress"] = view.SetupProgress
		data["stripeAccountId"] = view.StripeAccountID
		data["outstandingSteps"] = view.OutstandingSteps
	}

	c.JSON(http.StatusOK, dto.RenderResponse("dashboard/index", data))
}
