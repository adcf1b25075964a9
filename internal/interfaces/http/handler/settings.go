package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/selfservice/portal/internal/application/settings"
	"github.com/selfservice/portal/internal/interfaces/http/middleware"
)

// SettingsHandler applies gateway account setting changes
type SettingsHandler struct {
	BaseHandler
	settings *settings.Service
}

// NewSettingsHandler creates the settings handler
func NewSettingsHandler(base BaseHandler, svc *settings.Service) *SettingsHandler {
	return &SettingsHandler{BaseHandler: base, settings: svc}
}

// RegisterRoutes mounts the settings routes on the account group
func (h *SettingsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/settings")
	group.POST("/apple-pay", h.toggle(h.settings.SetApplePayEnabled))
	group.POST("/google-pay", h.toggle(h.settings.SetGooglePayEnabled))
	group.POST("/moto-mask-card-number", h.toggle(h.settings.SetMotoMaskCardNumber))
	group.POST("/moto-mask-security-code", h.toggle(h.settings.SetMotoMaskSecurityCode))
	group.POST("/gateway-merchant-id", h.gatewayMerchantID)
	group.POST("/3ds-integration-version", h.integrationVersion3DS)
	group.POST("/credentials", h.credentials)
}

type toggleInput struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

func (h *SettingsHandler) toggle(apply func(ctx context.Context, gatewayAccountID string, value bool, correlationID string) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		gatewayAccountID, ok := h.requireAccount(c)
		if !ok {
			return
		}

		var input toggleInput
		if err := c.ShouldBindJSON(&input); err != nil {
			h.BindingError(c, err)
			return
		}

		if err := apply(c.Request.Context(), gatewayAccountID, *input.Enabled, middleware.GetCorrelationID(c)); err != nil {
			h.HandleError(c, err)
			return
		}
		h.NoContent(c)
	}
}

type gatewayMerchantIDInput struct {
	GatewayMerchantID string `json:"gateway_merchant_id" binding:"required"`
}

func (h *SettingsHandler) gatewayMerchantID(c *gin.Context) {
	gatewayAccountID, ok := h.requireAccount(c)
	if !ok {
		return
	}

	var input gatewayMerchantIDInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindingError(c, err)
		return
	}

	if err := h.settings.SetGatewayMerchantID(c.Request.Context(), gatewayAccountID, input.GatewayMerchantID, middleware.GetCorrelationID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

type credentialsInput struct {
	MerchantID string `json:"merchant_id" binding:"required"`
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

func (h *SettingsHandler) credentials(c *gin.Context) {
	gatewayAccountID, ok := h.requireAccount(c)
	if !ok {
		return
	}

	var input credentialsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindingError(c, err)
		return
	}

	err := h.settings.UpdateCredentials(c.Request.Context(), gatewayAccountID, settings.CredentialsInput{
		MerchantID: input.MerchantID,
		Username:   input.Username,
		Password:   input.Password,
	}, middleware.GetCorrelationID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

type integrationVersion3DSInput struct {
	Version int `json:"version" binding:"required"`
}

func (h *SettingsHandler) integrationVersion3DS(c *gin.Context) {
	gatewayAccountID, ok := h.requireAccount(c)
	if !ok {
		return
	}

	var input integrationVersion3DSInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindingError(c, err)
		return
	}

	if err := h.settings.SetIntegrationVersion3DS(c.Request.Context(), gatewayAccountID, input.Version, middleware.GetCorrelationID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
