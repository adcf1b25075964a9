package handler

import (
	"github.com/gin-gonic/gin"

	appWebhooks "github.com/selfservice/portal/internal/application/webhooks"
	"github.com/selfservice/portal/internal/interfaces/http/middleware"
)

// WebhooksHandler manages a service's webhook subscriptions
type WebhooksHandler struct {
	BaseHandler
	webhooks *appWebhooks.Service
}

// NewWebhooksHandler creates the webhooks handler
func NewWebhooksHandler(base BaseHandler, svc *appWebhooks.Service) *WebhooksHandler {
	return &WebhooksHandler{BaseHandler: base, webhooks: svc}
}

// RegisterRoutes mounts the webhook routes on the account group
func (h *WebhooksHandler) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/webhooks")
	group.GET("", h.list)
	group.POST("", h.create)
	group.GET("/:webhookId", h.get)
	group.PATCH("/:webhookId", h.update)
	group.GET("/:webhookId/signing-secret", h.signingSecret)
}

func (h *WebhooksHandler) scope(c *gin.Context) (appWebhooks.ServiceScope, bool) {
	account, ok := middleware.GetAccount(c)
	if !ok {
		h.BadRequest(c, "Account context missing")
		return appWebhooks.ServiceScope{}, false
	}

	scope := appWebhooks.ServiceScope{
		GatewayAccountID: account.GatewayAccountID,
		Live:             account.Live,
		CorrelationID:    middleware.GetCorrelationID(c),
	}
	if sess, ok := middleware.GetSession(c); ok {
		scope.ServiceID = sess.ServiceExternalID
	}
	return scope, true
}

func (h *WebhooksHandler) list(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}

	webhookList, err := h.webhooks.List(c.Request.Context(), scope)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, webhookList)
}

func (h *WebhooksHandler) get(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}

	webhook, err := h.webhooks.Get(c.Request.Context(), scope, c.Param("webhookId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, webhook)
}

func (h *WebhooksHandler) create(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}

	var input appWebhooks.CreateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindingError(c, err)
		return
	}

	webhook, err := h.webhooks.Create(c.Request.Context(), scope, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, webhook)
}

func (h *WebhooksHandler) update(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}

	var input appWebhooks.UpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindingError(c, err)
		return
	}

	webhook, err := h.webhooks.Update(c.Request.Context(), scope, c.Param("webhookId"), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, webhook)
}

func (h *WebhooksHandler) signingSecret(c *gin.Context) {
	scope, ok := h.scope(c)
	if !ok {
		return
	}

	secret, err := h.webhooks.SigningSecret(c.Request.Context(), scope, c.Param("webhookId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, secret)
}
