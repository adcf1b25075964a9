// Package handler implements the portal's HTTP handlers. Page operations
// answer with a render instruction or a redirect; resource operations
// answer with plain data envelopes. All errors flow through the
// BaseHandler funnel, which maps them onto the dto status table.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	appOnboarding "github.com/selfservice/portal/internal/application/onboarding"
	"github.com/selfservice/portal/internal/application/payments"
	"github.com/selfservice/portal/internal/domain/shared"
	"github.com/selfservice/portal/internal/infrastructure/clients"
	"github.com/selfservice/portal/internal/interfaces/http/dto"
	"github.com/selfservice/portal/internal/interfaces/http/middleware"
)

// BaseHandler provides the shared response and error plumbing
type BaseHandler struct {
	logger *zap.Logger
}

// NewBaseHandler creates the shared handler base
func NewBaseHandler(logger *zap.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// Outcome writes a step outcome: a render instruction or a redirect
func (h *BaseHandler) Outcome(c *gin.Context, outcome *appOnboarding.StepOutcome) {
	if outcome.Redirect != "" {
		c.JSON(http.StatusOK, dto.RedirectResponse(outcome.Redirect))
		return
	}
	c.JSON(http.StatusOK, dto.RenderResponse(outcome.Render.View, outcome.Render.Data))
}

// Success writes a plain data envelope
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.DataResponse(data))
}

// Created writes a 201 data envelope
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.DataResponse(data))
}

// NoContent writes a 204
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// HandleError funnels every error a handler sees into a coded response
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	correlationID := middleware.GetCorrelationID(c)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		c.JSON(dto.GetHTTPStatus(domainErr.Code), dto.ErrorResponse(domainErr.Code, domainErr.Message))
		return
	}

	var amountErr *payments.AmountError
	if errors.As(err, &amountErr) {
		c.JSON(dto.GetHTTPStatus(amountErr.Code), dto.ErrorResponse(amountErr.Code, amountErr.Message))
		return
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse(dto.ErrCodeValidation, validationErrs.Error()))
		return
	}

	var transportErr *clients.TransportError
	if errors.As(err, &transportErr) {
		h.logger.Error("Backend service unreachable",
			zap.String("service", transportErr.Service),
			zap.String("correlation_id", correlationID),
			zap.Error(err))
		c.JSON(dto.GetHTTPStatus(dto.ErrCodeUpstreamUnreachable),
			dto.ErrorResponse(dto.ErrCodeUpstreamUnreachable, "A backend service could not be reached"))
		return
	}

	var statusErr *clients.UnexpectedStatusError
	if errors.As(err, &statusErr) {
		h.logger.Error("Backend service answered with unexpected status",
			zap.String("service", statusErr.Service),
			zap.Int("status", statusErr.Status),
			zap.String("correlation_id", correlationID),
			zap.Error(err))
		c.JSON(dto.GetHTTPStatus(dto.ErrCodeUpstreamStatus),
			dto.ErrorResponse(dto.ErrCodeUpstreamStatus, "A backend service answered unexpectedly"))
		return
	}

	h.logger.Error("Unhandled error",
		zap.String("correlation_id", correlationID),
		zap.Error(err))
	c.JSON(http.StatusInternalServerError,
		dto.ErrorResponse(dto.ErrCodeInternal, "Something went wrong"))
}

// BindingError writes a 400 for a failed request binding, distinguishing
// validation failures from malformed payloads
func (h *BaseHandler) BindingError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse(dto.ErrCodeValidation, validationErrs.Error()))
		return
	}
	c.JSON(http.StatusBadRequest, dto.ErrorResponse(dto.ErrCodeBadRequest, "Request body could not be read"))
}

// BadRequest writes a 400 with the given message
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse(dto.ErrCodeBadRequest, message))
}

// requireAccount pulls the account attached by the middleware
func (h *BaseHandler) requireAccount(c *gin.Context) (string, bool) {
	account, ok := middleware.GetAccount(c)
	if !ok {
		c.JSON(http.StatusInternalServerError,
			dto.ErrorResponse(dto.ErrCodeInternal, "Account context missing"))
		return "", false
	}
	return account.GatewayAccountID, true
}
