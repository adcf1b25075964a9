package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/selfservice/portal/internal/infrastructure/auth"
	"github.com/selfservice/portal/internal/infrastructure/config"
	"github.com/selfservice/portal/internal/infrastructure/session"
	"github.com/selfservice/portal/internal/interfaces/http/middleware"
)

// SessionWriter is the session persistence surface the system handler needs
type SessionWriter interface {
	Save(ctx context.Context, sess *session.Session) error
	Delete(ctx context.Context, sessionID string) error
}

// SystemHandler serves liveness and session lifecycle endpoints
type SystemHandler struct {
	BaseHandler
	jwt      *auth.JWTService
	sessions SessionWriter
	cookie   config.CookieConfig
	appName  string
	version  string
}

// NewSystemHandler creates the system handler
func NewSystemHandler(base BaseHandler, jwtService *auth.JWTService, sessions SessionWriter, cookie config.CookieConfig, appName, version string) *SystemHandler {
	return &SystemHandler{BaseHandler: base, jwt: jwtService, sessions: sessions, cookie: cookie, appName: appName, version: version}
}

// RegisterHealthRoutes mounts the unauthenticated liveness route
func (h *SystemHandler) RegisterHealthRoutes(engine *gin.Engine) {
	engine.GET("/healthz", h.health)
}

// RegisterAuthRoutes mounts the session establishment route. It sits
// outside the session-authenticated group: callers arrive here from the
// upstream identity flow, before they hold a session cookie.
func (h *SystemHandler) RegisterAuthRoutes(engine *gin.Engine) {
	engine.POST("/login", h.login)
}

// RegisterRoutes mounts the authenticated session routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/logout", h.logout)
}

func (h *SystemHandler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"name":    h.appName,
		"version": h.version,
	})
}

type loginInput struct {
	UserExternalID    string `json:"user_external_id" binding:"required"`
	Email             string `json:"email" binding:"required,email"`
	ServiceExternalID string `json:"service_external_id" binding:"required"`
	GatewayAccountID  string `json:"gateway_account_id" binding:"required"`
}

func (h *SystemHandler) login(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindingError(c, err)
		return
	}

	token, err := h.jwt.GenerateSessionToken(input.UserExternalID, input.Email)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	sess := &session.Session{
		SessionID:         token.SessionID,
		UserID:            input.UserExternalID,
		Email:             input.Email,
		ServiceExternalID: input.ServiceExternalID,
		GatewayAccountID:  input.GatewayAccountID,
		CreatedAt:         time.Now(),
	}
	if err := h.sessions.Save(c.Request.Context(), sess); err != nil {
		h.HandleError(c, err)
		return
	}

	c.SetSameSite(cookieSameSite(h.cookie.SameSite))
	c.SetCookie(h.cookie.Name, token.Token,
		int(time.Until(token.ExpiresAt).Seconds()), h.cookie.Path, "", h.cookie.Secure, true)
	h.Success(c, gin.H{"expires_at": token.ExpiresAt})
}

func (h *SystemHandler) logout(c *gin.Context) {
	sess, ok := middleware.GetSession(c)
	if !ok {
		h.NoContent(c)
		return
	}
	if err := h.sessions.Delete(c.Request.Context(), sess.SessionID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

func cookieSameSite(mode string) http.SameSite {
	switch mode {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
