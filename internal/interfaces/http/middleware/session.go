package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/selfservice/portal/internal/infrastructure/auth"
	"github.com/selfservice/portal/internal/infrastructure/logger"
	"github.com/selfservice/portal/internal/infrastructure/session"
	"github.com/selfservice/portal/internal/interfaces/http/dto"
)

// Session context keys
const (
	SessionKey = "session"
	UserIDKey  = "user_id"
)

// SessionStore is the session lookup surface the middleware needs
type SessionStore interface {
	Get(ctx *gin.Context, sessionID string) (*session.Session, error)
}

// sessionStoreAdapter narrows *session.Store to the gin-friendly interface
type sessionStoreAdapter struct {
	store *session.Store
}

func (a sessionStoreAdapter) Get(c *gin.Context, sessionID string) (*session.Session, error) {
	return a.store.Get(c.Request.Context(), sessionID)
}

// SessionAuthConfig wires the session middleware
type SessionAuthConfig struct {
	JWTService *auth.JWTService
	Store      SessionStore
	CookieName string
	Logger     *zap.Logger
}

// SessionAuth authenticates the request from the session cookie: the JWT
// must verify and its session id must still exist in redis. The resolved
// session is attached to the gin context.
func SessionAuth(cfg SessionAuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cfg.CookieName)
		if err != nil || token == "" {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}

		claims, err := cfg.JWTService.ValidateSessionToken(token)
		if err != nil {
			code := dto.ErrCodeUnauthorized
			if errors.Is(err, auth.ErrExpiredToken) {
				code = dto.ErrCodeSessionExpired
			}
			abortUnauthorized(c, code, "Authentication required")
			return
		}

		sess, err := cfg.Store.Get(c, claims.SessionID)
		if err != nil {
			if !errors.Is(err, session.ErrNotFound) && cfg.Logger != nil {
				cfg.Logger.Error("Session lookup failed",
					zap.String("correlation_id", GetCorrelationID(c)),
					zap.Error(err))
			}
			abortUnauthorized(c, dto.ErrCodeSessionExpired, "Authentication required")
			return
		}

		c.Set(SessionKey, sess)
		c.Set(UserIDKey, sess.UserID)

		ctx, _ := logger.WithUserID(c.Request.Context(), logger.FromContext(c.Request.Context()), sess.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// NewSessionAuth builds the middleware from concrete infrastructure
func NewSessionAuth(jwtService *auth.JWTService, store *session.Store, cookieName string, logger *zap.Logger) gin.HandlerFunc {
	return SessionAuth(SessionAuthConfig{
		JWTService: jwtService,
		Store:      sessionStoreAdapter{store: store},
		CookieName: cookieName,
		Logger:     logger,
	})
}

// GetSession returns the authenticated session attached to the context
func GetSession(c *gin.Context) (*session.Session, bool) {
	value, ok := c.Get(SessionKey)
	if !ok {
		return nil, false
	}
	sess, ok := value.(*session.Session)
	return sess, ok
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse(code, message))
}
