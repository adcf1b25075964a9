package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/selfservice/portal/internal/infrastructure/auth"
	"github.com/selfservice/portal/internal/infrastructure/config"
	"github.com/selfservice/portal/internal/infrastructure/session"
	"github.com/selfservice/portal/internal/interfaces/http/middleware"
)

type stubSessionWriter struct {
	saved   *session.Session
	deleted string
	err     error
}

func (s *stubSessionWriter) Save(_ context.Context, sess *session.Session) error {
	s.saved = sess
	return s.err
}

func (s *stubSessionWriter) Delete(_ context.Context, sessionID string) error {
	s.deleted = sessionID
	return s.err
}

func systemJWTService(t *testing.T) *auth.JWTService {
	t.Helper()
	return auth.NewJWTService(config.JWTConfig{
		Secret:     "0123456789abcdef0123456789abcdef",
		Issuer:     "selfservice-portal",
		Expiration: time.Hour,
	})
}

func systemRouter(t *testing.T, store *stubSessionWriter) (*gin.Engine, *auth.JWTService) {
	t.Helper()
	jwtService := systemJWTService(t)
	h := NewSystemHandler(NewBaseHandler(zap.NewNop()), jwtService, store,
		config.CookieConfig{Name: "portal_session", Path: "/", SameSite: "lax"}, "portal", "test")

	engine := gin.New()
	h.RegisterHealthRoutes(engine)
	h.RegisterAuthRoutes(engine)
	return engine, jwtService
}

func TestLoginEstablishesSession(t *testing.T) {
	store := &stubSessionWriter{}
	engine, jwtService := systemRouter(t, store)

	body := `{
		"user_external_id": "user-ext-1",
		"email": "jane@example.com",
		"service_external_id": "svc-ext-1",
		"gateway_account_id": "42"
	}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, store.saved)
	assert.Equal(t, "user-ext-1", store.saved.UserID)
	assert.Equal(t, "jane@example.com", store.saved.Email)
	assert.Equal(t, "svc-ext-1", store.saved.ServiceExternalID)
	assert.Equal(t, "42", store.saved.GatewayAccountID)
	assert.NotEmpty(t, store.saved.SessionID)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "portal_session", cookies[0].Name)

	// The cookie token resolves to the stored session.
	claims, err := jwtService.ValidateSessionToken(cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, store.saved.SessionID, claims.SessionID)
}

func TestLoginRejectsIncompletePayload(t *testing.T) {
	store := &stubSessionWriter{}
	engine, _ := systemRouter(t, store)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"jane@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_FAILED")
	assert.Nil(t, store.saved)
}

func TestLogoutDeletesSession(t *testing.T) {
	store := &stubSessionWriter{}
	jwtService := systemJWTService(t)
	h := NewSystemHandler(NewBaseHandler(zap.NewNop()), jwtService, store,
		config.CookieConfig{Name: "portal_session"}, "portal", "test")

	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		c.Set(middleware.SessionKey, &session.Session{SessionID: "sess-1", UserID: "user-1"})
	})
	group := engine.Group("/")
	h.RegisterRoutes(group)

	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/logout", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "sess-1", store.deleted)
}
