package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/selfservice/portal/internal/application/payments"
	"github.com/selfservice/portal/internal/infrastructure/clients"
	"github.com/selfservice/portal/internal/infrastructure/clients/connector"
)

type stubRefundConnector struct {
	params connector.PostChargeRefundParams
	err    error
}

func (c *stubRefundConnector) PostChargeRefund(_ context.Context, params connector.PostChargeRefundParams) error {
	c.params = params
	return c.err
}

func refundsRouter(conn *stubRefundConnector) *gin.Engine {
	logger := zap.NewNop()
	h := NewRefundsHandler(NewBaseHandler(logger), payments.NewRefundService(conn, logger))

	engine := gin.New()
	group := engine.Group("/account/:accountExternalId", contextSeed(nil))
	h.RegisterRoutes(group)
	return engine
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestRefundSubmitted(t *testing.T) {
	conn := &stubRefundConnector{}
	router := refundsRouter(conn)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, postJSON("/account/ext-1/charges/ch_123/refunds",
		`{"amount":"10.50","refund_amount_available":2000}`))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "ch_123", conn.params.ChargeID)
	assert.Equal(t, int64(1050), conn.params.Payload.Amount)
}

func TestRefundInvalidAmount(t *testing.T) {
	router := refundsRouter(&stubRefundConnector{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, postJSON("/account/ext-1/charges/ch_123/refunds",
		`{"amount":"10.505","refund_amount_available":2000}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "REFUND_AMOUNT_NOT_VALID")
}

func TestRefundAboveBalance(t *testing.T) {
	router := refundsRouter(&stubRefundConnector{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, postJSON("/account/ext-1/charges/ch_123/refunds",
		`{"amount":"30.00","refund_amount_available":2000}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "REFUND_AMOUNT_ABOVE_BALANCE")
}

func TestRefundMalformedBody(t *testing.T) {
	router := refundsRouter(&stubRefundConnector{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, postJSON("/account/ext-1/charges/ch_123/refunds", `{not json`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "BAD_REQUEST")
}

func TestRefundUpstreamUnreachable(t *testing.T) {
	conn := &stubRefundConnector{err: &clients.TransportError{
		Service:     "connector",
		Description: "submit refund",
		Err:         errors.New("connection refused"),
	}}
	router := refundsRouter(conn)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, postJSON("/account/ext-1/charges/ch_123/refunds",
		`{"amount":"10.00","refund_amount_available":2000}`))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "UPSTREAM_UNREACHABLE")
}

func TestRefundUpstreamUnexpectedStatus(t *testing.T) {
	conn := &stubRefundConnector{err: &clients.UnexpectedStatusError{
		Service:     "connector",
		Description: "submit refund",
		Status:      http.StatusPreconditionFailed,
	}}
	router := refundsRouter(conn)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, postJSON("/account/ext-1/charges/ch_123/refunds",
		`{"amount":"10.00","refund_amount_available":2000}`))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "UPSTREAM_STATUS")
}
