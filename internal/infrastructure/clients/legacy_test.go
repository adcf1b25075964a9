package clients

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSettlerResolvesOnce(t *testing.T) {
	settler := NewSettler()

	settler.Resolve(200, []byte(`ok`))
	settler.Resolve(500, []byte(`late`))
	settler.Reject(errors.New("too late"))

	status, body, err := settler.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 200, status)
	assert.Equal(t, []byte(`ok`), body)
}

func TestSettlerRejectsOnce(t *testing.T) {
	settler := NewSettler()

	settler.Reject(errors.New("boom"))
	settler.Resolve(200, []byte(`late success`))

	_, _, err := settler.Wait(context.Background())
	assert.EqualError(t, err, "boom")
}

func TestSettlerConcurrentSettlementIsSingle(t *testing.T) {
	settler := NewSettler()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if n%2 == 0 {
				settler.Resolve(200, nil)
			} else {
				settler.Reject(errors.New("raced"))
			}
		}(i)
	}
	wg.Wait()

	// Either settlement is fine; a second Wait must not see another one.
	_, _, _ = settler.Wait(context.Background())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, _, err := settler.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSettlerWaitHonoursContext(t *testing.T) {
	settler := NewSettler()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := settler.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDoLegacyResolvesWithAcceptedStatus(t *testing.T) {
	client := New("connector", "http://connector.internal", time.Second, zap.NewNop())

	resp, err := client.DoLegacy(context.Background(), Request{
		Description:   "get all card types",
		CorrelationID: "corr-legacy",
	}, func(cb Callback) {
		cb(nil, http.StatusAccepted, []byte(`{"card_types":[]}`))
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, resp.Status)
}

func TestDoLegacyRejectsUnexpectedStatus(t *testing.T) {
	client := New("connector", "http://connector.internal", time.Second, zap.NewNop())

	// 204 is a success for modern calls but outside the legacy {200, 202} set.
	_, err := client.DoLegacy(context.Background(), Request{
		Description: "update service name",
	}, func(cb Callback) {
		cb(nil, http.StatusNoContent, nil)
	})

	var statusErr *UnexpectedStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNoContent, statusErr.Status)
}

func TestDoLegacyClassifiesCallbackError(t *testing.T) {
	client := New("connector", "http://connector.internal", time.Second, zap.NewNop())

	_, err := client.DoLegacy(context.Background(), Request{
		Description:   "get all card types",
		CorrelationID: "corr-err",
	}, func(cb Callback) {
		cb(errors.New("connection reset"), 0, nil)
	})

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, "corr-err", transportErr.CorrelationID)
}

func TestStartCallbackDeliversOutcome(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	t.Cleanup(server.Close)
	client := New("connector", server.URL, time.Second, zap.NewNop())

	settler := NewSettler()
	client.StartCallback(context.Background(), Request{
		Method:      http.MethodGet,
		Path:        "/v1/thing",
		Description: "get a thing",
	}, settler.Callback())

	status, body, err := settler.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, http.StatusAccepted, status)
	assert.Equal(t, []byte(`{"ok":true}`), body)
}

func TestDoLegacyOverCallbackTransportClassifiesConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()
	client := New("connector", server.URL, time.Second, zap.NewNop())

	req := Request{
		Method:        http.MethodGet,
		Path:          "/v1/thing",
		Description:   "get a thing",
		CorrelationID: "corr-conn",
	}
	_, err := client.DoLegacy(context.Background(), req, func(cb Callback) {
		client.StartCallback(context.Background(), req, cb)
	})

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, "connector", transportErr.Service)
	assert.Equal(t, "corr-conn", transportErr.CorrelationID)
	// Already classified by the transport, so not wrapped a second time.
	assert.NotErrorIs(t, transportErr.Err, transportErr)
	var inner *TransportError
	assert.False(t, errors.As(transportErr.Err, &inner))
}

func TestDoLegacyWrapsTransformError(t *testing.T) {
	client := New("connector", "http://connector.internal", time.Second, zap.NewNop())

	_, err := client.DoLegacy(context.Background(), Request{
		Description: "get stripe account for gateway account",
		Transform: func(body []byte) (any, error) {
			return nil, errors.New("unexpected shape")
		},
	}, func(cb Callback) {
		cb(nil, http.StatusOK, []byte(`{}`))
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connector")
	assert.Contains(t, err.Error(), "get stripe account for gateway account")
}

func TestDoLegacyDiscardsSecondCallback(t *testing.T) {
	client := New("connector", "http://connector.internal", time.Second, zap.NewNop())

	resp, err := client.DoLegacy(context.Background(), Request{
		Description: "get all card types",
	}, func(cb Callback) {
		cb(nil, http.StatusOK, []byte(`first`))
		cb(errors.New("late error event"), 0, nil)
	})

	require.NoError(t, err)
	assert.Equal(t, []byte(`first`), resp.Body)
}
