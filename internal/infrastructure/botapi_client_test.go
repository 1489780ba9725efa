package infrastructure

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"umb_panel/internal/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBotClient(t *testing.T, handler http.Handler) *BotAPIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewBotAPIClient(&entities.Bot{URL: srv.URL, APIKey: "sk_live_test"}, time.Second)
}

func TestHealthDecodesWithoutJSONContentType(t *testing.T) {
	// some bot services answer health with a JSON body but a text/plain
	// content type; the report must still parse
	client := newBotClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/health", r.URL.Path)
		assert.Equal(t, "sk_live_test", r.Header.Get("x-api-key"))
		w.Header().Set("Content-Type", "text/plain")
		fmt.Fprint(w, `{"checks":{"api":"ok","database":"ok","whatsapp":"connected","email":"ok"},"account":{"active":true,"blocked":false}}`)
	}))

	report, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", report.Checks.API)
	assert.Equal(t, "connected", report.Checks.WhatsApp)
	assert.True(t, report.Account.Active)
	assert.False(t, report.Account.Blocked)
}

func TestHealthRejectsNonJSONBody(t *testing.T) {
	client := newBotClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "OK")
	}))

	_, err := client.Health(context.Background())
	require.Error(t, err)
}

func TestHealthErrorStatus(t *testing.T) {
	client := newBotClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, `{"message":"maintenance"}`)
	}))

	_, err := client.Health(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.Status)
	assert.Equal(t, "maintenance", apiErr.Message)
}
