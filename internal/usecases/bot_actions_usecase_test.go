package usecases

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"umb_panel/internal/infrastructure"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendTestMessageEchoesRecipient(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/whatsapp/send", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sk_live_test", r.Header.Get("x-api-key"))

		var body struct {
			To      string `json:"to"`
			Message string `json:"message"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "955768897", body.To)
		assert.Equal(t, "hi", body.Message)

		// the service normalizes the country code and reports send time
		fmt.Fprint(w, `{"data":{"to":"51955768897","sentAt":"2024-05-01T10:00:00Z"}}`)
	})
	botSrv := httptest.NewServer(mux)
	defer botSrv.Close()

	bots := newBackendWithBots(t, botSrv.URL, "b1")
	uc := NewBotActionsUsecase(bots, DefaultBotClientFactory(time.Second))

	result, err := uc.SendTestMessage(context.Background(), testSession(), "b1", "955768897", "hi")
	require.NoError(t, err)

	assert.Equal(t, "51955768897", result.To)
	want, _ := time.Parse(time.RFC3339, "2024-05-01T10:00:00Z")
	assert.True(t, result.SentAt.Equal(want))
	assert.Equal(t, want.Local().Format("15:04"), result.LocalTime)
}

func TestSendTestMessageRemoteErrorVerbatim(t *testing.T) {
	botSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"message":"number is not registered on WhatsApp"}`)
	}))
	defer botSrv.Close()

	bots := newBackendWithBots(t, botSrv.URL, "b1")
	uc := NewBotActionsUsecase(bots, DefaultBotClientFactory(time.Second))

	_, err := uc.SendTestMessage(context.Background(), testSession(), "b1", "955768897", "hi")
	require.Error(t, err)

	var apiErr *infrastructure.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "number is not registered on WhatsApp", apiErr.Message)
}

func TestSendTestMessageUnknownBot(t *testing.T) {
	botSrv := httptest.NewServer(http.NotFoundHandler())
	defer botSrv.Close()

	bots := newBackendWithBots(t, botSrv.URL, "b1")
	uc := NewBotActionsUsecase(bots, DefaultBotClientFactory(time.Second))

	_, err := uc.SendTestMessage(context.Background(), testSession(), "nope", "955768897", "hi")
	assert.ErrorIs(t, err, ErrBotNotFound)
}

func TestInvoiceLifecycle(t *testing.T) {
	pdf := []byte("%PDF-1.4 test invoice")

	mux := http.NewServeMux()
	mux.HandleFunc("/api/stats/invoice/upload", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			BillingID string `json:"billingId"`
			Base64    string `json:"base64"`
			Filename  string `json:"filename"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "bill-1", body.BillingID)
		assert.Equal(t, "invoice.pdf", body.Filename)

		decoded, err := base64.StdEncoding.DecodeString(body.Base64)
		require.NoError(t, err)
		assert.Equal(t, pdf, decoded)

		fmt.Fprint(w, `{"data":{"uploaded":true}}`)
	})
	mux.HandleFunc("/api/stats/invoice/file/bill-1", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Header().Set("Content-Type", "application/pdf")
			w.Write(pdf)
		case http.MethodDelete:
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	})
	botSrv := httptest.NewServer(mux)
	defer botSrv.Close()

	bots := newBackendWithBots(t, botSrv.URL, "b1")
	uc := NewBotActionsUsecase(bots, DefaultBotClientFactory(time.Second))
	sess := testSession()
	ctx := context.Background()

	require.NoError(t, uc.UploadInvoice(ctx, sess, "b1", "bill-1", "invoice.pdf", pdf))

	got, err := uc.DownloadInvoice(ctx, sess, "b1", "bill-1")
	require.NoError(t, err)
	assert.Equal(t, pdf, got)

	require.NoError(t, uc.DeleteInvoice(ctx, sess, "b1", "bill-1"))
}
