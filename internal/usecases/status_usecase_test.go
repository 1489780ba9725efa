package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"umb_panel/internal/entities"
	"umb_panel/internal/infrastructure"
	"umb_panel/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession() *entities.Session {
	return &entities.Session{
		ID:      "sess-1",
		Token:   "backend-token",
		Profile: entities.Profile{Name: "Op", Email: "op@example.com", Role: entities.RoleAdmin},
	}
}

// newBackendWithBots fakes the management backend's /bots listing, pointing
// every bot at botURL.
func newBackendWithBots(t *testing.T, botURL string, ids ...string) *repository.BotRepository {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/bots", func(w http.ResponseWriter, r *http.Request) {
		bots := make([]entities.Bot, 0, len(ids))
		for _, id := range ids {
			bots = append(bots, entities.Bot{
				ID:     id,
				Name:   "bot-" + id,
				URL:    botURL,
				APIKey: "sk_live_test",
				Status: entities.BotStatusActive,
			})
		}
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": bots})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return repository.NewBotRepository(infrastructure.NewBackendClient(srv.URL, 2*time.Second))
}

func TestBotStatusPartialFacets(t *testing.T) {
	// health times out, the other three facets answer
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	})
	mux.HandleFunc("/api/stats/summary", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{"account":{"whatsappConnected":true},"lastBilling":{"month":"2024-05","totalCost":120.5}}}`)
	})
	mux.HandleFunc("/api/stats/usage", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{"month":"2024-05","whatsapp":{"sent":10,"limit":100,"remaining":90,"extra":0},"email":{"sent":5,"limit":50,"remaining":45,"extra":0}}}`)
	})
	mux.HandleFunc("/api/stats/billing", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[]}`)
	})
	botSrv := httptest.NewServer(mux)
	defer botSrv.Close()

	bots := newBackendWithBots(t, botSrv.URL, "b1")
	uc := NewStatusUsecase(bots, nil, DefaultBotClientFactory(300*time.Millisecond))

	snapshot, err := uc.BotStatus(context.Background(), testSession(), "b1")
	require.NoError(t, err)

	assert.Nil(t, snapshot.Health)
	require.NotNil(t, snapshot.Summary)
	assert.True(t, snapshot.Summary.Account.WhatsAppConnected)
	assert.Equal(t, "2024-05", snapshot.Summary.LastBilling.Month)
	assert.Equal(t, 120.5, snapshot.Summary.LastBilling.TotalCost)

	require.NotNil(t, snapshot.Usage)
	assert.Equal(t, "2024-05", snapshot.Usage.Month)
	assert.Equal(t, 10, snapshot.Usage.WhatsApp.Sent)
	assert.Equal(t, 90, snapshot.Usage.WhatsApp.Remaining)
	assert.Equal(t, 45, snapshot.Usage.Email.Remaining)

	require.NotNil(t, snapshot.Billing)
	assert.Empty(t, snapshot.Billing)

	assert.Equal(t, 3, snapshot.FacetCount())
}

func TestBotStatusAllFacetsFail(t *testing.T) {
	botSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"maintenance"}`, http.StatusServiceUnavailable)
	}))
	defer botSrv.Close()

	bots := newBackendWithBots(t, botSrv.URL, "b1")
	uc := NewStatusUsecase(bots, nil, DefaultBotClientFactory(time.Second))

	snapshot, err := uc.BotStatus(context.Background(), testSession(), "b1")
	require.NoError(t, err, "facet failures must never fail the snapshot")
	assert.Equal(t, 0, snapshot.FacetCount())
	assert.Nil(t, snapshot.Health)
	assert.Nil(t, snapshot.Summary)
	assert.Nil(t, snapshot.Usage)
	assert.Nil(t, snapshot.Billing)
	assert.Equal(t, "bot-b1", snapshot.Bot.Name)
}

func TestBotStatusAllFacetsSucceed(t *testing.T) {
	mux := facetMux()
	botSrv := httptest.NewServer(mux)
	defer botSrv.Close()

	bots := newBackendWithBots(t, botSrv.URL, "b1", "b2")
	uc := NewStatusUsecase(bots, nil, DefaultBotClientFactory(time.Second))

	snapshot, err := uc.BotStatus(context.Background(), testSession(), "b2")
	require.NoError(t, err)
	assert.Equal(t, 4, snapshot.FacetCount())
	assert.Equal(t, "b2", snapshot.Bot.ID)
	require.Len(t, snapshot.Billing, 1)
	assert.Equal(t, "2024-04", snapshot.Billing[0].Month)
	assert.Equal(t, "paid", snapshot.Billing[0].Status)
	assert.Equal(t, "ok", snapshot.Health.Checks.API)
	assert.True(t, snapshot.Health.Account.Active)
}

func TestBotStatusNotFound(t *testing.T) {
	var facetRequests atomic.Int64
	botSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		facetRequests.Add(1)
	}))
	defer botSrv.Close()

	bots := newBackendWithBots(t, botSrv.URL, "b1")
	uc := NewStatusUsecase(bots, nil, DefaultBotClientFactory(time.Second))

	_, err := uc.BotStatus(context.Background(), testSession(), "missing")
	assert.ErrorIs(t, err, ErrBotNotFound)
	assert.Equal(t, int64(0), facetRequests.Load(), "no facet request may be issued for an unknown bot")
}

func TestBotStatusIdempotent(t *testing.T) {
	botSrv := httptest.NewServer(facetMux())
	defer botSrv.Close()

	bots := newBackendWithBots(t, botSrv.URL, "b1")
	uc := NewStatusUsecase(bots, nil, DefaultBotClientFactory(time.Second))

	first, err := uc.BotStatus(context.Background(), testSession(), "b1")
	require.NoError(t, err)
	second, err := uc.BotStatus(context.Background(), testSession(), "b1")
	require.NoError(t, err)

	assert.Equal(t, first.Health, second.Health)
	assert.Equal(t, first.Summary, second.Summary)
	assert.Equal(t, first.Usage, second.Usage)
	assert.Equal(t, first.Billing, second.Billing)
}

type recordingNotifier struct {
	alerts atomic.Int64
}

func (n *recordingNotifier) AlertAccountTrouble(bot *entities.Bot, health *entities.HealthReport) {
	if health != nil && (health.Account.Blocked || !health.Account.Active) {
		n.alerts.Add(1)
	}
}

func TestBotStatusAlertsOnBlockedAccount(t *testing.T) {
	mux := facetMuxWithHealth(`{"checks":{"api":"ok","database":"ok","whatsapp":"disconnected","email":"ok"},"account":{"active":true,"blocked":true}}`)
	botSrv := httptest.NewServer(mux)
	defer botSrv.Close()

	bots := newBackendWithBots(t, botSrv.URL, "b1")
	notifier := &recordingNotifier{}
	uc := NewStatusUsecase(bots, notifier, DefaultBotClientFactory(time.Second))

	_, err := uc.BotStatus(context.Background(), testSession(), "b1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), notifier.alerts.Load())
}

// facetMux serves a healthy set of all four facets.
func facetMux() *http.ServeMux {
	return facetMuxWithHealth(`{"checks":{"api":"ok","database":"ok","whatsapp":"connected","email":"ok"},"account":{"active":true,"blocked":false}}`)
}

func facetMuxWithHealth(health string) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, health)
	})
	mux.HandleFunc("/api/stats/summary", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{"account":{"whatsappConnected":true},"lastBilling":{"month":"2024-04","totalCost":80}}}`)
	})
	mux.HandleFunc("/api/stats/usage", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":{"month":"2024-05","whatsapp":{"sent":1,"limit":10,"remaining":9,"extra":0},"email":{"sent":0,"limit":5,"remaining":5,"extra":0}}}`)
	})
	mux.HandleFunc("/api/stats/billing", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data":[{"_id":"bill-1","month":"2024-04","totalCost":80,"status":"paid","invoiceUploaded":true}]}`)
	})
	return mux
}
