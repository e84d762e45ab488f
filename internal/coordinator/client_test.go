package coordinator

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/sales-sync-api/internal/domain"
)

func TestAPIClient_TriggerSync(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/sync", r.URL.Path)
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))

		var req domain.SyncRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, domain.PlatformMercadoLivre, req.Platform)
		assert.Equal(t, []string{"a", "b"}, req.AccountIDs)

		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"batchId":"batch_1","sessionId":"s1","accounts":["a","b"]}`))
	}))
	defer server.Close()

	client := NewAPIClient(server.URL, "token-1")
	batch, err := client.TriggerSync(context.Background(), domain.SyncRequest{
		SessionID:  "s1",
		Platform:   domain.PlatformMercadoLivre,
		AccountIDs: []string{"a", "b"},
	})

	require.NoError(t, err)
	assert.Equal(t, "batch_1", batch.BatchID)
	assert.Equal(t, []string{"a", "b"}, batch.Accounts)
}

func TestAPIClient_TriggerSyncError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":"SYNC_001"}`))
	}))
	defer server.Close()

	_, err := NewAPIClient(server.URL, "").TriggerSync(context.Background(), domain.SyncRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SYNC_001")
}

func TestAPIClient_SubscribeAndReconcile(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/sync/progress", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "s1", r.URL.Query().Get("session"))
		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, "data: {\"type\":\"connected\"}\n\n")
		io.WriteString(w, "data: {\"type\":\"sync_complete\",\"accountId\":\"a\",\"fetched\":2}\n\n")
	})
	mux.HandleFunc("/v1/dashboard/stats", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "ultimos_30d", r.URL.Query().Get("period"))
		w.Write([]byte(`{"grossRevenue":150,"orderCount":2}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewAPIClient(server.URL, "")
	reconciler := NewStatsReconciler(client, url.Values{"period": {"ultimos_30d"}})

	c := New(reconciler, testOptions())
	require.NoError(t, c.Start(context.Background(), []string{"a"}))

	body, err := client.Subscribe(context.Background(), "s1")
	require.NoError(t, err)
	c.Attach(body)

	require.NoError(t, Follow(context.Background(), body, c, nil))

	summary := waitSummary(t, c)
	assert.NoError(t, summary.ReconcileErr)
	assert.True(t, summary.Successful)
	require.NotNil(t, reconciler.Last)
	assert.Equal(t, 150.0, reconciler.Last.GrossRevenue)
	assert.Equal(t, 2, reconciler.Last.OrderCount)
}

func TestStatsReconciler_StatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	reconciler := NewStatsReconciler(NewAPIClient(server.URL, ""), nil)
	assert.Error(t, reconciler.Reconcile(context.Background()))
	assert.Nil(t, reconciler.Last)
}
