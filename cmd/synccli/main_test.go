package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/sales-sync-api/internal/coordinator"
	"github.com/vfg2006/sales-sync-api/internal/domain"
)

func TestRun(t *testing.T) {
	triggered := make(chan struct{})

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/sync/progress", func(w http.ResponseWriter, r *http.Request) {
		flusher := w.(http.Flusher)
		w.Header().Set("Content-Type", "text/event-stream")
		io.WriteString(w, "data: {\"type\":\"connected\"}\n\n")
		flusher.Flush()

		select {
		case <-triggered:
		case <-r.Context().Done():
			return
		}

		io.WriteString(w, "data: {\"type\":\"sync_start\",\"accountId\":\"acc1\"}\n\n")
		io.WriteString(w, "data: {\"type\":\"sync_complete\",\"accountId\":\"acc1\",\"fetched\":4}\n\n")
		flusher.Flush()

		<-r.Context().Done()
	})
	mux.HandleFunc("/v1/sync", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer token-1", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"batchId":"batch_1","sessionId":"u1:s1","accounts":["acc1"]}`))
		close(triggered)
	})
	mux.HandleFunc("/v1/dashboard/stats", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, domain.PeriodLast30Days, r.URL.Query().Get("period"))
		w.Write([]byte(`{"grossRevenue":320.5,"orderCount":4}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	summary, last, err := run(ctx, runOptions{
		baseURL:  server.URL,
		token:    "token-1",
		platform: domain.PlatformMercadoLivre,
		period:   domain.PeriodLast30Days,
		coordinator: coordinator.Options{
			StallTimeout: time.Minute,
			GraceDelay:   10 * time.Millisecond,
			SettleDelay:  time.Millisecond,
		},
	})

	require.NoError(t, err)
	assert.True(t, summary.Successful)
	require.Len(t, summary.Accounts, 1)
	assert.Equal(t, 4, summary.Accounts[0].Fetched)
	require.NotNil(t, last)
	assert.Equal(t, 320.5, last.GrossRevenue)
}

func TestRun_TriggerError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/sync/progress", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.(http.Flusher).Flush()
		<-r.Context().Done()
	})
	mux.HandleFunc("/v1/sync", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":"SYNC_001"}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	_, _, err := run(context.Background(), runOptions{baseURL: server.URL, token: "t"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SYNC_001")
}
