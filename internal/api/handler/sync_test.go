package handler

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vfg2006/sales-sync-api/internal/coordinator"
	"github.com/vfg2006/sales-sync-api/internal/domain"
	"github.com/vfg2006/sales-sync-api/internal/usecases/progress"
	"github.com/vfg2006/sales-sync-api/internal/usecases/syncing"
	"github.com/vfg2006/sales-sync-api/internal/usecases/syncing/mocks"
	"github.com/vfg2006/sales-sync-api/pkg/apiErrors"
)

func TestScopeSession(t *testing.T) {
	assert.Equal(t, "u1", scopeSession("u1", ""))
	assert.Equal(t, "u1", scopeSession("u1", "u1"))
	assert.Equal(t, "u1:aba-2", scopeSession("u1", "aba-2"))
	assert.Equal(t, "u1:aba-2", scopeSession("u1", "u1:aba-2"))
	assert.Equal(t, "u1:u2", scopeSession("u1", "u2"))
}

func TestTriggerSync(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(s *mocks.MockSyncer)
		wantStatus int
		wantCode   string
	}{
		{
			name: "Agenda o lote e responde 202",
			body: `{"platform":"shopee","sessionId":"aba-1"}`,
			setup: func(s *mocks.MockSyncer) {
				s.EXPECT().ResolveAccountIDs(gomock.Any(), testUserID, domain.PlatformShopee, nil).
					Return([]string{"acc1", "acc2"}, nil)
				s.EXPECT().StartSync(gomock.Any(), domain.SyncRequest{
					UserID:     testUserID,
					SessionID:  testUserID + ":aba-1",
					Platform:   domain.PlatformShopee,
					AccountIDs: []string{"acc1", "acc2"},
				}).Return(&domain.SyncBatch{BatchID: "batch_x", SessionID: testUserID + ":aba-1", Accounts: []string{"acc1", "acc2"}}, nil)
			},
			wantStatus: http.StatusAccepted,
		},
		{
			name: "Sem contas conectadas",
			body: `{"platform":"mercado_livre"}`,
			setup: func(s *mocks.MockSyncer) {
				s.EXPECT().ResolveAccountIDs(gomock.Any(), testUserID, domain.PlatformMercadoLivre, nil).Return([]string{}, nil)
				s.EXPECT().StartSync(gomock.Any(), gomock.Any()).Return(nil, syncing.ErrNoAccounts)
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   apiErrors.ErrNoAccounts,
		},
		{
			name: "Conta de outro usuário",
			body: `{"platform":"bling","accountIds":["x"]}`,
			setup: func(s *mocks.MockSyncer) {
				s.EXPECT().ResolveAccountIDs(gomock.Any(), testUserID, domain.PlatformBling, []string{"x"}).Return([]string{"x"}, nil)
				s.EXPECT().StartSync(gomock.Any(), gomock.Any()).Return(nil, syncing.ErrAccountNotFound)
			},
			wantStatus: http.StatusNotFound,
			wantCode:   apiErrors.ErrAccountNotFound,
		},
		{
			name:       "Plataforma inválida",
			body:       `{"platform":"amazon"}`,
			setup:      func(s *mocks.MockSyncer) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   apiErrors.ErrInvalidRequest,
		},
		{
			name:       "JSON inválido",
			body:       `{`,
			setup:      func(s *mocks.MockSyncer) {},
			wantStatus: http.StatusBadRequest,
			wantCode:   apiErrors.ErrInvalidFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			syncer := mocks.NewMockSyncer(ctrl)
			tt.setup(syncer)

			rec := serve(TriggerSync(syncer), withUser(newRequest(http.MethodPost, "/v1/sync", tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantCode != "" {
				assert.Contains(t, rec.Body.String(), tt.wantCode)
			}
		})
	}
}

func TestTriggerSync_Unauthenticated(t *testing.T) {
	ctrl := gomock.NewController(t)
	rec := serve(TriggerSync(mocks.NewMockSyncer(ctrl)), newRequest(http.MethodPost, "/v1/sync", `{"platform":"shopee"}`))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), apiErrors.ErrInvalidToken)
}

func TestListSyncJobs(t *testing.T) {
	ctrl := gomock.NewController(t)
	syncer := mocks.NewMockSyncer(ctrl)
	syncer.EXPECT().ListJobs(testUserID).Return(nil)

	rec := serve(ListSyncJobs(syncer), withUser(newRequest(http.MethodGet, "/v1/sync/jobs", "")))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"jobs":[]}`, rec.Body.String())
}

func TestSyncProgress_StreamsUntilSessionClosed(t *testing.T) {
	hub := progress.NewHub(8)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		SyncProgress(hub, time.Minute).ServeHTTP(w, withUser(r))
	}))
	defer server.Close()

	resp, err := http.Get(server.URL + "/v1/sync/progress")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	assert.Equal(t, "no-cache", resp.Header.Get("Cache-Control"))

	reader := coordinator.NewStreamReader(resp.Body)

	connected, err := reader.Next()
	require.NoError(t, err)
	assert.Equal(t, domain.EventConnected, connected.Type)
	require.Equal(t, 1, hub.Subscribers(testUserID))

	ctx := context.Background()
	require.NoError(t, hub.Publish(ctx, domain.ProgressEvent{
		Type:      domain.EventSyncComplete,
		SessionID: testUserID,
		AccountID: "acc1",
		Fetched:   domain.IntPtr(7),
	}))
	// outra sessão não chega neste stream
	require.NoError(t, hub.Publish(ctx, domain.ProgressEvent{Type: domain.EventSyncStart, SessionID: "outro"}))

	event, err := reader.Next()
	require.NoError(t, err)
	assert.Equal(t, domain.EventSyncComplete, event.Type)
	assert.Equal(t, "acc1", event.AccountID)

	require.NoError(t, hub.CloseSession(ctx, testUserID))

	_, err = reader.Next()
	assert.Error(t, err)
}

func TestSyncProgress_Heartbeat(t *testing.T) {
	hub := progress.NewHub(8)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		SyncProgress(hub, 10*time.Millisecond).ServeHTTP(w, withUser(r))
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"/v1/sync/progress?session=aba", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	found := false
	for scanner.Scan() {
		if strings.HasPrefix(scanner.Text(), ": heartbeat") {
			found = true
			break
		}
	}
	assert.True(t, found)
	assert.Equal(t, 1, hub.Subscribers(testUserID+":aba"))
}
