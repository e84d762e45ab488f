package meliclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vfg2006/sales-sync-api/infrastructure/repository/mocks"
	"github.com/vfg2006/sales-sync-api/internal/config"
	"github.com/vfg2006/sales-sync-api/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, store TokenStore) *MeliClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{}
	cfg.MercadoLivre.BaseURL = server.URL
	cfg.MercadoLivre.ClientID = "client"
	cfg.MercadoLivre.ClientSecret = "secret"

	return &MeliClient{
		httpClient:     server.Client(),
		cfg:            cfg,
		TokenManager:   NewTokenManager(cfg, store),
		MaxRetries:     3,
		RetryBaseDelay: time.Millisecond,
	}
}

func testAccount() *domain.Account {
	return &domain.Account{
		ID:           "acc1",
		UserID:       "u1",
		Platform:     domain.PlatformMercadoLivre,
		ExternalID:   "999",
		AccessToken:  "token-antigo",
		RefreshToken: "refresh-antigo",
	}
}

func TestMeliClient_SearchOrders(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, "/orders/search", r.URL.Path)
		assert.Equal(t, "999", r.URL.Query().Get("seller"))
		assert.Equal(t, "50", r.URL.Query().Get("limit"))
		assert.Equal(t, "100", r.URL.Query().Get("offset"))
		assert.Equal(t, "2024-01-01T00:00:00.000Z", r.URL.Query().Get("order.date_created.from"))
		assert.Equal(t, "Bearer token-antigo", r.Header.Get("Authorization"))
		w.Write([]byte(`{"results":[{"id":1,"status":"paid"}],"paging":{"total":151,"offset":100,"limit":50}}`))
	}, nil)

	resp, err := client.SearchOrders(context.Background(), testAccount(), SearchParams{
		From:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		To:     time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		Offset: 100,
		Limit:  50,
	})

	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, 151, resp.Paging.Total)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "1", resp.Results[0].IDString())
}

func TestMeliClient_RetryOnServerErrors(t *testing.T) {
	tests := []struct {
		name          string
		failures      int32
		status        int
		expectedCalls int32
		wantErr       bool
		wantKind      domain.RemoteErrorKind
	}{
		{
			name:          "Recupera depois de dois 500",
			failures:      2,
			status:        http.StatusInternalServerError,
			expectedCalls: 3,
		},
		{
			name:          "Recupera depois de um 429",
			failures:      1,
			status:        http.StatusTooManyRequests,
			expectedCalls: 2,
		},
		{
			name:          "Desiste após esgotar as tentativas",
			failures:      100,
			status:        http.StatusServiceUnavailable,
			expectedCalls: 4,
			wantErr:       true,
			wantKind:      domain.RemoteErrorRetryable,
		},
		{
			name:          "403 não é repetido e exige reconexão",
			failures:      100,
			status:        http.StatusForbidden,
			expectedCalls: 1,
			wantErr:       true,
			wantKind:      domain.RemoteErrorRequiresReconnection,
		},
		{
			name:          "400 não é repetido",
			failures:      100,
			status:        http.StatusBadRequest,
			expectedCalls: 1,
			wantErr:       true,
			wantKind:      domain.RemoteErrorInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if atomic.AddInt32(&calls, 1) <= tt.failures {
					w.WriteHeader(tt.status)
					w.Write([]byte(`{"message":"falha","error":"erro","status":0}`))
					return
				}
				w.Write([]byte(`{"id":42,"status":"paid"}`))
			}, nil)

			order, err := client.GetOrder(context.Background(), testAccount(), "42")

			assert.Equal(t, tt.expectedCalls, atomic.LoadInt32(&calls))
			if tt.wantErr {
				require.Error(t, err)
				var remoteErr *domain.RemoteAccountError
				require.ErrorAs(t, err, &remoteErr)
				assert.Equal(t, tt.wantKind, remoteErr.Kind)
				assert.Equal(t, tt.status, remoteErr.StatusCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(42), order.ID)
		})
	}
}

func TestMeliClient_RefreshesTokenOnUnauthorized(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockAccountRepository(ctrl)
	store.EXPECT().
		UpdateTokens(gomock.Any(), "acc1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, tokens domain.AccountTokens) error {
			assert.Equal(t, "token-novo", tokens.AccessToken)
			assert.Equal(t, "refresh-novo", tokens.RefreshToken)
			return nil
		})

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/token":
			assert.NoError(t, r.ParseForm())
			assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
			assert.Equal(t, "refresh-antigo", r.PostForm.Get("refresh_token"))
			w.Write([]byte(`{"access_token":"token-novo","refresh_token":"refresh-novo","expires_in":21600}`))
		case "/shipments/7":
			if r.Header.Get("Authorization") != "Bearer token-novo" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"message":"invalid access token"}`))
				return
			}
			w.Write([]byte(`{"id":7,"logistic_type":"fulfillment"}`))
		}
	}, store)

	account := testAccount()
	shipment, err := client.GetShipment(context.Background(), account, 7)

	require.NoError(t, err)
	assert.Equal(t, "fulfillment", shipment.LogisticType)
	assert.Equal(t, "token-novo", account.AccessToken)
	require.NotNil(t, account.TokenExpiresAt)
}

func TestMeliClient_UnauthorizedAfterRefreshRequiresReconnection(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	store := mocks.NewMockAccountRepository(ctrl)
	store.EXPECT().UpdateTokens(gomock.Any(), "acc1", gomock.Any()).Return(nil)

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/token" {
			w.Write([]byte(`{"access_token":"token-novo","expires_in":21600}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	}, store)

	_, err := client.GetOrder(context.Background(), testAccount(), "1")

	require.Error(t, err)
	assert.True(t, domain.IsReconnectionRequired(err))
}

func TestTokenManager_EnsureValidToken(t *testing.T) {
	past := time.Now().Add(-time.Minute)
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name            string
		account         *domain.Account
		tokenStatus     int
		expectedToken   string
		wantReconnect   bool
		expectPersisted bool
	}{
		{
			name:          "Token válido é reutilizado",
			account:       &domain.Account{ID: "acc1", AccessToken: "atual", RefreshToken: "r", TokenExpiresAt: &future},
			expectedToken: "atual",
		},
		{
			name:            "Token expirado é renovado",
			account:         &domain.Account{ID: "acc1", AccessToken: "atual", RefreshToken: "r", TokenExpiresAt: &past},
			tokenStatus:     http.StatusOK,
			expectedToken:   "renovado",
			expectPersisted: true,
		},
		{
			name:          "Refresh token revogado exige reconexão",
			account:       &domain.Account{ID: "acc1", AccessToken: "atual", RefreshToken: "r", TokenExpiresAt: &past},
			tokenStatus:   http.StatusBadRequest,
			wantReconnect: true,
		},
		{
			name:          "Conta sem token exige reconexão",
			account:       &domain.Account{ID: "acc1"},
			wantReconnect: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			store := mocks.NewMockAccountRepository(ctrl)
			if tt.expectPersisted {
				store.EXPECT().UpdateTokens(gomock.Any(), "acc1", gomock.Any()).Return(nil)
			}

			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.tokenStatus)
				if tt.tokenStatus == http.StatusOK {
					w.Write([]byte(`{"access_token":"renovado","refresh_token":"r2","expires_in":21600}`))
					return
				}
				w.Write([]byte(`{"message":"invalid_grant","error":"invalid_grant"}`))
			}, store)

			token, err := client.TokenManager.EnsureValidToken(context.Background(), tt.account)

			if tt.wantReconnect {
				require.Error(t, err)
				assert.True(t, domain.IsReconnectionRequired(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedToken, token)
		})
	}
}
