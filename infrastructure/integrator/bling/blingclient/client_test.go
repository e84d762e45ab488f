package blingclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/sales-sync-api/internal/config"
	"github.com/vfg2006/sales-sync-api/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *BlingClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{}
	cfg.Bling.BaseURL = server.URL
	cfg.Bling.ClientID = "app"
	cfg.Bling.ClientSecret = "segredo"

	return &BlingClient{
		httpClient: server.Client(),
		cfg:        cfg,
		now:        time.Now,
	}
}

func TestBlingClient_ListOrders(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/pedidos/vendas", r.URL.Path)
		assert.Equal(t, "2", q.Get("pagina"))
		assert.Equal(t, "100", q.Get("limite"))
		assert.Equal(t, "2024-01-01", q.Get("dataInicial"))
		assert.Equal(t, "2024-01-31", q.Get("dataFinal"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Write([]byte(`{"data":[{"id":1,"numero":10,"data":"2024-01-05","total":99.9,"situacao":{"id":9}}]}`))
	})

	orders, err := client.ListOrders(context.Background(), &domain.Account{ID: "acc1", AccessToken: "tok"}, ListOrdersParams{
		Page:      2,
		Limit:     100,
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	})

	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "completed", orders[0].Situacao.Status())
}

func TestBlingClient_RefreshOnUnauthorized(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oauth/token":
			user, pass, ok := r.BasicAuth()
			assert.True(t, ok)
			assert.Equal(t, "app", user)
			assert.Equal(t, "segredo", pass)
			w.Write([]byte(`{"access_token":"novo","refresh_token":"r2","expires_in":21600}`))
		default:
			if r.Header.Get("Authorization") != "Bearer novo" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"error":{"type":"invalid_token","message":"invalid_token"}}`))
				return
			}
			w.Write([]byte(`{"data":{"id":5,"total":10}}`))
		}
	})

	account := &domain.Account{ID: "acc1", AccessToken: "velho", RefreshToken: "r1"}
	order, err := client.GetOrder(context.Background(), account, "5")

	require.NoError(t, err)
	assert.Equal(t, int64(5), order.ID)
	assert.Equal(t, "novo", account.AccessToken)
	assert.Equal(t, "r2", account.RefreshToken)
}

func TestBlingClient_RevokedRefreshTokenRequiresReconnection(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/token" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.GetOrder(context.Background(), &domain.Account{ID: "acc1", AccessToken: "velho", RefreshToken: "r1"}, "5")

	require.Error(t, err)
	assert.True(t, domain.IsReconnectionRequired(err))
}
