package blingclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	blingdomain "github.com/vfg2006/sales-sync-api/infrastructure/integrator/bling/domain"
	"github.com/vfg2006/sales-sync-api/internal/config"
	"github.com/vfg2006/sales-sync-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// TokenStore persiste os tokens renovados de uma conta
type TokenStore interface {
	UpdateTokens(ctx context.Context, accountID string, tokens domain.AccountTokens) error
}

//go:generate mockgen -source=client.go -destination=mocks/client.go -package=mocks

type Client interface {
	ListOrders(ctx context.Context, account *domain.Account, params ListOrdersParams) ([]blingdomain.Order, error)
	GetOrder(ctx context.Context, account *domain.Account, orderID string) (*blingdomain.Order, error)
}

type BlingClient struct {
	httpClient *http.Client
	cfg        *config.Config
	store      TokenStore
	now        func() time.Time
}

func NewClient(cfg *config.Config, store TokenStore) Client {
	return &BlingClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		cfg:   cfg,
		store: store,
		now:   time.Now,
	}
}

type ListOrdersParams struct {
	Page      int
	Limit     int
	StartDate time.Time
	EndDate   time.Time
}

func (c *BlingClient) ListOrders(ctx context.Context, account *domain.Account, params ListOrdersParams) ([]blingdomain.Order, error) {
	query := url.Values{}
	query.Set("pagina", strconv.Itoa(params.Page))
	query.Set("limite", strconv.Itoa(params.Limit))
	if !params.StartDate.IsZero() {
		query.Set("dataInicial", params.StartDate.Format(time.DateOnly))
	}
	if !params.EndDate.IsZero() {
		query.Set("dataFinal", params.EndDate.Format(time.DateOnly))
	}

	var response blingdomain.OrderListResponse
	if err := c.get(ctx, account, "/pedidos/vendas", query, &response); err != nil {
		return nil, err
	}

	return response.Data, nil
}

func (c *BlingClient) GetOrder(ctx context.Context, account *domain.Account, orderID string) (*blingdomain.Order, error) {
	var response blingdomain.OrderResponse
	if err := c.get(ctx, account, "/pedidos/vendas/"+orderID, nil, &response); err != nil {
		return nil, err
	}

	return &response.Data, nil
}

// get faz a chamada autenticada. Um 401 com refresh token disponível provoca
// uma renovação e uma nova tentativa; um 429 espera um segundo e repete uma vez.
func (c *BlingClient) get(ctx context.Context, account *domain.Account, resource string, query url.Values, out interface{}) error {
	endpoint, err := url.Parse(c.cfg.Bling.BaseURL)
	if err != nil {
		return errors.Wrap(err, "erro ao analisar a URL base")
	}
	endpoint.Path = path.Join(endpoint.Path, resource)
	if query != nil {
		endpoint.RawQuery = query.Encode()
	}

	if account.AccessToken == "" || account.TokenExpired(c.now(), time.Minute) {
		if err := c.RefreshToken(ctx, account); err != nil {
			return err
		}
	}

	refreshed, throttled := false, false
	for {
		status, err := c.do(ctx, endpoint.String(), account.AccessToken, out)
		if err == nil {
			return nil
		}

		switch {
		case status == http.StatusUnauthorized && !refreshed && account.RefreshToken != "":
			refreshed = true
			if err := c.RefreshToken(ctx, account); err != nil {
				return err
			}
			continue
		case status == http.StatusTooManyRequests && !throttled:
			throttled = true
			logrus.WithField("account_id", account.ID).Warn("Limite de requisições do Bling atingido, aguardando")
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return ctx.Err()
			}
			continue
		}

		return c.classify(account, status, err)
	}
}

func (c *BlingClient) do(ctx context.Context, endpoint, token string, out interface{}) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return 0, errors.Wrap(err, "erro ao criar a requisição")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, errors.Wrap(err, "erro ao executar a requisição")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("erro ao ler resposta: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp blingdomain.ErrorResponse
		if json.Unmarshal(body, &errorResp) == nil && errorResp.Error.Message != "" {
			return resp.StatusCode, fmt.Errorf("requisição falhou com status: %s: %s", resp.Status, errorResp.Error.Message)
		}
		return resp.StatusCode, fmt.Errorf("requisição falhou com status: %s", resp.Status)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return resp.StatusCode, errors.Wrap(err, "erro ao decodificar a resposta")
	}

	return resp.StatusCode, nil
}

// RefreshToken renova o token OAuth da conta usando Basic auth do aplicativo
func (c *BlingClient) RefreshToken(ctx context.Context, account *domain.Account) error {
	if account.RefreshToken == "" {
		return c.remoteError(account, domain.RemoteErrorRequiresReconnection, 0, fmt.Errorf("conta sem refresh token"))
	}

	endpoint, err := url.Parse(c.cfg.Bling.BaseURL)
	if err != nil {
		return errors.Wrap(err, "erro ao analisar a URL base")
	}
	endpoint.Path = path.Join(endpoint.Path, "/oauth/token")

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", account.RefreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), strings.NewReader(form.Encode()))
	if err != nil {
		return errors.Wrap(err, "erro ao criar a requisição")
	}
	req.SetBasicAuth(c.cfg.Bling.ClientID, c.cfg.Bling.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.remoteError(account, domain.RemoteErrorRetryable, 0, errors.Wrap(err, "erro ao renovar token"))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logrus.WithField("account_id", account.ID).Errorf("Renovação de token do Bling falhou com status %s", resp.Status)
		if resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return c.remoteError(account, domain.RemoteErrorRequiresReconnection, resp.StatusCode, fmt.Errorf("requisição falhou com status: %s", resp.Status))
		}
		return c.classify(account, resp.StatusCode, fmt.Errorf("requisição falhou com status: %s", resp.Status))
	}

	var tokenResp blingdomain.TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return errors.Wrap(err, "erro ao decodificar resposta")
	}

	expiresAt := c.now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	account.AccessToken = tokenResp.AccessToken
	if tokenResp.RefreshToken != "" {
		account.RefreshToken = tokenResp.RefreshToken
	}
	account.TokenExpiresAt = &expiresAt

	if c.store != nil {
		err := c.store.UpdateTokens(ctx, account.ID, domain.AccountTokens{
			AccessToken:  account.AccessToken,
			RefreshToken: account.RefreshToken,
			ExpiresAt:    expiresAt,
		})
		if err != nil {
			logrus.WithError(err).WithField("account_id", account.ID).Error("Erro ao persistir token renovado do Bling")
		}
	}

	return nil
}

func (c *BlingClient) classify(account *domain.Account, status int, err error) *domain.RemoteAccountError {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return c.remoteError(account, domain.RemoteErrorRequiresReconnection, status, err)
	case status == 0 || status == http.StatusTooManyRequests || status >= http.StatusInternalServerError:
		return c.remoteError(account, domain.RemoteErrorRetryable, status, err)
	default:
		return c.remoteError(account, domain.RemoteErrorInvalidRequest, status, err)
	}
}

func (c *BlingClient) remoteError(account *domain.Account, kind domain.RemoteErrorKind, status int, err error) *domain.RemoteAccountError {
	return &domain.RemoteAccountError{
		AccountID:  account.ID,
		Platform:   domain.PlatformBling,
		Kind:       kind,
		StatusCode: status,
		Err:        err,
	}
}
