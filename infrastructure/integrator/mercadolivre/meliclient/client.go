package meliclient

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"path"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	melidomain "github.com/vfg2006/sales-sync-api/infrastructure/integrator/mercadolivre/domain"
	"github.com/vfg2006/sales-sync-api/internal/config"
	"github.com/vfg2006/sales-sync-api/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

//go:generate mockgen -source=client.go -destination=mocks/client.go -package=mocks

type Client interface {
	SearchOrders(ctx context.Context, account *domain.Account, params SearchParams) (*melidomain.SearchResponse, error)
	GetOrder(ctx context.Context, account *domain.Account, orderID string) (*melidomain.Order, error)
	GetShipment(ctx context.Context, account *domain.Account, shipmentID int64) (*melidomain.Shipment, error)
}

type MeliClient struct {
	httpClient     *http.Client
	cfg            *config.Config
	TokenManager   *TokenManager
	MaxRetries     int
	RetryBaseDelay time.Duration
}

func NewClient(cfg *config.Config, tokenManager *TokenManager) Client {
	maxRetries := cfg.MercadoLivre.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}

	return &MeliClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		cfg:            cfg,
		TokenManager:   tokenManager,
		MaxRetries:     maxRetries,
		RetryBaseDelay: time.Second,
	}
}

// get executa um GET autenticado com retentativas para 429 e 5xx.
// Um 401 provoca uma única renovação de token antes de desistir.
func (c *MeliClient) get(ctx context.Context, account *domain.Account, resource string, query url.Values, out interface{}) error {
	endpoint, err := url.Parse(c.cfg.MercadoLivre.BaseURL)
	if err != nil {
		return errors.Wrap(err, "erro ao analisar a URL base")
	}
	endpoint.Path = path.Join(endpoint.Path, resource)
	if query != nil {
		endpoint.RawQuery = query.Encode()
	}

	token, err := c.TokenManager.EnsureValidToken(ctx, account)
	if err != nil {
		return err
	}

	refreshed := false
	for attempt := 0; ; attempt++ {
		body, status, err := c.do(ctx, endpoint.String(), token)
		if err == nil {
			if err := json.Unmarshal(body, out); err != nil {
				return errors.Wrap(err, "erro ao decodificar a resposta")
			}
			return nil
		}

		if status == http.StatusUnauthorized && !refreshed && account.RefreshToken != "" {
			refreshed = true
			logrus.WithField("account_id", account.ID).Warn("Token rejeitado pelo Mercado Livre, renovando")
			token, err = c.TokenManager.RefreshToken(ctx, account)
			if err != nil {
				return err
			}
			continue
		}

		remoteErr := classify(account, status, err)
		if remoteErr.Kind != domain.RemoteErrorRetryable || attempt >= c.MaxRetries {
			return remoteErr
		}

		delay := c.backoff(attempt)
		logrus.WithFields(logrus.Fields{
			"account_id": account.ID,
			"status":     status,
			"attempt":    attempt + 1,
		}).Warnf("Erro temporário do Mercado Livre, nova tentativa em %s", delay)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *MeliClient) do(ctx context.Context, endpoint, token string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, errors.Wrap(err, "erro ao criar a requisição")
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, errors.Wrap(err, "erro ao executar a requisição")
	}
	defer resp.Body.Close()

	return HandleResponse(resp)
}

// HandleResponse lê o corpo e converte status diferentes de 200 em erro
func HandleResponse(resp *http.Response) ([]byte, int, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("erro ao ler resposta: %w", err)
	}

	if resp.StatusCode == http.StatusOK {
		return body, resp.StatusCode, nil
	}

	var errorResp melidomain.ErrorResponse
	if parseErr := json.Unmarshal(body, &errorResp); parseErr == nil && errorResp.Message != "" {
		return nil, resp.StatusCode, fmt.Errorf("requisição falhou com status: %s: %s", resp.Status, errorResp.Message)
	}

	return nil, resp.StatusCode, fmt.Errorf("requisição falhou com status: %s", resp.Status)
}

func classify(account *domain.Account, status int, err error) *domain.RemoteAccountError {
	remoteErr := &domain.RemoteAccountError{
		AccountID:  account.ID,
		Platform:   domain.PlatformMercadoLivre,
		StatusCode: status,
		Err:        err,
	}

	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		remoteErr.Kind = domain.RemoteErrorRequiresReconnection
	case status == 0 || status == http.StatusTooManyRequests || status >= http.StatusInternalServerError:
		remoteErr.Kind = domain.RemoteErrorRetryable
	default:
		remoteErr.Kind = domain.RemoteErrorInvalidRequest
	}

	return remoteErr
}

// backoff retorna base·2^tentativa com até 50% de jitter
func (c *MeliClient) backoff(attempt int) time.Duration {
	delay := c.RetryBaseDelay * time.Duration(1<<attempt)
	if half := int64(delay / 2); half > 0 {
		delay += time.Duration(rand.Int63n(half))
	}
	return delay
}
