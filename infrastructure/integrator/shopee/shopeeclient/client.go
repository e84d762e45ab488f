package shopeeclient

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	shopeedomain "github.com/vfg2006/sales-sync-api/infrastructure/integrator/shopee/domain"
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
	GetOrderList(ctx context.Context, account *domain.Account, params OrderListParams) (*shopeedomain.OrderListResponse, error)
	GetOrderDetail(ctx context.Context, account *domain.Account, orderSNs []string) ([]shopeedomain.Order, error)
	GetEscrowDetail(ctx context.Context, account *domain.Account, orderSN string) (*shopeedomain.OrderIncome, error)
}

type ShopeeClient struct {
	httpClient     *http.Client
	cfg            *config.Config
	store          TokenStore
	now            func() time.Time
	MaxRetries     int
	RetryBaseDelay time.Duration
}

func NewClient(cfg *config.Config, store TokenStore) Client {
	return &ShopeeClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		cfg:            cfg,
		store:          store,
		now:            time.Now,
		MaxRetries:     3,
		RetryBaseDelay: time.Second,
	}
}

// Sign calcula a assinatura HMAC-SHA256 da Open Platform:
// partner_id + path + timestamp + access_token + shop_id
func Sign(partnerKey string, partnerID int64, apiPath string, timestamp int64, accessToken, shopID string) string {
	base := strconv.FormatInt(partnerID, 10) + apiPath + strconv.FormatInt(timestamp, 10) + accessToken + shopID
	mac := hmac.New(sha256.New, []byte(partnerKey))
	mac.Write([]byte(base))
	return hex.EncodeToString(mac.Sum(nil))
}

// get executa uma chamada assinada da loja com retentativa para 429 e 5xx
func (c *ShopeeClient) get(ctx context.Context, account *domain.Account, apiPath string, query url.Values, out interface{}) error {
	if account.AccessToken == "" {
		return c.remoteError(account, domain.RemoteErrorRequiresReconnection, 0, fmt.Errorf("conta sem token de acesso"))
	}
	if account.TokenExpired(c.now(), 5*time.Minute) {
		if err := c.RefreshToken(ctx, account); err != nil {
			return err
		}
	}

	for attempt := 0; ; attempt++ {
		endpoint, err := c.signedURL(apiPath, query, account.AccessToken, account.ExternalID)
		if err != nil {
			return err
		}

		status, err := c.do(ctx, http.MethodGet, endpoint, nil, out)
		if err == nil {
			return nil
		}

		remoteErr := c.classify(account, status, err)
		if remoteErr.Kind != domain.RemoteErrorRetryable || attempt >= c.MaxRetries {
			return remoteErr
		}

		delay := c.RetryBaseDelay * time.Duration(1<<attempt)
		logrus.WithFields(logrus.Fields{
			"account_id": account.ID,
			"status":     status,
			"attempt":    attempt + 1,
		}).Warnf("Erro temporário da Shopee, nova tentativa em %s", delay)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (c *ShopeeClient) signedURL(apiPath string, query url.Values, accessToken, shopID string) (string, error) {
	endpoint, err := url.Parse(c.cfg.Shopee.BaseURL)
	if err != nil {
		return "", errors.Wrap(err, "erro ao analisar a URL base")
	}
	endpoint.Path = path.Join(endpoint.Path, apiPath)

	timestamp := c.now().Unix()
	params := url.Values{}
	for k, v := range query {
		params[k] = v
	}
	params.Set("partner_id", strconv.FormatInt(c.cfg.Shopee.PartnerID, 10))
	params.Set("timestamp", strconv.FormatInt(timestamp, 10))
	if accessToken != "" {
		params.Set("access_token", accessToken)
	}
	if shopID != "" {
		params.Set("shop_id", shopID)
	}
	params.Set("sign", Sign(c.cfg.Shopee.PartnerKey, c.cfg.Shopee.PartnerID, apiPath, timestamp, accessToken, shopID))
	endpoint.RawQuery = params.Encode()

	return endpoint.String(), nil
}

// do executa a requisição e decodifica o envelope. Um campo "error"
// preenchido é tratado como falha mesmo com status 200.
func (c *ShopeeClient) do(ctx context.Context, method, endpoint string, body io.Reader, out interface{}) (int, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return 0, errors.Wrap(err, "erro ao criar a requisição")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, errors.Wrap(err, "erro ao executar a requisição")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("erro ao ler resposta: %w", err)
	}

	var envelope shopeedomain.BaseResponse
	_ = json.Unmarshal(raw, &envelope)

	if resp.StatusCode != http.StatusOK {
		if envelope.IsAuthError() {
			return http.StatusForbidden, fmt.Errorf("requisição falhou com status: %s: %s", resp.Status, envelope.Error)
		}
		return resp.StatusCode, fmt.Errorf("requisição falhou com status: %s", resp.Status)
	}

	if envelope.Error != "" {
		if envelope.IsAuthError() {
			return http.StatusForbidden, fmt.Errorf("shopee: %s: %s", envelope.Error, envelope.Message)
		}
		return http.StatusBadRequest, fmt.Errorf("shopee: %s: %s", envelope.Error, envelope.Message)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return resp.StatusCode, errors.Wrap(err, "erro ao decodificar a resposta")
	}

	return resp.StatusCode, nil
}

func (c *ShopeeClient) classify(account *domain.Account, status int, err error) *domain.RemoteAccountError {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return c.remoteError(account, domain.RemoteErrorRequiresReconnection, status, err)
	case status == 0 || status == http.StatusTooManyRequests || status >= http.StatusInternalServerError:
		return c.remoteError(account, domain.RemoteErrorRetryable, status, err)
	default:
		return c.remoteError(account, domain.RemoteErrorInvalidRequest, status, err)
	}
}

func (c *ShopeeClient) remoteError(account *domain.Account, kind domain.RemoteErrorKind, status int, err error) *domain.RemoteAccountError {
	return &domain.RemoteAccountError{
		AccountID:  account.ID,
		Platform:   domain.PlatformShopee,
		Kind:       kind,
		StatusCode: status,
		Err:        err,
	}
}
