package meliclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	melidomain "github.com/vfg2006/sales-sync-api/infrastructure/integrator/mercadolivre/domain"
	"github.com/vfg2006/sales-sync-api/internal/config"
	"github.com/vfg2006/sales-sync-api/internal/domain"
)

// Renova o token quando faltar menos que isso para expirar
const tokenExpiryMargin = 5 * time.Minute

// TokenStore persiste os tokens renovados de uma conta
type TokenStore interface {
	UpdateTokens(ctx context.Context, accountID string, tokens domain.AccountTokens) error
}

// TokenManager renova tokens de acesso das contas do Mercado Livre
type TokenManager struct {
	cfg        *config.Config
	store      TokenStore
	httpClient *http.Client
	now        func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewTokenManager cria uma nova instância do gerenciador de tokens
func NewTokenManager(cfg *config.Config, store TokenStore) *TokenManager {
	return &TokenManager{
		cfg:   cfg,
		store: store,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		now:   time.Now,
		locks: make(map[string]*sync.Mutex),
	}
}

func (tm *TokenManager) accountLock(accountID string) *sync.Mutex {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	lock, ok := tm.locks[accountID]
	if !ok {
		lock = &sync.Mutex{}
		tm.locks[accountID] = lock
	}
	return lock
}

// EnsureValidToken verifica se o token atual é válido e tenta renová-lo se necessário
func (tm *TokenManager) EnsureValidToken(ctx context.Context, account *domain.Account) (string, error) {
	if account.AccessToken == "" {
		return "", reconnectionError(account, 0, fmt.Errorf("conta sem token de acesso"))
	}

	if account.TokenExpired(tm.now(), tokenExpiryMargin) {
		logrus.WithField("account_id", account.ID).Info("Token expira em breve. Renovando proativamente...")
		return tm.RefreshToken(ctx, account)
	}

	return account.AccessToken, nil
}

// RefreshToken troca o refresh token por um novo par de tokens e persiste o resultado
func (tm *TokenManager) RefreshToken(ctx context.Context, account *domain.Account) (string, error) {
	lock := tm.accountLock(account.ID)
	lock.Lock()
	defer lock.Unlock()

	if account.RefreshToken == "" {
		return "", reconnectionError(account, 0, fmt.Errorf("conta sem refresh token"))
	}

	endpoint, err := url.Parse(tm.cfg.MercadoLivre.BaseURL)
	if err != nil {
		return "", errors.Wrap(err, "erro ao analisar a URL base")
	}
	endpoint.Path = path.Join(endpoint.Path, "/oauth/token")

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("client_id", tm.cfg.MercadoLivre.ClientID)
	form.Set("client_secret", tm.cfg.MercadoLivre.ClientSecret)
	form.Set("refresh_token", account.RefreshToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), strings.NewReader(form.Encode()))
	if err != nil {
		return "", errors.Wrap(err, "erro ao criar a requisição")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := tm.httpClient.Do(req)
	if err != nil {
		return "", &domain.RemoteAccountError{
			AccountID: account.ID,
			Platform:  domain.PlatformMercadoLivre,
			Kind:      domain.RemoteErrorRetryable,
			Err:       errors.Wrap(err, "erro ao renovar token"),
		}
	}
	defer resp.Body.Close()

	body, status, err := HandleResponse(resp)
	if err != nil {
		// invalid_grant chega como 400: o refresh token foi revogado
		if status == http.StatusBadRequest || status == http.StatusUnauthorized || status == http.StatusForbidden {
			logrus.WithField("account_id", account.ID).Error("Refresh token rejeitado. É necessário reconectar a conta")
			return "", reconnectionError(account, status, err)
		}
		return "", classify(account, status, err)
	}

	var tokenResp melidomain.TokenResponse
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", errors.Wrap(err, "erro ao decodificar resposta")
	}
	if tokenResp.AccessToken == "" {
		return "", reconnectionError(account, status, fmt.Errorf("token retornado pela API é vazio"))
	}

	expiresAt := tm.now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	account.AccessToken = tokenResp.AccessToken
	if tokenResp.RefreshToken != "" {
		account.RefreshToken = tokenResp.RefreshToken
	}
	account.TokenExpiresAt = &expiresAt

	if tm.store != nil {
		err := tm.store.UpdateTokens(ctx, account.ID, domain.AccountTokens{
			AccessToken:  account.AccessToken,
			RefreshToken: account.RefreshToken,
			ExpiresAt:    expiresAt,
		})
		if err != nil {
			logrus.WithError(err).WithField("account_id", account.ID).Error("Erro ao persistir token renovado")
		}
	}

	logrus.WithField("account_id", account.ID).Infof("Token renovado com sucesso. Expira em: %s", expiresAt.Format(time.RFC3339))

	return account.AccessToken, nil
}

func reconnectionError(account *domain.Account, status int, err error) *domain.RemoteAccountError {
	return &domain.RemoteAccountError{
		AccountID:  account.ID,
		Platform:   domain.PlatformMercadoLivre,
		Kind:       domain.RemoteErrorRequiresReconnection,
		StatusCode: status,
		Err:        err,
	}
}
