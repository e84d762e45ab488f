package shopeeclient

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	shopeedomain "github.com/vfg2006/sales-sync-api/infrastructure/integrator/shopee/domain"
	"github.com/vfg2006/sales-sync-api/internal/domain"
)

const pathRefreshToken = "/api/v2/auth/access_token/get"

// RefreshToken renova o token da loja. A assinatura de chamadas públicas
// não leva access_token nem shop_id.
func (c *ShopeeClient) RefreshToken(ctx context.Context, account *domain.Account) error {
	if account.RefreshToken == "" {
		return c.remoteError(account, domain.RemoteErrorRequiresReconnection, 0, fmt.Errorf("conta sem refresh token"))
	}

	shopID, err := strconv.ParseInt(account.ExternalID, 10, 64)
	if err != nil {
		return c.remoteError(account, domain.RemoteErrorRequiresReconnection, 0, fmt.Errorf("shop_id inválido: %s", account.ExternalID))
	}

	endpoint, err := c.signedURL(pathRefreshToken, nil, "", "")
	if err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]interface{}{
		"refresh_token": account.RefreshToken,
		"partner_id":    c.cfg.Shopee.PartnerID,
		"shop_id":       shopID,
	})
	if err != nil {
		return err
	}

	var tokenResp shopeedomain.TokenResponse
	status, err := c.do(ctx, http.MethodPost, endpoint, bytes.NewReader(payload), &tokenResp)
	if err != nil {
		if status == http.StatusBadRequest || status == http.StatusForbidden || status == http.StatusUnauthorized {
			logrus.WithField("account_id", account.ID).Error("Refresh token da Shopee rejeitado. É necessário reconectar a loja")
			return c.remoteError(account, domain.RemoteErrorRequiresReconnection, status, err)
		}
		return c.classify(account, status, err)
	}

	expiresAt := c.now().Add(time.Duration(tokenResp.ExpireIn) * time.Second)
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
			logrus.WithError(err).WithField("account_id", account.ID).Error("Erro ao persistir token renovado da Shopee")
		}
	}

	return nil
}
