package domain

import "time"

type Platform string

const (
	PlatformMercadoLivre Platform = "mercado_livre"
	PlatformShopee       Platform = "shopee"
	PlatformBling        Platform = "bling"
)

// Label retorna o rótulo gravado nos pedidos da plataforma
func (p Platform) Label() string {
	switch p {
	case PlatformShopee:
		return PlatformLabelShopee
	case PlatformBling:
		return PlatformLabelBling
	default:
		return PlatformLabelMercadoLivre
	}
}

func (p Platform) Valid() bool {
	switch p {
	case PlatformMercadoLivre, PlatformShopee, PlatformBling:
		return true
	}
	return false
}

type AccountStatus string

const (
	AccountStatusConnected            AccountStatus = "connected"
	AccountStatusRequiresReconnection AccountStatus = "requires_reconnection"
)

// Account é uma conta de marketplace/ERP conectada por um usuário
type Account struct {
	ID             string        `json:"id"`
	UserID         string        `json:"userId"`
	Platform       Platform      `json:"platform"`
	Nickname       string        `json:"nickname"`
	ExternalID     string        `json:"externalId"`
	AccessToken    string        `json:"-"`
	RefreshToken   string        `json:"-"`
	TokenExpiresAt *time.Time    `json:"tokenExpiresAt,omitempty"`
	Status         AccountStatus `json:"status"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}

// TokenExpired indica se o token vence dentro da margem informada
func (a *Account) TokenExpired(now time.Time, margin time.Duration) bool {
	if a.TokenExpiresAt == nil {
		return false
	}
	return now.Add(margin).After(*a.TokenExpiresAt)
}

// AccountTokens são os tokens renovados que precisam ser persistidos
type AccountTokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}
