package melidomain

import "strings"

// ErrorResponse representa a estrutura de erro da API do Mercado Livre
type ErrorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Status  int    `json:"status"`
}

// IsTokenExpired verifica se o erro indica token inválido ou expirado
func (e *ErrorResponse) IsTokenExpired() bool {
	msg := strings.ToLower(e.Message + " " + e.Error)
	return strings.Contains(msg, "invalid access token") ||
		strings.Contains(msg, "invalid_token") ||
		strings.Contains(msg, "expired")
}

// TokenResponse é a resposta de /oauth/token
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	RefreshToken string `json:"refresh_token"`
	UserID       int64  `json:"user_id"`
}
