package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims é a identidade extraída do token de sessão
type Claims struct {
	UserID     string `json:"sub_user"`
	UserName   string `json:"name,omitempty"`
	UserEmail  string `json:"email,omitempty"`
	UserRoleID int    `json:"role,omitempty"`
	jwt.RegisteredClaims
}
