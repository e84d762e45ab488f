package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/vfg2006/sales-sync-api/internal/domain"
	"github.com/vfg2006/sales-sync-api/pkg/apiErrors"
	"github.com/vfg2006/sales-sync-api/pkg/log"
	"github.com/vfg2006/sales-sync-api/pkg/middleware"
	"github.com/vfg2006/sales-sync-api/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// currentUser retorna as claims da requisição ou escreve AUTH_006
func currentUser(w http.ResponseWriter, r *http.Request) (*domain.Claims, bool) {
	claims, ok := middleware.UserFromContext(r.Context())
	if !ok {
		apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
		return nil, false
	}
	return claims, true
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	if err := utils.WriteJSON(w, status, body); err != nil {
		log.ForContext(r.Context()).WithError(err).Error("Erro ao serializar resposta")
	}
}
