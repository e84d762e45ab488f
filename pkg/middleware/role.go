package middleware

import (
	"net/http"

	"github.com/vfg2006/sales-sync-api/pkg/apiErrors"
	"github.com/vfg2006/sales-sync-api/pkg/log"
)

const (
	RoleAdmin      = 1
	RoleSupervisor = 2
	RoleClient     = 3
)

// RoleMiddleware libera a rota apenas para os roles informados. Depende das
// claims colocadas pelo AuthMiddleware.
func RoleMiddleware(allowedRoles ...int) func(http.Handler) http.Handler {
	allowed := make(map[int]struct{}, len(allowedRoles))
	for _, role := range allowedRoles {
		allowed[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := UserFromContext(r.Context())
			if !ok {
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
				return
			}

			if _, ok := allowed[claims.UserRoleID]; !ok {
				log.ForContext(r.Context()).WithFields(log.Fields{
					"user_id":   claims.UserID,
					"user_role": claims.UserRoleID,
					"path":      r.URL.Path,
				}).Warn("Acesso negado por role")
				apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Você não tem permissão para acessar este recurso", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// AdminOnly protege as rotas de operação dos agendadores
func AdminOnly() func(http.Handler) http.Handler {
	return RoleMiddleware(RoleAdmin)
}

func AdminOrSupervisor() func(http.Handler) http.Handler {
	return RoleMiddleware(RoleAdmin, RoleSupervisor)
}

// AllRoles exige apenas um usuário autenticado
func AllRoles() func(http.Handler) http.Handler {
	return RoleMiddleware(RoleAdmin, RoleSupervisor, RoleClient)
}
