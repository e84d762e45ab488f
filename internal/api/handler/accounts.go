package handler

import (
	"errors"
	"net/http"

	"github.com/vfg2006/sales-sync-api/internal/domain"
	"github.com/vfg2006/sales-sync-api/internal/usecases/account"
	"github.com/vfg2006/sales-sync-api/pkg/apiErrors"
)

// ListAccounts lista as contas do usuário com o status de conexão
func ListAccounts(service account.AccountService) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := currentUser(w, r)
		if !ok {
			return
		}

		accounts, err := service.ListAccounts(r.Context(), claims.UserID, domain.Platform(r.URL.Query().Get("platform")))
		if err != nil {
			var accountErr *account.AccountError
			if errors.As(err, &accountErr) {
				apiErrors.WriteError(w, accountErr.Code, accountErr.Error(), nil)
				return
			}
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, err.Error(), nil)
			return
		}

		writeJSON(w, r, http.StatusOK, map[string]any{"accounts": accounts})
	})
}
