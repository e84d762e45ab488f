package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/vfg2006/sales-sync-api/internal/domain"
	"github.com/vfg2006/sales-sync-api/internal/usecases/progress"
	"github.com/vfg2006/sales-sync-api/internal/usecases/syncing"
	"github.com/vfg2006/sales-sync-api/pkg/apiErrors"
	"github.com/vfg2006/sales-sync-api/pkg/log"
)

const defaultHeartbeatInterval = 25 * time.Second

type syncRequest struct {
	SessionID         string              `json:"sessionId"`
	Platform          domain.Platform     `json:"platform"`
	AccountIDs        []string            `json:"accountIds"`
	OrderIDsByAccount map[string][]string `json:"orderIdsByAccount"`
	FullSync          bool                `json:"fullSync"`
}

// scopeSession prende a sessão ao usuário para que um cliente não assine o
// progresso de outro
func scopeSession(userID, session string) string {
	switch {
	case session == "" || session == userID:
		return userID
	case strings.HasPrefix(session, userID+":"):
		return session
	default:
		return userID + ":" + session
	}
}

// TriggerSync agenda o lote e responde 202 antes de qualquer busca remota
func TriggerSync(service syncing.Syncer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		claims, ok := currentUser(w, r)
		if !ok {
			return
		}

		var body syncRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			logger.WithError(err).Warn("sync: corpo da requisição inválido")
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Corpo da requisição inválido", nil)
			return
		}

		if !body.Platform.Valid() {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Plataforma inválida", map[string]any{"platform": body.Platform})
			return
		}

		accountIDs, err := service.ResolveAccountIDs(r.Context(), claims.UserID, body.Platform, body.AccountIDs)
		if err != nil {
			logger.WithError(err).Error("sync: erro ao resolver contas")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar contas", nil)
			return
		}

		batch, err := service.StartSync(r.Context(), domain.SyncRequest{
			UserID:            claims.UserID,
			SessionID:         scopeSession(claims.UserID, body.SessionID),
			Platform:          body.Platform,
			AccountIDs:        accountIDs,
			OrderIDsByAccount: body.OrderIDsByAccount,
			FullSync:          body.FullSync,
		})
		if err != nil {
			writeSyncError(w, r, err)
			return
		}

		logger.WithFields(log.Fields{
			"batch_id":   batch.BatchID,
			"session_id": batch.SessionID,
			"platform":   string(body.Platform),
			"accounts":   len(batch.Accounts),
		}).Info("sync: lote agendado")

		writeJSON(w, r, http.StatusAccepted, batch)
	})
}

func writeSyncError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, syncing.ErrNoAccounts):
		apiErrors.WriteError(w, apiErrors.ErrNoAccounts, "Nenhuma conta conectada para sincronizar", nil)
	case errors.Is(err, syncing.ErrAccountNotFound):
		apiErrors.WriteError(w, apiErrors.ErrAccountNotFound, err.Error(), nil)
	case errors.Is(err, syncing.ErrInvalidPlatform), errors.Is(err, syncing.ErrSourceNotEnabled):
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
	default:
		log.ForContext(r.Context()).WithError(err).Error("sync: erro ao agendar lote")
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao agendar sincronização", nil)
	}
}

// ListSyncJobs retorna os jobs dos lotes ainda abertos do usuário
func ListSyncJobs(service syncing.Syncer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := currentUser(w, r)
		if !ok {
			return
		}

		jobs := service.ListJobs(claims.UserID)
		if jobs == nil {
			jobs = []domain.SyncJob{}
		}

		writeJSON(w, r, http.StatusOK, map[string]any{"jobs": jobs})
	})
}

// SyncProgress mantém o stream SSE da sessão até o servidor encerrá-la ou o
// cliente desconectar
func SyncProgress(hub *progress.Hub, heartbeat time.Duration) http.Handler {
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeatInterval
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := currentUser(w, r)
		if !ok {
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Streaming não suportado", nil)
			return
		}

		sessionID := scopeSession(claims.UserID, r.URL.Query().Get("session"))
		ctx := log.WithSessionID(r.Context(), sessionID)
		logger := log.ForContext(ctx)

		sub := hub.Subscribe(sessionID)
		defer hub.Unsubscribe(sub)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)

		connected := domain.ProgressEvent{
			Type:      domain.EventConnected,
			Message:   "Conectado ao canal de progresso",
			Timestamp: time.Now(),
		}
		if err := writeEvent(w, connected); err != nil {
			return
		}
		flusher.Flush()

		logger.Info("sync: canal de progresso aberto")

		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				logger.Debug("sync: cliente desconectou do canal de progresso")
				return
			case <-ticker.C:
				if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
					return
				}
				flusher.Flush()
			case event, open := <-sub.Events():
				if !open {
					logger.Info("sync: canal de progresso encerrado pelo servidor")
					return
				}
				if err := writeEvent(w, event); err != nil {
					logger.WithError(err).Warn("sync: erro ao escrever evento de progresso")
					return
				}
				flusher.Flush()
			}
		}
	})
}

func writeEvent(w http.ResponseWriter, event domain.ProgressEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", payload)
	return err
}
