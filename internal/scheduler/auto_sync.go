package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/sales-sync-api/infrastructure/repository"
	"github.com/vfg2006/sales-sync-api/internal/config"
	"github.com/vfg2006/sales-sync-api/internal/domain"
	"github.com/vfg2006/sales-sync-api/internal/usecases/syncing"
)

// AutoSyncSessionPrefix identifica as sessões de progresso abertas pelo agendador
const AutoSyncSessionPrefix = "auto-"

var autoSyncPlatforms = []domain.Platform{
	domain.PlatformMercadoLivre,
	domain.PlatformShopee,
	domain.PlatformBling,
}

// AutoSyncConfig representa a configuração do agendador de sincronização automática
type AutoSyncConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

// AutoSyncService dispara sincronizações incrementais para os usuários com
// sincronização automática habilitada
type AutoSyncService struct {
	scheduler           *gocron.Scheduler
	config              AutoSyncConfig
	settingsRepo        repository.UserSettingsRepository
	syncer              syncing.Syncer
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastBatches         int
}

func NewAutoSyncService(
	settingsRepo repository.UserSettingsRepository,
	syncer syncing.Syncer,
	appConfig *config.Config,
) *AutoSyncService {
	autoSyncConfig := AutoSyncConfig{
		CronSchedule: appConfig.AutoSync.CronSchedule,
		SyncEnabled:  appConfig.AutoSync.Enabled,
	}

	scheduler := gocron.NewScheduler(appConfig.Location())

	logrus.WithFields(logrus.Fields{
		"cron_schedule": autoSyncConfig.CronSchedule,
		"sync_enabled":  autoSyncConfig.SyncEnabled,
	}).Info("Configuração do agendador de sincronização automática carregada")

	return &AutoSyncService{
		scheduler:    scheduler,
		config:       autoSyncConfig,
		settingsRepo: settingsRepo,
		syncer:       syncer,
	}
}

// Start inicia o agendador
func (s *AutoSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Sincronização automática desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de sincronização automática")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncAllUsers(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar sincronização automática: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de sincronização automática")
		s.scheduler.Stop()
	}()

	return nil
}

// syncAllUsers dispara um lote por usuário e plataforma. Usuários com lote em
// andamento ficam para a próxima execução.
func (s *AutoSyncService) syncAllUsers(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Sincronização automática já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	s.syncMutex.Unlock()

	batches := 0
	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.lastSyncCompletedAt = time.Now()
		s.lastBatches = batches
		s.syncMutex.Unlock()
	}()

	users, err := s.settingsRepo.ListAutoSyncUsers(ctx)
	if err != nil {
		logrus.WithError(err).Error("Erro ao buscar usuários com sincronização automática")
		return
	}

	if len(users) == 0 {
		logrus.Info("Nenhum usuário com sincronização automática habilitada")
		return
	}

	for _, userID := range users {
		if s.hasActiveJobs(userID) {
			logrus.WithField("user_id", userID).Info("Usuário com sincronização em andamento, pulando")
			continue
		}

		for _, platform := range autoSyncPlatforms {
			if s.syncUserPlatform(ctx, userID, platform) {
				batches++
			}
		}
	}

	logrus.WithFields(logrus.Fields{
		"users":   len(users),
		"batches": batches,
	}).Info("Sincronização automática disparada")
}

func (s *AutoSyncService) hasActiveJobs(userID string) bool {
	for _, job := range s.syncer.ListJobs(userID) {
		if !job.State.Terminal() {
			return true
		}
	}
	return false
}

func (s *AutoSyncService) syncUserPlatform(ctx context.Context, userID string, platform domain.Platform) bool {
	logger := logrus.WithFields(logrus.Fields{
		"user_id":  userID,
		"platform": platform,
	})

	accountIDs, err := s.syncer.ResolveAccountIDs(ctx, userID, platform, nil)
	if err != nil {
		logger.WithError(err).Error("Erro ao buscar contas para sincronização automática")
		return false
	}
	if len(accountIDs) == 0 {
		return false
	}

	batch, err := s.syncer.StartSync(ctx, domain.SyncRequest{
		UserID:     userID,
		SessionID:  AutoSyncSessionPrefix + userID,
		Platform:   platform,
		AccountIDs: accountIDs,
	})
	if errors.Is(err, syncing.ErrSourceNotEnabled) {
		logger.Debug("Integração não configurada, pulando plataforma")
		return false
	}
	if err != nil {
		logger.WithError(err).Error("Erro ao disparar sincronização automática")
		return false
	}

	logger.WithFields(logrus.Fields{
		"batch_id": batch.BatchID,
		"accounts": len(batch.Accounts),
	}).Info("Lote de sincronização automática disparado")

	return true
}

// TriggerManualSync inicia manualmente uma sincronização automática
func (s *AutoSyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Sincronização automática já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando sincronização automática manual")
	go s.syncAllUsers(context.Background())
}

// GetStatus retorna o status atual do agendador
func (s *AutoSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_running":           s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_sync_batches":      s.lastBatches,
	}
}
