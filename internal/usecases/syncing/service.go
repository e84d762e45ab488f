package syncing

import (
	"context"
	"fmt"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/vfg2006/sales-sync-api/infrastructure/repository"
	"github.com/vfg2006/sales-sync-api/internal/config"
	"github.com/vfg2006/sales-sync-api/internal/domain"
	"github.com/vfg2006/sales-sync-api/internal/metrics"
	"github.com/vfg2006/sales-sync-api/internal/usecases/progress"
	"github.com/vfg2006/sales-sync-api/pkg/apiErrors"
	"github.com/vfg2006/sales-sync-api/pkg/log"
)

const defaultMaxConcurrentJobs = 4

//go:generate mockgen -source=service.go -destination=mocks/service.go -package=mocks

// Syncer é a porta usada pelos handlers e pelo agendador
type Syncer interface {
	ResolveAccountIDs(ctx context.Context, userID string, platform domain.Platform, accountIDs []string) ([]string, error)
	StartSync(ctx context.Context, req domain.SyncRequest) (*domain.SyncBatch, error)
	ListJobs(userID string) []domain.SyncJob
}

// Service dispara lotes de sincronização e acompanha cada conta em segundo plano
type Service struct {
	cfg               *config.Config
	accountRepository repository.AccountRepository
	orderRepository   repository.OrderRepository
	publisher         progress.Publisher
	metrics           *metrics.SyncMetrics
	sources           map[domain.Platform]OrderSource
	jobs              *JobRegistry
	semaphore         chan struct{}
	batches           sync.WaitGroup
	now               func() time.Time
}

func NewService(
	cfg *config.Config,
	accountRepository repository.AccountRepository,
	orderRepository repository.OrderRepository,
	publisher progress.Publisher,
	syncMetrics *metrics.SyncMetrics,
	sources ...OrderSource,
) *Service {
	maxJobs := cfg.Sync.MaxConcurrentJobs
	if maxJobs <= 0 {
		maxJobs = defaultMaxConcurrentJobs
	}

	bySource := make(map[domain.Platform]OrderSource, len(sources))
	for _, source := range sources {
		bySource[source.Platform()] = source
	}

	return &Service{
		cfg:               cfg,
		accountRepository: accountRepository,
		orderRepository:   orderRepository,
		publisher:         publisher,
		metrics:           syncMetrics,
		sources:           bySource,
		jobs:              NewJobRegistry(),
		semaphore:         make(chan struct{}, maxJobs),
		now:               time.Now,
	}
}

// Jobs expõe o registro de jobs em andamento
func (s *Service) Jobs() *JobRegistry {
	return s.jobs
}

// ListJobs retorna os jobs dos lotes ainda abertos do usuário
func (s *Service) ListJobs(userID string) []domain.SyncJob {
	return s.jobs.ListByUser(userID)
}

// ResolveAccountIDs retorna os ids informados ou, quando vazio, todas as contas
// conectadas do usuário na plataforma
func (s *Service) ResolveAccountIDs(ctx context.Context, userID string, platform domain.Platform, accountIDs []string) ([]string, error) {
	if len(accountIDs) > 0 {
		return accountIDs, nil
	}

	accounts, err := s.accountRepository.ListAccountsByUser(ctx, userID, platform)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar contas do usuário: %w", err)
	}

	ids := make([]string, 0, len(accounts))
	for _, account := range accounts {
		if account.Status == domain.AccountStatusConnected {
			ids = append(ids, account.ID)
		}
	}

	return ids, nil
}

// StartSync agenda a sincronização das contas e retorna sem aguardar a busca
func (s *Service) StartSync(ctx context.Context, req domain.SyncRequest) (*domain.SyncBatch, error) {
	if !req.Platform.Valid() {
		return nil, ErrInvalidPlatform
	}

	source, ok := s.sources[req.Platform]
	if !ok {
		return nil, ErrSourceNotEnabled
	}

	if len(req.AccountIDs) == 0 {
		return nil, ErrNoAccounts
	}

	accounts, err := s.loadAccounts(ctx, req)
	if err != nil {
		return nil, err
	}

	batchID, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar id do lote: %w", err)
	}
	batchID = "batch_" + batchID

	if req.SessionID == "" {
		req.SessionID = req.UserID
	}

	batch := &domain.SyncBatch{
		BatchID:   batchID,
		SessionID: req.SessionID,
		Accounts:  make([]string, 0, len(accounts)),
		StartedAt: s.now(),
	}
	for _, account := range accounts {
		s.jobs.Register(batchID, req.UserID, account)
		batch.Accounts = append(batch.Accounts, account.ID)
	}
	s.jobs.OpenSession(batch.SessionID)

	log.ForContext(ctx).WithFields(log.Fields{
		"batch_id":   batchID,
		"session_id": req.SessionID,
		"platform":   string(req.Platform),
		"accounts":   len(accounts),
		"full_sync":  req.FullSync,
	}).Info("Lote de sincronização agendado")

	// O lote não pode ser cancelado quando a requisição HTTP termina
	bgCtx := log.WithSessionID(context.WithoutCancel(ctx), req.SessionID)

	s.batches.Add(1)
	go func() {
		defer s.batches.Done()
		s.runBatch(bgCtx, batch, source, accounts, req)
	}()

	return batch, nil
}

// Wait aguarda todos os lotes em andamento terminarem
func (s *Service) Wait() {
	s.batches.Wait()
}

func (s *Service) loadAccounts(ctx context.Context, req domain.SyncRequest) ([]*domain.Account, error) {
	seen := make(map[string]struct{}, len(req.AccountIDs))
	accounts := make([]*domain.Account, 0, len(req.AccountIDs))

	for _, id := range req.AccountIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		account, err := s.accountRepository.GetAccountByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("erro ao buscar conta %s: %w", id, err)
		}
		if account == nil || account.UserID != req.UserID || account.Platform != req.Platform {
			return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, id)
		}
		accounts = append(accounts, account)
	}

	return accounts, nil
}

func (s *Service) runBatch(ctx context.Context, batch *domain.SyncBatch, source OrderSource, accounts []*domain.Account, req domain.SyncRequest) {
	var wg sync.WaitGroup

	for _, account := range accounts {
		wg.Add(1)
		go func(acc *domain.Account) {
			defer wg.Done()

			s.semaphore <- struct{}{}
			defer func() { <-s.semaphore }()

			s.runJob(ctx, batch, source, acc, req)
		}(account)
	}

	wg.Wait()

	log.ForContext(ctx).WithFields(log.Fields{
		"batch_id": batch.BatchID,
		"duration": s.now().Sub(batch.StartedAt).String(),
	}).Info("Lote de sincronização finalizado")

	// Dá tempo para o cliente receber os eventos finais antes de fechar a conexão
	if grace := s.cfg.Sync.CloseGrace; grace > 0 {
		time.Sleep(grace)
	}

	s.jobs.RemoveBatch(batch.BatchID)

	// Outro lote da mesma sessão ainda publica e precisa da conexão aberta
	if !s.jobs.ReleaseSession(batch.SessionID) {
		log.ForContext(ctx).WithField("batch_id", batch.BatchID).Debug("Sessão mantida aberta para outro lote em andamento")
		return
	}

	if err := s.publisher.CloseSession(ctx, batch.SessionID); err != nil {
		log.ForContext(ctx).WithError(err).Warn("Erro ao encerrar conexões de progresso")
	}
}

// runJob sincroniza uma conta. Sempre publica exatamente um sync_start e um
// evento terminal.
func (s *Service) runJob(ctx context.Context, batch *domain.SyncBatch, source OrderSource, account *domain.Account, req domain.SyncRequest) {
	started := s.now()
	label := account.Platform.Label()

	logger := log.ForContext(ctx).WithFields(log.Fields{
		"batch_id":   batch.BatchID,
		"account_id": account.ID,
		"platform":   string(account.Platform),
	})

	base := domain.ProgressEvent{
		SessionID:       batch.SessionID,
		BatchID:         batch.BatchID,
		AccountID:       account.ID,
		AccountNickname: account.Nickname,
		Platform:        account.Platform,
	}

	s.jobs.Start(batch.BatchID, account.ID)
	s.publish(ctx, base, domain.EventSyncStart, fmt.Sprintf("Conectando ao %s...", label))

	var fetched int
	finished := false
	finish := func(err error) {
		finished = true
		if err == nil {
			s.jobs.Complete(batch.BatchID, account.ID, fetched)
			s.metrics.ObserveJob(string(account.Platform), metrics.ResultCompleted, s.now().Sub(started))

			event := base
			event.Fetched = domain.IntPtr(fetched)
			event.Total = domain.IntPtr(fetched)
			s.publish(ctx, event, domain.EventSyncComplete, fmt.Sprintf("%s: %d vendas sincronizadas", s.displayName(account), fetched))

			logger.WithField("orders", fetched).Info("Sincronização da conta concluída")
			return
		}

		s.fail(ctx, base, account, started, err)
		logger.WithError(err).Error("Erro na sincronização da conta")
	}

	defer func() {
		if r := recover(); r != nil && !finished {
			finish(fmt.Errorf("falha inesperada na sincronização: %v", r))
		}
	}()

	params := s.fetchParams(ctx, account, req)
	reporter := &jobReporter{service: s, ctx: ctx, base: base, name: s.displayName(account)}

	orders, err := source.FetchOrders(ctx, account, params, reporter)
	if err != nil {
		finish(err)
		return
	}

	for _, order := range orders {
		order.UserID = account.UserID
		order.AccountID = account.ID
		if order.Platform == "" {
			order.Platform = label
		}
	}
	fetched = len(orders)

	saving := base
	saving.Current = domain.IntPtr(0)
	saving.Total = domain.IntPtr(fetched)
	s.publish(ctx, saving, domain.EventSyncProgress, fmt.Sprintf("Salvando no banco: %d vendas", fetched))

	saved, err := s.orderRepository.UpsertOrders(ctx, orders)
	if err != nil {
		finish(fmt.Errorf("erro ao salvar pedidos: %w", err))
		return
	}
	s.metrics.AddOrdersUpserted(string(account.Platform), saved)

	finish(nil)
}

func (s *Service) fetchParams(ctx context.Context, account *domain.Account, req domain.SyncRequest) domain.FetchParams {
	params := domain.FetchParams{
		Until:    s.now(),
		OrderIDs: req.OrderIDsByAccount[account.ID],
		FullSync: req.FullSync,
	}

	if req.FullSync || len(params.OrderIDs) > 0 {
		return params
	}

	latest, err := s.orderRepository.LatestSaleDate(ctx, account.ID)
	if err != nil {
		log.ForContext(ctx).WithError(err).WithField("account_id", account.ID).
			Warn("Erro ao buscar última venda, sincronizando histórico padrão")
		return params
	}
	if latest != nil {
		since := latest.AddDate(0, 0, -1)
		params.Since = &since
	}

	return params
}

func (s *Service) fail(ctx context.Context, base domain.ProgressEvent, account *domain.Account, started time.Time, err error) {
	event := base
	result := metrics.ResultFailed
	event.ErrorCode = apiErrors.ErrExternalService
	message := fmt.Sprintf("%s: erro na sincronização: %v", s.displayName(account), err)

	if domain.IsReconnectionRequired(err) {
		result = metrics.ResultRequiresReconnection
		event.ErrorCode = apiErrors.ErrRequiresReconnection
		event.RequiresReconnection = true
		message = fmt.Sprintf("%s: a conta precisa ser reconectada", s.displayName(account))

		if updateErr := s.accountRepository.UpdateStatus(ctx, account.ID, domain.AccountStatusRequiresReconnection); updateErr != nil {
			log.ForContext(ctx).WithError(updateErr).WithField("account_id", account.ID).
				Error("Erro ao marcar conta para reconexão")
		}
	}

	s.jobs.Fail(base.BatchID, account.ID, err.Error())
	s.metrics.ObserveJob(string(account.Platform), result, s.now().Sub(started))
	s.publish(ctx, event, domain.EventSyncError, message)
}

func (s *Service) publish(ctx context.Context, event domain.ProgressEvent, eventType domain.EventType, message string) {
	event.Type = eventType
	event.Message = message
	event.Timestamp = s.now()

	if err := s.publisher.Publish(ctx, event); err != nil {
		log.ForContext(ctx).WithError(err).WithFields(log.Fields{
			"account_id": event.AccountID,
			"event_type": string(eventType),
		}).Warn("Erro ao publicar evento de progresso")
	}
}

func (s *Service) displayName(account *domain.Account) string {
	if account.Nickname != "" {
		return account.Nickname
	}
	return "Conta " + account.ExternalID
}

// jobReporter converte o andamento da busca remota em eventos de progresso
type jobReporter struct {
	service *Service
	ctx     context.Context
	base    domain.ProgressEvent
	name    string
}

func (r *jobReporter) Progress(fetched, expected int, continued bool, message string) {
	r.service.jobs.UpdateProgress(r.base.BatchID, r.base.AccountID, fetched, expected)

	event := r.base
	event.Fetched = domain.IntPtr(fetched)
	event.Expected = domain.IntPtr(expected)

	eventType := domain.EventSyncProgress
	if continued {
		eventType = domain.EventSyncContinue
	}
	if message == "" {
		message = fmt.Sprintf("%d/%d vendas baixadas", fetched, expected)
	}

	r.service.publish(r.ctx, event, eventType, r.name+": "+message)
}

func (r *jobReporter) Warning(code, message string) {
	event := r.base
	event.ErrorCode = code
	r.service.publish(r.ctx, event, domain.EventSyncWarning, r.name+": "+message)
}
