package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vfg2006/sales-sync-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-sync-api/infrastructure/integrator/bling"
	"github.com/vfg2006/sales-sync-api/infrastructure/integrator/bling/blingclient"
	"github.com/vfg2006/sales-sync-api/infrastructure/integrator/mercadolivre"
	"github.com/vfg2006/sales-sync-api/infrastructure/integrator/mercadolivre/meliclient"
	"github.com/vfg2006/sales-sync-api/infrastructure/integrator/shopee"
	"github.com/vfg2006/sales-sync-api/infrastructure/integrator/shopee/shopeeclient"
	"github.com/vfg2006/sales-sync-api/infrastructure/pubsub"
	"github.com/vfg2006/sales-sync-api/infrastructure/repository"
	"github.com/vfg2006/sales-sync-api/internal/api"
	"github.com/vfg2006/sales-sync-api/internal/config"
	"github.com/vfg2006/sales-sync-api/internal/metrics"
	"github.com/vfg2006/sales-sync-api/internal/scheduler"
	"github.com/vfg2006/sales-sync-api/internal/usecases/account"
	"github.com/vfg2006/sales-sync-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-sync-api/internal/usecases/dashboard"
	"github.com/vfg2006/sales-sync-api/internal/usecases/progress"
	"github.com/vfg2006/sales-sync-api/internal/usecases/syncing"
	"github.com/vfg2006/sales-sync-api/internal/usecases/taxing"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	loc := cfg.Location()

	accountRepo := repository.NewAccountRepository(pgConn)
	orderRepo := repository.NewOrderRepository(pgConn)
	skuCostRepo := repository.NewSKUCostRepository(pgConn)
	taxScheduleRepo := repository.NewTaxScheduleRepository(pgConn)
	userSettingsRepo := repository.NewUserSettingsRepository(pgConn)

	// Integradores renovam os tokens e gravam de volta na conta
	meliTokenManager := meliclient.NewTokenManager(cfg, accountRepo)
	meliIntegrator := mercadolivre.New(cfg, meliclient.NewClient(cfg, meliTokenManager))
	shopeeIntegrator := shopee.New(cfg, shopeeclient.NewClient(cfg, accountRepo))
	blingIntegrator := bling.New(cfg, blingclient.NewClient(cfg, accountRepo))

	hub := progress.NewHub(cfg.Sync.SubscriberBufferLen)
	hub.OnDrop = metrics.Sync().IncDroppedEvents

	var publisher progress.Publisher = hub
	if cfg.Redis.Addr != "" {
		redisClient, err := pubsub.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			logrus.WithError(err).Fatal("Erro ao conectar ao redis")
		}
		defer redisClient.Close()

		broker := pubsub.NewRedisProgressBroker(redisClient, hub)
		go func() {
			if err := broker.Run(ctx); err != nil && ctx.Err() == nil {
				logrus.WithError(err).Error("Broker de progresso finalizado com erro")
			}
		}()
		publisher = broker
		logrus.Info("Progresso de sincronização distribuído via redis")
	}

	syncService := syncing.NewService(
		cfg,
		accountRepo,
		orderRepo,
		publisher,
		metrics.Sync(),
		meliIntegrator,
		shopeeIntegrator,
		blingIntegrator,
	)
	dashboardService := dashboard.NewService(orderRepo, skuCostRepo, taxScheduleRepo, loc)
	taxScheduleService := taxing.NewScheduleService(taxScheduleRepo, loc)
	accountService := account.NewService(accountRepo)
	authenticator := authenticating.NewService(cfg)

	autoSyncService := scheduler.NewAutoSyncService(userSettingsRepo, syncService, cfg)

	// Inicia o agendador em background
	if err := autoSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de sincronização automática")
	} else {
		logrus.Info("Agendador de sincronização automática iniciado com sucesso")
	}

	server, err := api.New(cfg, api.Services{
		Authenticator:   authenticator,
		Syncer:          syncService,
		Hub:             hub,
		Dashboard:       dashboardService,
		TaxSchedules:    taxScheduleService,
		Accounts:        accountService,
		AutoSyncService: autoSyncService,
	})
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
	cancel()

	// Aguarda os lotes em andamento gravarem o que já buscaram
	syncService.Wait()
	logrus.Info("Sincronizações em andamento finalizadas")
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
