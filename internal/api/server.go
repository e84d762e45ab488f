package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/justinas/alice"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/sales-sync-api/internal/api/handler"
	"github.com/vfg2006/sales-sync-api/internal/api/handler/router"
	"github.com/vfg2006/sales-sync-api/internal/config"
	"github.com/vfg2006/sales-sync-api/internal/usecases/account"
	"github.com/vfg2006/sales-sync-api/internal/usecases/authenticating"
	"github.com/vfg2006/sales-sync-api/internal/usecases/dashboard"
	"github.com/vfg2006/sales-sync-api/internal/usecases/progress"
	"github.com/vfg2006/sales-sync-api/internal/usecases/syncing"
	"github.com/vfg2006/sales-sync-api/internal/usecases/taxing"
	"github.com/vfg2006/sales-sync-api/pkg/middleware"
)

type Server struct {
	httpServer *http.Server
	// cancela o contexto base para liberar os streams de progresso no desligamento
	cancel context.CancelFunc
}

// Services agrupa as dependências expostas pela API
type Services struct {
	Authenticator   authenticating.Authenticator
	Syncer          syncing.Syncer
	Hub             *progress.Hub
	Dashboard       dashboard.DashboardService
	TaxSchedules    taxing.ScheduleManager
	Accounts        account.AccountService
	AutoSyncService handler.CronJob
}

// NewHandler monta o roteador com a cadeia de middlewares
func NewHandler(config *config.Config, services Services) http.Handler {
	cronServices := handler.CronJobServices{
		AutoSyncService: services.AutoSyncService,
	}

	rt := router.New(
		router.WithRoutes(handler.Healthcheck(services.Hub, time.Now())...),
		router.WithRoutes(handler.Sync(services.Syncer, services.Hub, config.Sync.HeartbeatInterval)...),
		router.WithRoutes(handler.Dashboard(services.Dashboard, config.Location())...),
		router.WithRoutes(handler.TaxSchedules(services.TaxSchedules)...),
		router.WithRoutes(handler.Accounts(services.Accounts)...),
		router.WithRoutes(handler.CronJobs(cronServices)...),
	)

	middlewares := []alice.Constructor{
		middleware.LogPanicMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.Cors(config.Server.AllowedOrigins),
		middleware.AuthMiddleware(services.Authenticator, config.Auth.CookieName),
	}

	return alice.New(middlewares...).Then(rt)
}

func New(config *config.Config, services Services) (*Server, error) {
	baseCtx, cancel := context.WithCancel(context.Background())

	srv := &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
			Handler:           NewHandler(config, services),
			ReadHeaderTimeout: 2 * time.Second,
			BaseContext:       func(net.Listener) context.Context { return baseCtx },
		},
		cancel: cancel,
	}

	return srv, nil
}

func (s Server) Run(ctx context.Context) error {
	go func() {
		logrus.WithFields(logrus.Fields{
			"address": s.httpServer.Addr,
		}).Info("Servidor iniciando")

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("Erro durante a execução do servidor")
		}
	}()

	// Canal para aguardar sinais de término
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	// Aguardar pelo sinal ou pelo cancelamento do contexto
	select {
	case <-done:
		logrus.Info("Sinal de interrupção recebido")
	case <-ctx.Done():
		logrus.Info("Contexto de aplicação cancelado")
	}

	// Define timeout para desligamento
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	// Log de início do desligamento
	logrus.WithFields(logrus.Fields{
		"timeout": "15s",
	}).Info("Iniciando desligamento gracioso do servidor")

	if err := s.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Error("Erro durante o desligamento do servidor")
		return err
	}

	logrus.Info("Servidor desligado com sucesso")
	return nil
}

func (s Server) Shutdown(ctx context.Context) error {
	logrus.Info("Executando operações de limpeza antes do desligamento")

	if s.cancel != nil {
		s.cancel()
	}

	err := s.httpServer.Shutdown(ctx)
	if err != nil {
		return err
	}

	logrus.Info("Servidor HTTP desligado com sucesso")
	return nil
}
