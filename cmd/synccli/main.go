package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vfg2006/sales-sync-api/internal/config"
	"github.com/vfg2006/sales-sync-api/internal/coordinator"
	"github.com/vfg2006/sales-sync-api/internal/domain"
	"github.com/vfg2006/sales-sync-api/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// synccli dispara uma sincronização na API, acompanha o progresso pelo SSE e
// imprime as métricas do dashboard relidas ao fim do lote.
func main() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	flags := pflag.NewFlagSet("synccli", pflag.ExitOnError)
	flags.String("base-url", "", "URL base da API (padrão COORDINATOR_BASE_URL)")
	flags.String("token", "", "Token JWT do usuário (padrão SYNC_TOKEN)")
	flags.String("platform", string(domain.PlatformMercadoLivre), "Plataforma: mercado_livre, shopee ou bling")
	flags.StringSlice("accounts", nil, "Contas a sincronizar, vazio sincroniza todas")
	flags.Bool("full", false, "Ignora o último pedido gravado e busca todo o histórico")
	flags.String("period", domain.PeriodLast30Days, "Período usado na releitura do dashboard")
	flags.Bool("verbose", false, "Imprime cada evento de progresso")
	flags.Parse(os.Args[1:])

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	viper.BindPFlags(flags)
	viper.BindEnv("token", "SYNC_TOKEN")

	baseURL := viper.GetString("base-url")
	if baseURL == "" {
		baseURL = cfg.Coordinator.BaseURL
	}
	token := viper.GetString("token")
	if token == "" {
		logrus.Fatal("Token não informado: use --token ou SYNC_TOKEN")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	summary, last, err := run(ctx, runOptions{
		baseURL:    baseURL,
		token:      token,
		platform:   domain.Platform(viper.GetString("platform")),
		accountIDs: viper.GetStringSlice("accounts"),
		fullSync:   viper.GetBool("full"),
		period:     viper.GetString("period"),
		verbose:    viper.GetBool("verbose"),
		coordinator: coordinator.Options{
			StallTimeout: cfg.Coordinator.StallTimeout,
			GraceDelay:   cfg.Coordinator.GraceDelay,
			SettleDelay:  cfg.Coordinator.SettleDelay,
		},
	})
	if err != nil {
		logrus.WithError(err).Fatal("Sincronização falhou")
	}

	out, _ := json.MarshalIndent(map[string]any{
		"summary":      summary,
		"dashboard":    last,
		"reconcileErr": errString(summary.ReconcileErr),
	}, "", "  ")
	fmt.Println(string(out))

	if !summary.Successful {
		os.Exit(1)
	}
}

type runOptions struct {
	baseURL     string
	token       string
	platform    domain.Platform
	accountIDs  []string
	fullSync    bool
	period      string
	verbose     bool
	coordinator coordinator.Options
}

func run(ctx context.Context, opts runOptions) (coordinator.Summary, *domain.AggregationResult, error) {
	client := coordinator.NewAPIClient(opts.baseURL, opts.token)

	// O canal de progresso é aberto antes do disparo para não perder o início do lote
	sessionID := utils.GenerateSessionID()
	body, err := client.Subscribe(ctx, sessionID)
	if err != nil {
		return coordinator.Summary{}, nil, err
	}

	batch, err := client.TriggerSync(ctx, domain.SyncRequest{
		SessionID:  sessionID,
		Platform:   opts.platform,
		AccountIDs: opts.accountIDs,
		FullSync:   opts.fullSync,
	})
	if err != nil {
		body.Close()
		return coordinator.Summary{}, nil, err
	}

	logrus.WithFields(logrus.Fields{
		"batch_id": batch.BatchID,
		"accounts": strings.Join(batch.Accounts, ","),
	}).Info("Lote de sincronização disparado")

	reconciler := coordinator.NewStatsReconciler(client, url.Values{"period": {opts.period}})
	coord := coordinator.New(reconciler, opts.coordinator)
	if err := coord.Start(ctx, batch.Accounts); err != nil {
		body.Close()
		return coordinator.Summary{}, nil, err
	}
	coord.Attach(body)

	var onEvent func(domain.ProgressEvent)
	if opts.verbose {
		onEvent = func(event domain.ProgressEvent) {
			logrus.WithFields(logrus.Fields{
				"type":       event.Type,
				"account_id": event.AccountID,
			}).Info(event.Message)
		}
	}

	followed := make(chan struct{})
	go func() {
		defer close(followed)
		// O coordenador fecha o corpo ao fim do lote, então a leitura termina com erro
		if err := coordinator.Follow(ctx, body, coord, onEvent); err != nil {
			logrus.WithError(err).Debug("Canal de progresso encerrado")
		}
	}()

	summary, err := coord.Wait(ctx)
	if err != nil {
		coord.Disconnect()
		<-followed
		return summary, nil, err
	}
	<-followed

	return summary, reconciler.Last, nil
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
