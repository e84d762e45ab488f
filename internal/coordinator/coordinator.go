package coordinator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/vfg2006/sales-sync-api/internal/domain"
	"github.com/vfg2006/sales-sync-api/pkg/log"
)

type State string

const (
	StateIdle        State = "idle"
	StateBatchActive State = "batch-active"
	StateReconciling State = "reconciling"
)

const (
	DefaultStallTimeout = 10 * time.Minute
	DefaultGraceDelay   = 2 * time.Second
)

var ErrNoAccounts = errors.New("lote sem contas")

//go:generate mockgen -source=coordinator.go -destination=mocks/coordinator.go -package=mocks

// Reconciler faz a releitura da base de pedidos ao fim de um lote
type Reconciler interface {
	Reconcile(ctx context.Context) error
}

type Options struct {
	StallTimeout time.Duration
	GraceDelay   time.Duration
	SettleDelay  time.Duration
}

// AccountProgress é o andamento observado de uma conta do lote
type AccountProgress struct {
	AccountID            string `json:"accountId"`
	Fetched              int    `json:"fetched"`
	Expected             int    `json:"expected"`
	Done                 bool   `json:"done"`
	Error                string `json:"error,omitempty"`
	RequiresReconnection bool   `json:"requiresReconnection,omitempty"`
}

// Summary é o resultado de um lote após a reconciliação
type Summary struct {
	Accounts     []AccountProgress `json:"accounts"`
	Successful   bool              `json:"successful"`
	Stalled      bool              `json:"stalled"`
	ReconcileErr error             `json:"-"`
}

// Coordinator acompanha um lote de sincronização pelo canal de progresso.
// O contador de pendentes e a trava de reconciliação pertencem à instância e
// só são reiniciados por Start.
type Coordinator struct {
	mu         sync.Mutex
	reconciler Reconciler
	opts       Options

	ctx        context.Context
	state      State
	generation int
	pending    int
	processed  bool
	successful bool
	order      []string
	accounts   map[string]*AccountProgress
	anonymous  map[string]struct{} // terminais sem conta já contados

	channel    io.Closer
	stallTimer *time.Timer
	graceTimer *time.Timer
	done       chan Summary
}

func New(reconciler Reconciler, opts Options) *Coordinator {
	if opts.StallTimeout <= 0 {
		opts.StallTimeout = DefaultStallTimeout
	}
	if opts.GraceDelay <= 0 {
		opts.GraceDelay = DefaultGraceDelay
	}

	return &Coordinator{
		reconciler: reconciler,
		opts:       opts,
		state:      StateIdle,
		accounts:   make(map[string]*AccountProgress),
		done:       make(chan Summary, 1),
	}
}

// Attach registra a conexão de progresso que será fechada ao fim do lote
func (c *Coordinator) Attach(channel io.Closer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.channel = channel
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Start inicia um lote com K contas e arma o temporizador de travamento
func (c *Coordinator) Start(ctx context.Context, accountIDs []string) error {
	unique := make([]string, 0, len(accountIDs))
	seen := make(map[string]struct{}, len(accountIDs))
	for _, id := range accountIDs {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return ErrNoAccounts
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopTimersLocked()
	c.generation++
	gen := c.generation

	c.ctx = context.WithoutCancel(ctx)
	c.state = StateBatchActive
	c.pending = len(unique)
	c.processed = false
	c.successful = true
	c.order = unique
	c.anonymous = make(map[string]struct{})
	c.accounts = make(map[string]*AccountProgress, len(unique))
	for _, id := range unique {
		c.accounts[id] = &AccountProgress{AccountID: id}
	}
	c.done = make(chan Summary, 1)

	c.stallTimer = time.AfterFunc(c.opts.StallTimeout, func() {
		c.onStall(gen)
	})

	log.L.WithField("accounts", len(unique)).Debug("Lote de sincronização iniciado no coordenador")

	return nil
}

// Handle processa um evento do canal. Eventos terminais repetidos da mesma
// conta são ignorados.
func (c *Coordinator) Handle(event domain.ProgressEvent) {
	c.mu.Lock()

	if c.state != StateBatchActive || c.processed {
		c.mu.Unlock()
		return
	}

	switch event.Type {
	case domain.EventSyncProgress, domain.EventSyncContinue:
		if acc := c.accounts[event.AccountID]; acc != nil {
			fetched, expected := event.Counts()
			acc.Fetched = max(acc.Fetched, fetched)
			acc.Expected = max(acc.Expected, expected)
		}
	case domain.EventSyncComplete, domain.EventSyncError:
		c.terminalLocked(event)
	}

	if c.pending > 0 {
		c.mu.Unlock()
		return
	}

	c.processed = true
	c.state = StateReconciling
	if c.stallTimer != nil {
		c.stallTimer.Stop()
	}
	gen := c.generation
	c.mu.Unlock()

	go c.reconcile(gen, false)
}

func (c *Coordinator) terminalLocked(event domain.ProgressEvent) {
	if event.AccountID == "" {
		// Retransmissões chegam idênticas, inclusive no timestamp
		key := anonymousKey(event)
		if _, dup := c.anonymous[key]; dup {
			return
		}
		c.anonymous[key] = struct{}{}

		if event.Type == domain.EventSyncError {
			c.successful = false
		}
		c.pending--
		return
	}

	// Contas fora do lote pertencem a um lote anterior na mesma sessão
	acc, ok := c.accounts[event.AccountID]
	if !ok || acc.Done {
		return
	}

	acc.Done = true
	if fetched, expected := event.Counts(); fetched > 0 || expected > 0 {
		acc.Fetched = max(acc.Fetched, fetched)
		acc.Expected = max(acc.Expected, expected)
	}
	if event.Type == domain.EventSyncError {
		c.successful = false
		acc.Error = event.Message
		acc.RequiresReconnection = event.RequiresReconnection
	}
	c.pending--
}

func anonymousKey(event domain.ProgressEvent) string {
	fetched, expected := event.Counts()
	return fmt.Sprintf("%s|%s|%s|%s|%s|%d|%d|%d",
		event.BatchID, event.Type, event.Platform, event.AccountNickname, event.Message,
		fetched, expected, event.Timestamp.UnixNano())
}

func (c *Coordinator) onStall(gen int) {
	c.mu.Lock()
	if gen != c.generation || c.processed {
		c.mu.Unlock()
		return
	}
	c.processed = true
	c.state = StateReconciling
	c.mu.Unlock()

	log.L.WithField("timeout", c.opts.StallTimeout.String()).Warn("Nenhum evento final recebido, forçando reconciliação")

	c.reconcile(gen, true)
}

func (c *Coordinator) reconcile(gen int, stalled bool) {
	if c.opts.SettleDelay > 0 && !stalled {
		time.Sleep(c.opts.SettleDelay)
	}

	c.mu.Lock()
	ctx := c.ctx
	c.mu.Unlock()

	err := c.reconciler.Reconcile(ctx)
	if err != nil {
		log.L.WithError(err).Error("Erro na releitura dos pedidos após a sincronização")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.generation {
		return
	}

	c.state = StateIdle
	summary := c.summaryLocked()
	summary.Stalled = stalled
	summary.ReconcileErr = err

	c.graceTimer = time.AfterFunc(c.opts.GraceDelay, func() {
		c.closeChannel(gen)
	})

	c.done <- summary
}

func (c *Coordinator) summaryLocked() Summary {
	summary := Summary{
		Successful: c.successful,
		Accounts:   make([]AccountProgress, 0, len(c.order)),
	}
	for _, id := range c.order {
		summary.Accounts = append(summary.Accounts, *c.accounts[id])
	}
	return summary
}

func (c *Coordinator) closeChannel(gen int) {
	c.mu.Lock()
	if gen != c.generation || c.channel == nil {
		c.mu.Unlock()
		return
	}
	channel := c.channel
	c.channel = nil
	c.mu.Unlock()

	if err := channel.Close(); err != nil {
		log.L.WithError(err).Warn("Erro ao fechar canal de progresso")
	}
}

// Disconnect fecha o canal de progresso. O trabalho no servidor continua.
func (c *Coordinator) Disconnect() error {
	c.mu.Lock()
	if c.graceTimer != nil {
		c.graceTimer.Stop()
	}
	channel := c.channel
	c.channel = nil
	c.mu.Unlock()

	if channel == nil {
		return nil
	}
	return channel.Close()
}

// Wait aguarda o fim do lote atual
func (c *Coordinator) Wait(ctx context.Context) (Summary, error) {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()

	select {
	case summary := <-done:
		return summary, nil
	case <-ctx.Done():
		return Summary{}, ctx.Err()
	}
}

func (c *Coordinator) stopTimersLocked() {
	if c.stallTimer != nil {
		c.stallTimer.Stop()
	}
	if c.graceTimer != nil {
		c.graceTimer.Stop()
	}
}
