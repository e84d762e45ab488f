package progress

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vfg2006/sales-sync-api/internal/domain"
	"github.com/vfg2006/sales-sync-api/pkg/log"
)

const defaultBufferLen = 256

//go:generate mockgen -source=hub.go -destination=mocks/publisher.go -package=mocks

// Publisher entrega eventos de progresso aos assinantes de uma sessão
type Publisher interface {
	Publish(ctx context.Context, event domain.ProgressEvent) error
	CloseSession(ctx context.Context, sessionID string) error
}

// Subscription é uma conexão de progresso registrada em uma sessão
type Subscription struct {
	ID        string
	SessionID string
	events    chan domain.ProgressEvent
}

// Events retorna o canal de eventos. Ele é fechado quando a sessão é encerrada.
func (s *Subscription) Events() <-chan domain.ProgressEvent {
	return s.events
}

// Hub mantém os assinantes por sessão em memória
type Hub struct {
	mu        sync.RWMutex
	sessions  map[string]map[string]*Subscription
	bufferLen int

	// OnDrop é chamado a cada evento descartado
	OnDrop func()
}

func NewHub(bufferLen int) *Hub {
	if bufferLen <= 0 {
		bufferLen = defaultBufferLen
	}
	return &Hub{
		sessions:  make(map[string]map[string]*Subscription),
		bufferLen: bufferLen,
	}
}

// Subscribe registra uma nova conexão na sessão
func (h *Hub) Subscribe(sessionID string) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := &Subscription{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		events:    make(chan domain.ProgressEvent, h.bufferLen),
	}

	subs, ok := h.sessions[sessionID]
	if !ok {
		subs = make(map[string]*Subscription)
		h.sessions[sessionID] = subs
	}
	subs[sub.ID] = sub

	log.L.WithFields(log.Fields{
		"session_id":  sessionID,
		"subscribers": len(subs),
	}).Debug("Assinante de progresso conectado")

	return sub
}

// Unsubscribe remove a conexão. Chamadas repetidas são ignoradas.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, ok := h.sessions[sub.SessionID]
	if !ok {
		return
	}
	if _, ok := subs[sub.ID]; !ok {
		return
	}

	delete(subs, sub.ID)
	close(sub.events)
	if len(subs) == 0 {
		delete(h.sessions, sub.SessionID)
	}
}

// Publish entrega o evento sem bloquear. Assinantes com buffer cheio perdem o
// evento e a perda é registrada no log.
func (h *Hub) Publish(ctx context.Context, event domain.ProgressEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.sessions[event.SessionID] {
		select {
		case sub.events <- event:
		default:
			log.ForContext(ctx).WithFields(log.Fields{
				"session_id": event.SessionID,
				"account_id": event.AccountID,
				"event_type": string(event.Type),
			}).Warn("Buffer do assinante cheio, descartando evento de progresso")
			if h.OnDrop != nil {
				h.OnDrop()
			}
		}
	}

	return nil
}

// CloseSession fecha todas as conexões da sessão
func (h *Hub) CloseSession(ctx context.Context, sessionID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs := h.sessions[sessionID]
	for _, sub := range subs {
		close(sub.events)
	}
	delete(h.sessions, sessionID)

	if len(subs) > 0 {
		log.ForContext(ctx).WithFields(log.Fields{
			"session_id":  sessionID,
			"subscribers": len(subs),
		}).Info("Conexões de progresso encerradas")
	}

	return nil
}

// Subscribers retorna quantas conexões a sessão possui
func (h *Hub) Subscribers(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

// TotalSubscribers soma as conexões de todas as sessões
func (h *Hub) TotalSubscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	total := 0
	for _, subs := range h.sessions {
		total += len(subs)
	}
	return total
}
