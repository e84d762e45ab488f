package pubsub

import (
	"context"
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"github.com/vfg2006/sales-sync-api/internal/domain"
	"github.com/vfg2006/sales-sync-api/internal/usecases/progress"
	"github.com/vfg2006/sales-sync-api/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	ProgressChannelPrefix = "sync:progress:"
	CloseChannelPrefix    = "sync:close:"
)

type message struct {
	SessionID string               `json:"sessionId"`
	Event     domain.ProgressEvent `json:"event"`
}

// RedisProgressBroker distribui eventos de progresso entre instâncias. Cada
// instância publica no redis e repassa ao hub local o que recebe do canal.
type RedisProgressBroker struct {
	client redis.UniversalClient
	local  progress.Publisher
}

func NewRedisProgressBroker(client redis.UniversalClient, local progress.Publisher) *RedisProgressBroker {
	return &RedisProgressBroker{
		client: client,
		local:  local,
	}
}

func (b *RedisProgressBroker) Publish(ctx context.Context, event domain.ProgressEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	data, err := json.Marshal(message{SessionID: event.SessionID, Event: event})
	if err != nil {
		return fmt.Errorf("erro ao serializar evento de progresso: %w", err)
	}

	if err := b.client.Publish(ctx, ProgressChannelPrefix+event.SessionID, data).Err(); err != nil {
		log.ForContext(ctx).WithError(err).WithField("session_id", event.SessionID).Error("Erro ao publicar evento de progresso no redis")
		return fmt.Errorf("erro ao publicar evento de progresso: %w", err)
	}

	return nil
}

func (b *RedisProgressBroker) CloseSession(ctx context.Context, sessionID string) error {
	if err := b.client.Publish(ctx, CloseChannelPrefix+sessionID, sessionID).Err(); err != nil {
		return fmt.Errorf("erro ao publicar encerramento de sessão: %w", err)
	}
	return nil
}

// Run assina os canais de progresso e repassa as mensagens ao hub local.
// Bloqueia até o contexto ser cancelado.
func (b *RedisProgressBroker) Run(ctx context.Context) error {
	sub := b.client.PSubscribe(ctx, ProgressChannelPrefix+"*", CloseChannelPrefix+"*")
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("erro ao assinar canais de progresso: %w", err)
	}

	log.L.Info("Broker de progresso conectado ao redis")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			log.L.Info("Broker de progresso encerrado")
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				log.L.Warn("Canal de progresso do redis fechado")
				return nil
			}
			b.handleMessage(ctx, msg.Channel, msg.Payload)
		}
	}
}

func (b *RedisProgressBroker) handleMessage(ctx context.Context, channel, payload string) {
	switch {
	case strings.HasPrefix(channel, CloseChannelPrefix):
		_ = b.local.CloseSession(ctx, strings.TrimPrefix(channel, CloseChannelPrefix))
	case strings.HasPrefix(channel, ProgressChannelPrefix):
		var msg message
		if err := json.Unmarshal([]byte(payload), &msg); err != nil {
			log.L.WithError(err).WithField("channel", channel).Error("Mensagem de progresso inválida")
			return
		}
		msg.Event.SessionID = msg.SessionID
		_ = b.local.Publish(ctx, msg.Event)
	}
}
