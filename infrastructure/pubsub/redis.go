package pubsub

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/vfg2006/sales-sync-api/internal/config"
)

// NewRedisClient abre a conexão com o redis e valida com um ping
func NewRedisClient(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("endereço do redis não configurado")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.Password),
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("erro ao conectar ao redis: %w", err)
	}

	return client, nil
}
