package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/sales-sync-api/infrastructure/database/postgres"
)

//go:generate mockgen -source=user_settings.go -destination=mocks/user_settings.go -package=mocks
type UserSettingsRepository interface {
	ListAutoSyncUsers(ctx context.Context) ([]string, error)
}

type userSettingsRepository struct {
	conn *postgres.Connection
}

func NewUserSettingsRepository(conn *postgres.Connection) UserSettingsRepository {
	return &userSettingsRepository{
		conn: conn,
	}
}

// ListAutoSyncUsers retorna os usuários com sincronização automática ligada
func (r *userSettingsRepository) ListAutoSyncUsers(ctx context.Context) ([]string, error) {
	sqlStr, args, err := squirrel.
		Select("us.user_id").
		From("user_settings us").
		Where(squirrel.Eq{"us.auto_sync_enabled": true}).
		OrderBy("us.user_id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar usuários com auto sync: %w", err)
	}
	defer rows.Close()

	users := make([]string, 0)
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, err
		}
		users = append(users, userID)
	}

	return users, rows.Err()
}
