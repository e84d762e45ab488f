package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/sales-sync-api/infrastructure/database/postgres"
	"github.com/vfg2006/sales-sync-api/internal/domain"
)

const accountsTable = "accounts a"

const accountColumns = "a.id, a.user_id, a.platform, a.nickname, a.external_id, " +
	"COALESCE(a.access_token, ''), COALESCE(a.refresh_token, ''), a.token_expires_at, a.status, a.created_at, a.updated_at"

//go:generate mockgen -source=account.go -destination=mocks/account.go -package=mocks
type AccountRepository interface {
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	ListAccountsByUser(ctx context.Context, userID string, platform domain.Platform) ([]*domain.Account, error)
	UpdateTokens(ctx context.Context, accountID string, tokens domain.AccountTokens) error
	UpdateStatus(ctx context.Context, accountID string, status domain.AccountStatus) error
}

type accountRepository struct {
	conn *postgres.Connection
}

func NewAccountRepository(conn *postgres.Connection) AccountRepository {
	return &accountRepository{
		conn: conn,
	}
}

func (r *accountRepository) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	sqlStr, args, err := squirrel.
		Select(accountColumns).
		From(accountsTable).
		Where(squirrel.Eq{"a.id": accountID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	acc, err := scanAccount(r.conn.QueryRowContext(ctx, sqlStr, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao buscar conta: %w", err)
	}

	return acc, nil
}

// ListAccountsByUser lista as contas do usuário. Plataforma vazia lista todas.
func (r *accountRepository) ListAccountsByUser(ctx context.Context, userID string, platform domain.Platform) ([]*domain.Account, error) {
	builder := squirrel.
		Select(accountColumns).
		From(accountsTable).
		Where(squirrel.Eq{"a.user_id": userID}).
		OrderBy("a.nickname ASC").
		PlaceholderFormat(squirrel.Dollar)

	if platform != "" {
		builder = builder.Where(squirrel.Eq{"a.platform": string(platform)})
	}

	sqlStr, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar contas: %w", err)
	}
	defer rows.Close()

	accounts := make([]*domain.Account, 0)
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear conta: %w", err)
		}
		accounts = append(accounts, acc)
	}

	return accounts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAccount(row rowScanner) (*domain.Account, error) {
	acc := &domain.Account{}
	var expiresAt sql.NullTime

	if err := row.Scan(
		&acc.ID,
		&acc.UserID,
		&acc.Platform,
		&acc.Nickname,
		&acc.ExternalID,
		&acc.AccessToken,
		&acc.RefreshToken,
		&expiresAt,
		&acc.Status,
		&acc.CreatedAt,
		&acc.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if expiresAt.Valid {
		t := expiresAt.Time
		acc.TokenExpiresAt = &t
	}

	return acc, nil
}

func (r *accountRepository) UpdateTokens(ctx context.Context, accountID string, tokens domain.AccountTokens) error {
	sqlStr, args, err := squirrel.
		Update("accounts").
		Set("access_token", tokens.AccessToken).
		Set("refresh_token", tokens.RefreshToken).
		Set("token_expires_at", tokens.ExpiresAt).
		Set("status", string(domain.AccountStatusConnected)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": accountID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := r.conn.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("erro ao atualizar tokens da conta: %w", err)
	}

	return nil
}

func (r *accountRepository) UpdateStatus(ctx context.Context, accountID string, status domain.AccountStatus) error {
	sqlStr, args, err := squirrel.
		Update("accounts").
		Set("status", string(status)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": accountID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := r.conn.ExecContext(ctx, sqlStr, args...); err != nil {
		return fmt.Errorf("erro ao atualizar status da conta: %w", err)
	}

	return nil
}
