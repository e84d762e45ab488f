package account

import (
	"context"

	"github.com/vfg2006/sales-sync-api/infrastructure/repository"
	"github.com/vfg2006/sales-sync-api/internal/domain"
	"github.com/vfg2006/sales-sync-api/pkg/apiErrors"
	"github.com/vfg2006/sales-sync-api/pkg/log"
)

//go:generate mockgen -source=service.go -destination=mocks/service.go -package=mocks

type AccountService interface {
	ListAccounts(ctx context.Context, userID string, platform domain.Platform) ([]*domain.Account, error)
}

type Service struct {
	accountRepository repository.AccountRepository
}

func NewService(accountRepository repository.AccountRepository) AccountService {
	return &Service{
		accountRepository: accountRepository,
	}
}

// ListAccounts lista as contas conectadas do usuário, incluindo as que
// precisam de reconexão. Plataforma vazia lista todas.
func (s *Service) ListAccounts(ctx context.Context, userID string, platform domain.Platform) ([]*domain.Account, error) {
	if platform != "" && !platform.Valid() {
		return nil, NewAccountError(ErrInvalidPlatform, apiErrors.ErrInvalidRequest, string(platform))
	}

	accounts, err := s.accountRepository.ListAccountsByUser(ctx, userID, platform)
	if err != nil {
		log.ForContext(ctx).WithError(err).Error("Falha ao listar contas no banco de dados")
		return nil, NewAccountError(ErrFetchAccounts, apiErrors.ErrDatabaseOperation, "Falha ao listar contas no banco de dados")
	}

	if accounts == nil {
		accounts = []*domain.Account{}
	}

	return accounts, nil
}
