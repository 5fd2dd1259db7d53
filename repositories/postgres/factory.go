package postgres

import (
	"github.com/RushabhaJain/vocalbridge/repositories"
	"go.uber.org/zap"
)

// RepositoryFactory creates PostgreSQL-backed repository instances
type RepositoryFactory struct {
	db     *DB
	logger *zap.Logger
}

// NewRepositoryFactory creates a new repository factory
func NewRepositoryFactory(db *DB, logger *zap.Logger) *RepositoryFactory {
	return &RepositoryFactory{
		db:     db,
		logger: logger,
	}
}

// NewTransactionManager creates a transaction manager
func (f *RepositoryFactory) NewTransactionManager() repositories.TransactionManager {
	return NewTransactionManager(f.db, f.logger)
}

// NewRepositories creates the full repository bundle
func (f *RepositoryFactory) NewRepositories() *repositories.Repositories {
	return &repositories.Repositories{
		Tenants:            NewTenantRepository(f.db, f.logger),
		Agents:             NewAgentRepository(f.db, f.logger),
		Sessions:           NewSessionRepository(f.db, f.logger),
		Messages:           NewMessageRepository(f.db, f.logger),
		UsageEvents:        NewUsageEventRepository(f.db, f.logger),
		ProviderCallEvents: NewProviderCallEventRepository(f.db, f.logger),
		IdempotencyKeys:    NewIdempotencyKeyRepository(f.db, f.logger),
	}
}
