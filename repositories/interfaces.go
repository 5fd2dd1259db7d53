package repositories

import (
	"context"
	"time"

	"github.com/RushabhaJain/vocalbridge/models"
	"github.com/google/uuid"
)

// TransactionManager manages database transactions
type TransactionManager interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) (Transaction, error)

	// InTransaction executes a function within a transaction.
	// Automatically commits if function succeeds, rolls back on error.
	InTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// Transaction represents a database transaction
type Transaction interface {
	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Context returns the transaction context
	Context() context.Context
}

// TenantRepository handles tenant data operations
type TenantRepository interface {
	// Create creates a new tenant
	Create(ctx context.Context, tenant *models.Tenant) error

	// GetByID retrieves a tenant by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)

	// GetByAPIKey retrieves a tenant by API key
	GetByAPIKey(ctx context.Context, apiKey string) (*models.Tenant, error)

	// List retrieves all tenants with pagination
	List(ctx context.Context, limit, offset int) ([]*models.Tenant, error)
}

// AgentRepository handles agent configuration operations
type AgentRepository interface {
	// Create creates a new agent
	Create(ctx context.Context, agent *models.Agent) error

	// GetByID retrieves an agent scoped to a tenant.
	// Returns nil, nil when no matching agent exists.
	GetByID(ctx context.Context, id, tenantID uuid.UUID) (*models.Agent, error)

	// ListByTenant retrieves all agents owned by a tenant
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*models.Agent, error)

	// Update updates an agent
	Update(ctx context.Context, agent *models.Agent) error

	// Delete deletes an agent
	Delete(ctx context.Context, id, tenantID uuid.UUID) error
}

// SessionRepository handles conversation session operations
type SessionRepository interface {
	// Create creates a new session
	Create(ctx context.Context, session *models.Session) error

	// GetByID retrieves a session by ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.Session, error)

	// ListByTenant retrieves sessions owned by a tenant with pagination
	ListByTenant(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Session, error)

	// Touch updates the session's updated_at timestamp
	Touch(ctx context.Context, id uuid.UUID) error
}

// MessageRepository handles conversation turn storage
type MessageRepository interface {
	// Create appends a message to a session
	Create(ctx context.Context, message *models.Message) error

	// ListBySession retrieves all messages of a session, oldest first
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*models.Message, error)
}

// UsageEventRepository handles the usage ledger
type UsageEventRepository interface {
	// Create records a usage event
	Create(ctx context.Context, event *models.UsageEvent) error

	// ListByTenant retrieves usage events for a tenant within a time range
	ListByTenant(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]*models.UsageEvent, error)

	// SummaryByTenant aggregates usage for a tenant within a time range
	SummaryByTenant(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (*models.UsageSummary, error)
}

// ProviderCallEventRepository handles the provider-call audit log
type ProviderCallEventRepository interface {
	// Create records one provider invocation attempt
	Create(ctx context.Context, event *models.ProviderCallEvent) error

	// ListBySession retrieves call events for a session, oldest first
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]*models.ProviderCallEvent, error)
}

// Repositories bundles all repository instances for dependency wiring
type Repositories struct {
	Tenants            TenantRepository
	Agents             AgentRepository
	Sessions           SessionRepository
	Messages           MessageRepository
	UsageEvents        UsageEventRepository
	ProviderCallEvents ProviderCallEventRepository
	IdempotencyKeys    IdempotencyKeyRepository
}

// IdempotencyKeyRepository is the durable store backing the idempotency
// cache. FindByKey looks up by key alone; tenant ownership is validated by
// the caller. Upsert is last-write-wins.
type IdempotencyKeyRepository interface {
	// FindByKey retrieves a record by key. Returns nil, nil when absent.
	FindByKey(ctx context.Context, key string) (*models.IdempotencyKey, error)

	// Upsert creates or overwrites the record for the key
	Upsert(ctx context.Context, record *models.IdempotencyKey) error

	// DeleteExpired removes records past their expiry, returning the count
	DeleteExpired(ctx context.Context) (int64, error)
}
