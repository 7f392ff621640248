package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sci-crm-api/internal/models"
)

// ErrAccountExists is returned when an email is already registered.
var ErrAccountExists = errors.New("account already exists")

const createAccountsTable = `CREATE TABLE IF NOT EXISTS accounts (
	uid TEXT PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL DEFAULT '',
	provider TEXT NOT NULL,
	display_name TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMP NOT NULL
)`

// AccountRepository persists identity provider accounts in SQL.
type AccountRepository struct {
	db *sqlx.DB
}

// NewAccountRepository creates a new instance of AccountRepository.
func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Migrate creates the accounts table when missing.
func (r *AccountRepository) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createAccountsTable); err != nil {
		return fmt.Errorf("create accounts table: %w", err)
	}
	return nil
}

// FindByEmail returns the account registered for email. sql.ErrNoRows is
// returned unwrapped when none exists.
func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	const query = `SELECT uid, email, password_hash, provider, display_name, created_at FROM accounts WHERE email = ? LIMIT 1`
	var account models.Account
	if err := r.db.GetContext(ctx, &account, r.db.Rebind(query), normalizeEmail(email)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("find account by email: %w", err)
	}
	return &account, nil
}

// Create inserts account.
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	const query = `INSERT INTO accounts (uid, email, password_hash, provider, display_name, created_at)
VALUES (:uid, :email, :password_hash, :provider, :display_name, :created_at)`
	account.Email = normalizeEmail(account.Email)
	if _, err := r.db.NamedExecContext(ctx, query, account); err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

// MemoryAccountRepository keeps accounts in process memory.
type MemoryAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]models.Account
}

// NewMemoryAccountRepository returns an empty repository.
func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{accounts: make(map[string]models.Account)}
}

// FindByEmail mirrors AccountRepository.FindByEmail.
func (r *MemoryAccountRepository) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.accounts[normalizeEmail(email)]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &account, nil
}

// Create mirrors AccountRepository.Create.
func (r *MemoryAccountRepository) Create(_ context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account.Email = normalizeEmail(account.Email)
	if _, exists := r.accounts[account.Email]; exists {
		return ErrAccountExists
	}
	r.accounts[account.Email] = *account
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
