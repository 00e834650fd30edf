package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/cyberfit/membership-service/internal/domain"
)

// MemoryAccountRepository is an in-process AccountRepository used by
// tests and local development without a database.
type MemoryAccountRepository struct {
	mu      sync.Mutex
	byID    map[string]*domain.Account
	byEmail map[string]string
}

// NewMemoryAccountRepository builds an empty repository.
func NewMemoryAccountRepository() *MemoryAccountRepository {
	return &MemoryAccountRepository{
		byID:    make(map[string]*domain.Account),
		byEmail: make(map[string]string),
	}
}

func (r *MemoryAccountRepository) Create(_ context.Context, account *domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[account.Email]; exists {
		return ErrDuplicateEmail
	}

	now := time.Now()
	account.ID = uuid.NewString()
	account.CreatedAt = now
	account.UpdatedAt = now

	stored := *account
	r.byID[account.ID] = &stored
	r.byEmail[account.Email] = account.ID
	return nil
}

func (r *MemoryAccountRepository) GetByID(_ context.Context, id string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	account := *stored
	return &account, nil
}

func (r *MemoryAccountRepository) GetByEmail(_ context.Context, email string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, ErrNotFound
	}
	account := *r.byID[id]
	return &account, nil
}

func (r *MemoryAccountRepository) UpdatePasswordHash(_ context.Context, email, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byEmail[email]
	if !ok {
		return ErrNotFound
	}
	r.byID[id].PasswordHash = passwordHash
	r.byID[id].UpdatedAt = time.Now()
	return nil
}

func (r *MemoryAccountRepository) SetEntitled(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byEmail[email]
	if !ok {
		return ErrNotFound
	}
	r.byID[id].Entitled = true
	r.byID[id].UpdatedAt = time.Now()
	return nil
}
