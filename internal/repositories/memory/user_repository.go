package memory

import (
	"context"
	"strings"
	"sync"

	domain "github.com/lowkey-merch/storefront/internal/domain"
	"github.com/lowkey-merch/storefront/internal/repositories"
)

// UserRepository stores registered customers in process memory, enforcing
// email uniqueness case-insensitively.
type UserRepository struct {
	mu      sync.RWMutex
	byID    map[string]domain.User
	byEmail map[string]string
}

var _ repositories.UserRepository = (*UserRepository)(nil)

// NewUserRepository constructs an empty user directory.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

// Insert registers a new user. Duplicate emails are a conflict.
func (r *UserRepository) Insert(_ context.Context, user domain.User) (domain.User, error) {
	id := strings.TrimSpace(user.ID)
	email := normaliseEmail(user.Email)
	if id == "" || email == "" {
		return domain.User{}, invalidError("user repository: insert", "id and email are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; exists {
		return domain.User{}, conflictError("user repository: insert", "user %s already exists", id)
	}
	if _, exists := r.byEmail[email]; exists {
		return domain.User{}, conflictError("user repository: insert", "email %s already registered", email)
	}

	user.Email = email
	r.byID[id] = user
	r.byEmail[email] = id
	return user, nil
}

// FindByID looks up a user by identifier.
func (r *UserRepository) FindByID(_ context.Context, userID string) (domain.User, error) {
	id := strings.TrimSpace(userID)
	if id == "" {
		return domain.User{}, invalidError("user repository: find", "user id is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return domain.User{}, notFoundError("user repository: find", "no user %s", id)
	}
	return user, nil
}

// FindByEmail looks up a user by normalised email address.
func (r *UserRepository) FindByEmail(_ context.Context, email string) (domain.User, error) {
	key := normaliseEmail(email)
	if key == "" {
		return domain.User{}, invalidError("user repository: find by email", "email is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[key]
	if !ok {
		return domain.User{}, notFoundError("user repository: find by email", "no user for %s", key)
	}
	return r.byID[id], nil
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
