package web

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// User is a created user as the mock server records it.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserStore persists created users.
type UserStore interface {
	// CreateUser stores u and returns it with ID and CreatedAt set.
	CreateUser(ctx context.Context, u User) (User, error)
}

// MemoryStore keeps users in process memory. Duplicate emails are allowed,
// each submission is a new user.
type MemoryStore struct {
	mu    sync.RWMutex
	users []User
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) CreateUser(ctx context.Context, u User) (User, error) {
	if err := ctx.Err(); err != nil {
		return User{}, err
	}

	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC()

	m.mu.Lock()
	m.users = append(m.users, u)
	m.mu.Unlock()
	return u, nil
}

// Users returns a copy of all stored users in creation order.
func (m *MemoryStore) Users() []User {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]User, len(m.users))
	copy(out, m.users)
	return out
}
