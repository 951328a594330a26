package identity

import (
	"context"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// Store is the in-memory user record store.
type Store struct {
	mu      sync.RWMutex
	users   map[int64]*User
	byEmail map[string]int64
	nextID  int64
}

// NewStore creates an empty user store.
func NewStore() *Store {
	return &Store{
		users:   make(map[int64]*User),
		byEmail: make(map[string]int64),
	}
}

// Create adds a user, hashing the given plaintext password.
func (s *Store) Create(ctx context.Context, name, email, role, password string) (*User, error) {
	_ = ctx

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	user := &User{
		ID:           s.nextID,
		Name:         name,
		Email:        email,
		Role:         role,
		PasswordHash: hash,
	}
	s.users[user.ID] = user
	s.byEmail[email] = user.ID
	return cloneUser(user), nil
}

// Get returns the user with the given id.
func (s *Store) Get(ctx context.Context, id int64) (*User, error) {
	_ = ctx

	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneUser(user), nil
}

// Authenticate resolves email/password credentials to a user.
func (s *Store) Authenticate(ctx context.Context, email, password string) (*User, error) {
	_ = ctx

	s.mu.RLock()
	id, ok := s.byEmail[email]
	var user *User
	if ok {
		user = cloneUser(s.users[id])
	}
	s.mu.RUnlock()

	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// Seed loads the default development users.
func (s *Store) Seed(ctx context.Context) error {
	seeds := []struct {
		name, email, role, password string
	}{
		{"Test Customer", "customer@example.com", "CUSTOMER", "password123"},
		{"Test Admin", "admin@example.com", "ADMIN", "password123"},
	}
	for _, u := range seeds {
		if _, err := s.Create(ctx, u.name, u.email, u.role, u.password); err != nil {
			return err
		}
	}
	return nil
}

func cloneUser(u *User) *User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.PasswordHash = append([]byte(nil), u.PasswordHash...)
	return &clone
}
