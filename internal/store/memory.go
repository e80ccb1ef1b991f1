package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"subscription-app/internal/domain/billing"
	"subscription-app/internal/domain/users"
)

// Memory is a process-local Store. It backs the handler tests and local runs
// without Postgres.
type Memory struct {
	mu       sync.RWMutex
	users    map[string]users.User
	subs     map[string]billing.Subscription // keyed by user id
	profiles map[string]users.AdminProfile   // keyed by user id
	now      func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		users:    map[string]users.User{},
		subs:     map[string]billing.Subscription{},
		profiles: map[string]users.AdminProfile{},
		now:      time.Now,
	}
}

func (m *Memory) CreateUser(_ context.Context, u *users.User, sub *billing.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.users {
		if existing.Email == u.Email {
			return ErrEmailTaken
		}
	}

	now := m.now()
	u.CreatedAt, u.UpdatedAt = now, now
	sub.UserID = u.ID
	sub.CreatedAt, sub.UpdatedAt = now, now

	stored := *u
	stored.Subscription = nil
	m.users[u.ID] = stored
	m.subs[u.ID] = *sub
	u.Subscription = sub
	return nil
}

func (m *Memory) FindUserByEmail(_ context.Context, email string) (*users.User, error) {
	return m.findUser(func(u users.User) bool { return u.Email == email })
}

func (m *Memory) FindUserByID(_ context.Context, id string) (*users.User, error) {
	return m.findUser(func(u users.User) bool { return u.ID == id })
}

func (m *Memory) FindUserByCustomerID(_ context.Context, customerID string) (*users.User, error) {
	return m.findUser(func(u users.User) bool {
		return u.StripeCustomerID != nil && *u.StripeCustomerID == customerID
	})
}

func (m *Memory) findUser(match func(users.User) bool) (*users.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if match(u) {
			return m.withSubscription(u), nil
		}
	}
	return nil, ErrNotFound
}

// withSubscription must be called with the lock held.
func (m *Memory) withSubscription(u users.User) *users.User {
	if sub, ok := m.subs[u.ID]; ok {
		u.Subscription = &sub
	}
	return &u
}

func (m *Memory) ListUsers(_ context.Context) ([]users.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	list := make([]users.User, 0, len(m.users))
	for _, u := range m.users {
		list = append(list, *m.withSubscription(u))
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].ID > list[j].ID
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (m *Memory) SetUserCustomerID(_ context.Context, userID, customerID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[userID]
	if !ok {
		return ErrNotFound
	}
	u.StripeCustomerID = &customerID
	u.UpdatedAt = m.now()
	m.users[userID] = u
	return nil
}

func (m *Memory) FindSubscription(_ context.Context, userID string) (*billing.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sub, ok := m.subs[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &sub, nil
}

func (m *Memory) SaveSubscription(_ context.Context, sub *billing.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[sub.UserID]; !ok {
		return ErrNotFound
	}
	sub.UpdatedAt = m.now()
	m.subs[sub.UserID] = *sub
	return nil
}

func (m *Memory) FindAdminProfile(_ context.Context, userID string) (*users.AdminProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.profiles[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (m *Memory) SaveAdminProfile(_ context.Context, p *users.AdminProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if existing, ok := m.profiles[p.UserID]; ok {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	} else {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	m.profiles[p.UserID] = *p
	return nil
}
