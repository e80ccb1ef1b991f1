package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"subscription-app/internal/apperr"
	"subscription-app/internal/domain/billing"
	"subscription-app/internal/domain/users"
	"subscription-app/internal/store"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// PasswordCost is the bcrypt work factor for new hashes.
const PasswordCost = 12

var (
	ErrEmailTaken = apperr.Validation("Email already registered")
	// ErrInvalidCredentials covers unknown emails and wrong passwords alike.
	ErrInvalidCredentials = apperr.Validation("Invalid credentials")
)

type TokenIssuer interface {
	Issue(userID string, role users.Role) (string, error)
}

type Service struct {
	store   store.Store
	tokens  TokenIssuer
	cost    int
	compare func(hash, password []byte) error

	dummyOnce sync.Once
	dummy     []byte
}

func NewService(s store.Store, tokens TokenIssuer) *Service {
	return &Service{store: s, tokens: tokens, cost: PasswordCost, compare: bcrypt.CompareHashAndPassword}
}

// dummyHash is compared against on unknown emails so both login failures
// cost one bcrypt run at the configured work factor.
func (s *Service) dummyHash() []byte {
	s.dummyOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), s.cost)
		if err == nil {
			s.dummy = h
		}
	})
	return s.dummy
}

// Signup creates a USER with a FREE/ACTIVE subscription and returns a token.
func (s *Service) Signup(ctx context.Context, email, password string) (*users.User, string, error) {
	email = normalizeEmail(email)

	if _, err := s.store.FindUserByEmail(ctx, email); err == nil {
		return nil, "", ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, "", apperr.Internal("Failed to create account", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, "", apperr.Internal("Failed to hash password", err)
	}

	u := &users.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         users.RoleUser,
	}
	if err := s.store.CreateUser(ctx, u, billing.NewDefault(uuid.NewString(), u.ID)); err != nil {
		if errors.Is(err, store.ErrEmailTaken) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", apperr.Internal("Failed to create account", err)
	}

	tok, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return nil, "", apperr.Internal("Failed to issue token", err)
	}
	return u, tok, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*users.User, string, error) {
	u, err := s.store.FindUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		_ = s.compare(s.dummyHash(), []byte(password))
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", apperr.Internal("Failed to log in", err)
	}

	if err := s.compare([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	tok, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return nil, "", apperr.Internal("Failed to issue token", err)
	}
	return u, tok, nil
}

func (s *Service) Me(ctx context.Context, userID string) (*users.User, error) {
	u, err := s.store.FindUserByID(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, apperr.Internal("Failed to load user", fmt.Errorf("find user %s: %w", userID, err))
	}
	return u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
