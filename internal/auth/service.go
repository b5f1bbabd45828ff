package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=auth
type Repository interface {
	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

// Cache keeps recently authenticated users out of the database. Get returns
// (nil, nil) on a miss.
type Cache interface {
	GetUser(ctx context.Context, id uuid.UUID) (*User, error)
	SetUser(ctx context.Context, u *User) error
}

type Service struct {
	repo   Repository
	cache  Cache
	tokens *Tokens
	cost   int
}

// NewService builds the auth service. cache may be nil.
func NewService(repo Repository, cache Cache, tokens *Tokens, bcryptCost int) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}

	return &Service{repo: repo, cache: cache, tokens: tokens, cost: bcryptCost}
}

func (s *Service) Register(ctx context.Context, params RegisterParams) (*User, error) {
	params.normalize()

	if err := params.validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &User{
		Name:         params.Name,
		Email:        params.Email,
		PasswordHash: string(hash),
	}

	if err := s.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

// Session is a signed token handed to a client after login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *User
}

func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expires, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}

	s.remember(ctx, u)

	return &Session{Token: token, ExpiresAt: expires, User: u}, nil
}

// Authenticate resolves a bearer token to its user.
func (s *Service) Authenticate(ctx context.Context, token string) (*User, error) {
	id, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	u, err := s.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrInvalidToken
	}

	return u, err
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	if s.cache != nil {
		u, err := s.cache.GetUser(ctx, id)
		if err != nil {
			slog.Warn("user cache read failed", "user_id", id, "error", err)
		} else if u != nil {
			return u, nil
		}
	}

	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	s.remember(ctx, u)

	return u, nil
}

func (s *Service) remember(ctx context.Context, u *User) {
	if s.cache == nil {
		return
	}

	if err := s.cache.SetUser(ctx, u); err != nil {
		slog.Warn("user cache write failed", "user_id", u.ID, "error", err)
	}
}
