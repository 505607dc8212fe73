package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/geocoder89/heartspace/internal/auth"
	"github.com/geocoder89/heartspace/internal/domain/user"
	"github.com/geocoder89/heartspace/internal/observability"
	"github.com/geocoder89/heartspace/internal/validation"
	"golang.org/x/crypto/bcrypt"
)

const (
	MsgInvalidCredentials = "Invalid email or password"
	MsgUserExists         = "User already exists"
	MsgUserNotFound       = "User not found"
	MsgInvalidToken       = "Invalid or expired token"
)

type UserStore interface {
	Create(ctx context.Context, u user.User) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
	List(ctx context.Context) ([]user.User, error)
}

type PasswordHasher interface {
	HashPassword(plain string) (string, error)
	CheckPassword(hash, plain string) error
}

type TokenIssuer interface {
	GenerateToken(userID string) (string, error)
	VerifyToken(token string) (*auth.Claims, error)
	TTL() time.Duration
}

// AuthResult is what signup and login hand back to the caller.
type AuthResult struct {
	Token     string
	ExpiresIn int64 // seconds
	User      user.Public
}

type AuthService struct {
	users     UserStore
	hasher    PasswordHasher
	tokens    TokenIssuer
	expiresIn int64
	prom      *observability.Prom
}

func NewAuthService(users UserStore, hasher PasswordHasher, tokens TokenIssuer, prom *observability.Prom) *AuthService {
	return &AuthService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		expiresIn: int64(tokens.TTL().Seconds()),
		prom:      prom,
	}
}

func (s *AuthService) Register(ctx context.Context, req user.SignUpRequest) (AuthResult, error) {
	req.Normalize()

	if fields := validation.Struct(req); fields != nil {
		s.prom.AuthEvent("signup", "invalid")
		return AuthResult{}, ValidationError("Invalid signup details", fields)
	}

	_, err := s.users.GetByEmail(ctx, req.Email)
	switch {
	case err == nil:
		s.prom.AuthEvent("signup", "conflict")
		return AuthResult{}, ConflictError(MsgUserExists)
	case !errors.Is(err, user.ErrNotFound):
		return AuthResult{}, InternalError("Could not create user", err)
	}

	hash, err := s.hasher.HashPassword(req.Password)
	if err != nil {
		// the tag counts characters, bcrypt counts bytes
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			s.prom.AuthEvent("signup", "invalid")
			return AuthResult{}, ValidationError("Invalid signup details", []validation.FieldError{{
				Field:   "password",
				Rule:    "max",
				Param:   "72",
				Message: "password must be at most 72 bytes",
			}})
		}
		return AuthResult{}, InternalError("Could not create user", err)
	}

	u, err := s.users.Create(ctx, user.New(req.Name, req.Email, hash, req.Location))
	if err != nil {
		// lost a race with a concurrent signup for the same email
		if errors.Is(err, user.ErrEmailTaken) {
			s.prom.AuthEvent("signup", "conflict")
			return AuthResult{}, ConflictError(MsgUserExists)
		}
		return AuthResult{}, InternalError("Could not create user", err)
	}

	token, err := s.tokens.GenerateToken(u.ID)
	if err != nil {
		return AuthResult{}, InternalError("Could not generate access token", err)
	}

	s.prom.AuthEvent("signup", "ok")

	return AuthResult{Token: token, ExpiresIn: s.expiresIn, User: u.Public()}, nil
}

// Login reports unknown emails and wrong passwords with the same
// error so callers cannot probe which emails have accounts.
func (s *AuthService) Login(ctx context.Context, req user.LoginRequest) (AuthResult, error) {
	req.Normalize()

	if fields := validation.Struct(req); fields != nil {
		s.prom.AuthEvent("login", "invalid")
		return AuthResult{}, ValidationError("Invalid login details", fields)
	}

	found, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			s.prom.AuthEvent("login", "rejected")
			return AuthResult{}, AuthError(MsgInvalidCredentials, nil)
		}
		return AuthResult{}, InternalError("Could not log in", err)
	}

	if err := s.hasher.CheckPassword(found.PasswordHash, req.Password); err != nil {
		s.prom.AuthEvent("login", "rejected")
		return AuthResult{}, AuthError(MsgInvalidCredentials, nil)
	}

	token, err := s.tokens.GenerateToken(found.ID)
	if err != nil {
		return AuthResult{}, InternalError("Could not generate access token", err)
	}

	s.prom.AuthEvent("login", "ok")

	return AuthResult{Token: token, ExpiresIn: s.expiresIn, User: found.Public()}, nil
}

// VerifyToken checks signature and expiry only; it does not touch the store.
func (s *AuthService) VerifyToken(token string) (string, error) {
	claims, err := s.tokens.VerifyToken(token)
	if err != nil {
		s.prom.AuthEvent("verify", "rejected")
		return "", AuthError(MsgInvalidToken, err)
	}

	s.prom.AuthEvent("verify", "ok")

	return claims.UserID(), nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]user.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, InternalError("Could not list users", err)
	}

	out := make([]user.User, 0, len(users))
	for _, u := range users {
		u.PasswordHash = ""
		out = append(out, u)
	}

	return out, nil
}

func (s *AuthService) GetUser(ctx context.Context, id string) (user.User, error) {
	if strings.TrimSpace(id) == "" {
		return user.User{}, NotFoundError(MsgUserNotFound)
	}

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, NotFoundError(MsgUserNotFound)
		}
		return user.User{}, InternalError("Could not fetch user", err)
	}

	u.PasswordHash = ""
	return u, nil
}
