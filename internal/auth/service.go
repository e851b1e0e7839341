package auth

import (
	"context"
	"time"

	"dynaform/internal/identity"
	"dynaform/internal/user"
	dErrors "dynaform/pkg/domain-errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer mints signed identity tokens. Satisfied by jwttoken.JWTCodec.
type TokenIssuer interface {
	IssueToken(email string, role string) (string, error)
}

// Service owns registration, login, and principal resolution. Transport
// concerns stay in the handler.
type Service struct {
	users  user.Store
	tokens TokenIssuer
}

func NewService(users user.Store, tokens TokenIssuer) *Service {
	return &Service{users: users, tokens: tokens}
}

// Register creates a user with a bcrypt-hashed password and the default
// USER role. Duplicate emails are rejected.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) error {
	if req == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return err
	}

	if _, err := s.users.FindByEmail(ctx, req.Email); err == nil {
		return dErrors.New(dErrors.CodeConflict, "email already exists")
	} else if !dErrors.HasCode(err, dErrors.CodeNotFound) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check existing user")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	u := user.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         identity.RoleUser,
		CreatedAt:    time.Now(),
	}
	if err := s.users.Save(ctx, u); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save user")
	}
	return nil
}

// Login verifies credentials and issues a token carrying the user's
// current role. Bad credentials yield the same error regardless of which
// check failed.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (string, error) {
	if req == nil {
		return "", dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	req.Normalize()

	u, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return "", dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid email or password")
	}

	token, err := s.tokens.IssueToken(u.Email, string(u.Role))
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}
	return token, nil
}

// ResolvePrincipal turns a verified token subject into a request
// principal. The store's current role set is authoritative: a token role
// that the user no longer holds resolves to anonymous, so the token only
// ever proves subject and freshness. Lookup misses also resolve to
// anonymous; only store failures surface as errors.
func (s *Service) ResolvePrincipal(ctx context.Context, subject string, role identity.Role) (identity.Principal, error) {
	u, err := s.users.FindByEmail(ctx, subject)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return identity.Anonymous(), nil
		}
		return identity.Anonymous(), dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve principal")
	}

	if u.Role != role {
		return identity.Anonymous(), nil
	}

	return identity.Authenticated(u.ID, u.Email, u.Name, u.Role), nil
}
