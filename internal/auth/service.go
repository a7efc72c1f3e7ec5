package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"github.com/odontoflow/clinic-api/internal/apperror"
	"github.com/odontoflow/clinic-api/internal/users"
)

// Service authenticates staff and registers the bootstrap accounts.
type Service struct {
	users  *users.Service
	store  *users.Store
	tokens *Tokens
}

func NewService(userService *users.Service, store *users.Store, tokens *Tokens) *Service {
	return &Service{users: userService, store: store, tokens: tokens}
}

// LoginInput is the POST /auth/login body.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is returned to the UI: the user without its hash, plus a token.
type LoginResult struct {
	User  *users.User `json:"user"`
	Token string      `json:"token"`
}

// Login verifies credentials and issues a time-limited token. The same
// message covers unknown emails and wrong passwords.
func (s *Service) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	if in.Email == "" || in.Password == "" {
		return nil, apperror.New(apperror.Validation, "email e senha são obrigatórios")
	}

	user, err := s.store.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.New(apperror.Authentication, "credenciais inválidas")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, apperror.New(apperror.Authentication, "credenciais inválidas")
	}

	token, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &LoginResult{User: user, Token: token}, nil
}

// Register creates a user through the same validation path the admin CRUD
// uses. Kept for initial setup; day-to-day creation goes through /users.
func (s *Service) Register(ctx context.Context, in users.CreateInput) (*users.User, error) {
	return s.users.Create(ctx, in)
}
