package auth

import (
	"context"
	"errors"
	"regexp"

	"github.com/rs/zerolog/log"

	"github.com/petmily/vetcare-api/internal/email"
	"github.com/petmily/vetcare-api/internal/model"
	"github.com/petmily/vetcare-api/internal/repository"
	"github.com/petmily/vetcare-api/pkg/apperror"
	"github.com/petmily/vetcare-api/pkg/auth"
	"github.com/petmily/vetcare-api/pkg/security"
)

const (
	minPasswordLen = 8
	maxPasswordLen = 32
	minNameLen     = 2
	maxNameLen     = 20
)

var emailPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.[A-Za-z]{2,}$`)

type Service struct {
	users    repository.UserRepository
	tokens   *auth.TokenManager
	hasher   security.PasswordHasher
	emailSvc email.Service
}

func NewService(users repository.UserRepository, tokens *auth.TokenManager,
	hasher security.PasswordHasher, emailSvc email.Service) *Service {
	return &Service{
		users:    users,
		tokens:   tokens,
		hasher:   hasher,
		emailSvc: emailSvc,
	}
}

// Signup registers a new account with the default user role.
func (s *Service) Signup(ctx context.Context, req *model.SignupRequest) (*model.User, error) {
	if err := validateCredentials(req.Email, req.Password); err != nil {
		return nil, err
	}
	if len(req.Name) < minNameLen || len(req.Name) > maxNameLen {
		return nil, apperror.BadRequest("name must be 2-20 characters")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         model.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Conflict("email already registered")
		}
		return nil, apperror.Internal(err)
	}

	if err := s.emailSvc.SendWelcome(ctx, user.Email, user.Name); err != nil {
		log.Warn().Err(err).Str("email", user.Email).Msg("failed to send welcome mail")
	}

	return user, nil
}

// Login verifies the credential pair and issues a bearer token.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	if err := validateCredentials(req.Email, req.Password); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("email")
		}
		return nil, apperror.Internal(err)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, apperror.Unauthorized("password does not match")
	}

	token, err := s.tokens.Issue(user.ID, user.Email, user.Name, user.Role)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &model.TokenResponse{Token: token, User: user}, nil
}

func validateCredentials(emailAddr, password string) error {
	if !emailPattern.MatchString(emailAddr) {
		return apperror.BadRequest("invalid email format")
	}
	if len(password) < minPasswordLen || len(password) > maxPasswordLen {
		return apperror.BadRequest("password must be 8-32 characters")
	}
	return nil
}
