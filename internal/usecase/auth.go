package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	domainErrors "github.com/polkiloo/letterdesk/internal/domain/errors"
	"github.com/polkiloo/letterdesk/internal/domain/model"
	"github.com/polkiloo/letterdesk/internal/domain/repository"
	pkgAuth "github.com/polkiloo/letterdesk/internal/pkg/auth"
)

// AuthUseCase handles user lifecycle and token management.
type AuthUseCase struct {
	users     repository.UserRepository
	practices repository.PracticeRepository
	hasher    pkgAuth.PasswordHasher
	tokens    pkgAuth.Strategy
	logger    *slog.Logger
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(
	users repository.UserRepository,
	practices repository.PracticeRepository,
	hasher pkgAuth.PasswordHasher,
	strategy pkgAuth.Strategy,
	logger *slog.Logger,
) *AuthUseCase {
	return &AuthUseCase{users: users, practices: practices, hasher: hasher, tokens: strategy, logger: logger}
}

// Registration describes a practice signing up together with its first account.
type Registration struct {
	Login        string
	Password     string
	PracticeName string
	Email        string
}

// Register creates a practice with its account and returns auth token.
func (u *AuthUseCase) Register(ctx context.Context, in Registration) (*model.User, string, error) {
	login := strings.TrimSpace(in.Login)
	if login == "" || in.Password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}
	name := strings.TrimSpace(in.PracticeName)
	if name == "" {
		return nil, "", invalidInput("practice name is required")
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(in.Email))
	if err != nil {
		return nil, "", invalidInput("email is invalid")
	}

	if _, err := u.users.GetByLogin(ctx, login); err == nil {
		return nil, "", domainErrors.ErrAlreadyExists
	} else if !errors.Is(err, domainErrors.ErrNotFound) {
		return nil, "", err
	}

	hash, err := u.hasher.Hash(in.Password)
	if errors.Is(err, pkgAuth.ErrPasswordTooLong) {
		return nil, "", invalidInput(err.Error())
	}
	if err != nil {
		return nil, "", err
	}

	practice, err := u.practices.Create(ctx, name, addr.Address)
	if err != nil {
		return nil, "", fmt.Errorf("create practice: %w", err)
	}

	usr := &model.User{Login: login, PasswordHash: hash, Role: model.RolePractice, PracticeID: &practice.ID}
	if err := u.users.Create(ctx, usr); err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			return nil, "", domainErrors.ErrAlreadyExists
		}
		return nil, "", err
	}

	token, err := u.issue(usr)
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// Authenticate validates credentials and returns auth token.
func (u *AuthUseCase) Authenticate(ctx context.Context, login, password string) (*model.User, string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	usr, err := u.users.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(usr.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.issue(usr)
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// ParseToken extracts the caller identity from provided token.
func (u *AuthUseCase) ParseToken(token string) (model.Actor, error) {
	if token == "" {
		return model.Actor{}, pkgAuth.ErrInvalidToken
	}
	claims, err := u.tokens.ParseToken(token)
	if err != nil {
		return model.Actor{}, err
	}
	role := model.Role(claims.Role)
	switch role {
	case model.RoleAdmin:
	case model.RolePractice:
		if claims.PracticeID <= 0 {
			return model.Actor{}, pkgAuth.ErrInvalidToken
		}
	default:
		return model.Actor{}, pkgAuth.ErrInvalidToken
	}
	return model.Actor{UserID: claims.UserID, Role: role, PracticeID: claims.PracticeID}, nil
}

// GetByID fetches user by identifier.
func (u *AuthUseCase) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return u.users.GetByID(ctx, id)
}

// EnsureAdmin creates the bootstrap admin account unless the login is taken.
func (u *AuthUseCase) EnsureAdmin(ctx context.Context, login, password string) error {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil
	}
	if existing, err := u.users.GetByLogin(ctx, login); err == nil {
		if existing.Role != model.RoleAdmin {
			return fmt.Errorf("login %q belongs to a practice account", login)
		}
		return nil
	} else if !errors.Is(err, domainErrors.ErrNotFound) {
		return err
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return err
	}
	if err := u.users.Create(ctx, &model.User{Login: login, PasswordHash: hash, Role: model.RoleAdmin}); err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			return nil
		}
		return fmt.Errorf("create admin: %w", err)
	}
	u.logger.Info("admin account created", slog.String("login", login))
	return nil
}

func (u *AuthUseCase) issue(usr *model.User) (string, error) {
	claims := pkgAuth.Claims{UserID: usr.ID, Role: string(usr.Role)}
	if usr.PracticeID != nil {
		claims.PracticeID = *usr.PracticeID
	}
	return u.tokens.IssueToken(claims)
}
