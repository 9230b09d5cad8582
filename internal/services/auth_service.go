package services

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/yoockh/interviewme/internal/models"
	mongorepo "github.com/yoockh/interviewme/internal/repositories/mongo"
	"github.com/yoockh/interviewme/internal/utils"
)

type AuthService interface {
	Signup(ctx context.Context, name, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (token string, user *models.User, err error)
}

type authService struct {
	users  mongorepo.UserRepository
	tokens *utils.TokenManager
	admins map[string]struct{}
}

// NewAuthService grants the admin role to accounts whose email is in
// adminEmails, both at signup and at every login.
func NewAuthService(users mongorepo.UserRepository, tokens *utils.TokenManager, adminEmails ...string) AuthService {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		if e = normalizeEmail(e); e != "" {
			admins[e] = struct{}{}
		}
	}
	return &authService{users: users, tokens: tokens, admins: admins}
}

func (s *authService) roleFor(email string, stored models.UserRole) models.UserRole {
	if _, ok := s.admins[email]; ok {
		return models.RoleAdmin
	}
	return stored
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) Signup(ctx context.Context, name, email, password string) (*models.User, error) {
	const op = "AuthService.Signup"

	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" || email == "" || password == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "name, email, and password are required", nil)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, utils.E(utils.CodeInvalidArgument, op, "invalid email address", err)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		if errors.Is(err, utils.ErrPasswordTooShort) {
			return nil, utils.E(utils.CodeInvalidArgument, op, "password is too short", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to hash password", err)
	}

	u := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         s.roleFor(email, models.RoleUser),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, utils.ErrDuplicate) {
			return nil, utils.E(utils.CodeConflict, op, "user already exists", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to create user", err)
	}
	return u, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	const op = "AuthService.Login"

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, utils.E(utils.CodeInvalidArgument, op, "email and password are required", nil)
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return "", nil, utils.E(utils.CodeUnauthorized, op, "invalid credentials", err)
		}
		return "", nil, utils.E(utils.CodeInternal, op, "failed to load user", err)
	}
	if err := utils.CheckPassword(u.PasswordHash, password); err != nil {
		return "", nil, utils.E(utils.CodeUnauthorized, op, "invalid credentials", nil)
	}

	u.Role = s.roleFor(u.Email, u.Role)
	token, err := s.tokens.Issue(u.ID.Hex(), u.Email, string(u.Role))
	if err != nil {
		return "", nil, utils.E(utils.CodeInternal, op, "failed to issue token", err)
	}
	return token, u, nil
}
