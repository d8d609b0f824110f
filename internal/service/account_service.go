package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"

	"github.com/iliyamo/buildrr-backend/internal/model"
	"github.com/iliyamo/buildrr-backend/internal/repository"
	"github.com/iliyamo/buildrr-backend/internal/utils"
)

// AccountService covers registration, login, bearer resolution and the
// self-service profile operations.
type AccountService struct {
	users      UserStore
	jwtSecret  string
	tokenTTL   time.Duration
	bcryptCost int
}

func NewAccountService(users UserStore, jwtSecret string, tokenTTL time.Duration, bcryptCost int) *AccountService {
	return &AccountService{users: users, jwtSecret: jwtSecret, tokenTTL: tokenTTL, bcryptCost: bcryptCost}
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Company   string
	Phone     string
}

// Session is a freshly issued bearer credential and its account.
type Session struct {
	Token utils.AccessToken
	User  *model.User
}

func validEmail(email string) bool {
	return govalidator.IsEmail(strings.TrimSpace(email))
}

func (s *AccountService) issue(u *model.User) (*Session, error) {
	tok, err := utils.NewAccessToken(s.jwtSecret, u.ID, string(u.Role), s.tokenTTL)
	if err != nil {
		return nil, err
	}
	return &Session{Token: tok, User: u}, nil
}

// Register creates a member account and logs it in.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.LastName) == "" {
		return nil, invalidInput("firstName and lastName are required")
	}
	if !validEmail(in.Email) {
		return nil, invalidInput("A valid email is required")
	}
	if in.Password == "" {
		return nil, invalidInput("password is required")
	}

	hash, err := hashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        in.Email,
		PasswordHash: hash,
		Company:      in.Company,
		Phone:        in.Phone,
		Role:         model.RoleMember,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, newError(ErrConflict, "Email already exists")
		}
		return nil, err
	}
	return s.issue(u)
}

// Login checks the credentials. An unknown email and a wrong password give
// the same Unauthenticated error.
func (s *AccountService) Login(ctx context.Context, email, password string) (*Session, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, invalidInput("email and password are required")
	}
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if u == nil || !utils.VerifyPassword(u.PasswordHash, password) {
		return nil, newError(ErrUnauthenticated, "Invalid credentials")
	}
	if !u.IsActive {
		return nil, newError(ErrForbidden, "Account is disabled")
	}
	return s.issue(u)
}

// Authenticate resolves a raw bearer token to its account.
func (s *AccountService) Authenticate(ctx context.Context, raw string) (*model.User, error) {
	if raw == "" {
		return nil, newError(ErrUnauthenticated, "Token is missing")
	}
	id, err := utils.ParseAccessToken(s.jwtSecret, raw)
	if err != nil {
		return nil, newError(ErrUnauthenticated, "Token is invalid")
	}
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, newError(ErrUnauthenticated, "Token is invalid")
	}
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, newError(ErrForbidden, "Account is disabled")
	}
	return u, nil
}

// ProfileInput is a partial profile update. A password change needs both
// the current and the new password.
type ProfileInput struct {
	FirstName       *string
	LastName        *string
	Company         *string
	Phone           *string
	CurrentPassword *string
	NewPassword     *string
}

func (s *AccountService) UpdateProfile(ctx context.Context, u *model.User, in ProfileInput) (*model.User, error) {
	patch := repository.UserPatch{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Company:   in.Company,
		Phone:     in.Phone,
	}
	if in.NewPassword != nil {
		if in.CurrentPassword == nil || !utils.VerifyPassword(u.PasswordHash, *in.CurrentPassword) {
			return nil, invalidInput("Current password is incorrect")
		}
		if *in.NewPassword == "" {
			return nil, invalidInput("newPassword must not be empty")
		}
		hash, err := hashPassword(*in.NewPassword, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		patch.PasswordHash = &hash
	}
	if err := s.users.Update(ctx, u.ID, patch); err != nil {
		return nil, err
	}
	return s.reload(ctx, u.ID)
}

func (s *AccountService) reload(ctx context.Context, id uint64) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("User")
	}
	return u, err
}

// DeleteAccount removes the caller's own account after checking the
// password. Orders and private messages go with it.
func (s *AccountService) DeleteAccount(ctx context.Context, u *model.User, password string) error {
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return invalidInput("Password is incorrect")
	}
	if err := s.users.Delete(ctx, u.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("User")
		}
		return err
	}
	return nil
}

func hashPassword(plain string, cost int) (string, error) {
	hash, err := utils.HashPassword(plain, cost)
	if errors.Is(err, utils.ErrPasswordTooLong) {
		return "", invalidInput("password must be at most 72 bytes")
	}
	return hash, err
}
