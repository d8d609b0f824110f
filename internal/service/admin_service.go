package service

import (
	"context"
	"errors"
	"strings"

	"github.com/iliyamo/buildrr-backend/internal/model"
	"github.com/iliyamo/buildrr-backend/internal/repository"
)

// AdminService is cross-account user management.
type AdminService struct {
	users      UserStore
	bcryptCost int
}

func NewAdminService(users UserStore, bcryptCost int) *AdminService {
	return &AdminService{users: users, bcryptCost: bcryptCost}
}

type AdminUserInput struct {
	RegisterInput
	Role string
}

type AdminUserUpdate struct {
	FirstName *string
	LastName  *string
	Email     *string
	Company   *string
	Phone     *string
	Role      *string
	IsActive  *bool
	Password  *string
}

func parseRole(raw string) (model.Role, error) {
	r, ok := model.ParseRole(raw)
	if !ok {
		return "", invalidInput("role must be member or admin")
	}
	return r, nil
}

func (s *AdminService) ListUsers(ctx context.Context) ([]*model.User, error) {
	return s.users.List(ctx)
}

func (s *AdminService) GetUser(ctx context.Context, id uint64) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound("User")
	}
	return u, err
}

// CreateUser adds an account with an explicit role, member by default.
func (s *AdminService) CreateUser(ctx context.Context, in AdminUserInput) (*model.User, error) {
	role := model.RoleMember
	if in.Role != "" {
		r, err := parseRole(in.Role)
		if err != nil {
			return nil, err
		}
		role = r
	}
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
		Role:         role,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, newError(ErrConflict, "Email already exists")
		}
		return nil, err
	}
	return u, nil
}

// UpdateUser applies a partial change to any account. Email uniqueness is
// enforced by the store.
func (s *AdminService) UpdateUser(ctx context.Context, id uint64, in AdminUserUpdate) (*model.User, error) {
	patch := repository.UserPatch{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Company:   in.Company,
		Phone:     in.Phone,
		IsActive:  in.IsActive,
	}
	if in.Email != nil {
		if !validEmail(*in.Email) {
			return nil, invalidInput("A valid email is required")
		}
		patch.Email = in.Email
	}
	if in.Role != nil {
		r, err := parseRole(*in.Role)
		if err != nil {
			return nil, err
		}
		patch.Role = &r
	}
	if in.Password != nil {
		if *in.Password == "" {
			return nil, invalidInput("password must not be empty")
		}
		hash, err := hashPassword(*in.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		patch.PasswordHash = &hash
	}
	if _, err := s.GetUser(ctx, id); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, id, patch); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, newError(ErrConflict, "Email already exists")
		}
		return nil, err
	}
	return s.GetUser(ctx, id)
}

// DeleteUser removes another account with its orders and messages. An
// admin cannot delete itself through this path.
func (s *AdminService) DeleteUser(ctx context.Context, actor *model.User, id uint64) error {
	if actor.ID == id {
		return invalidInput("Cannot delete your own account")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return notFound("User")
		}
		return err
	}
	return nil
}
