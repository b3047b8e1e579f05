package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"roombooking/internal/pkg/validator"
)

// User management for admins. These do not issue tokens.

func (s *Service) ListUsers(ctx context.Context) ([]User, error) {
	return s.users.List(ctx)
}

func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	req.Role = strings.TrimSpace(req.Role)
	if errs := validator.Validate(req); errs != nil {
		return nil, validationErr(errs)
	}
	if len(req.Password) < minPasswordLength {
		return nil, ErrWeakPassword
	}

	role := RoleServant
	if req.Role != "" {
		role = UserRole(req.Role)
	}

	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	user := &User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"user_id": user.ID, "role": string(role)}).Info("user created by admin")
	return user, nil
}

// UpdateUser applies req to the account id on behalf of actorID. Admins
// cannot change their own role.
func (s *Service) UpdateUser(ctx context.Context, actorID, id string, req UpdateUserRequest) (*User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrMissingField
		}
		user.Name = name
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if errs := validator.Var(email, "required,email"); errs != nil {
			return nil, ErrInvalidEmail
		}
		if email != user.Email {
			exists, err := s.users.ExistsByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, ErrEmailAlreadyExists
			}
		}
		user.Email = email
	}
	if req.Role != nil {
		role := UserRole(strings.TrimSpace(*req.Role))
		if !role.Valid() {
			return nil, ErrInvalidRole
		}
		if actorID == id && role != user.Role {
			return nil, ErrChangeOwnRole
		}
		user.Role = role
	}
	if req.Password != nil {
		if len(*req.Password) < minPasswordLength {
			return nil, ErrWeakPassword
		}
		hash, err := s.HashPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	user.UpdatedAt = s.now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes an account. Reservations made by it are kept.
func (s *Service) DeleteUser(ctx context.Context, actorID, id string) error {
	if actorID == id {
		return ErrDeleteSelf
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"user_id": id, "actor_id": actorID}).Info("user deleted")
	return nil
}

func validationErr(errs map[string]string) error {
	if _, ok := errs["role"]; ok {
		return ErrInvalidRole
	}
	if len(errs) == 1 && errs["email"] == "email" {
		return ErrInvalidEmail
	}
	return ErrMissingField
}
