package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/nekogravitycat/room-booking-backend/internal/logging"
	"github.com/nekogravitycat/room-booking-backend/internal/pkg/apperror"
)

type CreateRequest struct {
	Email string
	Name  string
}

// UpdateRequest carries optional fields; nil means "leave unchanged".
type UpdateRequest struct {
	Email *string
	Name  *string
}

// Service defines business logic related to users.
type Service interface {
	Create(ctx context.Context, req CreateRequest) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Update(ctx context.Context, id int64, req UpdateRequest) (*User, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService creates a new user Service.
func NewService(repo Repository, logger *slog.Logger) Service {
	return &service{
		repo:   repo,
		logger: logging.Or(logger).With("service", "user"),
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*User, error) {
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)

	var violations []string
	if !validEmail(email) {
		violations = append(violations, ErrInvalidEmail.Message)
	}
	if name == "" {
		violations = append(violations, ErrNameRequired.Message)
	}
	if len(violations) > 0 {
		return nil, apperror.Validation(violations...)
	}

	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}

	u := &User{
		Email: email,
		Name:  name,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user created", "user_id", u.ID)
	return u, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}

func (s *service) Update(ctx context.Context, id int64, req UpdateRequest) (*User, error) {
	var violations []string
	var email, name string
	if req.Email != nil {
		email = normalizeEmail(*req.Email)
		if !validEmail(email) {
			violations = append(violations, ErrInvalidEmail.Message)
		}
	}
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if name == "" {
			violations = append(violations, ErrNameEmpty.Message)
		}
	}
	if len(violations) > 0 {
		return nil, apperror.Validation(violations...)
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Uniqueness is only re-checked when the email actually changes.
	if req.Email != nil && email != u.Email {
		if err := s.ensureEmailFree(ctx, email); err != nil {
			return nil, err
		}
		u.Email = email
	}
	if req.Name != nil {
		u.Name = name
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user updated", "user_id", u.ID)
	return u, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "user deleted", "user_id", id)
	return nil
}

func (s *service) ensureEmailFree(ctx context.Context, email string) error {
	_, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return ErrEmailAlreadyUsed
	}
	if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to check existing email: %w", err)
	}
	return nil
}

// normalizeEmail trims spaces and lowercases the email.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

var validate = validator.New()

// validEmail reports whether email is a bare address with a dotted domain.
func validEmail(email string) bool {
	return validate.Var(email, "required,email") == nil
}
