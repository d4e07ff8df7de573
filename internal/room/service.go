package room

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nekogravitycat/room-booking-backend/internal/logging"
	"github.com/nekogravitycat/room-booking-backend/internal/pkg/apperror"
)

type CreateRequest struct {
	Name         string
	Capacity     int
	PricePerHour *float64
	KeyFeatures  *string
}

type UpdateRequest struct {
	Name         *string
	Capacity     *int
	PricePerHour *float64
	KeyFeatures  *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Room, error)
	GetByID(ctx context.Context, id int64) (*Room, error)
	List(ctx context.Context, filter Filter) ([]*Room, error)
	Update(ctx context.Context, id int64, req UpdateRequest) (*Room, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) Service {
	return &service{
		repo:   repo,
		logger: logging.Or(logger).With("service", "room"),
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Room, error) {
	name := strings.TrimSpace(req.Name)

	var violations []string
	if name == "" {
		violations = append(violations, MsgNameRequired)
	}
	if req.Capacity <= 0 {
		violations = append(violations, MsgCapacityPositive)
	}
	if req.PricePerHour != nil && *req.PricePerHour <= 0 {
		violations = append(violations, MsgPricePositive)
	}
	if len(violations) > 0 {
		return nil, apperror.Validation(violations...)
	}

	if err := s.ensureNameFree(ctx, name); err != nil {
		return nil, err
	}

	r := &Room{
		Name:         name,
		Capacity:     req.Capacity,
		PricePerHour: req.PricePerHour,
		KeyFeatures:  req.KeyFeatures,
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "room created", "room_id", r.ID, "name", r.Name)
	return r, nil
}

func (s *service) GetByID(ctx context.Context, id int64) (*Room, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Room, error) {
	filter.Feature = strings.TrimSpace(filter.Feature)
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id int64, req UpdateRequest) (*Room, error) {
	var violations []string
	var name string
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
		if name == "" {
			violations = append(violations, MsgNameEmpty)
		}
	}
	if req.Capacity != nil && *req.Capacity <= 0 {
		violations = append(violations, MsgCapacityPositive)
	}
	if req.PricePerHour != nil && *req.PricePerHour <= 0 {
		violations = append(violations, MsgPricePositive)
	}
	if len(violations) > 0 {
		return nil, apperror.Validation(violations...)
	}

	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && name != r.Name {
		if err := s.ensureNameFree(ctx, name); err != nil {
			return nil, err
		}
		r.Name = name
	}
	if req.Capacity != nil {
		r.Capacity = *req.Capacity
	}
	if req.PricePerHour != nil {
		r.PricePerHour = req.PricePerHour
	}
	if req.KeyFeatures != nil {
		r.KeyFeatures = req.KeyFeatures
	}

	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "room updated", "room_id", r.ID, "name", r.Name)
	return r, nil
}

func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "room deleted", "room_id", id)
	return nil
}

func (s *service) ensureNameFree(ctx context.Context, name string) error {
	_, err := s.repo.GetByName(ctx, name)
	if err == nil {
		return ErrNameAlreadyExists
	}
	if !errors.Is(err, ErrNotFound) {
		return fmt.Errorf("failed to check room name: %w", err)
	}
	return nil
}
