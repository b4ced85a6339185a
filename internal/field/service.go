// Package field manages the inventory of bookable fields.  Errors use the
// booking error taxonomy so handlers map them the same way.
package field

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/booking"
	"github.com/Babyhex7/Web-Booking-Lapangan-Bola/internal/model"
)

// Repository is the persistence needed by Service.  Lookups of a missing
// row return sql.ErrNoRows.
type Repository interface {
	List(ctx context.Context, f model.FieldFilter) ([]model.Field, error)
	GetByID(ctx context.Context, id uint64) (model.Field, error)
	Create(ctx context.Context, f *model.Field) error
	Update(ctx context.Context, f *model.Field) error
	SetStatus(ctx context.Context, id uint64, status string) error
	Delete(ctx context.Context, id uint64) error
}

// Invalidator drops cached public listings after a mutation.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// Service implements field listing and administration.
type Service struct {
	repo  Repository
	cache Invalidator
	log   *zap.Logger
}

// NewService returns a Service.  cache and log may be nil.
func NewService(repo Repository, cache Invalidator, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{repo: repo, cache: cache, log: log}
}

// Input is the writable part of a field.  Nil pointers leave the current
// value untouched on Update; Create requires Name and HourlyRate.
type Input struct {
	Name        *string
	Description *string
	HourlyRate  *decimal.Decimal
	PhotoURLs   []string
	Facilities  []string
	Status      *string
}

const minNameLen = 3

// List returns fields matching f, newest first.
func (s *Service) List(ctx context.Context, f model.FieldFilter) ([]model.Field, error) {
	if f.Status != "" && !validStatus(f.Status) {
		return nil, fmt.Errorf("%w: status must be active or inactive", booking.ErrValidation)
	}
	out, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, booking.DataAccess("list fields", err)
	}
	return out, nil
}

// Get returns one field.
func (s *Service) Get(ctx context.Context, id uint64) (model.Field, error) {
	f, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return model.Field{}, s.mapErr("get field", id, err)
	}
	return f, nil
}

// Create adds a field.  Status defaults to active.
func (s *Service) Create(ctx context.Context, in Input) (model.Field, error) {
	if in.Name == nil || in.HourlyRate == nil {
		return model.Field{}, fmt.Errorf("%w: name and hourly_rate are required", booking.ErrValidation)
	}
	f := model.Field{Status: model.FieldActive, PhotoURLs: []string{}, Facilities: []string{}}
	if err := apply(&f, in); err != nil {
		return model.Field{}, err
	}
	if err := s.repo.Create(ctx, &f); err != nil {
		return model.Field{}, booking.DataAccess("create field", err)
	}
	s.log.Info("field created", zap.Uint64("field_id", f.ID), zap.String("name", f.Name))
	s.invalidate(ctx)
	return f, nil
}

// Update applies the non-nil parts of in to field id.
func (s *Service) Update(ctx context.Context, id uint64, in Input) (model.Field, error) {
	f, err := s.Get(ctx, id)
	if err != nil {
		return model.Field{}, err
	}
	if err := apply(&f, in); err != nil {
		return model.Field{}, err
	}
	if err := s.repo.Update(ctx, &f); err != nil {
		return model.Field{}, s.mapErr("update field", id, err)
	}
	s.log.Info("field updated", zap.Uint64("field_id", id))
	s.invalidate(ctx)
	return f, nil
}

// ToggleStatus flips a field between active and inactive.
func (s *Service) ToggleStatus(ctx context.Context, id uint64) (model.Field, error) {
	f, err := s.Get(ctx, id)
	if err != nil {
		return model.Field{}, err
	}
	next := model.FieldInactive
	if f.Status != model.FieldActive {
		next = model.FieldActive
	}
	if err := s.repo.SetStatus(ctx, id, next); err != nil {
		return model.Field{}, s.mapErr("set field status", id, err)
	}
	f.Status = next
	s.log.Info("field status toggled", zap.Uint64("field_id", id), zap.String("status", next))
	s.invalidate(ctx)
	return f, nil
}

// Delete removes a field together with all of its reservations.
func (s *Service) Delete(ctx context.Context, id uint64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.mapErr("delete field", id, err)
	}
	s.log.Warn("field deleted with its reservations", zap.Uint64("field_id", id))
	s.invalidate(ctx)
	return nil
}

func apply(f *model.Field, in Input) error {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if len([]rune(name)) < minNameLen {
			return fmt.Errorf("%w: name must be at least %d characters", booking.ErrValidation, minNameLen)
		}
		f.Name = name
	}
	if in.Description != nil {
		f.Description = strings.TrimSpace(*in.Description)
	}
	if in.HourlyRate != nil {
		if !in.HourlyRate.IsPositive() {
			return fmt.Errorf("%w: hourly_rate must be greater than zero", booking.ErrValidation)
		}
		f.HourlyRate = in.HourlyRate.Round(2)
	}
	if in.PhotoURLs != nil {
		f.PhotoURLs = in.PhotoURLs
	}
	if in.Facilities != nil {
		f.Facilities = in.Facilities
	}
	if in.Status != nil {
		if !validStatus(*in.Status) {
			return fmt.Errorf("%w: status must be active or inactive", booking.ErrValidation)
		}
		f.Status = *in.Status
	}
	return nil
}

func validStatus(s string) bool { return s == model.FieldActive || s == model.FieldInactive }

func (s *Service) mapErr(op string, id uint64, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: field %d", booking.ErrNotFound, id)
	}
	return booking.DataAccess(op, err)
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.log.Warn("field cache invalidation failed", zap.Error(err))
	}
}
