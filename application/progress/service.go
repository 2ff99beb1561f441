// Package progress tracks per-user lesson completion and study time.
package progress

import (
	"context"
	"time"

	"go.uber.org/zap"

	"coursehub-backend/application/ports"
	"coursehub-backend/domain/core/entities"
	apperrors "coursehub-backend/pkg/errors"
)

// Service manages user progress rows
type Service struct {
	repo   ports.ProgressRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a progress service
func NewService(repo ports.ProgressRepository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// ListForUser returns a user's full progress
func (s *Service) ListForUser(ctx context.Context, userID string) ([]entities.Progress, error) {
	return s.repo.ListByUser(ctx, userID)
}

// MarkCompleted records that the user finished a lesson; repeat calls
// keep the first completion time
func (s *Service) MarkCompleted(ctx context.Context, userID, lessonID, moduleID string, lessonIndex int) (*entities.Progress, error) {
	record, err := s.load(ctx, userID, lessonID, moduleID, lessonIndex)
	if err != nil {
		return nil, err
	}

	record.MarkCompleted(s.now())

	if err := s.repo.Upsert(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// AddTimeSpent accumulates study seconds against a lesson
func (s *Service) AddTimeSpent(ctx context.Context, userID, lessonID, moduleID string, lessonIndex, seconds int) (*entities.Progress, error) {
	if seconds <= 0 {
		return nil, apperrors.NewFieldValidationError("seconds", "time spent must be positive")
	}

	record, err := s.load(ctx, userID, lessonID, moduleID, lessonIndex)
	if err != nil {
		return nil, err
	}

	record.AddTimeSpent(seconds)

	if err := s.repo.Upsert(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Service) load(ctx context.Context, userID, lessonID, moduleID string, lessonIndex int) (*entities.Progress, error) {
	record, err := s.repo.Get(ctx, userID, lessonID)
	if err == nil {
		return record, nil
	}
	if !apperrors.IsNotFound(err) {
		return nil, err
	}

	return &entities.Progress{
		UserID:      userID,
		LessonID:    lessonID,
		ModuleID:    moduleID,
		LessonIndex: lessonIndex,
	}, nil
}
