package service

import (
	"context"

	"pyqbank/internal/apperr"
	"pyqbank/internal/model"
	"pyqbank/internal/repository"
)

// SubjectService exposes the controlled subject/topic taxonomy.
type SubjectService struct {
	subjects repository.SubjectRepo
}

func NewSubjectService(subjects repository.SubjectRepo) *SubjectService {
	return &SubjectService{subjects: subjects}
}

// GetActive returns the active taxonomy in display order.
func (s *SubjectService) GetActive(ctx context.Context) ([]*model.Subject, error) {
	return s.subjects.GetActive(ctx)
}

// GetTopics returns the active topics of one subject.
func (s *SubjectService) GetTopics(ctx context.Context, name string) ([]model.Topic, error) {
	subject, err := s.subjects.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if subject == nil {
		return nil, apperr.ErrNotFound
	}
	return subject.ActiveTopics(), nil
}

// Seed bootstraps the fixed taxonomy. It is an explicit operator command and a
// no-op (ErrConflict) when the collection already has data.
func (s *SubjectService) Seed(ctx context.Context) (int, error) {
	return s.subjects.Seed(ctx, DefaultTaxonomy())
}
