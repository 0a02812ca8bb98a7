package record

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/mraditya/splitbill/internal/split"
)

// Common errors
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrNoParticipants = errors.New("cannot save a split with no participants")
)

// Service handles saved split record business logic
type Service struct {
	repo *Repository
}

// NewService creates a new record service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// SaveSession projects a live session into a record and stores it. A split
// with nobody on it is not worth saving. Unassigned units are allowed; the
// record simply captures the split as it stands.
func (s *Service) SaveSession(ctx context.Context, sess *split.Session) (*SplitRecord, error) {
	if len(sess.Participants()) == 0 {
		return nil, ErrNoParticipants
	}

	rec := FromSession(sess)
	if err := s.repo.Save(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// GetByID retrieves a saved record with its full tree
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*SplitRecord, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrRecordNotFound
	}
	return rec, nil
}

// List retrieves saved records, newest first
func (s *Service) List(ctx context.Context, page, perPage int) ([]*SplitRecord, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.List(ctx, perPage, offset)
}

// Delete removes a saved record
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rec == nil {
		return ErrRecordNotFound
	}
	return s.repo.Delete(ctx, id)
}
