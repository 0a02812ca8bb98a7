package session

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mraditya/splitbill/internal/receipt"
	"github.com/mraditya/splitbill/internal/record"
	"github.com/mraditya/splitbill/internal/split"
)

// Common errors
var (
	ErrSessionNotFound = errors.New("session not found")
	ErrEmptyName       = errors.New("participant name cannot be empty")
	// ErrStateUnchanged maps the engine's silent no-op onto the API: the
	// requested mutation was rejected and nothing changed.
	ErrStateUnchanged = errors.New("operation rejected, session state unchanged")
)

// Service holds the live split sessions. Sessions live in memory only;
// a finished split is persisted through the record service, and a stored
// record cannot be reopened for editing.
type Service struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*LiveSession

	records *record.Service
}

// NewService creates a new session service with the record service injected
// for saving finished splits.
func NewService(records *record.Service) *Service {
	return &Service{
		sessions: make(map[uuid.UUID]*LiveSession),
		records:  records,
	}
}

// Create starts a split session from a receipt document.
func (s *Service) Create(req *CreateSessionRequest) (*SessionResponse, error) {
	conv, err := receipt.ParseConvention(req.PriceConvention)
	if err != nil {
		return nil, err
	}

	doc := req.Receipt
	doc.Normalize()

	ls := &LiveSession{
		ID:        uuid.New(),
		CreatedAt: time.Now().UTC(),
		engine:    split.NewSession(&doc, conv),
	}

	s.mu.Lock()
	s.sessions[ls.ID] = ls
	s.mu.Unlock()

	return ls.toResponse(), nil
}

// Get returns the full state of a session.
func (s *Service) Get(id uuid.UUID) (*SessionResponse, error) {
	ls, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.toResponse(), nil
}

// List returns summaries of all open sessions, newest first.
func (s *Service) List() []*SessionSummary {
	s.mu.RLock()
	sessions := make([]*LiveSession, 0, len(s.sessions))
	for _, ls := range s.sessions {
		sessions = append(sessions, ls)
	}
	s.mu.RUnlock()

	sort.Slice(sessions, func(i, j int) bool {
		return sessions[i].CreatedAt.After(sessions[j].CreatedAt)
	})

	summaries := make([]*SessionSummary, len(sessions))
	for i, ls := range sessions {
		ls.mu.Lock()
		summaries[i] = ls.toSummary()
		ls.mu.Unlock()
	}
	return summaries
}

// Delete discards a live session.
func (s *Service) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// AddParticipant seats a participant and returns the recalculated state.
func (s *Service) AddParticipant(id uuid.UUID, name string) (*SessionResponse, error) {
	return s.mutate(id, func(eng *split.Session) error {
		if eng.AddParticipant(name) == nil {
			return ErrEmptyName
		}
		return nil
	})
}

// RemoveParticipant removes a participant; their direct units return to
// the pool and they are stripped from every share group first.
func (s *Service) RemoveParticipant(id, participantID uuid.UUID) (*SessionResponse, error) {
	return s.mutate(id, func(eng *split.Session) error {
		if !eng.RemoveParticipant(participantID) {
			return ErrStateUnchanged
		}
		return nil
	})
}

// Assign moves an unassigned unit into a participant's direct set.
func (s *Service) Assign(id, unitID, participantID uuid.UUID) (*SessionResponse, error) {
	return s.mutate(id, func(eng *split.Session) error {
		if !eng.AssignDirectly(unitID, participantID) {
			return ErrStateUnchanged
		}
		return nil
	})
}

// Unassign moves a directly-assigned unit back to the pool.
func (s *Service) Unassign(id, unitID, participantID uuid.UUID) (*SessionResponse, error) {
	return s.mutate(id, func(eng *split.Session) error {
		if !eng.UnassignDirect(unitID, participantID) {
			return ErrStateUnchanged
		}
		return nil
	})
}

// Share splits an unassigned unit among the given participants.
func (s *Service) Share(id, unitID uuid.UUID, participantIDs []uuid.UUID) (*SessionResponse, error) {
	return s.mutate(id, func(eng *split.Session) error {
		if eng.ShareUnit(unitID, participantIDs) == nil {
			return ErrStateUnchanged
		}
		return nil
	})
}

// UpdateSharers replaces a share group's sharer set.
func (s *Service) UpdateSharers(id, shareID uuid.UUID, participantIDs []uuid.UUID) (*SessionResponse, error) {
	return s.mutate(id, func(eng *split.Session) error {
		if !eng.UpdateSharers(shareID, participantIDs) {
			return ErrStateUnchanged
		}
		return nil
	})
}

// Unshare dissolves a share group; its unit returns to the pool.
func (s *Service) Unshare(id, shareID uuid.UUID) (*SessionResponse, error) {
	return s.mutate(id, func(eng *split.Session) error {
		if !eng.Unshare(shareID) {
			return ErrStateUnchanged
		}
		return nil
	})
}

// Save projects the session into a split record and persists it. The
// session stays open; saving is a read of the ledger state, not a close.
func (s *Service) Save(ctx context.Context, id uuid.UUID) (*record.SplitRecord, error) {
	ls, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return s.records.SaveSession(ctx, ls.engine)
}

// lookup finds a live session by id.
func (s *Service) lookup(id uuid.UUID) (*LiveSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ls, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return ls, nil
}

// mutate runs an engine operation under the session's lock and snapshots
// the resulting state before releasing it.
func (s *Service) mutate(id uuid.UUID, op func(*split.Session) error) (*SessionResponse, error) {
	ls, err := s.lookup(id)
	if err != nil {
		return nil, err
	}
	ls.mu.Lock()
	defer ls.mu.Unlock()
	if err := op(ls.engine); err != nil {
		return nil, err
	}
	return ls.toResponse(), nil
}
