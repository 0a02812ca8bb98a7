package split

import (
	"strings"

	"github.com/google/uuid"

	"github.com/mraditya/splitbill/internal/receipt"
)

// Session owns the allocation state for one receipt: the universe of
// assignable units, the unassigned pool, the participants with their direct
// assignments, and the share groups. Every unit is in exactly one of
// {unassigned, one participant's direct set, one share group} at all times.
//
// All cross-references are by id through the session's unit arena; no unit
// state lives on Participant or ShareGroup beyond the id sets, so removing
// either can never leave a dangling object reference.
//
// Session is not safe for concurrent use; callers serialize access.
type Session struct {
	doc   *receipt.Document
	units map[uuid.UUID]receipt.AssignableUnit
	order []uuid.UUID // unit ids in expansion order, for stable output

	unassigned   map[uuid.UUID]struct{}
	participants []*Participant
	shares       []*ShareGroup

	// Receipt-declared amounts used by recalculation. The subtotal is the
	// receipt's, not the sum of unit prices; tax shares stay proportional
	// to the original document even if line items don't add up.
	subtotal float64
	tax      float64
}

// Participant is one person on the bill. Subtotal and TaxShare are derived
// fields, overwritten in full on every recalculation.
type Participant struct {
	ID       uuid.UUID
	Name     string
	Subtotal float64
	TaxShare float64

	direct map[uuid.UUID]struct{}
}

// TotalOwed is the participant's subtotal plus tax share, full precision.
// Rounding is a presentation concern.
func (p *Participant) TotalOwed() float64 {
	return p.Subtotal + p.TaxShare
}

// Holds reports whether the unit is directly assigned to this participant.
func (p *Participant) Holds(unitID uuid.UUID) bool {
	_, ok := p.direct[unitID]
	return ok
}

// DirectCount returns the number of directly assigned units.
func (p *Participant) DirectCount() int {
	return len(p.direct)
}

// ShareGroup records one unit being split evenly among its sharers.
// Invariant: a live group always has at least two sharers; collapsing to
// one or zero dissolves the group and returns the unit to the pool.
type ShareGroup struct {
	ID     uuid.UUID
	UnitID uuid.UUID

	sharers map[uuid.UUID]struct{}
}

// Contains reports whether the participant is one of the sharers.
func (g *ShareGroup) Contains(participantID uuid.UUID) bool {
	_, ok := g.sharers[participantID]
	return ok
}

// SharerCount returns the number of participants splitting the unit.
func (g *ShareGroup) SharerCount() int {
	return len(g.sharers)
}

// SharerIDs returns the sharer ids. Order is unspecified.
func (g *ShareGroup) SharerIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(g.sharers))
	for id := range g.sharers {
		ids = append(ids, id)
	}
	return ids
}

// NewSession expands the receipt into assignable units and starts with
// everything unassigned and nobody at the table. The document is treated as
// immutable from here on.
func NewSession(doc *receipt.Document, conv receipt.PriceConvention) *Session {
	s := &Session{
		doc:        doc,
		units:      make(map[uuid.UUID]receipt.AssignableUnit),
		unassigned: make(map[uuid.UUID]struct{}),
		subtotal:   float64(doc.Transaction.Subtotal),
		tax:        float64(doc.Transaction.Tax),
	}
	for _, u := range receipt.Expand(doc, conv) {
		s.units[u.ID] = u
		s.order = append(s.order, u.ID)
		s.unassigned[u.ID] = struct{}{}
	}
	return s
}

// Document returns the receipt this session was built from.
func (s *Session) Document() *receipt.Document {
	return s.doc
}

// Units returns all assignable units in expansion order.
func (s *Session) Units() []receipt.AssignableUnit {
	units := make([]receipt.AssignableUnit, 0, len(s.order))
	for _, id := range s.order {
		units = append(units, s.units[id])
	}
	return units
}

// Unit looks up a unit in the arena by id.
func (s *Session) Unit(id uuid.UUID) (receipt.AssignableUnit, bool) {
	u, ok := s.units[id]
	return u, ok
}

// IsUnassigned reports whether the unit is currently in the pool.
func (s *Session) IsUnassigned(unitID uuid.UUID) bool {
	_, ok := s.unassigned[unitID]
	return ok
}

// UnassignedValue sums the prices of all units still in the pool.
func (s *Session) UnassignedValue() float64 {
	var total float64
	for id := range s.unassigned {
		total += s.units[id].Price
	}
	return total
}

// Participants returns participants in the order they were added.
func (s *Session) Participants() []*Participant {
	return s.participants
}

// Participant looks up a participant by id.
func (s *Session) Participant(id uuid.UUID) *Participant {
	for _, p := range s.participants {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Shares returns the live share groups in creation order.
func (s *Session) Shares() []*ShareGroup {
	return s.shares
}

// Share looks up a share group by id.
func (s *Session) Share(id uuid.UUID) *ShareGroup {
	for _, g := range s.shares {
		if g.ID == id {
			return g
		}
	}
	return nil
}

// DirectUnits returns the units directly assigned to a participant, in
// expansion order.
func (s *Session) DirectUnits(participantID uuid.UUID) []receipt.AssignableUnit {
	p := s.Participant(participantID)
	if p == nil {
		return nil
	}
	var units []receipt.AssignableUnit
	for _, id := range s.order {
		if p.Holds(id) {
			units = append(units, s.units[id])
		}
	}
	return units
}

// SharesFor returns the share groups the participant belongs to.
func (s *Session) SharesFor(participantID uuid.UUID) []*ShareGroup {
	var groups []*ShareGroup
	for _, g := range s.shares {
		if g.Contains(participantID) {
			groups = append(groups, g)
		}
	}
	return groups
}

// SharePortion returns one sharer's cost for the group's unit, computed
// fresh from the current sharer count. A live group always has >= 2
// sharers, so the division is safe.
func (s *Session) SharePortion(g *ShareGroup) float64 {
	return s.units[g.UnitID].Price / float64(len(g.sharers))
}

// AddParticipant seats a new participant. Blank names are rejected with a
// nil return and no state change.
func (s *Session) AddParticipant(name string) *Participant {
	if strings.TrimSpace(name) == "" {
		return nil
	}
	p := &Participant{
		ID:     uuid.New(),
		Name:   name,
		direct: make(map[uuid.UUID]struct{}),
	}
	s.participants = append(s.participants, p)
	s.recalculate()
	return p
}

// RemoveParticipant takes a participant off the bill. Their direct units
// return to the unassigned pool, they are stripped from every share group,
// and any group left with fewer than two sharers dissolves. Both cleanups
// happen before the recalculation so it never sees a dangling id.
// Returns false (no-op) if the participant does not exist.
func (s *Session) RemoveParticipant(participantID uuid.UUID) bool {
	idx := -1
	for i, p := range s.participants {
		if p.ID == participantID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false
	}

	p := s.participants[idx]
	for unitID := range p.direct {
		s.unassigned[unitID] = struct{}{}
	}

	kept := s.shares[:0]
	for _, g := range s.shares {
		if g.Contains(participantID) {
			delete(g.sharers, participantID)
			if len(g.sharers) <= 1 {
				s.unassigned[g.UnitID] = struct{}{}
				continue
			}
		}
		kept = append(kept, g)
	}
	s.shares = kept

	s.participants = append(s.participants[:idx], s.participants[idx+1:]...)
	s.recalculate()
	return true
}

// AssignDirectly moves a unit from the unassigned pool into a participant's
// direct set. No-op (false) if the unit is not currently unassigned or the
// participant does not exist; callers are expected to only offer units from
// the pool.
func (s *Session) AssignDirectly(unitID, participantID uuid.UUID) bool {
	p := s.Participant(participantID)
	if p == nil {
		return false
	}
	if _, ok := s.unassigned[unitID]; !ok {
		return false
	}
	delete(s.unassigned, unitID)
	p.direct[unitID] = struct{}{}
	s.recalculate()
	return true
}

// UnassignDirect is the inverse of AssignDirectly. No-op (false) unless the
// unit is currently in that participant's direct set.
func (s *Session) UnassignDirect(unitID, participantID uuid.UUID) bool {
	p := s.Participant(participantID)
	if p == nil || !p.Holds(unitID) {
		return false
	}
	delete(p.direct, unitID)
	s.unassigned[unitID] = struct{}{}
	s.recalculate()
	return true
}

// ShareUnit splits an unassigned unit evenly among the given participants.
// Unknown participant ids are dropped; sharing needs at least two valid
// sharers (one sharer is a direct assignment, a distinct user action).
// Returns the new group, or nil on no-op.
func (s *Session) ShareUnit(unitID uuid.UUID, participantIDs []uuid.UUID) *ShareGroup {
	if _, ok := s.unassigned[unitID]; !ok {
		return nil
	}
	valid := s.validSharers(participantIDs)
	if len(valid) <= 1 {
		return nil
	}

	delete(s.unassigned, unitID)
	g := &ShareGroup{
		ID:      uuid.New(),
		UnitID:  unitID,
		sharers: valid,
	}
	s.shares = append(s.shares, g)
	s.recalculate()
	return g
}

// Unshare dissolves a share group; its unit goes back to the unassigned
// pool, never directly to a participant. No-op (false) on unknown id.
func (s *Session) Unshare(shareID uuid.UUID) bool {
	for i, g := range s.shares {
		if g.ID == shareID {
			s.unassigned[g.UnitID] = struct{}{}
			s.shares = append(s.shares[:i], s.shares[i+1:]...)
			s.recalculate()
			return true
		}
	}
	return false
}

// UpdateSharers replaces a group's sharer set with the valid subset of the
// given ids. Dropping to one or zero sharers dissolves the group, same as
// Unshare. No-op (false) on unknown share id.
func (s *Session) UpdateSharers(shareID uuid.UUID, participantIDs []uuid.UUID) bool {
	g := s.Share(shareID)
	if g == nil {
		return false
	}
	valid := s.validSharers(participantIDs)
	if len(valid) <= 1 {
		return s.Unshare(shareID)
	}
	g.sharers = valid
	s.recalculate()
	return true
}

// validSharers intersects the requested ids with the seated participants.
func (s *Session) validSharers(participantIDs []uuid.UUID) map[uuid.UUID]struct{} {
	valid := make(map[uuid.UUID]struct{})
	for _, id := range participantIDs {
		if s.Participant(id) != nil {
			valid[id] = struct{}{}
		}
	}
	return valid
}
