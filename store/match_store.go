package store

import (
	"bytes"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/uniplay/tournament-engine/models"
)

var ErrMatchNotFound = errors.New("match not found")

// MatchStore is the in-memory arena of match records, indexed by id.
//
// Records are stored by value and handed out as copies. Mutations go through
// UpdateMatches, which locks the affected ids in a stable order and applies
// the whole batch or nothing, so a read-check-write cycle against a shared
// downstream match is serialized across concurrent submitters. The structural
// mutex guards map membership; listing under its read lock yields a
// consistent snapshot because batch commits happen under the write lock.
type MatchStore struct {
	mu           sync.RWMutex
	matches      map[uuid.UUID]*models.Match
	byTournament map[string][]uuid.UUID

	lockMu sync.Mutex
	locks  map[uuid.UUID]*sync.Mutex
}

func NewMatchStore() *MatchStore {
	return &MatchStore{
		matches:      make(map[uuid.UUID]*models.Match),
		byTournament: make(map[string][]uuid.UUID),
		locks:        make(map[uuid.UUID]*sync.Mutex),
	}
}

// InsertMatches stores a freshly generated graph. Insertion order is kept per
// tournament so listings are deterministic.
func (s *MatchStore) InsertMatches(matches []*models.Match) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range matches {
		s.matches[m.ID] = m.Clone()
		s.byTournament[m.TournamentID] = append(s.byTournament[m.TournamentID], m.ID)
	}
}

// Get returns a copy of the match.
func (s *MatchStore) Get(id uuid.UUID) (*models.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.matches[id]
	if !ok {
		return nil, ErrMatchNotFound
	}
	return m.Clone(), nil
}

// ListByTournament returns copies of every match of the tournament in
// insertion (bracket construction) order.
func (s *MatchStore) ListByTournament(tournamentID string) []*models.Match {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.byTournament[tournamentID]
	out := make([]*models.Match, 0, len(ids))
	for _, id := range ids {
		if m, ok := s.matches[id]; ok {
			out = append(out, m.Clone())
		}
	}
	return out
}

// CountByTournament reports how many matches the tournament owns.
func (s *MatchStore) CountByTournament(tournamentID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byTournament[tournamentID])
}

// DeleteByTournament purges the tournament's match graph.
func (s *MatchStore) DeleteByTournament(tournamentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.byTournament[tournamentID] {
		delete(s.matches, id)
	}
	delete(s.byTournament, tournamentID)
}

// UpdateMatches runs fn over copies of the given matches and commits every
// copy back only when fn succeeds. The per-id locks are taken in sorted id
// order, so two concurrent updates touching the same downstream match cannot
// interleave their read-check-write cycles and cannot deadlock.
func (s *MatchStore) UpdateMatches(ids []uuid.UUID, fn func(batch map[uuid.UUID]*models.Match) error) error {
	ordered := dedupeSorted(ids)

	locks := make([]*sync.Mutex, 0, len(ordered))
	for _, id := range ordered {
		locks = append(locks, s.lockFor(id))
	}
	for _, l := range locks {
		l.Lock()
	}
	defer func() {
		for i := len(locks) - 1; i >= 0; i-- {
			locks[i].Unlock()
		}
	}()

	batch := make(map[uuid.UUID]*models.Match, len(ordered))
	s.mu.RLock()
	for _, id := range ordered {
		m, ok := s.matches[id]
		if !ok {
			s.mu.RUnlock()
			return ErrMatchNotFound
		}
		batch[id] = m.Clone()
	}
	s.mu.RUnlock()

	if err := fn(batch); err != nil {
		return err
	}

	// A DeleteByTournament may have purged the records between the snapshot
	// and the commit; writing the batch back would resurrect them. The batch
	// fails whole instead.
	s.mu.Lock()
	defer s.mu.Unlock()
	for id := range batch {
		if _, ok := s.matches[id]; !ok {
			return ErrMatchNotFound
		}
	}
	for id, m := range batch {
		s.matches[id] = m
	}
	return nil
}

func (s *MatchStore) lockFor(id uuid.UUID) *sync.Mutex {
	s.lockMu.Lock()
	defer s.lockMu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

func dedupeSorted(ids []uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i][:], out[j][:]) < 0
	})
	return out
}
