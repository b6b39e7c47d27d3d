package store

import (
	"errors"
	"sync"

	"github.com/uniplay/tournament-engine/models"
)

var ErrTournamentNotFound = errors.New("tournament not found")

// TournamentStore holds tournament records by id, handed out as copies.
type TournamentStore struct {
	mu          sync.RWMutex
	tournaments map[string]*models.Tournament
}

func NewTournamentStore() *TournamentStore {
	return &TournamentStore{tournaments: make(map[string]*models.Tournament)}
}

func (s *TournamentStore) Insert(t *models.Tournament) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tournaments[t.ID] = t.Clone()
}

func (s *TournamentStore) Get(id string) (*models.Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tournaments[id]
	if !ok {
		return nil, ErrTournamentNotFound
	}
	return t.Clone(), nil
}

// Update runs fn on a copy of the record and commits it when fn succeeds.
func (s *TournamentStore) Update(id string, fn func(t *models.Tournament) error) (*models.Tournament, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tournaments[id]
	if !ok {
		return nil, ErrTournamentNotFound
	}
	c := t.Clone()
	if err := fn(c); err != nil {
		return nil, err
	}
	s.tournaments[id] = c
	return c.Clone(), nil
}
