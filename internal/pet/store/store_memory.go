package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"homeward/internal/pet/models"
	id "homeward/pkg/domain"
	"homeward/pkg/platform/sentinel"
)

// InMemory stores pets in memory for tests/dev.
type InMemory struct {
	mu   sync.RWMutex
	pets map[id.PetID]*models.Pet
}

// NewInMemory constructs an empty in-memory pet store.
func NewInMemory() *InMemory {
	return &InMemory{pets: make(map[id.PetID]*models.Pet)}
}

func (s *InMemory) Create(_ context.Context, pet *models.Pet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pets[pet.ID]; ok {
		return fmt.Errorf("pet already exists: %w", sentinel.ErrConflict)
	}
	s.pets[pet.ID] = clonePet(pet)
	return nil
}

func (s *InMemory) GetByID(_ context.Context, petID id.PetID) (*models.Pet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pet, ok := s.pets[petID]
	if !ok {
		return nil, fmt.Errorf("pet not found: %w", sentinel.ErrNotFound)
	}
	return clonePet(pet), nil
}

func (s *InMemory) Update(_ context.Context, pet *models.Pet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.pets[pet.ID]; !ok {
		return fmt.Errorf("pet not found: %w", sentinel.ErrNotFound)
	}
	s.pets[pet.ID] = clonePet(pet)
	return nil
}

func (s *InMemory) ListByShelter(_ context.Context, shelterID id.UserID) ([]*models.Pet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Pet
	for _, pet := range s.pets {
		if pet.ShelterID == shelterID {
			out = append(out, clonePet(pet))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *InMemory) ListAvailable(_ context.Context) ([]*models.Pet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Pet
	for _, pet := range s.pets {
		if pet.Status == models.StatusAvailable {
			out = append(out, clonePet(pet))
		}
	}
	sortNewestFirst(out)
	return out, nil
}

// TrySetStatus performs the compare-and-set under the write lock so two
// concurrent approvals of the same pet cannot both succeed.
func (s *InMemory) TrySetStatus(_ context.Context, petID id.PetID, expected, next models.Status) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pet, ok := s.pets[petID]
	if !ok {
		return false, fmt.Errorf("pet not found: %w", sentinel.ErrNotFound)
	}
	if pet.Status != expected {
		return false, nil
	}
	pet.Status = next
	return true, nil
}

func clonePet(p *models.Pet) *models.Pet {
	cp := *p
	return &cp
}

func sortNewestFirst(pets []*models.Pet) {
	sort.Slice(pets, func(i, j int) bool {
		return pets[i].CreatedAt.After(pets[j].CreatedAt)
	})
}
