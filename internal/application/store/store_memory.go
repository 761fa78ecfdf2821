package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"homeward/internal/application/models"
	id "homeward/pkg/domain"
	"homeward/pkg/platform/sentinel"
)

// InMemory stores applications in memory for tests/dev.
type InMemory struct {
	mu   sync.RWMutex
	apps map[id.ApplicationID]*models.Application
}

// NewInMemory constructs an empty in-memory application store.
func NewInMemory() *InMemory {
	return &InMemory{apps: make(map[id.ApplicationID]*models.Application)}
}

// CreateIfNoActive scans for an active duplicate and inserts under one write
// lock, so racing creates for the same (pet, applicant) pair serialize here.
func (s *InMemory) CreateIfNoActive(_ context.Context, app *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.apps {
		if existing.PetID == app.PetID && existing.ApplicantID == app.ApplicantID && existing.Status.IsActive() {
			return fmt.Errorf("active application exists for pet and applicant: %w", sentinel.ErrConflict)
		}
	}
	if _, ok := s.apps[app.ID]; ok {
		return fmt.Errorf("application already exists: %w", sentinel.ErrConflict)
	}
	s.apps[app.ID] = cloneApp(app)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, appID id.ApplicationID) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	app, ok := s.apps[appID]
	if !ok {
		return nil, fmt.Errorf("application not found: %w", sentinel.ErrNotFound)
	}
	return cloneApp(app), nil
}

func (s *InMemory) UpdateStatusIfCurrent(_ context.Context, appID id.ApplicationID, expected, next models.Status, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[appID]
	if !ok {
		return false, fmt.Errorf("application not found: %w", sentinel.ErrNotFound)
	}
	if app.Status != expected {
		return false, nil
	}
	app.Status = next
	app.UpdatedAt = now
	return true, nil
}

func (s *InMemory) AppendNote(_ context.Context, appID id.ApplicationID, note models.Note, now time.Time) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[appID]
	if !ok {
		return nil, fmt.Errorf("application not found: %w", sentinel.ErrNotFound)
	}
	app.Notes = append(app.Notes, note)
	app.UpdatedAt = now
	return cloneApp(app), nil
}

func (s *InMemory) SetMeetGreet(_ context.Context, appID id.ApplicationID, mg models.MeetGreet, now time.Time) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[appID]
	if !ok {
		return nil, fmt.Errorf("application not found: %w", sentinel.ErrNotFound)
	}
	app.MeetGreet = &mg
	app.UpdatedAt = now
	return cloneApp(app), nil
}

func (s *InMemory) ListByShelter(_ context.Context, shelterID id.UserID, status models.Status) ([]*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter(func(a *models.Application) bool {
		return a.ShelterID == shelterID && (status == "" || a.Status == status)
	}), nil
}

func (s *InMemory) ListByApplicant(_ context.Context, applicantID id.UserID, status models.Status) ([]*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter(func(a *models.Application) bool {
		return a.ApplicantID == applicantID && (status == "" || a.Status == status)
	}), nil
}

func (s *InMemory) filter(keep func(*models.Application) bool) []*models.Application {
	var out []*models.Application
	for _, app := range s.apps {
		if keep(app) {
			out = append(out, cloneApp(app))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func cloneApp(a *models.Application) *models.Application {
	cp := *a
	cp.Notes = append([]models.Note(nil), a.Notes...)
	if a.MeetGreet != nil {
		mg := *a.MeetGreet
		cp.MeetGreet = &mg
	}
	if a.Questionnaire != nil {
		cp.Questionnaire = append([]byte(nil), a.Questionnaire...)
	}
	return &cp
}
