package store

import (
	"context"

	"homeward/internal/pet/models"
	id "homeward/pkg/domain"
)

// Error Contract:
// All store methods follow this error pattern:
// - Return sentinel.ErrNotFound (wrapped) when the requested pet does not exist
// - Return nil for successful operations
// - Return wrapped errors with context for infrastructure failures

//go:generate mockgen -source=store.go -destination=mocks/mocks.go -package=mocks Store

// Store is the pet availability and catalog contract. The lifecycle service
// depends on GetByID and TrySetStatus only; the catalog surface uses the rest.
type Store interface {
	Create(ctx context.Context, pet *models.Pet) error
	GetByID(ctx context.Context, petID id.PetID) (*models.Pet, error)
	Update(ctx context.Context, pet *models.Pet) error
	ListByShelter(ctx context.Context, shelterID id.UserID) ([]*models.Pet, error)
	ListAvailable(ctx context.Context) ([]*models.Pet, error)

	// TrySetStatus is a compare-and-set on the pet's status. It returns
	// false (and no error) when the current status does not match expected,
	// letting callers detect a concurrently-changed pet and abort.
	TrySetStatus(ctx context.Context, petID id.PetID, expected, next models.Status) (bool, error)
}
