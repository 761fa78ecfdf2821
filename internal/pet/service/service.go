package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"homeward/internal/pet/models"
	"homeward/internal/pet/store"
	id "homeward/pkg/domain"
	dErrors "homeward/pkg/domain-errors"
	"homeward/pkg/platform/sentinel"
	"homeward/pkg/requestcontext"
)

// Service orchestrates the pet catalog. Listings are owned by the shelter
// that created them; only that shelter edits them.
type Service struct {
	pets store.Store
}

func New(pets store.Store) *Service {
	return &Service{pets: pets}
}

// CreateRequest carries the fields a shelter supplies when listing a pet.
type CreateRequest struct {
	Name        string
	Species     string
	Breed       string
	Description string
	AdoptionFee int
}

// Create lists a new pet for the calling shelter.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Pet, error) {
	if err := requireShelter(ctx); err != nil {
		return nil, err
	}
	shelterID := requestcontext.UserID(ctx)

	pet, err := models.NewPet(id.PetID(uuid.New()), shelterID, req.Name, req.Species, req.Breed, req.Description, req.AdoptionFee, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if err := s.pets.Create(ctx, pet); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create pet")
	}
	return pet, nil
}

// Get returns a single pet. The catalog is public to authenticated callers.
func (s *Service) Get(ctx context.Context, petID id.PetID) (*models.Pet, error) {
	pet, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return nil, wrapPetErr(err)
	}
	return pet, nil
}

// List returns the caller's own listings for shelters and available pets for
// everyone else.
func (s *Service) List(ctx context.Context) ([]*models.Pet, error) {
	if requestcontext.Role(ctx) == id.RoleShelter {
		pets, err := s.pets.ListByShelter(ctx, requestcontext.UserID(ctx))
		if err != nil {
			return nil, wrapPetErr(err)
		}
		return pets, nil
	}
	pets, err := s.pets.ListAvailable(ctx)
	if err != nil {
		return nil, wrapPetErr(err)
	}
	return pets, nil
}

// SetStatus is the owning shelter's manual status edit. Approval-driven
// status changes go through the application lifecycle service instead.
func (s *Service) SetStatus(ctx context.Context, petID id.PetID, next models.Status) (*models.Pet, error) {
	if err := requireShelter(ctx); err != nil {
		return nil, err
	}

	pet, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return nil, wrapPetErr(err)
	}
	if pet.ShelterID != requestcontext.UserID(ctx) {
		return nil, dErrors.New(dErrors.CodeForbidden, "pet belongs to another shelter")
	}

	pet.Status = next
	pet.UpdatedAt = requestcontext.Now(ctx)
	if err := s.pets.Update(ctx, pet); err != nil {
		return nil, wrapPetErr(err)
	}
	return pet, nil
}

func requireShelter(ctx context.Context) error {
	if requestcontext.Role(ctx) != id.RoleShelter {
		return dErrors.New(dErrors.CodeForbidden, "only shelters may manage pet listings")
	}
	return nil
}

func wrapPetErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "pet not found")
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "pet store failure")
}
