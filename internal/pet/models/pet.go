package models

import (
	"time"

	id "homeward/pkg/domain"
	dErrors "homeward/pkg/domain-errors"
)

// Status is a pet's adoption availability.
type Status string

const (
	StatusAvailable Status = "available"
	StatusPending   Status = "pending"
	StatusAdopted   Status = "adopted"
	StatusFostered  Status = "fostered"
)

// ParseStatus validates a pet status from external input.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusAvailable, StatusPending, StatusAdopted, StatusFostered:
		return Status(s), nil
	}
	return "", dErrors.New(dErrors.CodeValidation, "unknown pet status")
}

// Pet is a shelter-listed animal.
//
// Invariants:
//   - ShelterID is set at creation and never changes
//   - Status leaves "available" through the lifecycle service's conditional
//     write (approval cascade) or through the owning shelter's manual edit;
//     nothing else mutates it
type Pet struct {
	ID          id.PetID  `json:"id"`
	Name        string    `json:"name"`
	Species     string    `json:"species"`
	Breed       string    `json:"breed"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	ShelterID   id.UserID `json:"shelter_id"`
	AdoptionFee int       `json:"adoption_fee"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewPet constructs a pet listing with status available.
func NewPet(petID id.PetID, shelterID id.UserID, name, species, breed, description string, fee int, now time.Time) (*Pet, error) {
	if name == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "pet name is required")
	}
	if species == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "pet species is required")
	}
	if fee < 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "adoption fee must not be negative")
	}
	return &Pet{
		ID:          petID,
		Name:        name,
		Species:     species,
		Breed:       breed,
		Description: description,
		Status:      StatusAvailable,
		ShelterID:   shelterID,
		AdoptionFee: fee,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
