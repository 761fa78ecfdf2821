// Package domain defines the typed identifiers shared across modules.
//
// IDs are distinct uuid.UUID newtypes so the compiler rejects cross-entity
// assignment (an ApplicationID can never be passed where a PetID is
// expected). Parse helpers enforce the trust-boundary invariant that IDs
// must be valid, non-empty, non-nil UUIDs.
package domain

import (
	"github.com/google/uuid"

	dErrors "homeward/pkg/domain-errors"
)

// UserID identifies an authenticated identity (adopter, foster, or shelter).
type UserID uuid.UUID

// PetID identifies a shelter-listed pet.
type PetID uuid.UUID

// ApplicationID identifies an adoption application.
type ApplicationID uuid.UUID

func (id UserID) String() string        { return uuid.UUID(id).String() }
func (id PetID) String() string         { return uuid.UUID(id).String() }
func (id ApplicationID) String() string { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id PetID) IsNil() bool         { return uuid.UUID(id) == uuid.Nil }
func (id ApplicationID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }

// MarshalText/UnmarshalText keep IDs as plain UUID strings in JSON.
func (id UserID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id *UserID) UnmarshalText(b []byte) error {
	parsed, err := ParseUserID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id PetID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id *PetID) UnmarshalText(b []byte) error {
	parsed, err := ParsePetID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id ApplicationID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id *ApplicationID) UnmarshalText(b []byte) error {
	parsed, err := ParseApplicationID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// ParseUserID parses and validates a user ID from its string form.
func ParseUserID(s string) (UserID, error) {
	parsed, err := parseUUID(s, "user id")
	return UserID(parsed), err
}

// ParsePetID parses and validates a pet ID from its string form.
func ParsePetID(s string) (PetID, error) {
	parsed, err := parseUUID(s, "pet id")
	return PetID(parsed), err
}

// ParseApplicationID parses and validates an application ID from its string form.
func ParseApplicationID(s string) (ApplicationID, error) {
	parsed, err := parseUUID(s, "application id")
	return ApplicationID(parsed), err
}

func parseUUID(s, label string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" is required")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" must be a valid UUID")
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, label+" must not be the nil UUID")
	}
	return parsed, nil
}
