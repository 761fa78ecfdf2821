package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"homeward/internal/pet/models"
	id "homeward/pkg/domain"
	"homeward/pkg/platform/sentinel"
)

// PostgresStore persists pets in PostgreSQL.
// This store is pure I/O. Ownership and availability rules belong in the services.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed pet store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const petColumns = `id, name, species, breed, description, status, shelter_id, adoption_fee, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, pet *models.Pet) error {
	query := `
		INSERT INTO pets (` + petColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query,
		pet.ID.String(),
		pet.Name,
		pet.Species,
		pet.Breed,
		pet.Description,
		string(pet.Status),
		pet.ShelterID.String(),
		pet.AdoptionFee,
		pet.CreatedAt,
		pet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create pet: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetByID(ctx context.Context, petID id.PetID) (*models.Pet, error) {
	query := `SELECT ` + petColumns + ` FROM pets WHERE id = $1`
	pet, err := scanPet(s.db.QueryRowContext(ctx, query, petID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("pet not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("get pet: %w", err)
	}
	return pet, nil
}

func (s *PostgresStore) Update(ctx context.Context, pet *models.Pet) error {
	query := `
		UPDATE pets
		SET name = $2, species = $3, breed = $4, description = $5, status = $6,
		    adoption_fee = $7, updated_at = $8
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query,
		pet.ID.String(),
		pet.Name,
		pet.Species,
		pet.Breed,
		pet.Description,
		string(pet.Status),
		pet.AdoptionFee,
		pet.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update pet: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update pet rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("pet not found: %w", sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) ListByShelter(ctx context.Context, shelterID id.UserID) ([]*models.Pet, error) {
	query := `SELECT ` + petColumns + ` FROM pets WHERE shelter_id = $1 ORDER BY created_at DESC`
	return s.queryPets(ctx, query, shelterID.String())
}

func (s *PostgresStore) ListAvailable(ctx context.Context) ([]*models.Pet, error) {
	query := `SELECT ` + petColumns + ` FROM pets WHERE status = $1 ORDER BY created_at DESC`
	return s.queryPets(ctx, query, string(models.StatusAvailable))
}

// TrySetStatus uses a conditional UPDATE so a pet whose status changed
// concurrently is left untouched and the caller sees false.
func (s *PostgresStore) TrySetStatus(ctx context.Context, petID id.PetID, expected, next models.Status) (bool, error) {
	query := `
		UPDATE pets
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`
	result, err := s.db.ExecContext(ctx, query, petID.String(), string(expected), string(next))
	if err != nil {
		return false, fmt.Errorf("try set pet status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("try set pet status rows affected: %w", err)
	}
	if rows == 0 {
		// Distinguish a missing pet from a lost CAS for callers that care.
		var exists bool
		if err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM pets WHERE id = $1)`, petID.String()).Scan(&exists); err != nil {
			return false, fmt.Errorf("try set pet status exists check: %w", err)
		}
		if !exists {
			return false, fmt.Errorf("pet not found: %w", sentinel.ErrNotFound)
		}
		return false, nil
	}
	return true, nil
}

func (s *PostgresStore) queryPets(ctx context.Context, query string, args ...any) ([]*models.Pet, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list pets: %w", err)
	}
	defer rows.Close()

	var out []*models.Pet
	for rows.Next() {
		pet, err := scanPet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pet: %w", err)
		}
		out = append(out, pet)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list pets rows: %w", err)
	}
	return out, nil
}

type petRow interface {
	Scan(dest ...any) error
}

func scanPet(row petRow) (*models.Pet, error) {
	var pet models.Pet
	var petID, shelterID, status string
	if err := row.Scan(
		&petID,
		&pet.Name,
		&pet.Species,
		&pet.Breed,
		&pet.Description,
		&status,
		&shelterID,
		&pet.AdoptionFee,
		&pet.CreatedAt,
		&pet.UpdatedAt,
	); err != nil {
		return nil, err
	}
	parsedPet, err := id.ParsePetID(petID)
	if err != nil {
		return nil, err
	}
	parsedShelter, err := id.ParseUserID(shelterID)
	if err != nil {
		return nil, err
	}
	pet.ID = parsedPet
	pet.ShelterID = parsedShelter
	pet.Status = models.Status(status)
	return &pet, nil
}
