package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"homeward/internal/application/models"
	id "homeward/pkg/domain"
	"homeward/pkg/platform/sentinel"
)

// PostgresStore persists applications in PostgreSQL.
//
// The uniqueness invariant lives in the schema: a partial unique index on
// (pet_id, applicant_id) over active statuses makes CreateIfNoActive a plain
// insert whose unique violation maps to ErrConflict. No read-then-write
// window exists.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed application store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const appColumns = `id, pet_id, applicant_id, shelter_id, status, questionnaire, additional_info, notes, meet_greet, created_at, updated_at`

const uniqueViolation = "23505"

func (s *PostgresStore) CreateIfNoActive(ctx context.Context, app *models.Application) error {
	notes, err := json.Marshal(app.Notes)
	if err != nil {
		return fmt.Errorf("marshal notes: %w", err)
	}
	query := `
		INSERT INTO applications (` + appColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULL, $9, $10)
	`
	_, err = s.db.ExecContext(ctx, query,
		app.ID.String(),
		app.PetID.String(),
		app.ApplicantID.String(),
		app.ShelterID.String(),
		string(app.Status),
		[]byte(app.Questionnaire),
		app.AdditionalInfo,
		notes,
		app.CreatedAt,
		app.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("active application exists for pet and applicant: %w", sentinel.ErrConflict)
		}
		return fmt.Errorf("create application: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, appID id.ApplicationID) (*models.Application, error) {
	query := `SELECT ` + appColumns + ` FROM applications WHERE id = $1`
	app, err := scanApplication(s.db.QueryRowContext(ctx, query, appID.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("application not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("get application: %w", err)
	}
	return app, nil
}

func (s *PostgresStore) UpdateStatusIfCurrent(ctx context.Context, appID id.ApplicationID, expected, next models.Status, now time.Time) (bool, error) {
	query := `
		UPDATE applications
		SET status = $3, updated_at = $4
		WHERE id = $1 AND status = $2
	`
	result, err := s.db.ExecContext(ctx, query, appID.String(), string(expected), string(next), now)
	if err != nil {
		return false, fmt.Errorf("update application status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update application status rows affected: %w", err)
	}
	if rows == 0 {
		var exists bool
		if err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM applications WHERE id = $1)`, appID.String()).Scan(&exists); err != nil {
			return false, fmt.Errorf("update application status exists check: %w", err)
		}
		if !exists {
			return false, fmt.Errorf("application not found: %w", sentinel.ErrNotFound)
		}
		return false, nil
	}
	return true, nil
}

func (s *PostgresStore) AppendNote(ctx context.Context, appID id.ApplicationID, note models.Note, now time.Time) (*models.Application, error) {
	raw, err := json.Marshal(note)
	if err != nil {
		return nil, fmt.Errorf("marshal note: %w", err)
	}
	query := `
		UPDATE applications
		SET notes = notes || $2::jsonb, updated_at = $3
		WHERE id = $1
		RETURNING ` + appColumns
	app, err := scanApplication(s.db.QueryRowContext(ctx, query, appID.String(), raw, now))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("application not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("append note: %w", err)
	}
	return app, nil
}

func (s *PostgresStore) SetMeetGreet(ctx context.Context, appID id.ApplicationID, mg models.MeetGreet, now time.Time) (*models.Application, error) {
	raw, err := json.Marshal(mg)
	if err != nil {
		return nil, fmt.Errorf("marshal meet-and-greet: %w", err)
	}
	query := `
		UPDATE applications
		SET meet_greet = $2, updated_at = $3
		WHERE id = $1
		RETURNING ` + appColumns
	app, err := scanApplication(s.db.QueryRowContext(ctx, query, appID.String(), raw, now))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("application not found: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("set meet-and-greet: %w", err)
	}
	return app, nil
}

func (s *PostgresStore) ListByShelter(ctx context.Context, shelterID id.UserID, status models.Status) ([]*models.Application, error) {
	return s.list(ctx, "shelter_id", shelterID.String(), status)
}

func (s *PostgresStore) ListByApplicant(ctx context.Context, applicantID id.UserID, status models.Status) ([]*models.Application, error) {
	return s.list(ctx, "applicant_id", applicantID.String(), status)
}

func (s *PostgresStore) list(ctx context.Context, column, owner string, status models.Status) ([]*models.Application, error) {
	query := `SELECT ` + appColumns + ` FROM applications WHERE ` + column + ` = $1`
	args := []any{owner}
	if status != "" {
		query += ` AND status = $2`
		args = append(args, string(status))
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var out []*models.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		out = append(out, app)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list applications rows: %w", err)
	}
	return out, nil
}

type appRow interface {
	Scan(dest ...any) error
}

func scanApplication(row appRow) (*models.Application, error) {
	var app models.Application
	var appID, petID, applicantID, shelterID, status string
	var questionnaire, notes []byte
	var meetGreet []byte
	if err := row.Scan(
		&appID,
		&petID,
		&applicantID,
		&shelterID,
		&status,
		&questionnaire,
		&app.AdditionalInfo,
		&notes,
		&meetGreet,
		&app.CreatedAt,
		&app.UpdatedAt,
	); err != nil {
		return nil, err
	}

	parsedApp, err := id.ParseApplicationID(appID)
	if err != nil {
		return nil, err
	}
	parsedPet, err := id.ParsePetID(petID)
	if err != nil {
		return nil, err
	}
	parsedApplicant, err := id.ParseUserID(applicantID)
	if err != nil {
		return nil, err
	}
	parsedShelter, err := id.ParseUserID(shelterID)
	if err != nil {
		return nil, err
	}
	app.ID = parsedApp
	app.PetID = parsedPet
	app.ApplicantID = parsedApplicant
	app.ShelterID = parsedShelter
	app.Status = models.Status(status)
	app.Questionnaire = questionnaire

	if err := json.Unmarshal(notes, &app.Notes); err != nil {
		return nil, fmt.Errorf("unmarshal notes: %w", err)
	}
	if len(meetGreet) > 0 {
		var mg models.MeetGreet
		if err := json.Unmarshal(meetGreet, &mg); err != nil {
			return nil, fmt.Errorf("unmarshal meet-and-greet: %w", err)
		}
		app.MeetGreet = &mg
	}
	return &app, nil
}
