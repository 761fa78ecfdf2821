package store

import (
	"context"
	"time"

	"homeward/internal/application/models"
	id "homeward/pkg/domain"
)

// Error Contract:
// All store methods follow this error pattern:
// - Return sentinel.ErrNotFound (wrapped) when the application does not exist
// - Return sentinel.ErrConflict (wrapped) from CreateIfNoActive when an
//   active application already exists for the (pet, applicant) pair
// - Return nil for successful operations
// - Return wrapped errors with context for infrastructure failures

// Store persists adoption applications. Applications are append-only at the
// record level: there is no delete.
type Store interface {
	// CreateIfNoActive inserts the application only if no application for
	// the same (pet, applicant) pair currently has an active status. The
	// check and insert are one atomic operation; two racing calls cannot
	// both succeed.
	CreateIfNoActive(ctx context.Context, app *models.Application) error

	FindByID(ctx context.Context, appID id.ApplicationID) (*models.Application, error)

	// UpdateStatusIfCurrent is a compare-and-set on the application's
	// status. It returns false (and no error) when the stored status no
	// longer matches expected, so an invalid or raced transition never
	// mutates storage.
	UpdateStatusIfCurrent(ctx context.Context, appID id.ApplicationID, expected, next models.Status, now time.Time) (bool, error)

	// AppendNote adds a note to the end of the application's note list and
	// returns the updated record.
	AppendNote(ctx context.Context, appID id.ApplicationID, note models.Note, now time.Time) (*models.Application, error)

	// SetMeetGreet overwrites the application's meet-and-greet record and
	// returns the updated record.
	SetMeetGreet(ctx context.Context, appID id.ApplicationID, mg models.MeetGreet, now time.Time) (*models.Application, error)

	// ListByShelter returns applications owned by the shelter, newest
	// first. A non-empty status narrows the result.
	ListByShelter(ctx context.Context, shelterID id.UserID, status models.Status) ([]*models.Application, error)

	// ListByApplicant returns the applicant's applications, newest first.
	// A non-empty status narrows the result.
	ListByApplicant(ctx context.Context, applicantID id.UserID, status models.Status) ([]*models.Application, error)
}
