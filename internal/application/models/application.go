package models

import (
	"encoding/json"
	"time"

	id "homeward/pkg/domain"
	dErrors "homeward/pkg/domain-errors"
)

// Status is an adoption application's position in the review workflow.
type Status string

const (
	StatusPending   Status = "pending"
	StatusReviewing Status = "reviewing"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusWithdrawn Status = "withdrawn"
)

// ParseStatus validates an application status from external input.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusReviewing, StatusApproved, StatusRejected, StatusWithdrawn:
		return Status(s), nil
	}
	return "", dErrors.New(dErrors.CodeValidation, "unknown application status")
}

// shelterTransitions is the authoritative state machine for shelter-driven
// status changes. Withdrawal is applicant-only and deliberately absent here.
var shelterTransitions = map[Status][]Status{
	StatusPending:   {StatusReviewing, StatusApproved, StatusRejected},
	StatusReviewing: {StatusApproved, StatusRejected},
}

// CanTransitionTo reports whether a shelter may move an application from its
// current status to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range shelterTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsActive reports whether the status counts against the one-active-
// application-per-(pet, applicant) invariant.
func (s Status) IsActive() bool {
	return s == StatusPending || s == StatusReviewing || s == StatusApproved
}

// IsTerminal reports whether no further transitions exist from the status.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusWithdrawn
}

// ActiveStatuses lists the statuses that hold the uniqueness invariant.
func ActiveStatuses() []Status {
	return []Status{StatusPending, StatusReviewing, StatusApproved}
}

// Note is a shelter-authored remark on an application.
type Note struct {
	AuthorID  id.UserID `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// MeetGreet is the single scheduled meet-and-greet for an application.
// Scheduling again overwrites it; no history is retained.
type MeetGreet struct {
	Scheduled bool      `json:"scheduled"`
	Date      time.Time `json:"date"`
	Location  string    `json:"location"`
	Notes     string    `json:"notes"`
}

// Application is one adopter's request for one pet.
//
// Invariants:
//   - PetID, ApplicantID and ShelterID are set at creation and never change;
//     ShelterID is denormalized from the pet at that instant
//   - at most one application per (pet, applicant) pair has an active status
//   - Status changes only through the state machine above, or through the
//     applicant's withdrawal
//   - applications are never deleted
type Application struct {
	ID             id.ApplicationID `json:"id"`
	PetID          id.PetID         `json:"pet_id"`
	ApplicantID    id.UserID        `json:"applicant_id"`
	ShelterID      id.UserID        `json:"shelter_id"`
	Status         Status           `json:"status"`
	Questionnaire  json.RawMessage  `json:"questionnaire"`
	AdditionalInfo string           `json:"additional_info,omitempty"`
	Notes          []Note           `json:"notes"`
	MeetGreet      *MeetGreet       `json:"meet_greet,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// NewApplication constructs a pending application.
func NewApplication(appID id.ApplicationID, petID id.PetID, applicantID, shelterID id.UserID, questionnaire json.RawMessage, additionalInfo string, now time.Time) *Application {
	return &Application{
		ID:             appID,
		PetID:          petID,
		ApplicantID:    applicantID,
		ShelterID:      shelterID,
		Status:         StatusPending,
		Questionnaire:  questionnaire,
		AdditionalInfo: additionalInfo,
		Notes:          []Note{},
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// CanWithdraw reports whether the applicant may still withdraw. Approved,
// rejected and withdrawn applications are settled.
func (a *Application) CanWithdraw() bool {
	return a.Status == StatusPending || a.Status == StatusReviewing
}
