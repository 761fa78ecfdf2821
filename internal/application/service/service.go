package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"homeward/internal/application/authz"
	appmetrics "homeward/internal/application/metrics"
	"homeward/internal/application/models"
	"homeward/internal/application/store"
	"homeward/internal/audit"
	"homeward/internal/notification"
	petmodels "homeward/internal/pet/models"
	petstore "homeward/internal/pet/store"
	id "homeward/pkg/domain"
	dErrors "homeward/pkg/domain-errors"
	"homeward/pkg/platform/sentinel"
	"homeward/pkg/requestcontext"
)

// Notifier enqueues a message for background delivery. Enqueue must not
// block; a false return means the message was dropped.
type Notifier interface {
	Enqueue(msg notification.Message) bool
}

// Service drives the adoption application lifecycle: the state machine, the
// one-active-application invariant, the approval cascade onto the pet, and
// the side-channel notifications and audit events each transition produces.
type Service struct {
	apps      store.Store
	pets      petstore.Store
	logger    *slog.Logger
	notifier  Notifier
	directory notification.Directory
	publisher audit.Publisher
	metrics   *appmetrics.Metrics
	tracer    trace.Tracer
}

type serviceConfig struct {
	notifier  Notifier
	directory notification.Directory
	publisher audit.Publisher
	metrics   *appmetrics.Metrics
}

// Option configures optional service collaborators.
type Option func(*serviceConfig)

// WithNotifier enables best-effort email dispatch.
func WithNotifier(n Notifier, d notification.Directory) Option {
	return func(c *serviceConfig) {
		c.notifier = n
		c.directory = d
	}
}

// WithAuditPublisher enables the transition log.
func WithAuditPublisher(p audit.Publisher) Option {
	return func(c *serviceConfig) { c.publisher = p }
}

// WithMetrics enables lifecycle metrics.
func WithMetrics(m *appmetrics.Metrics) Option {
	return func(c *serviceConfig) { c.metrics = m }
}

// New constructs the lifecycle service.
func New(apps store.Store, pets petstore.Store, logger *slog.Logger, opts ...Option) *Service {
	cfg := &serviceConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	publisher := cfg.publisher
	if publisher == nil {
		publisher = audit.NoopPublisher{}
	}
	return &Service{
		apps:      apps,
		pets:      pets,
		logger:    logger,
		notifier:  cfg.notifier,
		directory: cfg.directory,
		publisher: publisher,
		metrics:   cfg.metrics,
		tracer:    otel.Tracer("homeward/application"),
	}
}

// CreateRequest carries the applicant's submission.
type CreateRequest struct {
	PetID          id.PetID
	Questionnaire  json.RawMessage
	AdditionalInfo string
}

// Create submits a new application for a pet.
//
// The duplicate check and the insert are one atomic store operation; two
// racing submissions for the same (pet, applicant) pair cannot both land.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Application, error) {
	ctx, span := s.tracer.Start(ctx, "application.create")
	defer span.End()
	start := time.Now()

	role := requestcontext.Role(ctx)
	if !authz.CanCreate(role) {
		return nil, dErrors.New(dErrors.CodeForbidden, "only adopters and fosters may apply")
	}
	applicantID := requestcontext.UserID(ctx)

	if err := validateQuestionnaire(req.Questionnaire); err != nil {
		return nil, err
	}

	pet, err := s.pets.GetByID(ctx, req.PetID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "pet not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load pet")
	}
	if pet.Status != petmodels.StatusAvailable {
		s.incrementCreateConflict()
		return nil, dErrors.New(dErrors.CodeConflict, "pet is not available for adoption")
	}

	now := requestcontext.Now(ctx)
	app := models.NewApplication(
		id.ApplicationID(uuid.New()),
		pet.ID,
		applicantID,
		pet.ShelterID,
		req.Questionnaire,
		req.AdditionalInfo,
		now,
	)
	if err := s.apps.CreateIfNoActive(ctx, app); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			s.incrementCreateConflict()
			return nil, dErrors.New(dErrors.CodeConflict, "you already have an active application for this pet")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create application")
	}

	s.publisher.PublishTransition(ctx, audit.TransitionEvent{
		ApplicationID: app.ID,
		PetID:         app.PetID,
		ActorID:       applicantID,
		From:          "",
		To:            string(models.StatusPending),
		OccurredAt:    now,
	})
	s.notify(ctx, pet.ShelterID, notification.EventApplicationReceived, pet.Name)

	if s.metrics != nil {
		s.metrics.IncrementCreated()
		s.metrics.ObserveCreate(start)
	}
	s.logger.InfoContext(ctx, "application created",
		"request_id", requestcontext.RequestID(ctx),
		"application_id", app.ID,
		"pet_id", app.PetID,
		"applicant_id", applicantID,
	)
	return app, nil
}

// TransitionStatus is the shelter's review action. On approval the pet is
// claimed with a conditional write; losing that race rolls the application
// back so it never rests approved against a pet someone else took.
func (s *Service) TransitionStatus(ctx context.Context, appID id.ApplicationID, next models.Status) (*models.Application, error) {
	ctx, span := s.tracer.Start(ctx, "application.transition_status")
	defer span.End()

	app, err := s.findApplication(ctx, appID)
	if err != nil {
		return nil, err
	}
	requesterID := requestcontext.UserID(ctx)
	if !authz.CanManage(requesterID, app) {
		return nil, dErrors.New(dErrors.CodeForbidden, "not authorized for this application")
	}
	if !app.Status.CanTransitionTo(next) {
		return nil, dErrors.New(dErrors.CodeInvalidTransition, "cannot transition from "+string(app.Status)+" to "+string(next))
	}

	prior := app.Status
	now := requestcontext.Now(ctx)
	ok, err := s.apps.UpdateStatusIfCurrent(ctx, app.ID, prior, next, now)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update application status")
	}
	if !ok {
		return nil, dErrors.New(dErrors.CodeConflict, "application status changed concurrently")
	}

	if next == models.StatusApproved {
		if err := s.claimPet(ctx, app, prior, now); err != nil {
			return nil, err
		}
	}

	app.Status = next
	app.UpdatedAt = now

	s.publisher.PublishTransition(ctx, audit.TransitionEvent{
		ApplicationID: app.ID,
		PetID:         app.PetID,
		ActorID:       requesterID,
		From:          string(prior),
		To:            string(next),
		OccurredAt:    now,
	})
	s.notifyApplicantOfStatus(ctx, app)

	if s.metrics != nil {
		s.metrics.IncrementTransition(string(next))
	}
	s.logger.InfoContext(ctx, "application status updated",
		"request_id", requestcontext.RequestID(ctx),
		"application_id", app.ID,
		"from", prior,
		"to", next,
	)
	return app, nil
}

// claimPet cascades an approval onto the pet. A lost pet CAS rolls the
// application back to its prior status.
func (s *Service) claimPet(ctx context.Context, app *models.Application, prior models.Status, now time.Time) error {
	claimed, err := s.pets.TrySetStatus(ctx, app.PetID, petmodels.StatusAvailable, petmodels.StatusPending)
	if err != nil || !claimed {
		if rbOK, rbErr := s.apps.UpdateStatusIfCurrent(ctx, app.ID, models.StatusApproved, prior, now); rbErr != nil || !rbOK {
			s.logger.ErrorContext(ctx, "approval rollback failed",
				"application_id", app.ID,
				"pet_id", app.PetID,
				"error", rbErr,
			)
		}
		if s.metrics != nil {
			s.metrics.IncrementApprovalRaceLost()
		}
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update pet status")
		}
		return dErrors.New(dErrors.CodeConflict, "pet is no longer available")
	}
	return nil
}

// Withdraw is the applicant's own exit from the workflow.
func (s *Service) Withdraw(ctx context.Context, appID id.ApplicationID) (*models.Application, error) {
	app, err := s.findApplication(ctx, appID)
	if err != nil {
		return nil, err
	}
	requesterID := requestcontext.UserID(ctx)
	if !authz.CanWithdraw(requesterID, app) {
		return nil, dErrors.New(dErrors.CodeForbidden, "not authorized for this application")
	}
	if !app.CanWithdraw() {
		return nil, dErrors.New(dErrors.CodeInvalidTransition, "cannot withdraw a "+string(app.Status)+" application")
	}

	prior := app.Status
	now := requestcontext.Now(ctx)
	ok, err := s.apps.UpdateStatusIfCurrent(ctx, app.ID, prior, models.StatusWithdrawn, now)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to withdraw application")
	}
	if !ok {
		return nil, dErrors.New(dErrors.CodeConflict, "application status changed concurrently")
	}
	app.Status = models.StatusWithdrawn
	app.UpdatedAt = now

	s.publisher.PublishTransition(ctx, audit.TransitionEvent{
		ApplicationID: app.ID,
		PetID:         app.PetID,
		ActorID:       requesterID,
		From:          string(prior),
		To:            string(models.StatusWithdrawn),
		OccurredAt:    now,
	})
	if s.metrics != nil {
		s.metrics.IncrementTransition(string(models.StatusWithdrawn))
	}
	s.logger.InfoContext(ctx, "application withdrawn",
		"request_id", requestcontext.RequestID(ctx),
		"application_id", app.ID,
	)
	return app, nil
}

// AddNote appends a shelter note. No status change.
func (s *Service) AddNote(ctx context.Context, appID id.ApplicationID, text string) (*models.Application, error) {
	if text == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "note text is required")
	}
	app, err := s.findApplication(ctx, appID)
	if err != nil {
		return nil, err
	}
	requesterID := requestcontext.UserID(ctx)
	if !authz.CanManage(requesterID, app) {
		return nil, dErrors.New(dErrors.CodeForbidden, "not authorized for this application")
	}

	now := requestcontext.Now(ctx)
	note := models.Note{AuthorID: requesterID, Text: text, CreatedAt: now}
	updated, err := s.apps.AppendNote(ctx, app.ID, note, now)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to add note")
	}
	return updated, nil
}

// MeetGreetRequest carries the shelter's scheduling details.
type MeetGreetRequest struct {
	Date     time.Time
	Location string
	Notes    string
}

// ScheduleMeetGreet overwrites the application's meet-and-greet record and
// tells the applicant when and where.
func (s *Service) ScheduleMeetGreet(ctx context.Context, appID id.ApplicationID, req MeetGreetRequest) (*models.Application, error) {
	if req.Date.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "meet-and-greet date is required")
	}
	if req.Location == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "meet-and-greet location is required")
	}
	app, err := s.findApplication(ctx, appID)
	if err != nil {
		return nil, err
	}
	requesterID := requestcontext.UserID(ctx)
	if !authz.CanManage(requesterID, app) {
		return nil, dErrors.New(dErrors.CodeForbidden, "not authorized for this application")
	}

	now := requestcontext.Now(ctx)
	mg := models.MeetGreet{Scheduled: true, Date: req.Date, Location: req.Location, Notes: req.Notes}
	updated, err := s.apps.SetMeetGreet(ctx, app.ID, mg, now)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to schedule meet-and-greet")
	}

	s.notifyMeetGreet(ctx, updated, mg)
	return updated, nil
}

// Get returns the application to its participants only. Outsiders get the
// same denial whether or not the id exists.
func (s *Service) Get(ctx context.Context, appID id.ApplicationID) (*models.Application, error) {
	app, err := s.findApplication(ctx, appID)
	if err != nil {
		return nil, err
	}
	if !authz.CanRead(requestcontext.UserID(ctx), app) {
		return nil, dErrors.New(dErrors.CodeForbidden, "not authorized for this application")
	}
	return app, nil
}

// List scopes to the shelter's applications for shelter callers and to the
// applicant's own otherwise. Each call is a fresh query.
func (s *Service) List(ctx context.Context, status models.Status) ([]*models.Application, error) {
	userID := requestcontext.UserID(ctx)
	var (
		apps []*models.Application
		err  error
	)
	if requestcontext.Role(ctx) == id.RoleShelter {
		apps, err = s.apps.ListByShelter(ctx, userID, status)
	} else {
		apps, err = s.apps.ListByApplicant(ctx, userID, status)
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list applications")
	}
	return apps, nil
}

func (s *Service) findApplication(ctx context.Context, appID id.ApplicationID) (*models.Application, error) {
	app, err := s.apps.FindByID(ctx, appID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "application not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load application")
	}
	return app, nil
}

func (s *Service) incrementCreateConflict() {
	if s.metrics != nil {
		s.metrics.IncrementCreateConflict()
	}
}

// notify composes and enqueues a templated message. Missing notifier,
// unknown recipient or missing template all mean "send nothing".
func (s *Service) notify(ctx context.Context, recipient id.UserID, event, petName string) {
	if s.notifier == nil || s.directory == nil {
		return
	}
	email, ok := s.directory.Email(ctx, recipient)
	if !ok {
		s.logger.DebugContext(ctx, "no email for recipient, skipping notification", "user_id", recipient)
		return
	}
	msg, ok := notification.Compose(event, email, petName)
	if !ok {
		return
	}
	s.notifier.Enqueue(msg)
}

func (s *Service) notifyApplicantOfStatus(ctx context.Context, app *models.Application) {
	s.notify(ctx, app.ApplicantID, string(app.Status), s.petName(ctx, app.PetID))
}

func (s *Service) notifyMeetGreet(ctx context.Context, app *models.Application, mg models.MeetGreet) {
	if s.notifier == nil || s.directory == nil {
		return
	}
	email, ok := s.directory.Email(ctx, app.ApplicantID)
	if !ok {
		return
	}
	msg := notification.ComposeMeetGreet(email, s.petName(ctx, app.PetID), mg.Date.Format(time.RFC1123), mg.Location)
	s.notifier.Enqueue(msg)
}

// petName is best-effort flavor for message bodies.
func (s *Service) petName(ctx context.Context, petID id.PetID) string {
	pet, err := s.pets.GetByID(ctx, petID)
	if err != nil {
		return "the pet"
	}
	return pet.Name
}
