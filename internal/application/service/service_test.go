package service

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	appmetrics "homeward/internal/application/metrics"
	"homeward/internal/application/models"
	appstore "homeward/internal/application/store"
	"homeward/internal/audit"
	"homeward/internal/notification"
	petmodels "homeward/internal/pet/models"
	petstore "homeward/internal/pet/store"
	id "homeward/pkg/domain"
	dErrors "homeward/pkg/domain-errors"
	"homeward/pkg/requestcontext"
)

// recordingNotifier captures enqueued messages synchronously.
type recordingNotifier struct {
	mu   sync.Mutex
	msgs []notification.Message
}

func (n *recordingNotifier) Enqueue(msg notification.Message) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, msg)
	return true
}

func (n *recordingNotifier) sent() []notification.Message {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification.Message(nil), n.msgs...)
}

type ServiceSuite struct {
	suite.Suite
	apps      *appstore.InMemory
	pets      *petstore.InMemory
	notifier  *recordingNotifier
	directory *notification.StaticDirectory
	publisher *audit.MemoryPublisher
	service   *Service

	shelterID   id.UserID
	applicantID id.UserID
	pet         *petmodels.Pet
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.apps = appstore.NewInMemory()
	s.pets = petstore.NewInMemory()
	s.notifier = &recordingNotifier{}
	s.directory = notification.NewStaticDirectory()
	s.publisher = audit.NewMemoryPublisher()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	s.service = New(s.apps, s.pets, logger,
		WithNotifier(s.notifier, s.directory),
		WithAuditPublisher(s.publisher),
	)

	s.shelterID = id.UserID(uuid.New())
	s.applicantID = id.UserID(uuid.New())
	s.directory.Put(s.shelterID, "shelter@example.com")
	s.directory.Put(s.applicantID, "adopter@example.com")

	pet, err := petmodels.NewPet(id.PetID(uuid.New()), s.shelterID, "Biscuit", "dog", "beagle", "", 50, time.Now())
	s.Require().NoError(err)
	s.Require().NoError(s.pets.Create(context.Background(), pet))
	s.pet = pet
}

func (s *ServiceSuite) asApplicant() context.Context {
	ctx := requestcontext.WithUserID(context.Background(), s.applicantID)
	return requestcontext.WithRole(ctx, id.RoleAdopter)
}

func (s *ServiceSuite) asShelter() context.Context {
	ctx := requestcontext.WithUserID(context.Background(), s.shelterID)
	return requestcontext.WithRole(ctx, id.RoleShelter)
}

func (s *ServiceSuite) asUser(userID id.UserID, role id.Role) context.Context {
	ctx := requestcontext.WithUserID(context.Background(), userID)
	return requestcontext.WithRole(ctx, role)
}

func (s *ServiceSuite) createApplication() *models.Application {
	app, err := s.service.Create(s.asApplicant(), CreateRequest{
		PetID:         s.pet.ID,
		Questionnaire: []byte(`{"housing":"house"}`),
	})
	s.Require().NoError(err)
	return app
}

// TestCreate verifies submission preconditions and side effects.
func (s *ServiceSuite) TestCreate() {
	s.Run("succeeds for available pet and notifies shelter", func() {
		app := s.createApplication()

		s.Equal(models.StatusPending, app.Status)
		s.Equal(s.shelterID, app.ShelterID, "shelter denormalized from pet")

		sent := s.notifier.sent()
		s.Require().Len(sent, 1)
		s.Equal("shelter@example.com", sent[0].To)
		s.Contains(sent[0].HTMLBody, "Biscuit")

		events := s.publisher.Events()
		s.Require().Len(events, 1)
		s.Equal("pending", events[0].To)
	})

	s.Run("shelter role may not apply", func() {
		_, err := s.service.Create(s.asShelter(), CreateRequest{
			PetID:         s.pet.ID,
			Questionnaire: []byte(`{}`),
		})
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("unknown pet returns not found", func() {
		_, err := s.service.Create(s.asApplicant(), CreateRequest{
			PetID:         id.PetID(uuid.New()),
			Questionnaire: []byte(`{}`),
		})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("malformed questionnaire rejected", func() {
		_, err := s.service.Create(s.asApplicant(), CreateRequest{
			PetID:         s.pet.ID,
			Questionnaire: []byte(`{"housing": 42}`),
		})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

// TestCreateUnavailablePet verifies no application is persisted for a pet
// that is not available.
func (s *ServiceSuite) TestCreateUnavailablePet() {
	for _, status := range []petmodels.Status{petmodels.StatusPending, petmodels.StatusAdopted, petmodels.StatusFostered} {
		s.pet.Status = status
		s.Require().NoError(s.pets.Update(context.Background(), s.pet))

		_, err := s.service.Create(s.asApplicant(), CreateRequest{
			PetID:         s.pet.ID,
			Questionnaire: []byte(`{}`),
		})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict), "status %s", status)

		apps, listErr := s.apps.ListByApplicant(context.Background(), s.applicantID, "")
		s.Require().NoError(listErr)
		s.Empty(apps, "no application persisted for %s pet", status)
	}
}

// TestConcurrentCreates verifies exactly one of N racing submissions wins.
func (s *ServiceSuite) TestConcurrentCreates() {
	const attempts = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	var successes, conflicts int

	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.service.Create(s.asApplicant(), CreateRequest{
				PetID:         s.pet.ID,
				Questionnaire: []byte(`{}`),
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case dErrors.HasCode(err, dErrors.CodeConflict):
				conflicts++
			}
		}()
	}
	wg.Wait()

	s.Equal(1, successes)
	s.Equal(attempts-1, conflicts)
}

// TestTransitionStatus verifies authorization, the transition table and the
// approval cascade.
func (s *ServiceSuite) TestTransitionStatus() {
	s.Run("full happy path with cascade", func() {
		app := s.createApplication()

		reviewing, err := s.service.TransitionStatus(s.asShelter(), app.ID, models.StatusReviewing)
		s.Require().NoError(err)
		s.Equal(models.StatusReviewing, reviewing.Status)

		approved, err := s.service.TransitionStatus(s.asShelter(), app.ID, models.StatusApproved)
		s.Require().NoError(err)
		s.Equal(models.StatusApproved, approved.Status)

		pet, err := s.pets.GetByID(context.Background(), s.pet.ID)
		s.Require().NoError(err)
		s.Equal(petmodels.StatusPending, pet.Status, "approval cascades onto the pet")

		events := s.publisher.Events()
		s.Require().Len(events, 3)
		s.Equal("reviewing", events[1].To)
		s.Equal("approved", events[2].To)
		s.Equal("reviewing", events[2].From)
	})

	s.Run("only the owning shelter may transition", func() {
		s.SetupTest()
		app := s.createApplication()

		_, err := s.service.TransitionStatus(s.asUser(id.UserID(uuid.New()), id.RoleShelter), app.ID, models.StatusReviewing)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))

		_, err = s.service.TransitionStatus(s.asApplicant(), app.ID, models.StatusReviewing)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("invalid transition leaves storage untouched", func() {
		s.SetupTest()
		app := s.createApplication()
		_, err := s.service.TransitionStatus(s.asShelter(), app.ID, models.StatusApproved)
		s.Require().NoError(err)

		_, err = s.service.TransitionStatus(s.asShelter(), app.ID, models.StatusReviewing)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidTransition))

		stored, err := s.apps.FindByID(context.Background(), app.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusApproved, stored.Status)
	})

	s.Run("status notification reaches the applicant", func() {
		s.SetupTest()
		app := s.createApplication()

		_, err := s.service.TransitionStatus(s.asShelter(), app.ID, models.StatusRejected)
		s.Require().NoError(err)

		sent := s.notifier.sent()
		s.Require().Len(sent, 2, "create notice plus rejection notice")
		s.Equal("adopter@example.com", sent[1].To)
		s.Contains(sent[1].Subject, "application")
	})
}

// TestApprovalRaceLost verifies a concurrently-taken pet aborts the approval
// and rolls the application back.
func (s *ServiceSuite) TestApprovalRaceLost() {
	app := s.createApplication()

	// Pet changes hands before the shelter approves.
	s.pet.Status = petmodels.StatusAdopted
	s.Require().NoError(s.pets.Update(context.Background(), s.pet))

	_, err := s.service.TransitionStatus(s.asShelter(), app.ID, models.StatusApproved)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))

	stored, err := s.apps.FindByID(context.Background(), app.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusPending, stored.Status, "application rolled back to prior status")
}

// TestSecondApplicantScenario verifies the cascade leaves other applications
// alone while blocking new submissions.
func (s *ServiceSuite) TestSecondApplicantScenario() {
	otherApplicant := id.UserID(uuid.New())
	appB, err := s.service.Create(s.asUser(otherApplicant, id.RoleFoster), CreateRequest{
		PetID:         s.pet.ID,
		Questionnaire: []byte(`{}`),
	})
	s.Require().NoError(err)

	appA := s.createApplication()
	_, err = s.service.TransitionStatus(s.asShelter(), appA.ID, models.StatusApproved)
	s.Require().NoError(err)

	storedB, err := s.apps.FindByID(context.Background(), appB.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusPending, storedB.Status, "cascade does not touch other applications")

	_, err = s.service.Create(s.asUser(id.UserID(uuid.New()), id.RoleAdopter), CreateRequest{
		PetID:         s.pet.ID,
		Questionnaire: []byte(`{}`),
	})
	s.True(dErrors.HasCode(err, dErrors.CodeConflict), "pet no longer available to new applicants")
}

// TestWithdraw verifies the applicant-only exit.
func (s *ServiceSuite) TestWithdraw() {
	s.Run("applicant withdraws a pending application", func() {
		app := s.createApplication()
		withdrawn, err := s.service.Withdraw(s.asApplicant(), app.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusWithdrawn, withdrawn.Status)
	})

	s.Run("shelter may not withdraw", func() {
		s.SetupTest()
		app := s.createApplication()
		_, err := s.service.Withdraw(s.asShelter(), app.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("approved application cannot be withdrawn", func() {
		s.SetupTest()
		app := s.createApplication()
		_, err := s.service.TransitionStatus(s.asShelter(), app.ID, models.StatusApproved)
		s.Require().NoError(err)

		_, err = s.service.Withdraw(s.asApplicant(), app.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidTransition))
	})
}

// TestNotesAndMeetGreet verifies the shelter-only record updates.
func (s *ServiceSuite) TestNotesAndMeetGreet() {
	app := s.createApplication()

	s.Run("applicant may not add notes", func() {
		_, err := s.service.AddNote(s.asApplicant(), app.ID, "sneaky")
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("shelter adds a note", func() {
		updated, err := s.service.AddNote(s.asShelter(), app.ID, "great references")
		s.Require().NoError(err)
		s.Require().Len(updated.Notes, 1)
		s.Equal(s.shelterID, updated.Notes[0].AuthorID)
		s.Equal(models.StatusPending, updated.Status, "notes never change status")
	})

	s.Run("empty note rejected", func() {
		_, err := s.service.AddNote(s.asShelter(), app.ID, "")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("meet-and-greet notifies the applicant with details", func() {
		when := time.Now().Add(48 * time.Hour)
		updated, err := s.service.ScheduleMeetGreet(s.asShelter(), app.ID, MeetGreetRequest{
			Date:     when,
			Location: "shelter yard",
		})
		s.Require().NoError(err)
		s.Require().NotNil(updated.MeetGreet)
		s.True(updated.MeetGreet.Scheduled)

		sent := s.notifier.sent()
		last := sent[len(sent)-1]
		s.Equal("adopter@example.com", last.To)
		s.Contains(last.HTMLBody, "shelter yard")
	})

	s.Run("missing location rejected", func() {
		_, err := s.service.ScheduleMeetGreet(s.asShelter(), app.ID, MeetGreetRequest{Date: time.Now()})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

// TestVisibility verifies participant-only reads and role-scoped listing.
func (s *ServiceSuite) TestVisibility() {
	app := s.createApplication()

	s.Run("participants read, strangers are denied", func() {
		_, err := s.service.Get(s.asApplicant(), app.ID)
		s.NoError(err)
		_, err = s.service.Get(s.asShelter(), app.ID)
		s.NoError(err)

		_, err = s.service.Get(s.asUser(id.UserID(uuid.New()), id.RoleAdopter), app.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("unknown id is not found for participants", func() {
		_, err := s.service.Get(s.asApplicant(), id.ApplicationID(uuid.New()))
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("listing scopes by role", func() {
		shelterApps, err := s.service.List(s.asShelter(), "")
		s.Require().NoError(err)
		s.Len(shelterApps, 1)

		applicantApps, err := s.service.List(s.asApplicant(), "")
		s.Require().NoError(err)
		s.Len(applicantApps, 1)

		strangerApps, err := s.service.List(s.asUser(id.UserID(uuid.New()), id.RoleAdopter), "")
		s.Require().NoError(err)
		s.Empty(strangerApps)
	})

	s.Run("status filter applies", func() {
		filtered, err := s.service.List(s.asApplicant(), models.StatusRejected)
		s.Require().NoError(err)
		s.Empty(filtered)
	})
}

// TestMetricsWiring verifies counters fire without a registry panic.
func (s *ServiceSuite) TestMetricsWiring() {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	svc := New(s.apps, s.pets, logger, WithMetrics(appmetrics.New()))

	app, err := svc.Create(s.asApplicant(), CreateRequest{
		PetID:         s.pet.ID,
		Questionnaire: []byte(`{}`),
	})
	s.Require().NoError(err)
	_, err = svc.TransitionStatus(s.asShelter(), app.ID, models.StatusReviewing)
	s.Require().NoError(err)
}
