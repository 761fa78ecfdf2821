package handler

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"homeward/internal/application/models"
	appservice "homeward/internal/application/service"
	appstore "homeward/internal/application/store"
	petmodels "homeward/internal/pet/models"
	petstore "homeward/internal/pet/store"
	id "homeward/pkg/domain"
	"homeward/pkg/testutil"
)

type fixture struct {
	router      http.Handler
	shelterID   string
	applicantID string
	pet         *petmodels.Pet
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	shelterID := id.UserID(uuid.New())
	applicantID := id.UserID(uuid.New())

	pets := petstore.NewInMemory()
	pet, err := petmodels.NewPet(id.PetID(uuid.New()), shelterID, "Biscuit", "dog", "beagle", "", 50, time.Now())
	if err != nil {
		t.Fatalf("new pet: %v", err)
	}
	if err := pets.Create(t.Context(), pet); err != nil {
		t.Fatalf("create pet: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	svc := appservice.New(appstore.NewInMemory(), pets, logger)

	h := New(svc, logger)
	r := chi.NewRouter()
	h.Register(r)

	return &fixture{
		router:      r,
		shelterID:   shelterID.String(),
		applicantID: applicantID.String(),
		pet:         pet,
	}
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func (f *fixture) createApplication(t *testing.T) *models.Application {
	t.Helper()
	req := testutil.NewJSONRequest(t, http.MethodPost, "/applications", map[string]any{
		"pet_id":        f.pet.ID.String(),
		"questionnaire": map[string]any{"housing": "house"},
	})
	req = testutil.WithIdentity(req, f.applicantID, id.RoleAdopter)
	rec := f.do(req)
	testutil.AssertStatus(t, rec, http.StatusCreated)
	return testutil.UnmarshalResponse[models.Application](t, rec)
}

func TestCreateApplication(t *testing.T) {
	f := newFixture(t)
	app := f.createApplication(t)

	if app.Status != models.StatusPending {
		t.Fatalf("expected pending, got %s", app.Status)
	}
	if app.ShelterID.String() != f.shelterID {
		t.Fatalf("expected shelter denormalized from pet")
	}
}

func TestCreateConflictsReturn400(t *testing.T) {
	f := newFixture(t)
	f.createApplication(t)

	// Duplicate active application for the same pair.
	req := testutil.NewJSONRequest(t, http.MethodPost, "/applications", map[string]any{
		"pet_id":        f.pet.ID.String(),
		"questionnaire": map[string]any{},
	})
	req = testutil.WithIdentity(req, f.applicantID, id.RoleAdopter)
	testutil.AssertStatusAndError(t, f.do(req), http.StatusBadRequest, "conflict")

	// Unknown pet stays a 404.
	req = testutil.NewJSONRequest(t, http.MethodPost, "/applications", map[string]any{
		"pet_id":        uuid.NewString(),
		"questionnaire": map[string]any{},
	})
	req = testutil.WithIdentity(req, f.applicantID, id.RoleAdopter)
	testutil.AssertStatusAndError(t, f.do(req), http.StatusNotFound, "not_found")
}

func TestTransitionStatusEndpoint(t *testing.T) {
	f := newFixture(t)
	app := f.createApplication(t)

	req := testutil.NewJSONRequest(t, http.MethodPut, "/applications/"+app.ID.String()+"/status", map[string]any{"status": "reviewing"})
	req = testutil.WithIdentity(req, f.shelterID, id.RoleShelter)
	rec := f.do(req)
	testutil.AssertStatus(t, rec, http.StatusOK)

	updated := testutil.UnmarshalResponse[models.Application](t, rec)
	if updated.Status != models.StatusReviewing {
		t.Fatalf("expected reviewing, got %s", updated.Status)
	}

	// Invalid status value is rejected before reaching the service.
	req = testutil.NewJSONRequest(t, http.MethodPut, "/applications/"+app.ID.String()+"/status", map[string]any{"status": "archived"})
	req = testutil.WithIdentity(req, f.shelterID, id.RoleShelter)
	testutil.AssertStatusAndError(t, f.do(req), http.StatusBadRequest, "validation_error")

	// Wrong identity is forbidden.
	req = testutil.NewJSONRequest(t, http.MethodPut, "/applications/"+app.ID.String()+"/status", map[string]any{"status": "approved"})
	req = testutil.WithIdentity(req, uuid.NewString(), id.RoleShelter)
	testutil.AssertStatusAndError(t, f.do(req), http.StatusForbidden, "forbidden")
}

func TestWithdrawEndpoint(t *testing.T) {
	f := newFixture(t)
	app := f.createApplication(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/applications/"+app.ID.String()+"/withdraw", nil)
	req = testutil.WithIdentity(req, f.applicantID, id.RoleAdopter)
	rec := f.do(req)
	testutil.AssertStatus(t, rec, http.StatusOK)

	withdrawn := testutil.UnmarshalResponse[models.Application](t, rec)
	if withdrawn.Status != models.StatusWithdrawn {
		t.Fatalf("expected withdrawn, got %s", withdrawn.Status)
	}
}

func TestNotesAndMeetGreetEndpoints(t *testing.T) {
	f := newFixture(t)
	app := f.createApplication(t)

	noteReq := testutil.NewJSONRequest(t, http.MethodPost, "/applications/"+app.ID.String()+"/notes", map[string]any{"text": "vet check passed"})
	noteReq = testutil.WithIdentity(noteReq, f.shelterID, id.RoleShelter)
	noteRec := f.do(noteReq)
	testutil.AssertStatus(t, noteRec, http.StatusOK)

	noted := testutil.UnmarshalResponse[models.Application](t, noteRec)
	if len(noted.Notes) != 1 || noted.Notes[0].Text != "vet check passed" {
		t.Fatalf("expected one note, got %+v", noted.Notes)
	}

	mgReq := testutil.NewJSONRequest(t, http.MethodPost, "/applications/"+app.ID.String()+"/meet-greet", map[string]any{
		"date":     time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		"location": "shelter yard",
	})
	mgReq = testutil.WithIdentity(mgReq, f.shelterID, id.RoleShelter)
	mgRec := f.do(mgReq)
	testutil.AssertStatus(t, mgRec, http.StatusOK)

	scheduled := testutil.UnmarshalResponse[models.Application](t, mgRec)
	if scheduled.MeetGreet == nil || !scheduled.MeetGreet.Scheduled {
		t.Fatalf("expected scheduled meet-and-greet")
	}

	// Bad date format.
	badReq := testutil.NewJSONRequest(t, http.MethodPost, "/applications/"+app.ID.String()+"/meet-greet", map[string]any{
		"date":     "tomorrow",
		"location": "shelter yard",
	})
	badReq = testutil.WithIdentity(badReq, f.shelterID, id.RoleShelter)
	testutil.AssertStatusAndError(t, f.do(badReq), http.StatusBadRequest, "validation_error")
}

func TestGetAndListEndpoints(t *testing.T) {
	f := newFixture(t)
	app := f.createApplication(t)

	getReq := testutil.NewRequest(t, http.MethodGet, "/applications/"+app.ID.String())
	getReq = testutil.WithIdentity(getReq, f.applicantID, id.RoleAdopter)
	testutil.AssertStatus(t, f.do(getReq), http.StatusOK)

	strangerReq := testutil.NewRequest(t, http.MethodGet, "/applications/"+app.ID.String())
	strangerReq = testutil.WithIdentity(strangerReq, uuid.NewString(), id.RoleAdopter)
	testutil.AssertStatusAndError(t, f.do(strangerReq), http.StatusForbidden, "forbidden")

	listReq := testutil.NewRequest(t, http.MethodGet, "/applications?status=pending")
	listReq = testutil.WithIdentity(listReq, f.applicantID, id.RoleAdopter)
	listRec := f.do(listReq)
	testutil.AssertStatus(t, listRec, http.StatusOK)

	apps := testutil.UnmarshalResponse[[]models.Application](t, listRec)
	if len(*apps) != 1 {
		t.Fatalf("expected 1 application, got %d", len(*apps))
	}

	badFilter := testutil.NewRequest(t, http.MethodGet, "/applications?status=archived")
	badFilter = testutil.WithIdentity(badFilter, f.applicantID, id.RoleAdopter)
	testutil.AssertStatusAndError(t, f.do(badFilter), http.StatusBadRequest, "validation_error")
}
