package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"homeward/internal/application/models"
	appservice "homeward/internal/application/service"
	id "homeward/pkg/domain"
	dErrors "homeward/pkg/domain-errors"
	"homeward/pkg/platform/httputil"
	"homeward/pkg/requestcontext"
)

// Service defines the interface for application lifecycle operations.
type Service interface {
	Create(ctx context.Context, req appservice.CreateRequest) (*models.Application, error)
	TransitionStatus(ctx context.Context, appID id.ApplicationID, next models.Status) (*models.Application, error)
	Withdraw(ctx context.Context, appID id.ApplicationID) (*models.Application, error)
	AddNote(ctx context.Context, appID id.ApplicationID, text string) (*models.Application, error)
	ScheduleMeetGreet(ctx context.Context, appID id.ApplicationID, req appservice.MeetGreetRequest) (*models.Application, error)
	Get(ctx context.Context, appID id.ApplicationID) (*models.Application, error)
	List(ctx context.Context, status models.Status) ([]*models.Application, error)
}

// Handler wires application lifecycle endpoints to the service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts application endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/applications", h.HandleCreate)
	r.Get("/applications", h.HandleList)
	r.Get("/applications/{applicationID}", h.HandleGet)
	r.Put("/applications/{applicationID}/status", h.HandleTransitionStatus)
	r.Post("/applications/{applicationID}/withdraw", h.HandleWithdraw)
	r.Post("/applications/{applicationID}/notes", h.HandleAddNote)
	r.Post("/applications/{applicationID}/meet-greet", h.HandleScheduleMeetGreet)
}

// CreateApplicationRequest is the POST /applications payload.
type CreateApplicationRequest struct {
	PetID          string          `json:"pet_id"`
	Questionnaire  json.RawMessage `json:"questionnaire"`
	AdditionalInfo string          `json:"additional_info"`
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.Decode[CreateApplicationRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	petID, err := id.ParsePetID(req.PetID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	app, err := h.service.Create(ctx, appservice.CreateRequest{
		PetID:          petID,
		Questionnaire:  req.Questionnaire,
		AdditionalInfo: req.AdditionalInfo,
	})
	if err != nil {
		// Creation-time conflicts (pet unavailable, duplicate active
		// application) surface as 400, not 409.
		if dErrors.HasCode(err, dErrors.CodeConflict) {
			httputil.WriteErrorStatus(w, http.StatusBadRequest, err)
			return
		}
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "application submitted",
		"request_id", requestID,
		"application_id", app.ID,
		"pet_id", app.PetID,
	)
	httputil.WriteJSON(w, http.StatusCreated, app)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var status models.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, err := models.ParseStatus(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		status = parsed
	}

	apps, err := h.service.List(ctx, status)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if apps == nil {
		apps = []*models.Application{}
	}
	httputil.WriteJSON(w, http.StatusOK, apps)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	appID, err := id.ParseApplicationID(chi.URLParam(r, "applicationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	app, err := h.service.Get(ctx, appID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, app)
}

// TransitionRequest is the PUT /applications/{id}/status payload.
type TransitionRequest struct {
	Status string `json:"status"`
}

func (h *Handler) HandleTransitionStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	appID, err := id.ParseApplicationID(chi.URLParam(r, "applicationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[TransitionRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	next, err := models.ParseStatus(req.Status)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	app, err := h.service.TransitionStatus(ctx, appID, next)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "application transitioned",
		"request_id", requestID,
		"application_id", app.ID,
		"status", app.Status,
	)
	httputil.WriteJSON(w, http.StatusOK, app)
}

func (h *Handler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	appID, err := id.ParseApplicationID(chi.URLParam(r, "applicationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	app, err := h.service.Withdraw(ctx, appID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, app)
}

// AddNoteRequest is the POST /applications/{id}/notes payload.
type AddNoteRequest struct {
	Text string `json:"text"`
}

func (h *Handler) HandleAddNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	appID, err := id.ParseApplicationID(chi.URLParam(r, "applicationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[AddNoteRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	app, err := h.service.AddNote(ctx, appID, req.Text)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, app)
}

// MeetGreetRequest is the POST /applications/{id}/meet-greet payload. Date
// is RFC 3339.
type MeetGreetRequest struct {
	Date     string `json:"date"`
	Location string `json:"location"`
	Notes    string `json:"notes"`
}

func (h *Handler) HandleScheduleMeetGreet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	appID, err := id.ParseApplicationID(chi.URLParam(r, "applicationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.Decode[MeetGreetRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	when, err := time.Parse(time.RFC3339, req.Date)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "date must be RFC 3339"))
		return
	}

	app, err := h.service.ScheduleMeetGreet(ctx, appID, appservice.MeetGreetRequest{
		Date:     when,
		Location: req.Location,
		Notes:    req.Notes,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, app)
}
