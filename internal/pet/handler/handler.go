package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"homeward/internal/pet/models"
	petservice "homeward/internal/pet/service"
	id "homeward/pkg/domain"
	"homeward/pkg/platform/httputil"
	"homeward/pkg/requestcontext"
)

// Service defines the interface for pet catalog operations.
type Service interface {
	Create(ctx context.Context, req petservice.CreateRequest) (*models.Pet, error)
	Get(ctx context.Context, petID id.PetID) (*models.Pet, error)
	List(ctx context.Context) ([]*models.Pet, error)
	SetStatus(ctx context.Context, petID id.PetID, next models.Status) (*models.Pet, error)
}

// Handler wires pet catalog endpoints to the pet service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts pet catalog endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/pets", h.HandleCreate)
	r.Get("/pets", h.HandleList)
	r.Get("/pets/{petID}", h.HandleGet)
	r.Put("/pets/{petID}/status", h.HandleSetStatus)
}

// CreatePetRequest is the POST /pets payload.
type CreatePetRequest struct {
	Name        string `json:"name"`
	Species     string `json:"species"`
	Breed       string `json:"breed"`
	Description string `json:"description"`
	AdoptionFee int    `json:"adoption_fee"`
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.Decode[CreatePetRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	pet, err := h.service.Create(ctx, petservice.CreateRequest{
		Name:        req.Name,
		Species:     req.Species,
		Breed:       req.Breed,
		Description: req.Description,
		AdoptionFee: req.AdoptionFee,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "pet listed",
		"request_id", requestID,
		"pet_id", pet.ID,
		"shelter_id", pet.ShelterID,
	)
	httputil.WriteJSON(w, http.StatusCreated, pet)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	pets, err := h.service.List(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if pets == nil {
		pets = []*models.Pet{}
	}
	httputil.WriteJSON(w, http.StatusOK, pets)
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	petID, err := id.ParsePetID(chi.URLParam(r, "petID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	pet, err := h.service.Get(ctx, petID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, pet)
}

// SetStatusRequest is the PUT /pets/{petID}/status payload.
type SetStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	petID, err := id.ParsePetID(chi.URLParam(r, "petID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	req, ok := httputil.Decode[SetStatusRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	next, err := models.ParseStatus(req.Status)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	pet, err := h.service.SetStatus(ctx, petID, next)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "pet status updated",
		"request_id", requestID,
		"pet_id", pet.ID,
		"status", pet.Status,
	)
	httputil.WriteJSON(w, http.StatusOK, pet)
}
