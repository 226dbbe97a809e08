package agency

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/civiclink/complaints/internal/shared/errors"
	"github.com/civiclink/complaints/internal/shared/types"
	"github.com/go-chi/chi/v5"
)

// Handler provides HTTP handlers for the agency directory
type Handler struct {
	repo *Repository
}

// NewHandler creates a new agency handler
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// Routes registers the agency routes. The staff middlewares, when given,
// wrap the mutating operations; the directory itself is public.
func (h *Handler) Routes(staff ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListAgencies)
	r.Get("/{agencyID}", h.GetAgency)

	r.Group(func(r chi.Router) {
		r.Use(staff...)
		r.Post("/", h.CreateAgency)
		r.Put("/{agencyID}", h.UpdateAgency)
		r.Delete("/{agencyID}", h.DeleteAgency)
	})

	return r
}

// ListAgencies lists all agencies
func (h *Handler) ListAgencies(w http.ResponseWriter, r *http.Request) {
	agencies, err := h.repo.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	if agencies == nil {
		agencies = []Agency{}
	}

	writeJSON(w, http.StatusOK, agencies)
}

// GetAgency gets an agency by ID
func (h *Handler) GetAgency(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "agencyID"))
	if err != nil {
		writeError(w, errors.NotFound("agency", chi.URLParam(r, "agencyID")))
		return
	}

	agency, err := h.repo.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, agency)
}

// CreateAgency creates a new agency
func (h *Handler) CreateAgency(w http.ResponseWriter, r *http.Request) {
	var req CreateAgencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	if req.Name == "" {
		writeError(w, errors.Validation([]string{"Name is required"}))
		return
	}

	hours := types.DefaultOperatingHours()
	if req.Hours != nil {
		hours = *req.Hours
	}

	now := time.Now().UTC()
	agency := &Agency{
		ID:          types.NewID(),
		Name:        req.Name,
		Description: req.Description,
		Categories:  req.Categories,
		Contact:     req.Contact,
		Address:     req.Address,
		Hours:       hours,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if agency.Categories == nil {
		agency.Categories = []string{}
	}

	if err := h.repo.Create(r.Context(), agency); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, agency)
}

// UpdateAgency partially updates an agency; the id is immutable
func (h *Handler) UpdateAgency(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "agencyID"))
	if err != nil {
		writeError(w, errors.NotFound("agency", chi.URLParam(r, "agencyID")))
		return
	}

	var req UpdateAgencyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	agency, err := h.repo.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	req.Apply(agency)

	if err := h.repo.Update(r.Context(), agency); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, agency)
}

// DeleteAgency deletes an agency
func (h *Handler) DeleteAgency(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "agencyID"))
	if err != nil {
		writeError(w, errors.NotFound("agency", chi.URLParam(r, "agencyID")))
		return
	}

	if err := h.repo.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	if appErr, ok := err.(*errors.AppError); ok {
		w.WriteHeader(appErr.HTTPStatus)
		json.NewEncoder(w).Encode(map[string]any{
			"error":   appErr.Message,
			"code":    appErr.Code,
			"details": appErr.Details,
		})
		return
	}

	w.WriteHeader(http.StatusInternalServerError)
	json.NewEncoder(w).Encode(map[string]string{"error": "internal server error"})
}
