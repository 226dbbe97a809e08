package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/civiclink/complaints/internal/complaint/domain"
	"github.com/civiclink/complaints/internal/complaint/service"
	"github.com/civiclink/complaints/internal/shared/errors"
	"github.com/civiclink/complaints/internal/shared/types"
	"github.com/go-chi/chi/v5"
)

// Handler provides HTTP handlers for the complaint module
type Handler struct {
	svc *service.Service
}

// NewHandler creates a new complaint handler
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes registers the complaint routes. The staff middlewares, when
// given, wrap only the operations agency staff perform (status changes
// and responses); submission and tracking stay public.
func (h *Handler) Routes(staff ...func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListComplaints)
	r.Post("/", h.SubmitComplaint)

	r.Route("/{complaintID}", func(r chi.Router) {
		r.Get("/", h.GetComplaint)

		r.Group(func(r chi.Router) {
			r.Use(staff...)
			r.Patch("/status", h.ChangeStatus)
			r.Post("/response", h.AddResponse)
		})
	})

	return r
}

type changeStatusRequest struct {
	Status domain.Status `json:"status"`
}

type addResponseRequest struct {
	Message   string `json:"message"`
	Responder string `json:"responder"`
}

// ListComplaints lists complaints with filtering and pagination
func (h *Handler) ListComplaints(w http.ResponseWriter, r *http.Request) {
	filter := domain.ListFilter{
		Category: r.URL.Query().Get("category"),
		Agency:   r.URL.Query().Get("agency"),
		Page:     queryInt(r, "page", 1),
		Limit:    queryInt(r, "limit", 10),
	}

	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.Status(s)
		filter.Status = &status
	}
	filter.Normalize()

	complaints, total, err := h.svc.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	if complaints == nil {
		complaints = []domain.Complaint{}
	}

	totalPages := (total + filter.Limit - 1) / filter.Limit

	writeJSON(w, http.StatusOK, map[string]any{
		"complaints": complaints,
		"total":      total,
		"page":       filter.Page,
		"totalPages": totalPages,
	})
}

// GetComplaint returns a complaint with its full timeline
func (h *Handler) GetComplaint(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "complaintID"))
	if err != nil {
		writeError(w, errors.NotFound("complaint", chi.URLParam(r, "complaintID")))
		return
	}

	c, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

// SubmitComplaint files a new complaint
func (h *Handler) SubmitComplaint(w http.ResponseWriter, r *http.Request) {
	var req service.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	c, err := h.svc.Submit(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, c)
}

// ChangeStatus updates a complaint's status
func (h *Handler) ChangeStatus(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "complaintID"))
	if err != nil {
		writeError(w, errors.NotFound("complaint", chi.URLParam(r, "complaintID")))
		return
	}

	var req changeStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	c, err := h.svc.ChangeStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

// AddResponse appends a staff response to a complaint
func (h *Handler) AddResponse(w http.ResponseWriter, r *http.Request) {
	id, err := types.ParseID(chi.URLParam(r, "complaintID"))
	if err != nil {
		writeError(w, errors.NotFound("complaint", chi.URLParam(r, "complaintID")))
		return
	}

	var req addResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.BadRequest("invalid request body"))
		return
	}

	c, err := h.svc.AddResponse(r.Context(), id, req.Message, req.Responder)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

func queryInt(r *http.Request, key string, defaultValue int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
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
