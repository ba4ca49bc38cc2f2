package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "evagobi/internal/errors"
	"evagobi/internal/middleware"
	"evagobi/internal/operations"
	"evagobi/pkg/contracts/events"
)

// RunRequest is the body of POST /api/operations/run. Every field is
// optional; an empty body runs the default pipeline with the configured
// simulation window.
type RunRequest struct {
	Steps     []string `json:"steps,omitempty" validate:"omitempty,unique,dive,oneof=generate prepare export trends"`
	StartDate string   `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string   `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Seed      *int64   `json:"seed,omitempty"`
	Profile   string   `json:"profile,omitempty" validate:"omitempty,oneof=standard global partner"`
	EventDate string   `json:"event_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// OperationRequest converts the body into a manager request
func (req RunRequest) OperationRequest() operations.OperationRequest {
	params := make(map[string]string)
	if req.StartDate != "" {
		params[operations.ParamStartDate] = req.StartDate
	}
	if req.EndDate != "" {
		params[operations.ParamEndDate] = req.EndDate
	}
	if req.Seed != nil {
		params[operations.ParamSeed] = strconv.FormatInt(*req.Seed, 10)
	}
	if req.Profile != "" {
		params[operations.ParamProfile] = req.Profile
	}
	if req.EventDate != "" {
		params[operations.ParamEventDate] = req.EventDate
	}
	return operations.OperationRequest{Steps: req.Steps, Parameters: params}
}

// RunResponse is returned when a run has been accepted
type RunResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Href   string `json:"href"`
}

// OperationList is the body of GET /api/operations
type OperationList struct {
	Operations []events.OperationSnapshot `json:"operations"`
	Running    string                     `json:"running,omitempty"`
}

// OperationsHandler handles operation-related HTTP requests
type OperationsHandler struct {
	service    OperationService
	validator  *middleware.RequestValidator
	errHandler *apierrors.ErrorHandler
	logger     *slog.Logger
}

// NewOperationsHandler creates a new operations handler
func NewOperationsHandler(service OperationService, errHandler *apierrors.ErrorHandler, logger *slog.Logger) *OperationsHandler {
	if service == nil {
		panic("service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OperationsHandler{
		service:    service,
		validator:  middleware.NewRequestValidator(),
		errHandler: errHandler,
		logger:     logger.With(slog.String("handler", "operations")),
	}
}

// Routes returns a chi router for operations endpoints
func (h *OperationsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.With(middleware.ContentTypeJSON).Post("/run", h.RunOperation)
	r.Get("/", h.ListOperations)
	r.Get("/{id}", h.GetOperation)
	r.Post("/{id}/cancel", h.CancelOperation)
	return r
}

// RunOperation handles POST /api/operations/run
func (h *OperationsHandler) RunOperation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RunRequest
	if err := h.validator.Decode(w, r, &req); err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}

	id, err := h.service.Start(ctx, req.OperationRequest())
	if err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(ctx, "operation accepted",
		slog.String("operation_id", id),
		slog.Any("steps", req.Steps))

	w.Header().Set("Location", "/api/operations/"+id)
	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, RunResponse{ID: id, Status: "accepted", Href: "/api/operations/" + id})
}

// ListOperations handles GET /api/operations
func (h *OperationsHandler) ListOperations(w http.ResponseWriter, r *http.Request) {
	snapshots := h.service.List()
	if snapshots == nil {
		snapshots = []events.OperationSnapshot{}
	}
	render.JSON(w, r, OperationList{Operations: snapshots, Running: h.service.Running()})
}

// GetOperation handles GET /api/operations/{id}
func (h *OperationsHandler) GetOperation(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.Get(chi.URLParam(r, "id"))
	if err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}
	render.JSON(w, r, snapshot)
}

// CancelOperation handles POST /api/operations/{id}/cancel
func (h *OperationsHandler) CancelOperation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.Cancel(id); err != nil {
		h.errHandler.HandleError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "operation cancel requested", slog.String("operation_id", id))
	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, RunResponse{ID: id, Status: "cancelling", Href: "/api/operations/" + id})
}
