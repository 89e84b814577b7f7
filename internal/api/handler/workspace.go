package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/deskbook/deskbook/internal/api/middleware"
	"github.com/deskbook/deskbook/internal/api/response"
	"github.com/deskbook/deskbook/internal/domain"
	"github.com/deskbook/deskbook/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// WorkspaceHandler handles workspace catalog endpoints
type WorkspaceHandler struct {
	catalogService *service.CatalogService
}

// NewWorkspaceHandler creates a new workspace handler
func NewWorkspaceHandler(catalogService *service.CatalogService) *WorkspaceHandler {
	return &WorkspaceHandler{catalogService: catalogService}
}

// slotQuery is the optional ?date=&start=&end= triple on listing endpoints.
type slotQuery struct {
	date  domain.Date
	start domain.TimeOfDay
	end   domain.TimeOfDay
}

// parseSlotQuery returns the parsed triple, whether one was present, and
// whether parsing succeeded. A partial triple is an error.
func parseSlotQuery(w http.ResponseWriter, r *http.Request) (slotQuery, bool, bool) {
	q := r.URL.Query()
	dateStr, startStr, endStr := q.Get("date"), q.Get("start"), q.Get("end")
	if dateStr == "" && startStr == "" && endStr == "" {
		return slotQuery{}, false, true
	}
	if dateStr == "" || startStr == "" || endStr == "" {
		response.BadRequest(w, "date, start and end must be provided together")
		return slotQuery{}, false, false
	}

	date, err := domain.ParseDate(dateStr)
	if err != nil {
		response.BadRequest(w, err.Error())
		return slotQuery{}, false, false
	}
	start, err := domain.ParseTimeOfDay(startStr)
	if err != nil {
		response.BadRequest(w, err.Error())
		return slotQuery{}, false, false
	}
	end, err := domain.ParseTimeOfDay(endStr)
	if err != nil {
		response.BadRequest(w, err.Error())
		return slotQuery{}, false, false
	}

	return slotQuery{date: date, start: start, end: end}, true, true
}

// List returns the catalog, free-slot filtered when a slot query is present
func (h *WorkspaceHandler) List(w http.ResponseWriter, r *http.Request) {
	slot, filtered, ok := parseSlotQuery(w, r)
	if !ok {
		return
	}

	var workspaces []domain.Workspace
	var err error
	if filtered {
		workspaces, err = h.catalogService.ListFreeForSlot(r.Context(), slot.date, slot.start, slot.end)
	} else {
		workspaces, err = h.catalogService.ListAll(r.Context())
	}
	if err != nil {
		response.InternalError(w, "failed to list workspaces")
		return
	}

	response.OK(w, workspaces)
}

// ListAvailable returns workspaces whose status admits bookings
func (h *WorkspaceHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	workspaces, err := h.catalogService.ListAvailable(r.Context())
	if err != nil {
		response.InternalError(w, "failed to list workspaces")
		return
	}

	response.OK(w, workspaces)
}

// Get returns workspace details
func (h *WorkspaceHandler) Get(w http.ResponseWriter, r *http.Request) {
	workspaceID, err := uuid.Parse(chi.URLParam(r, "workspaceID"))
	if err != nil {
		response.BadRequest(w, "invalid workspace ID")
		return
	}

	workspace, err := h.catalogService.Get(r.Context(), workspaceID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "workspace not found")
			return
		}
		response.InternalError(w, "failed to get workspace")
		return
	}

	response.OK(w, workspace)
}

// FloorPlan returns all workspaces with geometry and per-slot bookability
func (h *WorkspaceHandler) FloorPlan(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	slot, filtered, ok := parseSlotQuery(w, r)
	if !ok {
		return
	}
	if !filtered {
		response.BadRequest(w, "date, start and end are required")
		return
	}

	entries, err := h.catalogService.FloorPlan(r.Context(), userID, slot.date, slot.start, slot.end)
	if err != nil {
		response.InternalError(w, "failed to build floor plan")
		return
	}

	response.OK(w, entries)
}

// Create handles administrative workspace creation
func (h *WorkspaceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input domain.WorkspaceCreate
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(input); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	workspace, err := h.catalogService.Create(r.Context(), input)
	if err != nil {
		response.InternalError(w, "failed to create workspace")
		return
	}

	response.Created(w, workspace)
}

// Update handles administrative workspace patches (status, rate, geometry)
func (h *WorkspaceHandler) Update(w http.ResponseWriter, r *http.Request) {
	workspaceID, err := uuid.Parse(chi.URLParam(r, "workspaceID"))
	if err != nil {
		response.BadRequest(w, "invalid workspace ID")
		return
	}

	var update domain.WorkspaceUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	if err := validate.Struct(update); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	workspace, err := h.catalogService.Update(r.Context(), workspaceID, update)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			response.NotFound(w, "workspace not found")
			return
		}
		response.InternalError(w, "failed to update workspace")
		return
	}

	response.OK(w, workspace)
}
