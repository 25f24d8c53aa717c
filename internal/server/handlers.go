package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/emrgen/planmark/internal/cache"
	"github.com/emrgen/planmark/internal/engine"
	"github.com/emrgen/planmark/internal/geometry"
	"github.com/emrgen/planmark/internal/item"
	"github.com/emrgen/planmark/internal/projection"
	"github.com/emrgen/planmark/internal/queue"
	"github.com/emrgen/planmark/internal/store"
)

// Handler serves the JSON API. Engines are created lazily, one per project,
// and registered with the refresh sweep.
type Handler struct {
	provider store.GatewayProvider
	cache    cache.MirrorCache
	queue    queue.MarkerQueue
	refresh  jobsRegistrar

	mu      sync.Mutex
	engines map[string]*engine.Engine
}

// jobsRegistrar is the slice of the refresh task the handler needs.
type jobsRegistrar interface {
	Register(e *engine.Engine)
}

func NewHandler(provider store.GatewayProvider, c cache.MirrorCache, q queue.MarkerQueue, refresh jobsRegistrar) *Handler {
	return &Handler{
		provider: provider,
		cache:    c,
		queue:    q,
		refresh:  refresh,
		engines:  make(map[string]*engine.Engine),
	}
}

func (h *Handler) engine(r *http.Request, projectID string) (*engine.Engine, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if e, ok := h.engines[projectID]; ok {
		return e, nil
	}

	gateway, err := h.provider.Provide(projectID)
	if err != nil {
		return nil, err
	}

	e := engine.New(projectID, gateway,
		engine.WithCache(h.cache),
		engine.WithQueue(h.queue),
	)
	// cache the engine only once its mirror holds real state; a failed
	// load must not pin an empty mirror for the project
	if err := e.Load(r.Context()); err != nil {
		return nil, err
	}

	h.engines[projectID] = e
	if h.refresh != nil {
		h.refresh.Register(e)
	}

	return e, nil
}

func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /v1/projects/{projectID}/plans", h.listPlans)
	mux.HandleFunc("GET /v1/projects/{projectID}/plans/{planID}/pages", h.listPages)
	mux.HandleFunc("POST /v1/projects/{projectID}/refresh", h.refreshProject)
	mux.HandleFunc("POST /v1/projects/{projectID}/projection", h.projectMarkers)

	mux.HandleFunc("POST /v1/projects/{projectID}/plans/{planID}/markers", requirePrivileged(h.createMarker))
	mux.HandleFunc("PATCH /v1/projects/{projectID}/markers/{markerID}/position", requirePrivileged(h.repositionMarker))
	mux.HandleFunc("DELETE /v1/projects/{projectID}/markers/{markerID}", requirePrivileged(h.deleteMarker))

	mux.HandleFunc("PATCH /v1/projects/{projectID}/plans/{planID}", requirePrivileged(h.renamePlan))
	mux.HandleFunc("DELETE /v1/projects/{projectID}/plans/{planID}", requirePrivileged(h.deletePlan))
	mux.HandleFunc("POST /v1/projects/{projectID}/plans/reorder", requirePrivileged(h.reorderPlans))
	mux.HandleFunc("PATCH /v1/projects/{projectID}/plans/{planID}/pages/{pageNumber}", requirePrivileged(h.renamePage))

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, store.ErrStoreNotFound),
		errors.Is(err, engine.ErrPlanNotFound),
		errors.Is(err, engine.ErrMarkerNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, store.ErrConstraint),
		errors.Is(err, engine.ErrPageOutOfRange),
		errors.Is(err, engine.ErrDuplicateMarker),
		errors.Is(err, engine.ErrMarkerPending),
		errors.Is(err, item.ErrUnknownKind):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, store.ErrNetwork):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (h *Handler) listPlans(w http.ResponseWriter, r *http.Request) {
	e, err := h.engine(r, r.PathValue("projectID"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"plans": e.Mirror().Plans(),
	})
}

type pageResponse struct {
	Number int    `json:"number"`
	Name   string `json:"name"`
}

func (h *Handler) listPages(w http.ResponseWriter, r *http.Request) {
	e, err := h.engine(r, r.PathValue("projectID"))
	if err != nil {
		writeError(w, err)
		return
	}

	names, err := e.PageNames(r.PathValue("planID"))
	if err != nil {
		writeError(w, err)
		return
	}

	pages := make([]pageResponse, 0, len(names))
	for i, name := range names {
		pages = append(pages, pageResponse{Number: i + 1, Name: name})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"pages": pages,
	})
}

func (h *Handler) refreshProject(w http.ResponseWriter, r *http.Request) {
	e, err := h.engine(r, r.PathValue("projectID"))
	if err != nil {
		writeError(w, err)
		return
	}

	if err := e.Refresh(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"plans": e.Mirror().Plans(),
	})
}

type projectionRequest struct {
	FloorPlanID string                  `json:"floor_plan_id"`
	Page        int                     `json:"page"`
	Kind        string                  `json:"kind"`
	Status      projection.StatusFilter `json:"status"`
	RFIs        []item.Record           `json:"rfis"`
	Submittals  []item.Record           `json:"submittals"`
	Tasks       []item.Record           `json:"tasks"`
}

func (h *Handler) projectMarkers(w http.ResponseWriter, r *http.Request) {
	e, err := h.engine(r, r.PathValue("projectID"))
	if err != nil {
		writeError(w, err)
		return
	}

	var req projectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Kind == "" {
		req.Kind = projection.KindFilterAll
	}
	if req.Status == "" {
		req.Status = projection.StatusFilterAll
	}

	plan, err := e.Mirror().Plan(req.FloorPlanID)
	if err != nil {
		writeError(w, engine.ErrPlanNotFound)
		return
	}

	items := item.NewSet().
		WithKind(item.KindRFI, req.RFIs).
		WithKind(item.KindSubmittal, req.Submittals).
		WithKind(item.KindTask, req.Tasks)

	markers := projection.Project(projection.Input{
		Plan:   plan,
		Page:   req.Page,
		Kind:   req.Kind,
		Status: req.Status,
		Items:  items,
		Now:    time.Now(),
	})

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"markers": markers,
	})
}

type createMarkerRequest struct {
	PageNumber int     `json:"page_number"`
	ItemKind   string  `json:"item_kind"`
	ItemID     string  `json:"item_id"`
	XPercent   float64 `json:"x_percent"`
	YPercent   float64 `json:"y_percent"`
}

func (h *Handler) createMarker(w http.ResponseWriter, r *http.Request) {
	e, err := h.engine(r, r.PathValue("projectID"))
	if err != nil {
		writeError(w, err)
		return
	}

	var req createMarkerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	marker, err := e.CreateMarker(r.Context(), engine.CreateMarkerInput{
		FloorPlanID: r.PathValue("planID"),
		PageNumber:  req.PageNumber,
		ItemKind:    item.Kind(req.ItemKind),
		ItemID:      req.ItemID,
		Position:    geometry.Position{X: req.XPercent, Y: req.YPercent},
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"marker": marker,
	})
}

type positionRequest struct {
	XPercent float64 `json:"x_percent"`
	YPercent float64 `json:"y_percent"`
}

func (h *Handler) repositionMarker(w http.ResponseWriter, r *http.Request) {
	e, err := h.engine(r, r.PathValue("projectID"))
	if err != nil {
		writeError(w, err)
		return
	}

	var req positionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	err = e.RepositionMarker(r.Context(), r.PathValue("markerID"),
		geometry.Position{X: req.XPercent, Y: req.YPercent})
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteMarker(w http.ResponseWriter, r *http.Request) {
	e, err := h.engine(r, r.PathValue("projectID"))
	if err != nil {
		writeError(w, err)
		return
	}

	if err := e.DeleteMarker(r.Context(), r.PathValue("markerID")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type renameRequest struct {
	Name string `json:"name"`
}

func (h *Handler) renamePlan(w http.ResponseWriter, r *http.Request) {
	e, err := h.engine(r, r.PathValue("projectID"))
	if err != nil {
		writeError(w, err)
		return
	}

	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := e.RenameFloorPlan(r.Context(), r.PathValue("planID"), req.Name); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deletePlan(w http.ResponseWriter, r *http.Request) {
	e, err := h.engine(r, r.PathValue("projectID"))
	if err != nil {
		writeError(w, err)
		return
	}

	if err := e.DeleteFloorPlan(r.Context(), r.PathValue("planID")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type reorderRequest struct {
	OrderedIDs []string `json:"ordered_ids"`
}

func (h *Handler) reorderPlans(w http.ResponseWriter, r *http.Request) {
	e, err := h.engine(r, r.PathValue("projectID"))
	if err != nil {
		writeError(w, err)
		return
	}

	var req reorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := e.ReorderFloorPlans(r.Context(), req.OrderedIDs); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) renamePage(w http.ResponseWriter, r *http.Request) {
	e, err := h.engine(r, r.PathValue("projectID"))
	if err != nil {
		writeError(w, err)
		return
	}

	pageNumber, err := strconv.Atoi(r.PathValue("pageNumber"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := e.RenamePage(r.Context(), r.PathValue("planID"), pageNumber, req.Name); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
