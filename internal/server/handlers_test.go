package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/emrgen/planmark/internal/model"
	"github.com/emrgen/planmark/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubGateway serves a fixed plan list and can fail the next list call.
type stubGateway struct {
	plans     []*model.FloorPlan
	listErr   error
	listCalls int
}

var _ store.Gateway = (*stubGateway)(nil)

func (s *stubGateway) ListProjectFloorPlans(ctx context.Context, projectID string) ([]*model.FloorPlan, error) {
	s.listCalls++
	if s.listErr != nil {
		err := s.listErr
		s.listErr = nil
		return nil, err
	}
	return s.plans, nil
}

func (s *stubGateway) CreateFloorPlan(ctx context.Context, plan *model.FloorPlan) error { return nil }
func (s *stubGateway) GetFloorPlan(ctx context.Context, id string) (*model.FloorPlan, error) {
	return nil, store.ErrNotFound
}
func (s *stubGateway) UpdateFloorPlan(ctx context.Context, plan *model.FloorPlan) error { return nil }
func (s *stubGateway) DeactivateFloorPlan(ctx context.Context, id string) error         { return nil }
func (s *stubGateway) ReorderFloorPlans(ctx context.Context, projectID string, orderedIDs []string) error {
	return nil
}
func (s *stubGateway) CreateFloorPlanPage(ctx context.Context, page *model.FloorPlanPage) error {
	return nil
}
func (s *stubGateway) GetFloorPlanPage(ctx context.Context, floorPlanID string, pageNumber int) (*model.FloorPlanPage, error) {
	return nil, store.ErrNotFound
}
func (s *stubGateway) UpdateFloorPlanPage(ctx context.Context, page *model.FloorPlanPage) error {
	return nil
}
func (s *stubGateway) CreateMarker(ctx context.Context, marker *model.FloorPlanMarker) error {
	return nil
}
func (s *stubGateway) GetMarker(ctx context.Context, id string) (*model.FloorPlanMarker, error) {
	return nil, store.ErrNotFound
}
func (s *stubGateway) ListMarkers(ctx context.Context, floorPlanID string) ([]*model.FloorPlanMarker, error) {
	return nil, nil
}
func (s *stubGateway) UpdateMarkerPosition(ctx context.Context, id string, x, y float64) error {
	return nil
}
func (s *stubGateway) DeleteMarker(ctx context.Context, id string) error { return nil }
func (s *stubGateway) Transaction(ctx context.Context, f func(tx store.Gateway) error) error {
	return f(s)
}
func (s *stubGateway) Migrate() error { return nil }

func testHandler(gw *stubGateway) http.Handler {
	return NewHandler(store.NewDefaultProvider(gw), nil, nil, nil).Routes()
}

func testPlans() []*model.FloorPlan {
	return []*model.FloorPlan{
		{
			ID:        "plan-1",
			ProjectID: "project-1",
			Name:      "Level 1",
			FileType:  model.FileTypePDF,
			PageCount: 3,
			IsActive:  true,
			Pages: []model.FloorPlanPage{
				{ID: "pg-1", FloorPlanID: "plan-1", PageNumber: 2, Name: "Mechanical"},
			},
		},
	}
}

func TestFailedLoadDoesNotCacheEngine(t *testing.T) {
	gw := &stubGateway{plans: testPlans(), listErr: store.ErrNetwork}
	routes := testHandler(gw)

	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/projects/project-1/plans", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	// the outage passed; the next request must load fresh instead of
	// serving an empty mirror from a half-built engine
	rec = httptest.NewRecorder()
	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/projects/project-1/plans", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "plan-1")
	assert.Equal(t, 2, gw.listCalls)
}

func TestListPlansReusesEngine(t *testing.T) {
	gw := &stubGateway{plans: testPlans()}
	routes := testHandler(gw)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		routes.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/projects/project-1/plans", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	assert.Equal(t, 1, gw.listCalls)
}

func TestListPages(t *testing.T) {
	gw := &stubGateway{plans: testPlans()}
	routes := testHandler(gw)

	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/projects/project-1/plans/plan-1/pages", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page 1")
	assert.Contains(t, rec.Body.String(), "Mechanical")
	assert.Contains(t, rec.Body.String(), "Page 3")
}

func TestMutationRoutesRequirePrivilege(t *testing.T) {
	gw := &stubGateway{plans: testPlans()}
	routes := testHandler(gw)

	rec := httptest.NewRecorder()
	routes.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/v1/projects/project-1/markers/m1", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
