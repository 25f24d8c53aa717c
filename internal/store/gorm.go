package store

import (
	"context"

	"github.com/emrgen/planmark/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db: db,
	}
}

var _ Gateway = (*GormStore)(nil)

type GormStore struct {
	db *gorm.DB
}

func (g *GormStore) CreateFloorPlan(ctx context.Context, plan *model.FloorPlan) error {
	if plan.ID == "" {
		plan.ID = uuid.New().String()
	}
	return wrap("create floor plan", model.CreateFloorPlan(g.db.WithContext(ctx), plan))
}

func (g *GormStore) GetFloorPlan(ctx context.Context, id string) (*model.FloorPlan, error) {
	plan, err := model.GetFloorPlan(g.db.WithContext(ctx), id)
	if err != nil {
		return nil, wrap("get floor plan", err)
	}
	return plan, nil
}

// ListProjectFloorPlans is the initial-load query: one call returns the
// project's active plans with pages and markers preloaded, so the mirror is
// never built from partially fetched state.
func (g *GormStore) ListProjectFloorPlans(ctx context.Context, projectID string) ([]*model.FloorPlan, error) {
	var plans []*model.FloorPlan
	err := g.db.WithContext(ctx).
		Where("project_id = ? AND is_active = ?", projectID, true).
		Preload("Pages", func(db *gorm.DB) *gorm.DB {
			return db.Order("page_number asc")
		}).
		Preload("Markers", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at asc")
		}).
		Order("sort_order asc").
		Find(&plans).Error
	if err != nil {
		return nil, wrap("list floor plans", err)
	}

	return plans, nil
}

func (g *GormStore) UpdateFloorPlan(ctx context.Context, plan *model.FloorPlan) error {
	res := g.db.WithContext(ctx).Model(&model.FloorPlan{}).Where("id = ?", plan.ID).Updates(plan)
	if res.Error != nil {
		return wrap("update floor plan", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("update floor plan", gorm.ErrRecordNotFound)
	}

	return nil
}

func (g *GormStore) DeactivateFloorPlan(ctx context.Context, id string) error {
	res := g.db.WithContext(ctx).Model(&model.FloorPlan{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return wrap("deactivate floor plan", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("deactivate floor plan", gorm.ErrRecordNotFound)
	}

	return nil
}

func (g *GormStore) ReorderFloorPlans(ctx context.Context, projectID string, orderedIDs []string) error {
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range orderedIDs {
			res := tx.Model(&model.FloorPlan{}).
				Where("id = ? AND project_id = ?", id, projectID).
				Update("sort_order", i)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}
		return nil
	})

	return wrap("reorder floor plans", err)
}

func (g *GormStore) CreateFloorPlanPage(ctx context.Context, page *model.FloorPlanPage) error {
	if page.ID == "" {
		page.ID = uuid.New().String()
	}
	return wrap("create page", model.CreateFloorPlanPage(g.db.WithContext(ctx), page))
}

func (g *GormStore) GetFloorPlanPage(ctx context.Context, floorPlanID string, pageNumber int) (*model.FloorPlanPage, error) {
	var page model.FloorPlanPage
	err := g.db.WithContext(ctx).
		Where("floor_plan_id = ? AND page_number = ?", floorPlanID, pageNumber).
		First(&page).Error
	if err != nil {
		return nil, wrap("get page", err)
	}
	return &page, nil
}

func (g *GormStore) UpdateFloorPlanPage(ctx context.Context, page *model.FloorPlanPage) error {
	res := g.db.WithContext(ctx).Model(&model.FloorPlanPage{}).Where("id = ?", page.ID).Updates(page)
	if res.Error != nil {
		return wrap("update page", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("update page", gorm.ErrRecordNotFound)
	}

	return nil
}

func (g *GormStore) CreateMarker(ctx context.Context, marker *model.FloorPlanMarker) error {
	if marker.ID == "" {
		marker.ID = uuid.New().String()
	}
	return wrap("create marker", model.CreateFloorPlanMarker(g.db.WithContext(ctx), marker))
}

func (g *GormStore) GetMarker(ctx context.Context, id string) (*model.FloorPlanMarker, error) {
	var marker model.FloorPlanMarker
	err := g.db.WithContext(ctx).Where("id = ?", id).First(&marker).Error
	if err != nil {
		return nil, wrap("get marker", err)
	}
	return &marker, nil
}

func (g *GormStore) ListMarkers(ctx context.Context, floorPlanID string) ([]*model.FloorPlanMarker, error) {
	markers, err := model.GetFloorPlanMarkers(g.db.WithContext(ctx), floorPlanID)
	if err != nil {
		return nil, wrap("list markers", err)
	}
	return markers, nil
}

func (g *GormStore) UpdateMarkerPosition(ctx context.Context, id string, xPercent, yPercent float64) error {
	res := g.db.WithContext(ctx).Model(&model.FloorPlanMarker{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"x_percent": xPercent, "y_percent": yPercent})
	if res.Error != nil {
		return wrap("update marker position", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("update marker position", gorm.ErrRecordNotFound)
	}

	return nil
}

func (g *GormStore) DeleteMarker(ctx context.Context, id string) error {
	res := g.db.WithContext(ctx).Where("id = ?", id).Delete(&model.FloorPlanMarker{})
	if res.Error != nil {
		return wrap("delete marker", res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("delete marker", gorm.ErrRecordNotFound)
	}

	return nil
}

func (g *GormStore) Migrate() error {
	return model.Migrate(g.db)
}

func (g *GormStore) Transaction(ctx context.Context, f func(tx Gateway) error) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return f(&GormStore{db: tx})
	})
}
