package store

import (
	"context"
	"testing"
	"time"

	"github.com/emrgen/planmark/internal/model"
	"github.com/emrgen/planmark/internal/tester"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *GormStore {
	tester.Setup()
	t.Cleanup(tester.RemoveDBFile)
	return NewGormStore(tester.TestDB())
}

func TestCreateGetFloorPlan(t *testing.T) {
	s := testStore(t)
	ctx := context.TODO()

	plan := &model.FloorPlan{
		ProjectID: "project-1",
		Name:      "Level 1",
		FilePath:  "plans/level-1.png",
		FileType:  model.FileTypeImage,
		PageCount: 1,
		IsActive:  true,
	}
	require.NoError(t, s.CreateFloorPlan(ctx, plan))
	require.NotEmpty(t, plan.ID)

	got, err := s.GetFloorPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, "Level 1", got.Name)
	assert.Equal(t, model.FileTypeImage, got.FileType)
}

func TestGetFloorPlanNotFound(t *testing.T) {
	s := testStore(t)

	_, err := s.GetFloorPlan(context.TODO(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, KindNotFound, Classify(err))
}

func TestListProjectFloorPlans(t *testing.T) {
	s := testStore(t)
	ctx := context.TODO()

	second := &model.FloorPlan{
		ProjectID: "project-1",
		Name:      "Level 2",
		FilePath:  "plans/level-2.pdf",
		FileType:  model.FileTypePDF,
		PageCount: 3,
		SortOrder: 1,
		IsActive:  true,
	}
	first := &model.FloorPlan{
		ProjectID: "project-1",
		Name:      "Level 1",
		FilePath:  "plans/level-1.png",
		FileType:  model.FileTypeImage,
		PageCount: 1,
		SortOrder: 0,
		IsActive:  true,
	}
	inactive := &model.FloorPlan{
		ProjectID: "project-1",
		Name:      "Old Level",
		FilePath:  "plans/old.png",
		FileType:  model.FileTypeImage,
		PageCount: 1,
		SortOrder: 2,
		IsActive:  false,
	}
	other := &model.FloorPlan{
		ProjectID: "project-2",
		Name:      "Elsewhere",
		FilePath:  "plans/other.png",
		FileType:  model.FileTypeImage,
		PageCount: 1,
		IsActive:  true,
	}
	for _, p := range []*model.FloorPlan{second, first, inactive, other} {
		require.NoError(t, s.CreateFloorPlan(ctx, p))
	}

	require.NoError(t, s.CreateFloorPlanPage(ctx, &model.FloorPlanPage{
		FloorPlanID: second.ID,
		PageNumber:  2,
		Name:        "Mechanical",
	}))
	require.NoError(t, s.CreateFloorPlanPage(ctx, &model.FloorPlanPage{
		FloorPlanID: second.ID,
		PageNumber:  1,
		Name:        "Structural",
	}))

	base := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	late := &model.FloorPlanMarker{
		FloorPlanID: first.ID,
		PageNumber:  1,
		ItemKind:    "task",
		ItemID:      "t-1",
		XPercent:    20,
		YPercent:    20,
	}
	late.CreatedAt = base.Add(time.Minute)
	early := &model.FloorPlanMarker{
		FloorPlanID: first.ID,
		PageNumber:  1,
		ItemKind:    "rfi",
		ItemID:      "r-1",
		XPercent:    10,
		YPercent:    10,
	}
	early.CreatedAt = base
	require.NoError(t, s.CreateMarker(ctx, late))
	require.NoError(t, s.CreateMarker(ctx, early))

	plans, err := s.ListProjectFloorPlans(ctx, "project-1")
	require.NoError(t, err)
	require.Len(t, plans, 2)

	// display order, inactive and foreign plans excluded
	assert.Equal(t, first.ID, plans[0].ID)
	assert.Equal(t, second.ID, plans[1].ID)

	// pages come back in page order
	require.Len(t, plans[1].Pages, 2)
	assert.Equal(t, 1, plans[1].Pages[0].PageNumber)
	assert.Equal(t, 2, plans[1].Pages[1].PageNumber)

	// markers come back in placement order
	require.Len(t, plans[0].Markers, 2)
	assert.Equal(t, "r-1", plans[0].Markers[0].ItemID)
	assert.Equal(t, "t-1", plans[0].Markers[1].ItemID)
}

func TestUpdateFloorPlanNotFound(t *testing.T) {
	s := testStore(t)

	err := s.UpdateFloorPlan(context.TODO(), &model.FloorPlan{ID: "missing", Name: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeactivateFloorPlan(t *testing.T) {
	s := testStore(t)
	ctx := context.TODO()

	plan := &model.FloorPlan{
		ProjectID: "project-1",
		Name:      "Level 1",
		FilePath:  "plans/level-1.png",
		FileType:  model.FileTypeImage,
		PageCount: 1,
		IsActive:  true,
	}
	require.NoError(t, s.CreateFloorPlan(ctx, plan))
	require.NoError(t, s.DeactivateFloorPlan(ctx, plan.ID))

	plans, err := s.ListProjectFloorPlans(ctx, "project-1")
	require.NoError(t, err)
	assert.Empty(t, plans)

	// the record survives the soft delete
	got, err := s.GetFloorPlan(ctx, plan.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestReorderFloorPlans(t *testing.T) {
	s := testStore(t)
	ctx := context.TODO()

	var ids []string
	for _, name := range []string{"A", "B", "C"} {
		plan := &model.FloorPlan{
			ProjectID: "project-1",
			Name:      name,
			FilePath:  "plans/" + name + ".png",
			FileType:  model.FileTypeImage,
			PageCount: 1,
			SortOrder: len(ids),
			IsActive:  true,
		}
		require.NoError(t, s.CreateFloorPlan(ctx, plan))
		ids = append(ids, plan.ID)
	}

	require.NoError(t, s.ReorderFloorPlans(ctx, "project-1", []string{ids[2], ids[0], ids[1]}))

	plans, err := s.ListProjectFloorPlans(ctx, "project-1")
	require.NoError(t, err)
	require.Len(t, plans, 3)
	assert.Equal(t, "C", plans[0].Name)
	assert.Equal(t, "A", plans[1].Name)
	assert.Equal(t, "B", plans[2].Name)
}

func TestReorderFloorPlansUnknownPlan(t *testing.T) {
	s := testStore(t)

	err := s.ReorderFloorPlans(context.TODO(), "project-1", []string{"missing"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPageNumberUnique(t *testing.T) {
	s := testStore(t)
	ctx := context.TODO()

	plan := &model.FloorPlan{
		ProjectID: "project-1",
		Name:      "Level 1",
		FilePath:  "plans/level-1.pdf",
		FileType:  model.FileTypePDF,
		PageCount: 3,
		IsActive:  true,
	}
	require.NoError(t, s.CreateFloorPlan(ctx, plan))

	require.NoError(t, s.CreateFloorPlanPage(ctx, &model.FloorPlanPage{
		FloorPlanID: plan.ID,
		PageNumber:  1,
		Name:        "First",
	}))

	err := s.CreateFloorPlanPage(ctx, &model.FloorPlanPage{
		FloorPlanID: plan.ID,
		PageNumber:  1,
		Name:        "Duplicate",
	})
	assert.Error(t, err)

	page, err := s.GetFloorPlanPage(ctx, plan.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, "First", page.Name)

	_, err = s.GetFloorPlanPage(ctx, plan.ID, 2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMarkerLifecycle(t *testing.T) {
	s := testStore(t)
	ctx := context.TODO()

	plan := &model.FloorPlan{
		ProjectID: "project-1",
		Name:      "Level 1",
		FilePath:  "plans/level-1.png",
		FileType:  model.FileTypeImage,
		PageCount: 1,
		IsActive:  true,
	}
	require.NoError(t, s.CreateFloorPlan(ctx, plan))

	marker := &model.FloorPlanMarker{
		FloorPlanID: plan.ID,
		PageNumber:  1,
		ItemKind:    "rfi",
		ItemID:      "r-1",
		XPercent:    42.5,
		YPercent:    17.25,
	}
	require.NoError(t, s.CreateMarker(ctx, marker))
	require.NotEmpty(t, marker.ID)
	assert.False(t, marker.IsTemporary())

	markers, err := s.ListMarkers(ctx, plan.ID)
	require.NoError(t, err)
	require.Len(t, markers, 1)
	assert.Equal(t, marker.ID, markers[0].ID)

	require.NoError(t, s.UpdateMarkerPosition(ctx, marker.ID, 55, 60))

	got, err := s.GetMarker(ctx, marker.ID)
	require.NoError(t, err)
	assert.Equal(t, 55.0, got.XPercent)
	assert.Equal(t, 60.0, got.YPercent)

	require.NoError(t, s.DeleteMarker(ctx, marker.ID))

	_, err = s.GetMarker(ctx, marker.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = s.DeleteMarker(ctx, marker.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateMarkerPositionNotFound(t *testing.T) {
	s := testStore(t)

	err := s.UpdateMarkerPosition(context.TODO(), "missing", 1, 2)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, KindNotFound, Classify(err))
}

func TestTransactionRollsBack(t *testing.T) {
	s := testStore(t)
	ctx := context.TODO()

	err := s.Transaction(ctx, func(tx Gateway) error {
		plan := &model.FloorPlan{
			ProjectID: "project-1",
			Name:      "Level 1",
			FilePath:  "plans/level-1.png",
			FileType:  model.FileTypeImage,
			PageCount: 1,
			IsActive:  true,
		}
		if err := tx.CreateFloorPlan(ctx, plan); err != nil {
			return err
		}
		return ErrConstraint
	})
	assert.ErrorIs(t, err, ErrConstraint)

	plans, err := s.ListProjectFloorPlans(ctx, "project-1")
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, KindNotFound, Classify(ErrNotFound))
	assert.Equal(t, KindConstraint, Classify(ErrConstraint))
	assert.Equal(t, KindNetwork, Classify(ErrNetwork))
	assert.Equal(t, KindNetwork, Classify(context.DeadlineExceeded))
	assert.Equal(t, KindUnknown, Classify(assert.AnError))
	assert.Equal(t, KindUnknown, Classify(nil))
}
