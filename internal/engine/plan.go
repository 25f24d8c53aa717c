package engine

import (
	"context"
	"fmt"

	"github.com/emrgen/planmark/internal/model"
	"github.com/google/uuid"
)

// Plan-scoped rollbacks restore only the fields the mutation touched, never
// a whole-plan snapshot: a marker that reconciled on the same plan while
// the call was in flight must survive the rollback.

// RenameFloorPlan updates a plan's display name under the optimistic
// protocol.
func (e *Engine) RenameFloorPlan(ctx context.Context, planID, name string) error {
	plan, err := e.mirror.Plan(planID)
	if err != nil {
		return ErrPlanNotFound
	}
	prevName := plan.Name

	if err := e.mirror.Patch(planID, func(p *model.FloorPlan) {
		p.Name = name
	}); err != nil {
		return ErrPlanNotFound
	}
	applied := e.bumpSeq(planID)

	update := &model.FloorPlan{ID: planID, Name: name}
	if err := e.gateway.UpdateFloorPlan(ctx, update); err != nil {
		if e.seqMatches(planID, applied) {
			_ = e.mirror.Patch(planID, func(p *model.FloorPlan) {
				p.Name = prevName
			})
			e.dropSeq(planID)
		}
		e.refreshOnNotFound(ctx, err)
		return err
	}
	e.dropSeq(planID)

	e.writeCacheSnapshot(ctx)

	return nil
}

// DeleteFloorPlan soft-deletes a plan: it leaves the mirror immediately
// and is deactivated server-side, never physically removed while markers
// reference it.
func (e *Engine) DeleteFloorPlan(ctx context.Context, planID string) error {
	removed, at, err := e.mirror.Remove(planID)
	if err != nil {
		return ErrPlanNotFound
	}
	applied := e.bumpSeq(planID)

	if err := e.gateway.DeactivateFloorPlan(ctx, planID); err != nil {
		if e.seqMatches(planID, applied) {
			e.mirror.Insert(removed, at)
			e.dropSeq(planID)
		}
		e.refreshOnNotFound(ctx, err)
		return err
	}
	e.dropSeq(planID)

	e.writeCacheSnapshot(ctx)

	return nil
}

// ReorderFloorPlans rewrites the display order. The sequence entry for a
// reorder is the project itself: reorders race with each other, not with
// per-plan mutations.
func (e *Engine) ReorderFloorPlans(ctx context.Context, orderedIDs []string) error {
	before := e.mirror.Plans()

	e.mirror.Reorder(orderedIDs)
	applied := e.bumpSeq(e.projectID)

	if err := e.gateway.ReorderFloorPlans(ctx, e.projectID, orderedIDs); err != nil {
		if e.seqMatches(e.projectID, applied) {
			e.mirror.RestoreOrder(before)
			e.dropSeq(e.projectID)
		}
		e.refreshOnNotFound(ctx, err)
		return err
	}
	e.dropSeq(e.projectID)

	e.writeCacheSnapshot(ctx)

	return nil
}

// RenamePage names one page of a plan. Page records are created lazily:
// the first rename creates the record, later renames update it.
func (e *Engine) RenamePage(ctx context.Context, planID string, pageNumber int, name string) error {
	plan, err := e.mirror.Plan(planID)
	if err != nil {
		return ErrPlanNotFound
	}
	if pageNumber < 1 || pageNumber > plan.PageCount {
		return fmt.Errorf("%w: page %d of %d", ErrPageOutOfRange, pageNumber, plan.PageCount)
	}

	var existing *model.FloorPlanPage
	for i := range plan.Pages {
		if plan.Pages[i].PageNumber == pageNumber {
			existing = &plan.Pages[i]
			break
		}
	}

	tempID := model.TempIDPrefix + uuid.New().String()
	if err := e.mirror.Patch(planID, func(p *model.FloorPlan) {
		for i := range p.Pages {
			if p.Pages[i].PageNumber == pageNumber {
				p.Pages[i].Name = name
				return
			}
		}
		p.Pages = append(p.Pages, model.FloorPlanPage{
			ID:          tempID,
			FloorPlanID: planID,
			PageNumber:  pageNumber,
			Name:        name,
		})
	}); err != nil {
		return ErrPlanNotFound
	}
	seqKey := fmt.Sprintf("page:%s:%d", planID, pageNumber)
	applied := e.bumpSeq(seqKey)

	if existing != nil {
		update := &model.FloorPlanPage{
			ID:          existing.ID,
			FloorPlanID: planID,
			PageNumber:  pageNumber,
			Name:        name,
		}
		if err := e.gateway.UpdateFloorPlanPage(ctx, update); err != nil {
			if e.seqMatches(seqKey, applied) {
				_ = e.mirror.Patch(planID, func(p *model.FloorPlan) {
					for i := range p.Pages {
						if p.Pages[i].PageNumber == pageNumber {
							p.Pages[i].Name = existing.Name
							return
						}
					}
				})
				e.dropSeq(seqKey)
			}
			e.refreshOnNotFound(ctx, err)
			return err
		}
	} else {
		committed := &model.FloorPlanPage{
			FloorPlanID: planID,
			PageNumber:  pageNumber,
			Name:        name,
		}
		if err := e.gateway.CreateFloorPlanPage(ctx, committed); err != nil {
			if e.seqMatches(seqKey, applied) {
				_ = e.mirror.Patch(planID, func(p *model.FloorPlan) {
					for i := range p.Pages {
						if p.Pages[i].ID == tempID {
							p.Pages = append(p.Pages[:i], p.Pages[i+1:]...)
							return
						}
					}
				})
				e.dropSeq(seqKey)
			}
			e.refreshOnNotFound(ctx, err)
			return err
		}

		// Reconcile the lazily created page's temp id.
		_ = e.mirror.Patch(planID, func(p *model.FloorPlan) {
			for i := range p.Pages {
				if p.Pages[i].ID == tempID {
					p.Pages[i] = *committed
					return
				}
			}
		})
	}
	e.dropSeq(seqKey)

	e.writeCacheSnapshot(ctx)

	return nil
}

// PageNames returns the display name of every page of a plan in page
// order, falling back to the default name for pages never renamed.
func (e *Engine) PageNames(planID string) ([]string, error) {
	plan, err := e.mirror.Plan(planID)
	if err != nil {
		return nil, ErrPlanNotFound
	}

	names := make([]string, plan.PageCount)
	for i := range names {
		names[i] = model.DefaultPageName(i + 1)
	}
	for _, page := range plan.Pages {
		if page.PageNumber >= 1 && page.PageNumber <= plan.PageCount {
			names[page.PageNumber-1] = page.Name
		}
	}

	return names, nil
}
