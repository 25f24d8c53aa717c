package engine

import (
	"context"
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/emrgen/planmark/internal/geometry"
	"github.com/emrgen/planmark/internal/item"
	"github.com/emrgen/planmark/internal/model"
	"github.com/google/uuid"
)

// CreateMarkerInput is the payload of a marker placement. Position is in
// percent space; callers convert pointer coordinates with geometry.ToPercent.
type CreateMarkerInput struct {
	FloorPlanID string
	PageNumber  int
	ItemKind    item.Kind
	ItemID      string
	Position    geometry.Position
}

func itemKey(kind, id string) string {
	return kind + ":" + id
}

// placedItems collects the (kind, item) pairs that already carry a marker,
// scoped per the duplicate policy.
func (e *Engine) placedItems(floorPlanID string) mapset.Set[string] {
	placed := mapset.NewSet[string]()
	for _, plan := range e.mirror.Plans() {
		if e.policy == DuplicatePerPlan && plan.ID != floorPlanID {
			continue
		}
		for _, marker := range plan.Markers {
			placed.Add(itemKey(marker.ItemKind, marker.ItemID))
		}
	}

	return placed
}

// CreateMarker applies the optimistic create protocol: insert a temp-id
// marker into the mirror now, send the payload (without the temp id) to the
// gateway, then swap the committed record in at the same list position, or
// remove the optimistic entry again on failure.
func (e *Engine) CreateMarker(ctx context.Context, in CreateMarkerInput) (*model.FloorPlanMarker, error) {
	if _, err := item.ParseKind(string(in.ItemKind)); err != nil {
		return nil, err
	}

	plan, err := e.mirror.Plan(in.FloorPlanID)
	if err != nil {
		return nil, ErrPlanNotFound
	}
	if in.PageNumber < 1 || in.PageNumber > plan.PageCount {
		return nil, fmt.Errorf("%w: page %d of %d", ErrPageOutOfRange, in.PageNumber, plan.PageCount)
	}
	if e.policy != DuplicateUnrestricted && e.placedItems(in.FloorPlanID).Contains(itemKey(string(in.ItemKind), in.ItemID)) {
		return nil, ErrDuplicateMarker
	}

	pos := in.Position.Clamped()
	tempID := model.TempIDPrefix + uuid.New().String()
	optimistic := model.FloorPlanMarker{
		ID:          tempID,
		FloorPlanID: in.FloorPlanID,
		PageNumber:  in.PageNumber,
		ItemKind:    string(in.ItemKind),
		ItemID:      in.ItemID,
		XPercent:    pos.X,
		YPercent:    pos.Y,
	}
	optimistic.CreatedAt = e.now()

	if err := e.mirror.Patch(in.FloorPlanID, func(p *model.FloorPlan) {
		p.Markers = append(p.Markers, optimistic)
	}); err != nil {
		return nil, ErrPlanNotFound
	}
	applied := e.bumpSeq(tempID)

	committed := &model.FloorPlanMarker{
		FloorPlanID: in.FloorPlanID,
		PageNumber:  in.PageNumber,
		ItemKind:    string(in.ItemKind),
		ItemID:      in.ItemID,
		XPercent:    pos.X,
		YPercent:    pos.Y,
	}
	if err := e.gateway.CreateMarker(ctx, committed); err != nil {
		e.rollbackCreate(tempID, in.FloorPlanID, applied)
		e.refreshOnNotFound(ctx, err)
		return nil, err
	}

	// Reconcile: the temp entry gives way to the committed record at the
	// position it occupied.
	if err := e.mirror.Patch(in.FloorPlanID, func(p *model.FloorPlan) {
		for i := range p.Markers {
			if p.Markers[i].ID == tempID {
				p.Markers[i] = *committed
				return
			}
		}
	}); err != nil {
		// Plan vanished from the mirror mid-flight (caller tore down and a
		// refresh raced us). The next full refresh picks the record up.
		e.dropSeq(tempID)
		return committed, nil
	}
	e.dropSeq(tempID)

	e.writeCacheSnapshot(ctx)
	e.publishChange(ctx, in.FloorPlanID, committed.ID, "create")

	return committed, nil
}

func (e *Engine) rollbackCreate(tempID, floorPlanID string, applied uint64) {
	if !e.seqMatches(tempID, applied) {
		return
	}

	_ = e.mirror.Patch(floorPlanID, func(p *model.FloorPlan) {
		for i := range p.Markers {
			if p.Markers[i].ID == tempID {
				p.Markers = append(p.Markers[:i], p.Markers[i+1:]...)
				return
			}
		}
	})
	e.dropSeq(tempID)
}

// RepositionMarker overwrites a marker's coordinates optimistically and
// restores the exact previous position if the gateway rejects the move.
func (e *Engine) RepositionMarker(ctx context.Context, markerID string, pos geometry.Position) error {
	planID, before, err := e.mirror.FindMarker(markerID)
	if err != nil {
		return ErrMarkerNotFound
	}
	if before.IsTemporary() {
		return ErrMarkerPending
	}

	pos = pos.Clamped()

	if err := e.mirror.Patch(planID, func(p *model.FloorPlan) {
		for i := range p.Markers {
			if p.Markers[i].ID == markerID {
				p.Markers[i].XPercent = pos.X
				p.Markers[i].YPercent = pos.Y
				return
			}
		}
	}); err != nil {
		return ErrMarkerNotFound
	}
	applied := e.bumpSeq(markerID)

	if err := e.gateway.UpdateMarkerPosition(ctx, markerID, pos.X, pos.Y); err != nil {
		if e.seqMatches(markerID, applied) {
			_ = e.mirror.Patch(planID, func(p *model.FloorPlan) {
				for i := range p.Markers {
					if p.Markers[i].ID == markerID {
						p.Markers[i].XPercent = before.XPercent
						p.Markers[i].YPercent = before.YPercent
						return
					}
				}
			})
			e.dropSeq(markerID)
		}
		e.refreshOnNotFound(ctx, err)
		return err
	}
	e.dropSeq(markerID)

	e.writeCacheSnapshot(ctx)
	e.publishChange(ctx, planID, markerID, "reposition")

	return nil
}

// DeleteMarker removes a marker optimistically; a rejected delete puts it
// back at its original list position with its original data.
func (e *Engine) DeleteMarker(ctx context.Context, markerID string) error {
	planID, _, err := e.mirror.FindMarker(markerID)
	if err != nil {
		return ErrMarkerNotFound
	}

	var removed model.FloorPlanMarker
	var removedAt int
	if err := e.mirror.Patch(planID, func(p *model.FloorPlan) {
		for i := range p.Markers {
			if p.Markers[i].ID == markerID {
				removed = p.Markers[i]
				removedAt = i
				p.Markers = append(p.Markers[:i], p.Markers[i+1:]...)
				return
			}
		}
	}); err != nil {
		return ErrMarkerNotFound
	}
	if removed.IsTemporary() {
		// The create never settled; restore and refuse.
		_ = e.mirror.Patch(planID, func(p *model.FloorPlan) {
			p.Markers = insertMarker(p.Markers, removed, removedAt)
		})
		return ErrMarkerPending
	}
	applied := e.bumpSeq(markerID)

	if err := e.gateway.DeleteMarker(ctx, markerID); err != nil {
		if e.seqMatches(markerID, applied) {
			_ = e.mirror.Patch(planID, func(p *model.FloorPlan) {
				p.Markers = insertMarker(p.Markers, removed, removedAt)
			})
			e.dropSeq(markerID)
		}
		e.refreshOnNotFound(ctx, err)
		return err
	}
	e.dropSeq(markerID)

	e.writeCacheSnapshot(ctx)
	e.publishChange(ctx, planID, markerID, "delete")

	return nil
}

func insertMarker(markers []model.FloorPlanMarker, marker model.FloorPlanMarker, at int) []model.FloorPlanMarker {
	if at < 0 {
		at = 0
	}
	if at > len(markers) {
		at = len(markers)
	}

	markers = append(markers, model.FloorPlanMarker{})
	copy(markers[at+1:], markers[at:])
	markers[at] = marker

	return markers
}
