package model

import (
	"strings"

	"gorm.io/gorm"
)

// TempIDPrefix marks client-assigned marker ids that have not been
// reconciled against the server yet. Server ids are plain uuids, so the
// prefix keeps the two id spaces disjoint.
const TempIDPrefix = "tmp-"

// FloorPlanMarker is a positioned reference from a floor-plan page to an
// externally owned work item. It carries no business data about the item;
// that is joined in at read time by the projection layer.
type FloorPlanMarker struct {
	gorm.Model
	ID          string  `gorm:"primaryKey;uuid;not null;"`
	FloorPlanID string  `gorm:"uuid;not null;index:floor_plan_marker_plan_index"`
	PageNumber  int     `gorm:"not null;default:1"`
	ItemKind    string  `gorm:"not null"` // rfi, submittal, task
	ItemID      string  `gorm:"not null"`
	XPercent    float64 `gorm:"not null"`
	YPercent    float64 `gorm:"not null"`
}

func (FloorPlanMarker) TableName() string {
	return "floor_plan_markers"
}

// IsTemporary reports whether the marker still carries a client-assigned id.
func (m *FloorPlanMarker) IsTemporary() bool {
	return strings.HasPrefix(m.ID, TempIDPrefix)
}

func CreateFloorPlanMarker(db *gorm.DB, marker *FloorPlanMarker) error {
	return db.Create(marker).Error
}

func GetFloorPlanMarkers(db *gorm.DB, floorPlanID string) ([]*FloorPlanMarker, error) {
	markers := make([]*FloorPlanMarker, 0)
	err := db.Where("floor_plan_id = ?", floorPlanID).Order("created_at asc").Find(&markers).Error
	if err != nil {
		return nil, err
	}

	return markers, nil
}
