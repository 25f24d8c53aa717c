package model

import (
	"fmt"

	"gorm.io/gorm"
)

// FloorPlanPage is a user-assigned name for one page of a plan. Pages are
// created lazily on first rename, never upfront for every page of a pdf.
// At most one record exists per (floor plan, page number).
type FloorPlanPage struct {
	gorm.Model
	ID          string `gorm:"primaryKey;uuid;not null;"`
	FloorPlanID string `gorm:"uuid;not null;uniqueIndex:floor_plan_page_number_index"`
	PageNumber  int    `gorm:"not null;uniqueIndex:floor_plan_page_number_index"`
	Name        string `gorm:"not null"`
}

func (FloorPlanPage) TableName() string {
	return "floor_plan_pages"
}

// DefaultPageName is the display name of a page that was never renamed.
func DefaultPageName(pageNumber int) string {
	return fmt.Sprintf("Page %d", pageNumber)
}

func CreateFloorPlanPage(db *gorm.DB, page *FloorPlanPage) error {
	return db.Create(page).Error
}
