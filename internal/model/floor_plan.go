package model

import (
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	// FileTypeImage is a single-page raster drawing (png, jpg).
	FileTypeImage = "image"
	// FileTypePDF is a paginated document; PageCount reflects its pages.
	FileTypePDF = "pdf"
)

// FloorPlan is a drawing uploaded into a project. It owns its named pages
// and the markers placed on it. Plans are soft-deleted: IsActive goes false
// and the record stays while markers still reference it.
type FloorPlan struct {
	gorm.Model
	ID        string `gorm:"primaryKey;uuid;not null;"`
	ProjectID string `gorm:"uuid;not null;index:floor_plan_project_index"`
	Name      string `gorm:"not null"`
	FilePath  string `gorm:"not null"`
	FileType  string `gorm:"not null"` // image, pdf
	PageCount int    `gorm:"not null;default:1"`
	SortOrder int    `gorm:"not null;default:0"`
	IsActive  bool   `gorm:"not null;default:true"`

	Pages   []FloorPlanPage   `gorm:"foreignKey:FloorPlanID;references:ID"`
	Markers []FloorPlanMarker `gorm:"foreignKey:FloorPlanID;references:ID"`
}

func CreateFloorPlan(db *gorm.DB, plan *FloorPlan) error {
	return db.Create(plan).Error
}

func GetFloorPlan(db *gorm.DB, id string) (*FloorPlan, error) {
	plan := &FloorPlan{}
	err := db.Where("id = ?", id).First(plan).Error
	if err != nil {
		logrus.Errorf("Error getting floor plan: %v", err)
		return nil, err
	}

	return plan, nil
}
