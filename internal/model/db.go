package model

import "gorm.io/gorm"

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&FloorPlan{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&FloorPlanPage{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&FloorPlanMarker{}); err != nil {
		return err
	}

	return nil
}
