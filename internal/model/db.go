package model

import "gorm.io/gorm"

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Word{},
		&WordVariant{},
		&WordRelation{},
		&Translation{},
		&Feedback{},
		&UsageLog{},
	)
}
