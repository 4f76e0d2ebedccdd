package models

import "time"

// LevelState is a monthly annotation slot for a level. It is part of the
// schema and the month-scoped read path, but has no write endpoints.
type LevelState struct {
	ID      uint    `json:"id" gorm:"primaryKey"`
	LevelID uint    `json:"levelId" gorm:"index;not null"`
	Year    int16   `json:"year" gorm:"not null"`
	Month   uint8   `json:"month" gorm:"not null"`
	Comment *string `json:"comment" gorm:"size:500"`

	ModifiedAt *time.Time `json:"modifiedAt"`
	ModifiedBy *string    `json:"modifiedBy" gorm:"size:30"`
}
