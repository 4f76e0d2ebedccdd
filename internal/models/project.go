package models

// Project is a placeholder entity referenced by Level. It is migrated for
// schema compatibility but carries no attributes and has no endpoints.
type Project struct {
	ID      uint `json:"id" gorm:"primaryKey"`
	LevelID uint `json:"levelId" gorm:"index;not null"`
}
