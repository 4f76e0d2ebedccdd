package models

// Level is one of the five fixed maturity stages (0-4) of a criteria.
// Levels are only ever created together with their criteria.
type Level struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	CriteriaID  uint   `json:"criteriaId" gorm:"index;not null"`
	Level       int16  `json:"level" gorm:"column:level;not null"`
	Description string `json:"description" gorm:"size:500"`

	LevelStates []LevelState `json:"levelStates,omitempty" gorm:"foreignKey:LevelID"`
	Projects    []Project    `json:"-" gorm:"foreignKey:LevelID"`
}
