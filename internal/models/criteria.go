package models

type Criteria struct {
	ID          uint   `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"size:30;uniqueIndex;not null"`
	Description string `json:"description" gorm:"size:5000"`
	Group       string `json:"group" gorm:"size:500"`

	Levels         []Level         `json:"levels,omitempty" gorm:"foreignKey:CriteriaID"`
	CriteriaStates []CriteriaState `json:"criteriaStates,omitempty" gorm:"foreignKey:CriteriaID"`
}

// CriteriaSummary is the listing projection: no levels, no states.
type CriteriaSummary struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Group       string `json:"group"`
}

type CreateCriteriaRequest struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Group             string   `json:"group"`
	LevelDescriptions []string `json:"levelDescriptions"`
}
