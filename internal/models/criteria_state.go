package models

import "time"

// CriteriaState is a criteria's monthly progress snapshot. A state is
// mutable while open; closing it is permanent.
type CriteriaState struct {
	ID         uint    `json:"id" gorm:"primaryKey"`
	CriteriaID uint    `json:"criteriaId" gorm:"index;not null"`
	Year       int16   `json:"year" gorm:"not null"`
	Month      uint8   `json:"month" gorm:"not null"`
	CurrentLvl int16   `json:"currentLvl" gorm:"not null"`
	Progress   float32 `json:"progress" gorm:"default:0"`
	Comment    *string `json:"comment" gorm:"size:500"`

	ModifiedDate *time.Time `json:"modifiedDate"`
	ModifiedBy   *string    `json:"modifiedBy" gorm:"size:30"`

	Closed         bool       `json:"closed" gorm:"default:false"`
	ClosedDate     *time.Time `json:"closedDate"`
	ClosedBy       *string    `json:"closedBy" gorm:"size:30"`
	ClosingComment *string    `json:"closingComment" gorm:"size:500"`
}

// PreviousMonth returns the calendar month preceding (year, month),
// wrapping January back to December of the prior year.
func PreviousMonth(year int16, month uint8) (int16, uint8) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}
