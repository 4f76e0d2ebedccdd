package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/trokolisz/DMSAudit/internal/middleware"
	"github.com/trokolisz/DMSAudit/internal/models"
	"gorm.io/gorm"
)

var (
	errStateExists = errors.New("state already exists")
	errStateClosed = errors.New("state is closed")
)

// StateHandler drives the Open -> Closed lifecycle of monthly criteria
// states. Every mutation runs in a single transaction so the
// check-then-set sequences stay atomic.
type StateHandler struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewStateHandler(db *gorm.DB, logger *slog.Logger) *StateHandler {
	return &StateHandler{db: db, logger: logger}
}

// Open creates the state row for (criteria, year, month), carrying the
// current level and comment forward from the preceding month when that
// record exists.
func (h *StateHandler) Open(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid criteria ID",
		})
	}

	year, month, err := resolveYearMonth(c.Query("year"), c.Query("month"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	var created models.CriteriaState
	err = h.db.Transaction(func(tx *gorm.DB) error {
		var criteria models.Criteria
		if err := tx.First(&criteria, id).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.CriteriaState{}).
			Where("criteria_id = ? AND year = ? AND month = ?", id, year, month).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errStateExists
		}

		state := models.CriteriaState{
			CriteriaID: uint(id),
			Year:       year,
			Month:      month,
		}

		prevYear, prevMonth := models.PreviousMonth(year, month)
		var prev models.CriteriaState
		err := tx.Where("criteria_id = ? AND year = ? AND month = ?", id, prevYear, prevMonth).
			First(&prev).Error
		switch {
		case err == nil:
			state.CurrentLvl = prev.CurrentLvl
			state.Comment = prev.Comment
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		if err := tx.Create(&state).Error; err != nil {
			return err
		}
		created = state
		return nil
	})

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Criteria not found",
		})
	case errors.Is(err, errStateExists):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "State already exists for this month",
		})
	case err != nil:
		h.logger.Error("failed to open month", "criteria", id, "year", year, "month", month, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to open month",
		})
	}

	c.Set("Location", fmt.Sprintf("/criteria-state/%d/%d/%d", id, year, month))
	return c.Status(fiber.StatusCreated).JSON(created)
}

// SetLevel updates the current level of an open state.
func (h *StateHandler) SetLevel(c *fiber.Ctx) error {
	id, year, month, err := stateParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	newLevel, err := strconv.Atoi(c.Query("newLevel"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "newLevel must be a number",
		})
	}

	var updated models.CriteriaState
	err = h.db.Transaction(func(tx *gorm.DB) error {
		state, err := openState(tx, id, year, month)
		if err != nil {
			return err
		}

		state.CurrentLvl = int16(newLevel)
		stampModified(state, middleware.GetUsername(c))

		if err := tx.Save(state).Error; err != nil {
			return err
		}
		updated = *state
		return nil
	})

	if err != nil {
		return h.writeStateError(c, err, "Cannot modify a closed state")
	}
	return c.JSON(updated)
}

// SetComment replaces the comment of an open state.
func (h *StateHandler) SetComment(c *fiber.Ctx) error {
	id, year, month, err := stateParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	newComment := c.Query("newComment")

	var updated models.CriteriaState
	err = h.db.Transaction(func(tx *gorm.DB) error {
		state, err := openState(tx, id, year, month)
		if err != nil {
			return err
		}

		state.Comment = &newComment
		stampModified(state, middleware.GetUsername(c))

		if err := tx.Save(state).Error; err != nil {
			return err
		}
		updated = *state
		return nil
	})

	if err != nil {
		return h.writeStateError(c, err, "Cannot modify a closed state")
	}
	return c.JSON(updated)
}

// Close freezes a state permanently. No operation may alter the record
// afterwards.
func (h *StateHandler) Close(c *fiber.Ctx) error {
	id, year, month, err := stateParams(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	user := middleware.GetUsername(c)

	var updated models.CriteriaState
	err = h.db.Transaction(func(tx *gorm.DB) error {
		state, err := openState(tx, id, year, month)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		state.Closed = true
		state.ClosedDate = &now
		state.ClosedBy = &user
		if comment := c.Query("closingComment"); comment != "" {
			state.ClosingComment = &comment
		}
		state.ModifiedDate = &now
		state.ModifiedBy = &user

		if err := tx.Save(state).Error; err != nil {
			return err
		}
		updated = *state
		return nil
	})

	if err != nil {
		return h.writeStateError(c, err, "State is already closed")
	}
	return c.JSON(updated)
}

// openState loads the state for (criteria, year, month) and rejects closed
// ones.
func openState(tx *gorm.DB, id int, year int16, month uint8) (*models.CriteriaState, error) {
	var state models.CriteriaState
	if err := tx.Where("criteria_id = ? AND year = ? AND month = ?", id, year, month).
		First(&state).Error; err != nil {
		return nil, err
	}
	if state.Closed {
		return nil, errStateClosed
	}
	return &state, nil
}

func stampModified(state *models.CriteriaState, user string) {
	now := time.Now().UTC()
	state.ModifiedDate = &now
	state.ModifiedBy = &user
}

func (h *StateHandler) writeStateError(c *fiber.Ctx, err error, closedMessage string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "State not found",
		})
	case errors.Is(err, errStateClosed):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": closedMessage,
		})
	default:
		h.logger.Error("failed to update state", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update state",
		})
	}
}

func stateParams(c *fiber.Ctx) (int, int16, uint8, error) {
	id, err := c.ParamsInt("id")
	if err != nil {
		return 0, 0, 0, errors.New("invalid criteria ID")
	}
	year, err := c.ParamsInt("year")
	if err != nil {
		return 0, 0, 0, errors.New("invalid year")
	}
	month, err := c.ParamsInt("month")
	if err != nil || month < 1 || month > 12 {
		return 0, 0, 0, errors.New("invalid month")
	}
	return id, int16(year), uint8(month), nil
}
