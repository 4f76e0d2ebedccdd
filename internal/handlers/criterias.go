package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/trokolisz/DMSAudit/internal/models"
	"gorm.io/gorm"
)

type CriteriaHandler struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewCriteriaHandler(db *gorm.DB, logger *slog.Logger) *CriteriaHandler {
	return &CriteriaHandler{db: db, logger: logger}
}

// List returns all criterias as lightweight summaries without related entities.
func (h *CriteriaHandler) List(c *fiber.Ctx) error {
	summaries := []models.CriteriaSummary{}
	if err := h.db.Model(&models.Criteria{}).Find(&summaries).Error; err != nil {
		h.logger.Error("failed to list criterias", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch criterias",
		})
	}

	return c.JSON(summaries)
}

// Get returns one criteria with its states and level states filtered to the
// requested year and month (defaults to the current date).
func (h *CriteriaHandler) Get(c *fiber.Ctx) error {
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

	var criteria models.Criteria
	err = h.db.
		Preload("CriteriaStates", "year = ? AND month = ?", year, month).
		Preload("Levels", func(db *gorm.DB) *gorm.DB {
			return db.Order("level ASC")
		}).
		Preload("Levels.LevelStates", "year = ? AND month = ?", year, month).
		First(&criteria, id).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Criteria not found",
		})
	}
	if err != nil {
		h.logger.Error("failed to fetch criteria", "id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch criteria",
		})
	}

	return c.JSON(criteria)
}

// Create inserts a new criteria together with its five levels (0-4) in one
// transaction.
func (h *CriteriaHandler) Create(c *fiber.Ctx) error {
	var req models.CreateCriteriaRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if req.Name == "" || len(req.Name) > 30 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name is required and must be at most 30 characters",
		})
	}
	if len(req.LevelDescriptions) != 5 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Exactly 5 level descriptions are required",
		})
	}

	// Check for a name conflict before inserting
	var existing models.Criteria
	if err := h.db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Criteria name already exists",
		})
	}

	criteria := models.Criteria{
		Name:        req.Name,
		Description: req.Description,
		Group:       req.Group,
	}
	for i, description := range req.LevelDescriptions {
		criteria.Levels = append(criteria.Levels, models.Level{
			Level:       int16(i),
			Description: description,
		})
	}

	if err := h.db.Create(&criteria).Error; err != nil {
		h.logger.Error("failed to create criteria", "name", req.Name, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create criteria",
		})
	}

	c.Set("Location", fmt.Sprintf("/criterias/%d", criteria.ID))
	return c.Status(fiber.StatusCreated).JSON(criteria)
}

// resolveYearMonth defaults a missing year or month to the server's current
// date.
func resolveYearMonth(yearStr, monthStr string) (int16, uint8, error) {
	now := time.Now()
	year, month := int16(now.Year()), uint8(now.Month())

	if yearStr != "" {
		v, err := strconv.Atoi(yearStr)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid year %q", yearStr)
		}
		year = int16(v)
	}
	if monthStr != "" {
		v, err := strconv.Atoi(monthStr)
		if err != nil || v < 1 || v > 12 {
			return 0, 0, fmt.Errorf("invalid month %q", monthStr)
		}
		month = uint8(v)
	}

	return year, month, nil
}
