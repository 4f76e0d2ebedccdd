package database

import (
	"strings"

	"github.com/trokolisz/DMSAudit/internal/config"
	"github.com/trokolisz/DMSAudit/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the store. PostgreSQL if the URL starts with postgres,
// otherwise SQLite.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	if strings.HasPrefix(cfg.DatabaseURL, "postgres") {
		dialector = postgres.Open(cfg.DatabaseURL)
	} else {
		dialector = sqlite.Open(cfg.DatabaseURL)
	}

	return gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Criteria{},
		&models.Level{},
		&models.CriteriaState{},
		&models.LevelState{},
		&models.Project{},
	)
}
