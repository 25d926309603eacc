package db

import (
	"github.com/campfire-dev/campfire/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the database and returns the handle. TranslateError is
// on so unique-key violations surface as gorm.ErrDuplicatedKey instead
// of driver-specific errors.
func Connect(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
}

func Migrate(database *gorm.DB) error {
	tables := []interface{}{
		&models.User{},
		&models.Post{},
		&models.PostTag{},
		&models.Comment{},
		&models.Project{},
		&models.ProjectMember{},
		&models.ProjectComment{},
		&models.PostLike{},
		&models.CommentLike{},
	}

	migrator := database.Migrator()

	for _, table := range tables {
		if !migrator.HasTable(table) {
			if err := database.AutoMigrate(table); err != nil {
				return err
			}
		}
	}

	return nil
}
