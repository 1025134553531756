package db

import (
	"github.com/statusdeck/statusdeck/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDatabase(dsn string) error {
	var err error

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})

	if err != nil {
		return err
	}

	return nil
}

func MigrateDatabase() error {
	tables := []interface{}{
		&models.Organization{},
		&models.User{},
		&models.Service{},
		&models.Incident{},
		&models.StatusUpdate{},
		&models.ServiceMaintenance{},
		&models.UserAction{},
		&models.EmailOTP{},
	}

	migrator := DB.Migrator()

	for _, model := range tables {
		if !migrator.HasTable(model) {
			if err := DB.AutoMigrate(model); err != nil {
				return err
			}
		}
	}

	return nil
}
