package db

import (
	"newsbrew/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(dsn string) {
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=newsbrew port=5432 sslmode=disable"
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect to database: %v", err)
	}

	logrus.Info("database connection established")

	if err := Migrate(DB); err != nil {
		logrus.Fatalf("failed to migrate database: %v", err)
	}
	logrus.Info("database migration completed")
}

// Migrate runs the schema migration and seeds the fixed role rows. Split out
// of Init so the test helper can reuse it against another connection.
func Migrate(g *gorm.DB) error {
	err := g.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Post{},
		&models.Like{},
		&models.Dislike{},
	)
	if err != nil {
		return err
	}
	return seedRoles(g)
}

func seedRoles(g *gorm.DB) error {
	for _, name := range []string{models.RoleMember, models.RoleAdmin} {
		var count int64
		g.Model(&models.Role{}).Where("name = ?", name).Count(&count)
		if count > 0 {
			continue
		}
		if err := g.Create(&models.Role{Name: name}).Error; err != nil {
			return err
		}
	}
	return nil
}
