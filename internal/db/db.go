package db

import (
	"context"
	"fmt"

	"debatehub/internal/config"
	"debatehub/internal/models"
	"debatehub/internal/utils"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// DefaultCategories are created on first start when the table is empty.
var DefaultCategories = []models.Category{
	{Name: "Society", Description: "Social issues and public life"},
	{Name: "Politics", Description: "Policy, government and elections"},
	{Name: "Technology", Description: "Science, software and the future"},
	{Name: "Culture", Description: "Arts, media and entertainment"},
	{Name: "Daily Life", Description: "Everyday choices, big and small"},
}

// Open connects to PostgreSQL, applies pool limits and migrates the schema.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: utils.GetGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	utils.LogInfo("Database connection established")

	if err := Migrate(db); err != nil {
		return nil, err
	}
	if cfg.SeedCategories {
		if err := SeedCategories(context.Background(), db); err != nil {
			return nil, err
		}
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Debate{},
		&models.Comment{},
		&models.CommentLike{},
		&models.Like{},
		&models.Opinion{},
		&models.Bookmark{},
		&models.Notification{},
		&models.Message{},
		&models.ChatMessage{},
	)
	if err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	utils.LogInfo("Database migration completed")
	return nil
}

// SeedCategories inserts DefaultCategories unless categories already exist.
func SeedCategories(ctx context.Context, db *gorm.DB) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		utils.LogInfo("Categories already seeded, skipping")
		return nil
	}

	categories := make([]models.Category, len(DefaultCategories))
	copy(categories, DefaultCategories)
	if err := db.WithContext(ctx).Create(&categories).Error; err != nil {
		return fmt.Errorf("seeding categories: %w", err)
	}
	utils.LogSuccess(fmt.Sprintf("%d categories created", len(categories)))
	return nil
}
