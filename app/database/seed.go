package database

import (
	"context"
	"fmt"

	"github.com/mytheresa/item-processing-api/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// SampleItems returns the rows inserted into an empty store. Smartwatch 5 sits
// in a category without an explicit weight.
func SampleItems() []models.Item {
	return []models.Item{
		{Name: "Laptop Pro X", Category: "laptop", Value: 1499.99, Rating: 4},
		{Name: "Smartphone Z", Category: "smartphone", Value: 899.50, Rating: 3},
		{Name: "AudioMax Headphones", Category: "headphones", Value: 199.00, Rating: 2},
		{Name: "UltraWide Monitor", Category: "monitor", Value: 650.0, Rating: 4},
		{Name: "Laptop Air M2", Category: "laptop", Value: 1299.00, Rating: 3},
		{Name: "Gamer Headset v2", Category: "headphones", Value: 120.75, Rating: 1},
		{Name: "Smartwatch 5", Category: "wearable", Value: 350.0, Rating: 2},
	}
}

type Seeder struct {
	db    *gorm.DB
	log   logrus.FieldLogger
	items []models.Item
}

func NewSeeder(db *gorm.DB, log logrus.FieldLogger) *Seeder {
	return &Seeder{
		db:    db,
		log:   log,
		items: SampleItems(),
	}
}

// Seed inserts the sample items when the table is empty and reports how many
// rows it wrote. It never seeds a table that already holds data. The whole run
// is one transaction, so a failure leaves the table untouched.
func (s *Seeder) Seed(ctx context.Context) (int, error) {
	inserted := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing int64
		if err := tx.Model(&models.Item{}).Count(&existing).Error; err != nil {
			return fmt.Errorf("check for existing items: %w", err)
		}
		if existing > 0 {
			return nil
		}

		rows := make([]models.Item, len(s.items))
		copy(rows, s.items)
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("insert sample items: %w", err)
		}
		inserted = len(rows)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("seed database: %w", err)
	}

	if inserted == 0 {
		s.log.Info("database already contains data, skipping seed")
	} else {
		s.log.WithField("items", inserted).Info("database seeded with sample data")
	}
	return inserted, nil
}

// Reset drops the items table, recreates it and seeds it again.
func (s *Seeder) Reset(ctx context.Context) error {
	s.log.Warn("resetting database")

	if err := s.db.WithContext(ctx).Migrator().DropTable(&models.Item{}); err != nil {
		return fmt.Errorf("drop items: %w", err)
	}
	if err := Migrate(ctx, s.db); err != nil {
		return err
	}
	if _, err := s.Seed(ctx); err != nil {
		return err
	}
	return nil
}
