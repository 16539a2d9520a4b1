package database

import (
	"fmt"

	"barpos-backend/internal/config"
	"barpos-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect: Postgres bağlantısını açar ve migration'ları çalıştırır.
// Dönen *gorm.DB main'de oluşturulup handler'lara parametre olarak geçilir;
// paket seviyesinde global DB tutulmaz (test double takılabilmesi için).
func Connect(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("veritabanına bağlanılamadı: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Receipt{},
		&models.AuditLog{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate hatası: %w", err)
	}

	return db, nil
}
