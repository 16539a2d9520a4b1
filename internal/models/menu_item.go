package models

import "time"

type MenuItemType string

const (
	MenuItemFood  MenuItemType = "food"
	MenuItemDrink MenuItemType = "drink"
)

type MenuItem struct {
	ID          uint         `gorm:"primaryKey"`
	Name        string       `gorm:"size:100;not null;unique"`
	Description string       `gorm:"size:255"`
	Price       float64      `gorm:"not null"`
	Type        MenuItemType `gorm:"size:20;not null;index"`
	IsAvailable bool         `gorm:"not null;default:true"`

	// Sadece içecekler için stok sayacı. nil = stok takibi yok (sınırsız satılabilir).
	StockQuantity *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StockTracked: Ürünün satışı stok sayacına bağlı mı?
func (m *MenuItem) StockTracked() bool {
	return m.Type == MenuItemDrink && m.StockQuantity != nil
}
