package models

import "time"

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

type OrderStatus string

const (
	OrderCompleted OrderStatus = "completed"
)

// Order: Kapanmış (ödemesi alınmış) sipariş. Kayıt oluştuktan sonra kalemleri değişmez;
// subtotal/tax/total her zaman settlement anında sunucu tarafında hesaplanır.
type Order struct {
	ID uint `gorm:"primaryKey"`

	// Dışarıya verilen kimlik. Fiş numarası bu değerden türetilir.
	UID string `gorm:"size:36;uniqueIndex;not null"`

	WaiterID            uint `gorm:"index;not null"`
	Waiter              User
	TableNumber         int           `gorm:"not null;default:1"`
	CustomerName        string        `gorm:"size:100"`
	SpecialInstructions string        `gorm:"size:500"`
	Status              OrderStatus   `gorm:"size:20;not null"`
	PaymentMethod       PaymentMethod `gorm:"size:10;not null"`

	Subtotal float64 `gorm:"not null"`
	Tax      float64 `gorm:"not null"`
	Total    float64 `gorm:"not null"`

	Items []OrderItem

	CreatedAt time.Time
	UpdatedAt time.Time
}

type OrderItem struct {
	ID         uint `gorm:"primaryKey"`
	OrderID    uint `gorm:"index;not null"`
	MenuItemID uint `gorm:"index;not null"`

	// Menü sonradan değişse bile fişin aynı kalması için ad ve fiyat kopyalanır
	Name           string  `gorm:"size:100;not null"`
	Quantity       int     `gorm:"not null"`
	UnitPrice      float64 `gorm:"not null"`
	TotalPrice     float64 `gorm:"not null"`
	SpecialRequest string  `gorm:"size:255"`

	CreatedAt time.Time
}
