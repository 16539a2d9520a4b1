package models

import "time"

// Receipt: Kapanmış siparişe bağlı fiş kaydı. OrderID üzerindeki unique index
// sipariş başına en fazla bir fiş olmasını garanti eder.
type Receipt struct {
	ID      uint `gorm:"primaryKey"`
	OrderID uint `gorm:"uniqueIndex;not null"`
	Order   Order

	// İnsan okunur fiş numarası (ör: "BPR 007"). Sipariş UID'inden deterministik
	// türetilir; benzersizlik garantisi yoktur, asıl anahtar OrderID'dir.
	Code string `gorm:"size:20;not null"`

	PaymentMethod PaymentMethod `gorm:"size:10;not null"`
	Total         float64       `gorm:"not null"`
	IssuedAt      time.Time     `gorm:"not null"`
	CreatedAt     time.Time
}
