package orders

import (
	"errors"
	"fmt"

	"barpos-backend/internal/models"

	"github.com/google/uuid"
)

// MaxLineQuantity: Tek kalemde izin verilen üst sınır (sipariş boyutunu sınırlamak için).
const MaxLineQuantity = 100

var (
	ErrLineNotFound    = errors.New("sipariş kalemi bulunamadı")
	ErrItemUnavailable = errors.New("ürün satışta değil")
	ErrInvalidQuantity = errors.New("adet pozitif olmalı")
)

// StockLimitError: Eldeki stok istenilen adedi karşılamıyor (builder'ın son bildiği
// stok durumuna göre). Kullanıcıya uyarı olarak gösterilir, sipariş değişmez.
type StockLimitError struct {
	Name      string
	Available int
}

func (e *StockLimitError) Error() string {
	return fmt.Sprintf("stok yetersiz: %s (kalan: %d)", e.Name, e.Available)
}

// Line: Henüz kapatılmamış siparişin bir kalemi. TotalPrice her zaman
// Quantity × UnitPrice'tan hesaplanır, asla elle değiştirilmez.
type Line struct {
	ID             string
	MenuItemID     uint
	Name           string
	Quantity       int
	UnitPrice      float64
	TotalPrice     float64
	SpecialRequest string

	// Eklenme anındaki stok görüntüsü (nil = takipsiz). Sadece tavsiye niteliğinde;
	// bağlayıcı kontrol settlement'ta yapılır.
	stockSnapshot *int
}

// Builder: Kapatılmadan önceki siparişin bellek içi durumu. Sunucuya hiçbir şey
// yazmaz; "iptal" builder'ı çöpe atmaktan ibarettir.
type Builder struct {
	TableNumber         int
	CustomerName        string
	SpecialInstructions string

	lines []Line
}

func NewBuilder() *Builder {
	return &Builder{TableNumber: 1}
}

// AddItem: Ürünü siparişe ekler. Aynı ürün zaten siparişte varsa kalem birleştirilir.
// Stok takipli ürünlerde siparişteki toplam adet son bilinen stoğu aşarsa işlem
// yapılmaz ve *StockLimitError döner.
func (b *Builder) AddItem(item models.MenuItem, quantity int) (*Line, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if !item.IsAvailable {
		return nil, ErrItemUnavailable
	}

	if item.StockTracked() {
		alreadyInOrder := 0
		for i := range b.lines {
			if b.lines[i].MenuItemID == item.ID {
				alreadyInOrder += b.lines[i].Quantity
			}
		}
		if alreadyInOrder+quantity > *item.StockQuantity {
			return nil, &StockLimitError{Name: item.Name, Available: *item.StockQuantity}
		}
	}

	for i := range b.lines {
		if b.lines[i].MenuItemID == item.ID {
			b.lines[i].Quantity += quantity
			b.lines[i].TotalPrice = float64(b.lines[i].Quantity) * b.lines[i].UnitPrice
			line := b.lines[i]
			return &line, nil
		}
	}

	line := Line{
		ID:            uuid.NewString(),
		MenuItemID:    item.ID,
		Name:          item.Name,
		Quantity:      quantity,
		UnitPrice:     item.Price, // Fiyat eklenme anında sabitlenir
		TotalPrice:    item.Price * float64(quantity),
		stockSnapshot: item.StockQuantity,
	}
	b.lines = append(b.lines, line)
	return &line, nil
}

// UpdateQuantity: Kalem adedini günceller. 0 veya altı kalemi siparişten çıkarır.
// Adet, stok takipli ürünlerde min(stok, 100)'e, diğerlerinde 100'e kırpılır;
// kırpma olduysa clamped=true döner (kullanıcıya bilgi vermek için, hata değil).
func (b *Builder) UpdateQuantity(lineID string, newQuantity int) (clamped bool, err error) {
	idx := -1
	for i := range b.lines {
		if b.lines[i].ID == lineID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false, ErrLineNotFound
	}

	if newQuantity <= 0 {
		b.lines = append(b.lines[:idx], b.lines[idx+1:]...)
		return false, nil
	}

	ceiling := MaxLineQuantity
	if s := b.lines[idx].stockSnapshot; s != nil && *s < ceiling {
		ceiling = *s
	}
	if newQuantity > ceiling {
		newQuantity = ceiling
		clamped = true
	}

	b.lines[idx].Quantity = newQuantity
	b.lines[idx].TotalPrice = float64(newQuantity) * b.lines[idx].UnitPrice
	return clamped, nil
}

// RemoveItem: Kalemi koşulsuz siler.
func (b *Builder) RemoveItem(lineID string) error {
	for i := range b.lines {
		if b.lines[i].ID == lineID {
			b.lines = append(b.lines[:i], b.lines[i+1:]...)
			return nil
		}
	}
	return ErrLineNotFound
}

// SetSpecialRequest: Kaleme serbest metin not ekler (ör: "buzsuz").
func (b *Builder) SetSpecialRequest(lineID, request string) error {
	for i := range b.lines {
		if b.lines[i].ID == lineID {
			b.lines[i].SpecialRequest = request
			return nil
		}
	}
	return ErrLineNotFound
}

// Total: Kalem toplamlarının toplamı. Yan etkisiz.
func (b *Builder) Total() float64 {
	var sum float64
	for i := range b.lines {
		sum += b.lines[i].TotalPrice
	}
	return sum
}

// Lines: Kalemlerin kopyasını döndürür.
func (b *Builder) Lines() []Line {
	out := make([]Line, len(b.lines))
	copy(out, b.lines)
	return out
}

// Clear: Siparişi sıfırlar (ödeme sonrası yeni sipariş için).
func (b *Builder) Clear() {
	b.lines = nil
	b.CustomerName = ""
	b.SpecialInstructions = ""
}

// SettleItems: Builder içeriğini settlement isteği kalemlerine çevirir.
func (b *Builder) SettleItems() []SettleItem {
	items := make([]SettleItem, 0, len(b.lines))
	for i := range b.lines {
		items = append(items, SettleItem{
			MenuItemID:     b.lines[i].MenuItemID,
			Quantity:       b.lines[i].Quantity,
			UnitPrice:      b.lines[i].UnitPrice,
			SpecialRequest: b.lines[i].SpecialRequest,
		})
	}
	return items
}
