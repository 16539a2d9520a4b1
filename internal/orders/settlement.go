package orders

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"

	"barpos-backend/internal/events"
	"barpos-backend/internal/models"

	"github.com/google/uuid"
)

var (
	ErrEmptyOrder           = errors.New("sipariş boş")
	ErrInvalidPrice         = errors.New("birim fiyat negatif olamaz")
	ErrInvalidPaymentMethod = errors.New("ödeme yöntemi 'cash' veya 'card' olmalı")
	ErrMenuItemNotFound     = errors.New("ürün bulunamadı")
)

// InsufficientStockError: İş kuralı reddi, altyapı hatası değil. Hangi ürünlerin
// stoğunun yetmediğini isimleriyle taşır; sipariş ve stok üzerinde hiçbir yan
// etki bırakılmadan döner, kullanıcı adetleri düzeltip tekrar deneyebilir.
type InsufficientStockError struct {
	Items []string
}

func (e *InsufficientStockError) Error() string {
	return "stok yetersiz: " + strings.Join(e.Items, ", ")
}

type SettleItem struct {
	MenuItemID     uint    `json:"menu_item_id"`
	Quantity       int     `json:"quantity"`
	UnitPrice      float64 `json:"unit_price"`
	SpecialRequest string  `json:"special_request,omitempty"`
}

type SettleRequest struct {
	WaiterID            uint
	TableNumber         int                  `json:"table_number"`
	CustomerName        string               `json:"customer_name"`
	SpecialInstructions string               `json:"special_instructions"`
	PaymentMethod       models.PaymentMethod `json:"payment_method"`
	Items               []SettleItem         `json:"items"`
}

// Engine: Açık siparişi kalıcı, stok açısından tutarlı kapanmış siparişe çevirir.
// Stok kontrolü + düşümü + sipariş kaydı repository'de tek transaction olarak
// yürür; burada sadece doğrulama, tutar hesabı ve event yayını yapılır.
type Engine struct {
	repo    OrderRepository
	taxRate float64
	pub     events.Publisher
}

func NewEngine(repo OrderRepository, taxRate float64, pub events.Publisher) *Engine {
	return &Engine{repo: repo, taxRate: taxRate, pub: pub}
}

// Settle: Siparişi kapatır. Tutarlar her zaman sunucu tarafında, gönderilen
// kalemlerden yeniden hesaplanır; istemciden gelen toplamlara güvenilmez.
func (e *Engine) Settle(ctx context.Context, req SettleRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	if req.PaymentMethod != models.PaymentCash && req.PaymentMethod != models.PaymentCard {
		return nil, ErrInvalidPaymentMethod
	}
	for _, it := range req.Items {
		if it.Quantity <= 0 || it.Quantity > MaxLineQuantity {
			return nil, fmt.Errorf("%w (ürün ID %d)", ErrInvalidQuantity, it.MenuItemID)
		}
		if it.UnitPrice < 0 {
			return nil, fmt.Errorf("%w (ürün ID %d)", ErrInvalidPrice, it.MenuItemID)
		}
	}

	tableNumber := req.TableNumber
	if tableNumber < 1 {
		tableNumber = 1
	}

	var subtotal float64
	orderItems := make([]models.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		lineTotal := round2(float64(it.Quantity) * it.UnitPrice)
		subtotal += lineTotal
		orderItems = append(orderItems, models.OrderItem{
			MenuItemID:     it.MenuItemID,
			Quantity:       it.Quantity,
			UnitPrice:      it.UnitPrice,
			TotalPrice:     lineTotal,
			SpecialRequest: it.SpecialRequest,
		})
	}

	subtotal = round2(subtotal)
	tax := round2(subtotal * e.taxRate)

	order := &models.Order{
		UID:                 uuid.NewString(),
		WaiterID:            req.WaiterID,
		TableNumber:         tableNumber,
		CustomerName:        req.CustomerName,
		SpecialInstructions: req.SpecialInstructions,
		Status:              models.OrderCompleted,
		PaymentMethod:       req.PaymentMethod,
		Subtotal:            subtotal,
		Tax:                 tax,
		Total:               round2(subtotal + tax),
		Items:               orderItems,
	}

	stockLevels, err := e.repo.SettleOrderWithStock(ctx, order)
	if err != nil {
		return nil, err
	}

	// Event yayını settlement'ın parçası değil; hata olursa sadece loglanır.
	if err := e.pub.Publish(events.SubjectOrderSettled, events.OrderSettledEvent{
		OrderUID:      order.UID,
		WaiterID:      order.WaiterID,
		PaymentMethod: string(order.PaymentMethod),
		Total:         order.Total,
	}); err != nil {
		log.Printf("sipariş eventi yayınlanamadı: %v", err)
	}
	for _, s := range stockLevels {
		if err := e.pub.Publish(events.SubjectStockUpdated, events.StockUpdatedEvent{
			MenuItemID:    s.MenuItemID,
			Name:          s.Name,
			StockQuantity: s.Quantity,
		}); err != nil {
			log.Printf("stok eventi yayınlanamadı: %v", err)
		}
	}

	return order, nil
}

// round2: Para tutarlarını 2 ondalık basamağa yuvarlar (half-up).
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
