package orders

import (
	"context"
	"errors"
	"sync"
	"testing"

	"barpos-backend/internal/events"
	"barpos-backend/internal/models"
)

func newTestEngine(repo OrderRepository) *Engine {
	return NewEngine(repo, 0.0875, events.Noop{})
}

func TestSettleComputesTotals(t *testing.T) {
	tests := []struct {
		name         string
		items        []SettleItem
		wantSubtotal float64
		wantTax      float64
		wantTotal    float64
	}{
		{
			name: "tekKalem",
			items: []SettleItem{
				{MenuItemID: 1, Quantity: 2, UnitPrice: 1500},
			},
			wantSubtotal: 3000,
			wantTax:      262.5,
			wantTotal:    3262.5,
		},
		{
			name: "çokKalemYuvarlama",
			items: []SettleItem{
				{MenuItemID: 1, Quantity: 1, UnitPrice: 999.99},
				{MenuItemID: 2, Quantity: 3, UnitPrice: 0.35},
			},
			// 999.99 + 1.05 = 1001.04; vergi = 87.591 -> 87.59 (half-up)
			wantSubtotal: 1001.04,
			wantTax:      87.59,
			wantTotal:    1088.63,
		},
		{
			name: "sıfırFiyat",
			items: []SettleItem{
				{MenuItemID: 1, Quantity: 5, UnitPrice: 0},
			},
			wantSubtotal: 0,
			wantTax:      0,
			wantTotal:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeOrderRepository()
			repo.addMenuItem(food(1, "Jollof Rice", 0))
			repo.addMenuItem(food(2, "Suya", 0))

			order, err := newTestEngine(repo).Settle(context.Background(), SettleRequest{
				PaymentMethod: models.PaymentCash,
				Items:         tt.items,
			})
			if err != nil {
				t.Fatalf("Settle: %v", err)
			}

			if order.Subtotal != tt.wantSubtotal {
				t.Errorf("Subtotal = %v, beklenen %v", order.Subtotal, tt.wantSubtotal)
			}
			if order.Tax != tt.wantTax {
				t.Errorf("Tax = %v, beklenen %v", order.Tax, tt.wantTax)
			}
			if order.Total != tt.wantTotal {
				t.Errorf("Total = %v, beklenen %v", order.Total, tt.wantTotal)
			}
			if order.Total != order.Subtotal+order.Tax {
				t.Errorf("Total != Subtotal + Tax: %v != %v + %v", order.Total, order.Subtotal, order.Tax)
			}
		})
	}
}

func TestSettleValidation(t *testing.T) {
	repo := newFakeOrderRepository()
	repo.addMenuItem(food(1, "Jollof Rice", 1500))
	engine := newTestEngine(repo)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     SettleRequest
		wantErr error
	}{
		{
			name:    "boşSipariş",
			req:     SettleRequest{PaymentMethod: models.PaymentCash},
			wantErr: ErrEmptyOrder,
		},
		{
			name: "geçersizÖdemeYöntemi",
			req: SettleRequest{
				PaymentMethod: "bitcoin",
				Items:         []SettleItem{{MenuItemID: 1, Quantity: 1, UnitPrice: 100}},
			},
			wantErr: ErrInvalidPaymentMethod,
		},
		{
			name: "sıfırAdet",
			req: SettleRequest{
				PaymentMethod: models.PaymentCash,
				Items:         []SettleItem{{MenuItemID: 1, Quantity: 0, UnitPrice: 100}},
			},
			wantErr: ErrInvalidQuantity,
		},
		{
			name: "tavanÜstüAdet",
			req: SettleRequest{
				PaymentMethod: models.PaymentCash,
				Items:         []SettleItem{{MenuItemID: 1, Quantity: 101, UnitPrice: 100}},
			},
			wantErr: ErrInvalidQuantity,
		},
		{
			name: "negatifFiyat",
			req: SettleRequest{
				PaymentMethod: models.PaymentCard,
				Items:         []SettleItem{{MenuItemID: 1, Quantity: 1, UnitPrice: -5}},
			},
			wantErr: ErrInvalidPrice,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := engine.Settle(ctx, tt.req); !errors.Is(err, tt.wantErr) {
				t.Errorf("Settle hatası = %v, beklenen %v", err, tt.wantErr)
			}
		})
	}

	// Doğrulama hataları backend'e hiç gitmemeli
	if repo.orderCount() != 0 {
		t.Errorf("doğrulama hatasına rağmen sipariş kaydedildi")
	}
}

func TestSettleInsufficientStockNoSideEffects(t *testing.T) {
	repo := newFakeOrderRepository()
	repo.addMenuItem(drink(1, "House Red", 2000, intPtr(3)))
	repo.addMenuItem(drink(2, "Star Lager", 800, intPtr(10)))
	repo.addMenuItem(food(3, "Jollof Rice", 1500))

	_, err := newTestEngine(repo).Settle(context.Background(), SettleRequest{
		PaymentMethod: models.PaymentCash,
		Items: []SettleItem{
			{MenuItemID: 1, Quantity: 5, UnitPrice: 2000}, // stok 3, yetmez
			{MenuItemID: 2, Quantity: 2, UnitPrice: 800},
			{MenuItemID: 3, Quantity: 1, UnitPrice: 1500},
		},
	})

	var stockErr *InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("InsufficientStockError bekleniyordu, gelen: %v", err)
	}
	if len(stockErr.Items) != 1 || stockErr.Items[0] != "House Red" {
		t.Errorf("yetersiz ürün listesi = %v, beklenen [House Red]", stockErr.Items)
	}

	// Atomiklik: ne sipariş kaydı ne stok düşümü kalmış olmalı
	if repo.orderCount() != 0 {
		t.Error("başarısız settlement sipariş kaydı bıraktı")
	}
	if got := repo.stockOf(1); got != 3 {
		t.Errorf("House Red stoğu = %d, beklenen 3", got)
	}
	if got := repo.stockOf(2); got != 10 {
		t.Errorf("Star Lager stoğu = %d, beklenen 10", got)
	}
}

func TestSettlePersistenceFault(t *testing.T) {
	repo := newFakeOrderRepository()
	repo.addMenuItem(food(1, "Suya", 1000))
	repo.settleErr = errors.New("connection reset")

	_, err := newTestEngine(repo).Settle(context.Background(), SettleRequest{
		PaymentMethod: models.PaymentCash,
		Items:         []SettleItem{{MenuItemID: 1, Quantity: 1, UnitPrice: 1000}},
	})

	if err == nil {
		t.Fatal("altyapı hatası yutuldu")
	}
	var stockErr *InsufficientStockError
	if errors.As(err, &stockErr) {
		t.Error("altyapı hatası iş kuralı reddi gibi döndü")
	}
}

func TestSettleDecrementsStock(t *testing.T) {
	repo := newFakeOrderRepository()
	repo.addMenuItem(drink(1, "House Red", 2000, intPtr(3)))

	order, err := newTestEngine(repo).Settle(context.Background(), SettleRequest{
		PaymentMethod: models.PaymentCard,
		Items:         []SettleItem{{MenuItemID: 1, Quantity: 2, UnitPrice: 2000}},
	})
	if err != nil {
		t.Fatalf("Settle: %v", err)
	}

	if got := repo.stockOf(1); got != 1 {
		t.Errorf("stok = %d, beklenen 1", got)
	}
	if order.UID == "" {
		t.Error("sipariş UID'siz döndü")
	}
	if order.Items[0].Name != "House Red" {
		t.Errorf("kalem adı kopyalanmadı: %q", order.Items[0].Name)
	}
}

// Senaryo: stok 3, iki istemci aynı anda 2'şer adet kapatmaya çalışır.
// Tam olarak biri başarılı olur (stok 1'e iner); sonra 1 adetlik kapatma
// başarılı olur ve stok 0'da kalır.
func TestSettleConcurrentLastUnits(t *testing.T) {
	repo := newFakeOrderRepository()
	repo.addMenuItem(drink(1, "House Red", 2000, intPtr(3)))
	engine := newTestEngine(repo)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = engine.Settle(context.Background(), SettleRequest{
				PaymentMethod: models.PaymentCash,
				Items:         []SettleItem{{MenuItemID: 1, Quantity: 2, UnitPrice: 2000}},
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		var stockErr *InsufficientStockError
		if !errors.As(err, &stockErr) {
			t.Fatalf("beklenmeyen hata: %v", err)
		}
		if len(stockErr.Items) != 1 || stockErr.Items[0] != "House Red" {
			t.Errorf("yetersiz ürün listesi = %v", stockErr.Items)
		}
	}
	if succeeded != 1 {
		t.Fatalf("başarılı settlement sayısı = %d, beklenen 1", succeeded)
	}
	if got := repo.stockOf(1); got != 1 {
		t.Fatalf("stok = %d, beklenen 1", got)
	}

	// Kalan son birim de satılabilmeli
	if _, err := engine.Settle(context.Background(), SettleRequest{
		PaymentMethod: models.PaymentCash,
		Items:         []SettleItem{{MenuItemID: 1, Quantity: 1, UnitPrice: 2000}},
	}); err != nil {
		t.Fatalf("kalan birim satılamadı: %v", err)
	}
	if got := repo.stockOf(1); got != 0 {
		t.Errorf("stok = %d, beklenen 0", got)
	}
}

// Oversell imkansızlığı: N yarışan settlement'ın başarılı düşümleri toplamı
// başlangıç stoğunu asla aşmaz.
func TestSettleNoOversellUnderLoad(t *testing.T) {
	const initialStock = 25
	const attempts = 40

	repo := newFakeOrderRepository()
	repo.addMenuItem(drink(1, "Star Lager", 800, intPtr(initialStock)))
	engine := newTestEngine(repo)

	var wg sync.WaitGroup
	var mu sync.Mutex
	sold := 0

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(q int) {
			defer wg.Done()
			_, err := engine.Settle(context.Background(), SettleRequest{
				PaymentMethod: models.PaymentCash,
				Items:         []SettleItem{{MenuItemID: 1, Quantity: q, UnitPrice: 800}},
			})
			if err == nil {
				mu.Lock()
				sold += q
				mu.Unlock()
			}
		}(i%3 + 1)
	}
	wg.Wait()

	if sold > initialStock {
		t.Fatalf("oversell: %d adet satıldı, stok %d idi", sold, initialStock)
	}
	if got := repo.stockOf(1); got != initialStock-sold {
		t.Fatalf("stok = %d, beklenen %d", got, initialStock-sold)
	}
}
