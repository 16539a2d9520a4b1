package orders

import (
	"context"
	"errors"
	"sync"

	"barpos-backend/internal/models"
)

// fakeOrderRepository: Bellek içi test double'ı. SettleOrderWithStock gerçek
// implementasyonla aynı sözleşmeyi uygular: koşullu düşüm, ya hep ya hiç.
type fakeOrderRepository struct {
	mu sync.Mutex

	items  map[uint]*models.MenuItem
	orders []*models.Order
	nextID uint

	// Ayarlanırsa settle bu hatayla döner (altyapı hatası simülasyonu)
	settleErr error
}

func newFakeOrderRepository() *fakeOrderRepository {
	return &fakeOrderRepository{
		items:  make(map[uint]*models.MenuItem),
		nextID: 1,
	}
}

func (f *fakeOrderRepository) addMenuItem(m models.MenuItem) {
	f.items[m.ID] = &m
}

func (f *fakeOrderRepository) stockOf(id uint) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	item := f.items[id]
	if item == nil || item.StockQuantity == nil {
		return -1
	}
	return *item.StockQuantity
}

func (f *fakeOrderRepository) orderCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

func (f *fakeOrderRepository) SettleOrderWithStock(ctx context.Context, order *models.Order) ([]StockLevel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.settleErr != nil {
		return nil, f.settleErr
	}

	var insufficient []string
	var levels []StockLevel

	// Önce tüm kalemleri kontrol et, hiçbir şeyi değiştirmeden
	for i := range order.Items {
		oi := &order.Items[i]
		item, ok := f.items[oi.MenuItemID]
		if !ok {
			return nil, ErrMenuItemNotFound
		}
		oi.Name = item.Name
		if item.StockTracked() && *item.StockQuantity < oi.Quantity {
			insufficient = append(insufficient, item.Name)
		}
	}
	if len(insufficient) > 0 {
		return nil, &InsufficientStockError{Items: insufficient}
	}

	for i := range order.Items {
		oi := &order.Items[i]
		item := f.items[oi.MenuItemID]
		if !item.StockTracked() {
			continue
		}
		q := *item.StockQuantity - oi.Quantity
		item.StockQuantity = &q
		levels = append(levels, StockLevel{MenuItemID: item.ID, Name: item.Name, Quantity: item.StockQuantity})
	}

	order.ID = f.nextID
	f.nextID++
	f.orders = append(f.orders, order)
	return levels, nil
}

func (f *fakeOrderRepository) FindByUID(ctx context.Context, uid string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.UID == uid {
			return o, nil
		}
	}
	return nil, errors.New("sipariş bulunamadı")
}

func (f *fakeOrderRepository) List(ctx context.Context, limit int) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Order, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, *o)
	}
	return out, nil
}
