package receipts

import (
	"context"
	"fmt"
	"sync"

	"barpos-backend/internal/models"
)

// fakeReceiptStore: Bellek içi test double'ı. Create, gerçek implementasyonla
// aynı sözleşmeyi uygular: sipariş başına ikinci kayıt unique index'e takılır.
type fakeReceiptStore struct {
	mu sync.Mutex

	orders   map[string]*models.Order
	receipts map[uint]*models.Receipt
	nextID   uint
}

func newFakeReceiptStore() *fakeReceiptStore {
	return &fakeReceiptStore{
		orders:   make(map[string]*models.Order),
		receipts: make(map[uint]*models.Receipt),
		nextID:   1,
	}
}

func (f *fakeReceiptStore) addOrder(o models.Order) {
	f.orders[o.UID] = &o
}

func (f *fakeReceiptStore) receiptCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.receipts)
}

func (f *fakeReceiptStore) OrderByUID(ctx context.Context, uid string) (*models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o, ok := f.orders[uid]
	if !ok {
		return nil, ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeReceiptStore) ReceiptByOrderID(ctx context.Context, orderID uint) (*models.Receipt, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.receipts[orderID]
	if !ok {
		return nil, ErrReceiptNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeReceiptStore) Create(ctx context.Context, receipt *models.Receipt) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.receipts[receipt.OrderID]; exists {
		return fmt.Errorf("duplicate key value violates unique constraint (order_id=%d)", receipt.OrderID)
	}
	receipt.ID = f.nextID
	f.nextID++
	cp := *receipt
	f.receipts[receipt.OrderID] = &cp
	return nil
}
