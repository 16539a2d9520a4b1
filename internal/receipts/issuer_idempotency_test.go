package receipts

import (
	"context"
	"errors"
	"sync"
	"testing"

	"barpos-backend/internal/models"
)

func testOrder() models.Order {
	return models.Order{
		ID:            1,
		UID:           "5f7b1c9e-3d2a-4e8b-9f10-a1b2c3d4e5f6",
		PaymentMethod: models.PaymentCash,
		Total:         3262.5,
		Items: []models.OrderItem{
			{Name: "House Red", Quantity: 2, TotalPrice: 4000},
		},
	}
}

func TestIssueIdempotent(t *testing.T) {
	store := newFakeReceiptStore()
	store.addOrder(testOrder())
	issuer := NewIssuer(store, "BPR")
	ctx := context.Background()

	first, err := issuer.Issue(ctx, "5f7b1c9e-3d2a-4e8b-9f10-a1b2c3d4e5f6")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	second, err := issuer.Issue(ctx, "5f7b1c9e-3d2a-4e8b-9f10-a1b2c3d4e5f6")
	if err != nil {
		t.Fatalf("Issue (tekrar): %v", err)
	}

	if store.receiptCount() != 1 {
		t.Fatalf("fiş sayısı = %d, beklenen 1", store.receiptCount())
	}
	if first.Code != second.Code {
		t.Errorf("fiş kodu değişti: %q != %q", first.Code, second.Code)
	}
	if first.ID != second.ID {
		t.Errorf("ikinci çağrı yeni kayıt açtı: ID %d != %d", first.ID, second.ID)
	}
	if first.Code != DeriveCode("BPR", "5f7b1c9e-3d2a-4e8b-9f10-a1b2c3d4e5f6") {
		t.Errorf("fiş kodu UID'den türetilmemiş: %q", first.Code)
	}
	if first.Total != 3262.5 || first.PaymentMethod != models.PaymentCash {
		t.Errorf("sipariş anlık görüntüsü kopyalanmadı: %+v", first)
	}
}

// Aynı sipariş için eşzamanlı iki Issue: unique index yarışı kaybedeni
// mevcut kayda yönlendirir, ikisi de aynı fişi döndürür.
func TestIssueConcurrentSingleRecord(t *testing.T) {
	store := newFakeReceiptStore()
	store.addOrder(testOrder())
	issuer := NewIssuer(store, "BPR")

	var wg sync.WaitGroup
	results := make([]*models.Receipt, 4)
	errs := make([]error, 4)
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = issuer.Issue(context.Background(), "5f7b1c9e-3d2a-4e8b-9f10-a1b2c3d4e5f6")
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("Issue #%d: %v", i, err)
		}
	}
	if store.receiptCount() != 1 {
		t.Fatalf("fiş sayısı = %d, beklenen 1", store.receiptCount())
	}
	for i := 1; i < 4; i++ {
		if results[i].Code != results[0].Code || results[i].ID != results[0].ID {
			t.Errorf("sonuçlar tutarsız: %+v != %+v", results[i], results[0])
		}
	}
}

func TestIssueUnknownOrder(t *testing.T) {
	issuer := NewIssuer(newFakeReceiptStore(), "BPR")

	if _, err := issuer.Issue(context.Background(), "yok-boyle-siparis"); !errors.Is(err, ErrOrderNotFound) {
		t.Errorf("Issue hatası = %v, beklenen ErrOrderNotFound", err)
	}
}

func TestFindReturnsExistingOnly(t *testing.T) {
	store := newFakeReceiptStore()
	store.addOrder(testOrder())
	issuer := NewIssuer(store, "BPR")
	ctx := context.Background()

	if _, err := issuer.Find(ctx, "5f7b1c9e-3d2a-4e8b-9f10-a1b2c3d4e5f6"); !errors.Is(err, ErrReceiptNotFound) {
		t.Fatalf("Find hatası = %v, beklenen ErrReceiptNotFound", err)
	}

	issued, err := issuer.Issue(ctx, "5f7b1c9e-3d2a-4e8b-9f10-a1b2c3d4e5f6")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	found, err := issuer.Find(ctx, "5f7b1c9e-3d2a-4e8b-9f10-a1b2c3d4e5f6")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if found.Code != issued.Code || found.ID != issued.ID {
		t.Errorf("Find farklı fiş döndürdü: %+v != %+v", found, issued)
	}
	if store.receiptCount() != 1 {
		t.Errorf("Find yeni kayıt açtı: %d", store.receiptCount())
	}
}
