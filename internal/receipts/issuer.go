package receipts

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"barpos-backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrOrderNotFound   = errors.New("sipariş bulunamadı")
	ErrReceiptNotFound = errors.New("fiş bulunamadı")
)

// DeriveCode: Sipariş UID'inden insan okunur fiş numarası türetir.
// Son 6 karakter 36 tabanında sayıya çevrilir, 999'a göre mod alınıp 1 eklenir
// ve "BPR 007" biçiminde yazılır. Aynı UID her zaman aynı numarayı üretir
// (tekrar yazdırma için sayaç servisi gerekmez). Numara kozmetiktir, farklı
// siparişlerde çakışabilir; asıl anahtar sipariş UID'idir.
func DeriveCode(prefix, orderUID string) string {
	suffix := orderUID
	if len(suffix) > 6 {
		suffix = suffix[len(suffix)-6:]
	}
	suffix = strings.ToUpper(suffix)

	counter, err := strconv.ParseUint(suffix, 36, 64)
	if err != nil {
		// UID 36 tabanında okunamıyorsa bayt toplamına düş; rastgele değer
		// kullanılamaz çünkü türetme deterministik olmak zorunda.
		var sum uint64
		for _, b := range []byte(suffix) {
			sum += uint64(b)
		}
		counter = sum
	}

	return fmt.Sprintf("%s %03d", prefix, counter%999+1)
}

// ReceiptStore: Fiş kalıcılık katmanı. Create, sipariş başına tek fiş
// kısıtını (unique index) uygulamakla yükümlüdür; aynı sipariş için ikinci
// Create hata döndürür.
type ReceiptStore interface {
	OrderByUID(ctx context.Context, uid string) (*models.Order, error)
	ReceiptByOrderID(ctx context.Context, orderID uint) (*models.Receipt, error)
	Create(ctx context.Context, receipt *models.Receipt) error
}

type gormReceiptStore struct {
	db *gorm.DB
}

func NewGormReceiptStore(db *gorm.DB) ReceiptStore {
	return &gormReceiptStore{db: db}
}

func (s *gormReceiptStore) OrderByUID(ctx context.Context, uid string) (*models.Order, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).Preload("Items").Where("uid = ?", uid).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("sipariş okunamadı: %w", err)
	}
	return &order, nil
}

func (s *gormReceiptStore) ReceiptByOrderID(ctx context.Context, orderID uint) (*models.Receipt, error) {
	var receipt models.Receipt
	if err := s.db.WithContext(ctx).Where("order_id = ?", orderID).First(&receipt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReceiptNotFound
		}
		return nil, fmt.Errorf("fiş okunamadı: %w", err)
	}
	return &receipt, nil
}

func (s *gormReceiptStore) Create(ctx context.Context, receipt *models.Receipt) error {
	return s.db.WithContext(ctx).Create(receipt).Error
}

// Issuer: Kapanmış sipariş için fiş kaydı üretir ve saklar.
type Issuer struct {
	store  ReceiptStore
	prefix string
}

func NewIssuer(store ReceiptStore, prefix string) *Issuer {
	return &Issuer{store: store, prefix: prefix}
}

// Issue: Sipariş için fiş oluşturur. Aynı sipariş için ikinci çağrı yeni kayıt
// açmaz, mevcut fişi döndürür (OrderID üzerindeki unique index de bunu garanti
// altına alır). Okuma/yazdırma bu kaydı değiştirmez.
func (i *Issuer) Issue(ctx context.Context, orderUID string) (*models.Receipt, error) {
	order, err := i.store.OrderByUID(ctx, orderUID)
	if err != nil {
		return nil, err
	}

	existing, err := i.store.ReceiptByOrderID(ctx, order.ID)
	if err == nil {
		existing.Order = *order
		return existing, nil
	}
	if !errors.Is(err, ErrReceiptNotFound) {
		return nil, err
	}

	receipt := &models.Receipt{
		OrderID:       order.ID,
		Code:          DeriveCode(i.prefix, order.UID),
		PaymentMethod: order.PaymentMethod,
		Total:         order.Total,
		IssuedAt:      time.Now(),
	}

	if err := i.store.Create(ctx, receipt); err != nil {
		// Yarış: Başka bir istek aynı anda fiş oluşturduysa unique index'e
		// takılır, mevcut kaydı döndür.
		if again, err2 := i.store.ReceiptByOrderID(ctx, order.ID); err2 == nil {
			again.Order = *order
			return again, nil
		}
		return nil, fmt.Errorf("fiş kaydedilemedi: %w", err)
	}

	receipt.Order = *order
	return receipt, nil
}

// Find: Var olan fişi döndürür, yoksa ErrOrderNotFound / ErrReceiptNotFound.
func (i *Issuer) Find(ctx context.Context, orderUID string) (*models.Receipt, error) {
	order, err := i.store.OrderByUID(ctx, orderUID)
	if err != nil {
		return nil, err
	}

	receipt, err := i.store.ReceiptByOrderID(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	receipt.Order = *order
	return receipt, nil
}
