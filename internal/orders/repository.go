package orders

import (
	"context"
	"errors"
	"fmt"

	"barpos-backend/internal/models"

	"gorm.io/gorm"
)

// StockLevel: Settlement sonrası bir ürünün güncel stok durumu (event yayını için).
type StockLevel struct {
	MenuItemID uint
	Name       string
	Quantity   *int
}

// OrderRepository: Sipariş kalıcılık katmanı. SettleOrderWithStock tek atomik
// birimdir: stok kontrolü, düşüm ve sipariş kaydı ya hep ya hiç uygulanır.
type OrderRepository interface {
	SettleOrderWithStock(ctx context.Context, order *models.Order) ([]StockLevel, error)
	FindByUID(ctx context.Context, uid string) (*models.Order, error)
	List(ctx context.Context, limit int) ([]models.Order, error)
}

type gormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &gormOrderRepository{db: db}
}

// SettleOrderWithStock: Tek transaction içinde, stok takipli her kalem için
// koşullu düşüm yapar:
//
//	UPDATE menu_items SET stock_quantity = stock_quantity - q
//	WHERE id = ? AND stock_quantity >= q
//
// RowsAffected = 0 ise o ürünün stoğu yetmiyordur; tüm düşümler geri alınır ve
// *InsufficientStockError döner. İki garson son kalan içeceği aynı anda satmaya
// çalışırsa bu guard sayesinde yalnızca biri başarılı olur (oversell imkansız).
func (r *gormOrderRepository) SettleOrderWithStock(ctx context.Context, order *models.Order) ([]StockLevel, error) {
	var levels []StockLevel

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		levels = levels[:0]
		var insufficient []string

		for i := range order.Items {
			oi := &order.Items[i]

			var item models.MenuItem
			if err := tx.First(&item, "id = ?", oi.MenuItemID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("%w (ID %d)", ErrMenuItemNotFound, oi.MenuItemID)
				}
				return fmt.Errorf("ürün okunamadı (ID %d): %w", oi.MenuItemID, err)
			}
			oi.Name = item.Name

			if !item.StockTracked() {
				continue
			}

			res := tx.Model(&models.MenuItem{}).
				Where("id = ? AND stock_quantity >= ?", oi.MenuItemID, oi.Quantity).
				UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", oi.Quantity))
			if res.Error != nil {
				return fmt.Errorf("stok düşülemedi (%s): %w", item.Name, res.Error)
			}
			if res.RowsAffected == 0 {
				insufficient = append(insufficient, item.Name)
				continue
			}

			// Yazım sonrası doğrulama: guard'a rağmen sayaç negatife düştüyse
			// bu bir altyapı hatasıdır, transaction'ı boz.
			var after models.MenuItem
			if err := tx.First(&after, "id = ?", oi.MenuItemID).Error; err != nil {
				return fmt.Errorf("stok doğrulanamadı (%s): %w", item.Name, err)
			}
			if after.StockQuantity != nil && *after.StockQuantity < 0 {
				return fmt.Errorf("stok tutarsızlığı (%s): %d", item.Name, *after.StockQuantity)
			}
			levels = append(levels, StockLevel{
				MenuItemID: item.ID,
				Name:       item.Name,
				Quantity:   after.StockQuantity,
			})
		}

		if len(insufficient) > 0 {
			// Transaction rollback: yapılan düşümler de geri alınır
			return &InsufficientStockError{Items: insufficient}
		}

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("sipariş kaydedilemedi: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return levels, nil
}

func (r *gormOrderRepository) FindByUID(ctx context.Context, uid string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Preload("Items").Where("uid = ?", uid).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *gormOrderRepository) List(ctx context.Context, limit int) ([]models.Order, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var orders []models.Order
	if err := r.db.WithContext(ctx).Preload("Items").
		Order("created_at DESC").Limit(limit).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
