package menu

import (
	"log"
	"strings"

	"barpos-backend/internal/audit"
	"barpos-backend/internal/auth"
	"barpos-backend/internal/events"
	"barpos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type MenuItemResponse struct {
	ID            uint                `json:"id"`
	Name          string              `json:"name"`
	Description   string              `json:"description,omitempty"`
	Price         float64             `json:"price"`
	Type          models.MenuItemType `json:"type"`
	IsAvailable   bool                `json:"is_available"`
	StockQuantity *int                `json:"stock_quantity,omitempty"`
}

type CreateMenuItemRequest struct {
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	Price         float64             `json:"price"`
	Type          models.MenuItemType `json:"type"`
	StockQuantity *int                `json:"stock_quantity"` // Sadece içecekler için
}

type UpdateMenuItemRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
}

func toResponse(m *models.MenuItem) MenuItemResponse {
	return MenuItemResponse{
		ID:            m.ID,
		Name:          m.Name,
		Description:   m.Description,
		Price:         m.Price,
		Type:          m.Type,
		IsAvailable:   m.IsAvailable,
		StockQuantity: m.StockQuantity,
	}
}

// Yardımcı: audit log için kullanıcı bilgilerini al
func currentUser(c *fiber.Ctx, db *gorm.DB) (uint, string, error) {
	userID, ok := c.Locals(auth.CtxUserIDKey).(uint)
	if !ok {
		return 0, "", fiber.NewError(fiber.StatusForbidden, "Kullanıcı bilgisi alınamadı")
	}

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return 0, "", fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı bulunamadı")
	}

	return userID, user.FirstName + " " + user.LastName, nil
}

// GET /api/menu-items (tüm authenticated kullanıcılar)
// Varsayılan olarak sadece satışta olan ürünleri döndürür; admin ekranı
// ?include_unavailable=true ile hepsini çeker.
func ListMenuItemsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := db.Model(&models.MenuItem{})

		if c.Query("include_unavailable") != "true" {
			dbq = dbq.Where("is_available = ?", true)
		}
		if t := c.Query("type"); t != "" {
			dbq = dbq.Where("type = ?", t)
		}

		var items []models.MenuItem
		if err := dbq.Order("type asc, name asc").Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Menü listelenemedi")
		}

		res := make([]MenuItemResponse, 0, len(items))
		for i := range items {
			res = append(res, toResponse(&items[i]))
		}
		return c.JSON(res)
	}
}

// POST /api/admin/menu-items (sadece admin)
func CreateMenuItemHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateMenuItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.Description = strings.TrimSpace(body.Description)

		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name zorunlu")
		}
		if body.Price < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Fiyat negatif olamaz")
		}
		if body.Type != models.MenuItemFood && body.Type != models.MenuItemDrink {
			return fiber.NewError(fiber.StatusBadRequest, "Type 'food' veya 'drink' olmalı")
		}
		if body.StockQuantity != nil {
			if body.Type != models.MenuItemDrink {
				return fiber.NewError(fiber.StatusBadRequest, "Stok takibi sadece içecekler için yapılır")
			}
			if *body.StockQuantity < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Stok negatif olamaz")
			}
		}

		var existing models.MenuItem
		if err := db.Where("name = ?", body.Name).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Bu isimde bir ürün zaten var")
		}

		m := models.MenuItem{
			Name:          body.Name,
			Description:   body.Description,
			Price:         body.Price,
			Type:          body.Type,
			IsAvailable:   true,
			StockQuantity: body.StockQuantity,
		}

		if err := db.Create(&m).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün oluşturulamadı")
		}

		if userID, userName, err := currentUser(c, db); err == nil {
			if logErr := audit.WriteLog(db, audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "menu_item",
				EntityID:    m.ID,
				Action:      models.AuditActionCreate,
				Description: "Ürün eklendi: " + m.Name,
				After:       m,
			}); logErr != nil {
				log.Printf("Audit log yazılamadı: %v", logErr)
			}
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(&m))
	}
}

// PUT /api/admin/menu-items/:id
func UpdateMenuItemHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var m models.MenuItem
		if err := db.First(&m, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}
		before := m

		var body UpdateMenuItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name boş olamaz")
			}
			m.Name = name
		}
		if body.Description != nil {
			m.Description = strings.TrimSpace(*body.Description)
		}
		if body.Price != nil {
			if *body.Price < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Fiyat negatif olamaz")
			}
			m.Price = *body.Price
		}

		if err := db.Save(&m).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün güncellenemedi")
		}

		if userID, userName, err := currentUser(c, db); err == nil {
			if logErr := audit.WriteLog(db, audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "menu_item",
				EntityID:    m.ID,
				Action:      models.AuditActionUpdate,
				Description: "Ürün güncellendi: " + m.Name,
				Before:      before,
				After:       m,
			}); logErr != nil {
				log.Printf("Audit log yazılamadı: %v", logErr)
			}
		}

		return c.JSON(toResponse(&m))
	}
}

// DELETE /api/admin/menu-items/:id
func DeleteMenuItemHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var m models.MenuItem
		if err := db.First(&m, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		if err := db.Delete(&m).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün silinemedi")
		}

		if userID, userName, err := currentUser(c, db); err == nil {
			if logErr := audit.WriteLog(db, audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "menu_item",
				EntityID:    m.ID,
				Action:      models.AuditActionDelete,
				Description: "Ürün silindi: " + m.Name,
				Before:      m,
			}); logErr != nil {
				log.Printf("Audit log yazılamadı: %v", logErr)
			}
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// PUT /api/admin/menu-items/:id/availability
func SetAvailabilityHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var body struct {
			IsAvailable bool `json:"is_available"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		var m models.MenuItem
		if err := db.First(&m, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}
		before := m

		m.IsAvailable = body.IsAvailable
		if err := db.Save(&m).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün güncellenemedi")
		}

		if userID, userName, err := currentUser(c, db); err == nil {
			if logErr := audit.WriteLog(db, audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "menu_item",
				EntityID:    m.ID,
				Action:      models.AuditActionUpdate,
				Description: "Satış durumu değişti: " + m.Name,
				Before:      before,
				After:       m,
			}); logErr != nil {
				log.Printf("Audit log yazılamadı: %v", logErr)
			}
		}

		return c.JSON(toResponse(&m))
	}
}

// PUT /api/admin/menu-items/:id/stock
// Stok sayacını doğrudan ayarlar (sayım sonrası düzeltme). null = takibi kapat.
// Satış kaynaklı düşüşler buradan değil, settlement üzerinden yapılır.
func SetStockHandler(db *gorm.DB, pub events.Publisher) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var body struct {
			StockQuantity *int `json:"stock_quantity"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		var m models.MenuItem
		if err := db.First(&m, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}
		before := m

		if body.StockQuantity != nil {
			if m.Type != models.MenuItemDrink {
				return fiber.NewError(fiber.StatusBadRequest, "Stok takibi sadece içecekler için yapılır")
			}
			if *body.StockQuantity < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Stok negatif olamaz")
			}
		}

		m.StockQuantity = body.StockQuantity
		if err := db.Save(&m).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok güncellenemedi")
		}

		if userID, userName, err := currentUser(c, db); err == nil {
			if logErr := audit.WriteLog(db, audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "menu_item",
				EntityID:    m.ID,
				Action:      models.AuditActionUpdate,
				Description: "Stok güncellendi: " + m.Name,
				Before:      before,
				After:       m,
			}); logErr != nil {
				log.Printf("Audit log yazılamadı: %v", logErr)
			}
		}

		if err := pub.Publish(events.SubjectStockUpdated, events.StockUpdatedEvent{
			MenuItemID:    m.ID,
			Name:          m.Name,
			StockQuantity: m.StockQuantity,
		}); err != nil {
			log.Printf("stok eventi yayınlanamadı: %v", err)
		}

		return c.JSON(toResponse(&m))
	}
}
