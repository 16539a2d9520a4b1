package menu

import (
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"barpos-backend/internal/audit"
	"barpos-backend/internal/events"
	"barpos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type stockRow struct {
	Name     string
	Quantity int
}

// isHeaderRow: İlk satır başlık satırı mı? ("ÜRÜN ADI", "PRODUCT NAME" vb.)
func isHeaderRow(cell string) bool {
	c := strings.ToUpper(strings.TrimSpace(cell))
	return strings.Contains(c, "ÜRÜN") || strings.Contains(c, "PRODUCT") ||
		strings.Contains(c, "NAME") || strings.Contains(c, "ITEM")
}

// parseStockSheet: Yüklenen .xlsx dosyasını (ürün adı, stok) satırlarına çevirir.
// İlk sheet okunur, başlık satırı algılanırsa atlanır, boş satırlar geçilir.
// Stok kolonu sayı değilse veya negatifse tüm dosya reddedilir.
func parseStockSheet(r io.Reader) ([]stockRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("excel dosyası okunamadı: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("excel dosyasında sheet bulunamadı")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("sheet okunamadı: %w", err)
	}

	start := 0
	if len(rows) > 0 && len(rows[0]) > 0 && isHeaderRow(rows[0][0]) {
		start = 1
	}

	var out []stockRow
	for i := start; i < len(rows); i++ {
		row := rows[i]
		if len(row) < 2 {
			continue
		}
		name := strings.TrimSpace(row[0])
		if name == "" {
			continue
		}
		qty, err := strconv.Atoi(strings.TrimSpace(row[1]))
		if err != nil {
			return nil, fmt.Errorf("satır %d: stok sayı olmalı: %q", i+1, row[1])
		}
		if qty < 0 {
			return nil, fmt.Errorf("satır %d: stok negatif olamaz: %d", i+1, qty)
		}
		out = append(out, stockRow{Name: name, Quantity: qty})
	}
	return out, nil
}

// POST /api/admin/menu-items/stock/import
// Sayım sonrası toplu stok düzeltme: .xlsx dosyasındaki (ürün adı, stok)
// satırlarını içeceklerle eşleştirip sayaçları ayarlar. Eşleşmeyen adlar
// yanıtta listelenir; her değişiklik audit log'a geçer ve stok eventi yayınlanır.
func ImportStockHandler(db *gorm.DB, pub events.Publisher) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dosya yüklenemedi: "+err.Error())
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Sadece .xlsx dosyaları yüklenebilir")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dosya açılamadı: "+err.Error())
		}
		defer file.Close()

		rows, err := parseStockSheet(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if len(rows) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Excel dosyası boş")
		}

		userID, userName, uerr := currentUser(c, db)
		if uerr != nil {
			return uerr
		}

		matched := 0
		unmatched := make([]string, 0)

		for _, r := range rows {
			var item models.MenuItem
			err := db.Where("type = ? AND LOWER(name) = ?", models.MenuItemDrink, strings.ToLower(r.Name)).
				First(&item).Error
			if err != nil {
				unmatched = append(unmatched, r.Name)
				continue
			}

			before := item
			q := r.Quantity
			item.StockQuantity = &q
			if err := db.Save(&item).Error; err != nil {
				log.Printf("stok güncellenemedi (%s): %v", item.Name, err)
				unmatched = append(unmatched, r.Name)
				continue
			}

			if logErr := audit.WriteLog(db, audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "menu_item",
				EntityID:    item.ID,
				Action:      models.AuditActionUpdate,
				Description: "Stok içe aktarımıyla güncellendi: " + item.Name,
				Before:      before,
				After:       item,
			}); logErr != nil {
				log.Printf("Audit log yazılamadı: %v", logErr)
			}

			if err := pub.Publish(events.SubjectStockUpdated, events.StockUpdatedEvent{
				MenuItemID:    item.ID,
				Name:          item.Name,
				StockQuantity: item.StockQuantity,
			}); err != nil {
				log.Printf("stok eventi yayınlanamadı: %v", err)
			}

			matched++
		}

		return c.JSON(fiber.Map{
			"matched_count":   matched,
			"unmatched_items": unmatched,
			"message":         fmt.Sprintf("%d ürünün stoğu güncellendi, %d ürün eşleşmedi.", matched, len(unmatched)),
		})
	}
}
