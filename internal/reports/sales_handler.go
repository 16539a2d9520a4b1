package reports

import (
	"time"

	"barpos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type SalesSummaryResponse struct {
	StartDate  string       `json:"start_date"`
	EndDate    string       `json:"end_date"`
	OrderCount int          `json:"order_count"`
	Subtotal   float64      `json:"subtotal"`
	Tax        float64      `json:"tax"`
	Total      float64      `json:"total"`
	CashTotal  float64      `json:"cash_total"`
	CardTotal  float64      `json:"card_total"`
	Daily      []DailySales `json:"daily_breakdown,omitempty"`
}

type DailySales struct {
	Date       string  `json:"date"`
	OrderCount int     `json:"order_count"`
	Total      float64 `json:"total"`
}

func summarize(orders []models.Order, from, to time.Time, withDaily bool) SalesSummaryResponse {
	res := SalesSummaryResponse{
		StartDate: from.Format("2006-01-02"),
		EndDate:   to.Format("2006-01-02"),
	}

	daily := map[string]*DailySales{}
	for _, o := range orders {
		res.OrderCount++
		res.Subtotal += o.Subtotal
		res.Tax += o.Tax
		res.Total += o.Total
		switch o.PaymentMethod {
		case models.PaymentCash:
			res.CashTotal += o.Total
		case models.PaymentCard:
			res.CardTotal += o.Total
		}

		if withDaily {
			day := o.CreatedAt.Format("2006-01-02")
			d, ok := daily[day]
			if !ok {
				d = &DailySales{Date: day}
				daily[day] = d
			}
			d.OrderCount++
			d.Total += o.Total
		}
	}

	if withDaily {
		// Gün sırasıyla döndür
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			if s, ok := daily[d.Format("2006-01-02")]; ok {
				res.Daily = append(res.Daily, *s)
			}
		}
	}

	return res
}

// GET /api/admin/reports/sales/daily?date=2026-08-30
// Tek günün satış özeti: sipariş sayısı, ciro, ödeme yöntemi kırılımı.
func DailySalesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dateStr := c.Query("date")
		day := time.Now()
		if dateStr != "" {
			var err error
			day, err = time.Parse("2006-01-02", dateStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
			}
		}

		from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		to := from.AddDate(0, 0, 1)

		var orders []models.Order
		if err := db.Where("created_at >= ? AND created_at < ?", from, to).
			Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Satış özeti hesaplanamadı")
		}

		return c.JSON(summarize(orders, from, from, false))
	}
}

// GET /api/admin/reports/sales/range?from=2026-08-01&to=2026-08-30
func SalesRangeHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fromStr := c.Query("from")
		toStr := c.Query("to")
		if fromStr == "" || toStr == "" {
			return fiber.NewError(fiber.StatusBadRequest, "from ve to tarihleri zorunlu (YYYY-MM-DD)")
		}

		from, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "from tarihi geçersiz")
		}
		to, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "to tarihi geçersiz")
		}
		if to.Before(from) {
			return fiber.NewError(fiber.StatusBadRequest, "to, from'dan önce olamaz")
		}

		var orders []models.Order
		if err := db.Where("created_at >= ? AND created_at < ?", from, to.AddDate(0, 0, 1)).
			Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Satış özeti hesaplanamadı")
		}

		return c.JSON(summarize(orders, from, to, true))
	}
}
