package receipts

import (
	"errors"

	"barpos-backend/internal/config"
	"barpos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ReceiptResponse struct {
	Code          string               `json:"code"`
	OrderUID      string               `json:"order_uid"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	Total         float64              `json:"total"`
	IssuedAt      string               `json:"issued_at"`
}

func toReceiptResponse(r *models.Receipt) ReceiptResponse {
	return ReceiptResponse{
		Code:          r.Code,
		OrderUID:      r.Order.UID,
		PaymentMethod: r.PaymentMethod,
		Total:         r.Total,
		IssuedAt:      r.IssuedAt.Format("2006-01-02 15:04:05"),
	}
}

// POST /api/orders/:uid/receipt
// İdempotent: fiş zaten varsa aynısı döner, yeni kayıt açılmaz.
func IssueReceiptHandler(issuer *Issuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		receipt, err := issuer.Issue(c.UserContext(), c.Params("uid"))
		if err != nil {
			if errors.Is(err, ErrOrderNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Fiş oluşturulamadı")
		}
		return c.Status(fiber.StatusCreated).JSON(toReceiptResponse(receipt))
	}
}

// GET /api/orders/:uid/receipt
func GetReceiptHandler(issuer *Issuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		receipt, err := issuer.Find(c.UserContext(), c.Params("uid"))
		if err != nil {
			if errors.Is(err, ErrOrderNotFound) || errors.Is(err, ErrReceiptNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Fiş bulunamadı")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Fiş okunamadı")
		}
		return c.JSON(toReceiptResponse(receipt))
	}
}

// GET /api/orders/:uid/receipt/html
// Yazdırılabilir fiş. Fiş yoksa önce oluşturur (idempotent olduğu için güvenli).
func RenderReceiptHandler(issuer *Issuer, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		receipt, err := issuer.Issue(c.UserContext(), c.Params("uid"))
		if err != nil {
			if errors.Is(err, ErrOrderNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Fiş oluşturulamadı")
		}

		html, err := Render(receipt, RenderOptions{
			RestaurantName:    cfg.RestaurantName,
			RestaurantAddress: cfg.RestaurantAddress,
			CurrencySymbol:    cfg.CurrencySymbol,
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Fiş render edilemedi")
		}

		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString(html)
	}
}
