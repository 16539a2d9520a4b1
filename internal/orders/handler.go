package orders

import (
	"errors"
	"log"

	"barpos-backend/internal/auth"
	"barpos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type OrderItemResponse struct {
	MenuItemID     uint    `json:"menu_item_id"`
	Name           string  `json:"name"`
	Quantity       int     `json:"quantity"`
	UnitPrice      float64 `json:"unit_price"`
	TotalPrice     float64 `json:"total_price"`
	SpecialRequest string  `json:"special_request,omitempty"`
}

type OrderResponse struct {
	UID                 string               `json:"uid"`
	WaiterID            uint                 `json:"waiter_id"`
	TableNumber         int                  `json:"table_number"`
	CustomerName        string               `json:"customer_name,omitempty"`
	SpecialInstructions string               `json:"special_instructions,omitempty"`
	Status              models.OrderStatus   `json:"status"`
	PaymentMethod       models.PaymentMethod `json:"payment_method"`
	Subtotal            float64              `json:"subtotal"`
	Tax                 float64              `json:"tax"`
	Total               float64              `json:"total"`
	CreatedAt           string               `json:"created_at"`
	Items               []OrderItemResponse  `json:"items"`
}

func toOrderResponse(o *models.Order) OrderResponse {
	res := OrderResponse{
		UID:                 o.UID,
		WaiterID:            o.WaiterID,
		TableNumber:         o.TableNumber,
		CustomerName:        o.CustomerName,
		SpecialInstructions: o.SpecialInstructions,
		Status:              o.Status,
		PaymentMethod:       o.PaymentMethod,
		Subtotal:            o.Subtotal,
		Tax:                 o.Tax,
		Total:               o.Total,
		CreatedAt:           o.CreatedAt.Format("2006-01-02 15:04:05"),
		Items:               make([]OrderItemResponse, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		res.Items = append(res.Items, OrderItemResponse{
			MenuItemID:     it.MenuItemID,
			Name:           it.Name,
			Quantity:       it.Quantity,
			UnitPrice:      it.UnitPrice,
			TotalPrice:     it.TotalPrice,
			SpecialRequest: it.SpecialRequest,
		})
	}
	return res
}

// POST /api/orders
// Siparişi kapatır: stok kontrolü + düşümü + kayıt tek atomik işlemde.
// Stok yetmezse 409 ve hangi ürünlerin yetmediği döner; sipariş istemcide
// durduğu için kullanıcı adetleri düzeltip aynen tekrar deneyebilir.
func SettleOrderHandler(engine *Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		waiterID, ok := c.Locals(auth.CtxUserIDKey).(uint)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Kullanıcı bilgisi alınamadı")
		}

		var req SettleRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		req.WaiterID = waiterID

		order, err := engine.Settle(c.UserContext(), req)
		if err != nil {
			var stockErr *InsufficientStockError
			switch {
			case errors.As(err, &stockErr):
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{
					"error": "Bazı ürünlerin stoğu yetersiz",
					"code":  "insufficient_stock",
					"items": stockErr.Items,
				})
			case errors.Is(err, ErrEmptyOrder),
				errors.Is(err, ErrInvalidQuantity),
				errors.Is(err, ErrInvalidPrice),
				errors.Is(err, ErrInvalidPaymentMethod),
				errors.Is(err, ErrMenuItemNotFound):
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			default:
				// Altyapı hatası: kısmi kayıt yok, aynı istek güvenle tekrarlanabilir.
				// Teşhis için payload loglanır, kullanıcıya detay sızdırılmaz.
				log.Printf("sipariş kapatılamadı (garson %d, %d kalem): %v", waiterID, len(req.Items), err)
				return fiber.NewError(fiber.StatusInternalServerError, "Sipariş tamamlanamadı, lütfen tekrar deneyin")
			}
		}

		return c.Status(fiber.StatusCreated).JSON(toOrderResponse(order))
	}
}

// GET /api/orders?limit=50
func ListOrdersHandler(repo OrderRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		orders, err := repo.List(c.UserContext(), c.QueryInt("limit", 50))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Siparişler listelenemedi")
		}

		res := make([]OrderResponse, 0, len(orders))
		for i := range orders {
			res = append(res, toOrderResponse(&orders[i]))
		}
		return c.JSON(res)
	}
}

// GET /api/orders/:uid
func GetOrderHandler(repo OrderRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		order, err := repo.FindByUID(c.UserContext(), c.Params("uid"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Sipariş okunamadı")
		}
		return c.JSON(toOrderResponse(order))
	}
}
