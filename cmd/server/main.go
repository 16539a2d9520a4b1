package main

import (
	"log"
	"strings"

	"barpos-backend/internal/audit"
	"barpos-backend/internal/auth"
	"barpos-backend/internal/config"
	"barpos-backend/internal/database"
	"barpos-backend/internal/events"
	"barpos-backend/internal/menu"
	"barpos-backend/internal/models"
	"barpos-backend/internal/orders"
	"barpos-backend/internal/receipts"
	"barpos-backend/internal/reports"
	"barpos-backend/internal/staff"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Veritabanı başlatılamadı: %v", err)
	}

	// NATS opsiyonel: tanımlı değilse event yayını yapılmaz, istemciler
	// polling'e düşer.
	var pub events.Publisher = events.Noop{}
	if cfg.NATSUrl != "" {
		pub, err = events.Connect(cfg.NATSUrl)
		if err != nil {
			log.Fatalf("NATS başlatılamadı: %v", err)
		}
		log.Println("NATS bağlantısı kuruldu:", cfg.NATSUrl)
	}
	defer pub.Close()

	orderRepo := orders.NewGormOrderRepository(db)
	engine := orders.NewEngine(orderRepo, cfg.TaxRate, pub)
	issuer := receipts.NewIssuer(receipts.NewGormReceiptStore(db), cfg.ReceiptPrefix)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(db, cfg))
	api.Post("/auth/login", auth.LoginHandler(db, cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler(db))

	// Menü (garson ekranı sadece okur)
	protected.Get("/menu-items", menu.ListMenuItemsHandler(db))

	// Sipariş kapatma ve geçmişi
	protected.Post("/orders", orders.SettleOrderHandler(engine))
	protected.Get("/orders", orders.ListOrdersHandler(orderRepo))
	protected.Get("/orders/:uid", orders.GetOrderHandler(orderRepo))

	// Fişler
	protected.Post("/orders/:uid/receipt", receipts.IssueReceiptHandler(issuer))
	protected.Get("/orders/:uid/receipt", receipts.GetReceiptHandler(issuer))
	protected.Get("/orders/:uid/receipt/html", receipts.RenderReceiptHandler(issuer, cfg))

	// Admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	// Personel yönetimi
	adminRoutes.Post("/users", staff.CreateUserHandler(db))
	adminRoutes.Get("/users", staff.ListUsersHandler(db))
	adminRoutes.Put("/users/:id/active", staff.SetUserActiveHandler(db))

	// Menü yönetimi
	adminRoutes.Post("/menu-items", menu.CreateMenuItemHandler(db))
	adminRoutes.Put("/menu-items/:id", menu.UpdateMenuItemHandler(db))
	adminRoutes.Delete("/menu-items/:id", menu.DeleteMenuItemHandler(db))
	adminRoutes.Put("/menu-items/:id/availability", menu.SetAvailabilityHandler(db))
	adminRoutes.Put("/menu-items/:id/stock", menu.SetStockHandler(db, pub))
	adminRoutes.Post("/menu-items/stock/import", menu.ImportStockHandler(db, pub))

	// Satış raporları
	adminRoutes.Get("/reports/sales/daily", reports.DailySalesHandler(db))
	adminRoutes.Get("/reports/sales/range", reports.SalesRangeHandler(db))

	// Audit logs
	adminRoutes.Get("/audit-logs", audit.ListAuditLogsHandler(db))
	adminRoutes.Post("/audit-logs/:id/undo", audit.UndoAuditLogHandler(db))

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
