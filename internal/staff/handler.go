package staff

import (
	"fmt"
	"log"
	"strings"

	"barpos-backend/internal/audit"
	"barpos-backend/internal/auth"
	"barpos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type CreateUserRequest struct {
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Email     string          `json:"email"`
	Password  string          `json:"password"`
	Role      models.UserRole `json:"role"`
}

// userAuditOptions: Kullanıcı yazma işlemini audit log kaydına çevirir.
// Şifre hash'i loglanmaz; before/after sadece görünür hesap alanlarını taşır.
// Kullanıcı işlemleri geri alınamaz, kayıtlar yalnızca iz amaçlıdır.
func userAuditOptions(actorID uint, actorName string, action models.AuditAction, desc string, before, after *models.User) audit.LogOptions {
	opts := audit.LogOptions{
		UserID:      actorID,
		UserName:    actorName,
		EntityType:  "user",
		Action:      action,
		Description: desc,
	}
	if before != nil {
		opts.EntityID = before.ID
		b := auth.ToUserResponse(before)
		opts.Before = b
	}
	if after != nil {
		opts.EntityID = after.ID
		a := auth.ToUserResponse(after)
		opts.After = a
	}
	return opts
}

// actor: Audit log için istek sahibinin kimliğini ve adını döndürür.
func actor(c *fiber.Ctx, db *gorm.DB) (uint, string, error) {
	actorID, ok := c.Locals(auth.CtxUserIDKey).(uint)
	if !ok {
		return 0, "", fiber.NewError(fiber.StatusForbidden, "Kullanıcı bilgisi alınamadı")
	}

	var user models.User
	if err := db.First(&user, "id = ?", actorID).Error; err != nil {
		return 0, "", fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı bulunamadı")
	}

	return actorID, user.FirstName + " " + user.LastName, nil
}

// POST /api/admin/users
// Admin yeni personel hesabı açar; personel kodu otomatik üretilir.
func CreateUserHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateUserRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		body.FirstName = strings.TrimSpace(body.FirstName)
		body.LastName = strings.TrimSpace(body.LastName)

		if body.Email == "" || body.Password == "" || body.FirstName == "" || body.LastName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "İsim, soyisim, email ve şifre zorunlu")
		}
		if body.Role != models.RoleAdmin && body.Role != models.RoleWaiter {
			return fiber.NewError(fiber.StatusBadRequest, "Rol 'admin' veya 'waiter' olmalı")
		}

		var existing models.User
		if err := db.Where("email = ?", body.Email).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Bu email zaten kullanılıyor")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şifre hashlenemedi")
		}

		user := models.User{
			FirstName:    body.FirstName,
			LastName:     body.LastName,
			Email:        body.Email,
			StaffCode:    auth.UniqueStaffCode(db, body.FirstName, body.LastName),
			PasswordHash: string(hash),
			Role:         body.Role,
			IsActive:     true,
		}

		if err := db.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı oluşturulamadı")
		}

		if actorID, actorName, aerr := actor(c, db); aerr == nil {
			desc := fmt.Sprintf("Personel hesabı açıldı: %s %s (%s)", user.FirstName, user.LastName, user.StaffCode)
			if logErr := audit.WriteLog(db, userAuditOptions(actorID, actorName, models.AuditActionCreate, desc, nil, &user)); logErr != nil {
				log.Printf("Audit log yazılamadı: %v", logErr)
			}
		}

		return c.Status(fiber.StatusCreated).JSON(auth.ToUserResponse(&user))
	}
}

// GET /api/admin/users
func ListUsersHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var users []models.User
		if err := db.Order("created_at asc").Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcılar listelenemedi")
		}

		res := make([]auth.UserResponse, 0, len(users))
		for i := range users {
			res = append(res, auth.ToUserResponse(&users[i]))
		}
		return c.JSON(res)
	}
}

// PUT /api/admin/users/:id/active
func SetUserActiveHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var body struct {
			IsActive bool `json:"is_active"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		var user models.User
		if err := db.First(&user, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kullanıcı bulunamadı")
		}
		before := user

		user.IsActive = body.IsActive
		if err := db.Save(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı güncellenemedi")
		}

		if actorID, actorName, aerr := actor(c, db); aerr == nil {
			desc := "Hesap devre dışı bırakıldı: " + user.StaffCode
			if body.IsActive {
				desc = "Hesap aktifleştirildi: " + user.StaffCode
			}
			if logErr := audit.WriteLog(db, userAuditOptions(actorID, actorName, models.AuditActionUpdate, desc, &before, &user)); logErr != nil {
				log.Printf("Audit log yazılamadı: %v", logErr)
			}
		}

		return c.JSON(auth.ToUserResponse(&user))
	}
}
