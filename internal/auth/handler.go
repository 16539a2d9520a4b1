package auth

import (
	"fmt"
	"strings"
	"time"

	"barpos-backend/internal/config"
	"barpos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterAdminRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type LoginRequest struct {
	// Email veya personel kodu (ör: 1909JD)
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type UserResponse struct {
	ID        uint            `json:"id"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Email     string          `json:"email"`
	StaffCode string          `json:"staff_code"`
	Role      models.UserRole `json:"role"`
	IsActive  bool            `json:"is_active"`
}

func ToUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		StaffCode: u.StaffCode,
		Role:      u.Role,
		IsActive:  u.IsActive,
	}
}

// POST /api/auth/register-admin
// İlk kurulum için: sistemde hiç admin yoksa bir tane oluşturulur.
func RegisterAdminHandler(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterAdminRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		body.FirstName = strings.TrimSpace(body.FirstName)
		body.LastName = strings.TrimSpace(body.LastName)

		if body.Email == "" || body.Password == "" || body.FirstName == "" || body.LastName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "İsim, soyisim, email ve şifre zorunlu")
		}

		var count int64
		db.Model(&models.User{}).
			Where("role = ?", models.RoleAdmin).
			Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusForbidden, "Zaten bir admin var")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Şifre hashlenemedi")
		}

		user := models.User{
			FirstName:    body.FirstName,
			LastName:     body.LastName,
			Email:        body.Email,
			StaffCode:    UniqueStaffCode(db, body.FirstName, body.LastName),
			PasswordHash: string(hash),
			Role:         models.RoleAdmin,
			IsActive:     true,
		}

		if err := db.Create(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı oluşturulamadı")
		}

		return c.Status(fiber.StatusCreated).JSON(ToUserResponse(&user))
	}
}

// POST /api/auth/login
func LoginHandler(db *gorm.DB, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		identifier := strings.TrimSpace(body.Identifier)

		var user models.User
		var err error
		if IsValidStaffCode(strings.ToUpper(identifier)) {
			err = db.Where("staff_code = ?", strings.ToUpper(identifier)).First(&user).Error
		} else {
			err = db.Where("email = ?", strings.ToLower(identifier)).First(&user).Error
		}
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Kullanıcı veya şifre hatalı")
		}

		if !user.IsActive {
			return fiber.NewError(fiber.StatusUnauthorized, "Hesap devre dışı bırakılmış")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Kullanıcı veya şifre hatalı")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Token oluşturulamadı")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user":  ToUserResponse(&user),
		})
	}
}

// GET /api/auth/me
func MeHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals(CtxUserIDKey).(uint)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Kullanıcı bilgisi alınamadı")
		}

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Kullanıcı bulunamadı")
		}

		return c.JSON(ToUserResponse(&user))
	}
}

// UniqueStaffCode: Aynı gün aynı baş harflerle ikinci hesap açılırsa koda sayı eklenir.
func UniqueStaffCode(db *gorm.DB, firstName, lastName string) string {
	base := GenerateStaffCode(firstName, lastName, time.Now())
	code := base
	for i := 2; ; i++ {
		var count int64
		db.Model(&models.User{}).Where("staff_code = ?", code).Count(&count)
		if count == 0 {
			return code
		}
		code = fmt.Sprintf("%s%d", base, i)
	}
}
