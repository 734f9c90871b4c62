package admin

import (
	"os"
	"time"

	"clubrecruit/database"
	"clubrecruit/middleware"
	"clubrecruit/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates the admin account
// POST /admin/login
func Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"success": false, "msg": "Invalid request body"})
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(400).JSON(fiber.Map{"success": false, "msg": "Email and password are required"})
	}

	db := database.GetDB()
	var account models.Admin
	if err := db.Where("email = ?", req.Email).First(&account).Error; err != nil {
		return c.JSON(fiber.Map{"success": false, "msg": "Invalid credentials"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(req.Password)); err != nil {
		return c.JSON(fiber.Map{"success": false, "msg": "Invalid credentials"})
	}

	claims := jwt.MapClaims{
		"user_id": account.ID,
		"email":   account.Email,
		"role":    middleware.RoleAdmin,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"success": false, "msg": "Failed to generate token"})
	}

	return c.JSON(fiber.Map{"success": true, "token": signed})
}
