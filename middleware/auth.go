// middleware/auth.go
package middleware

import (
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleStudent = "student"
	RoleClub    = "club"
	RoleAdmin   = "admin"
)

// StudentAuthMiddleware requires a valid student token.
func StudentAuthMiddleware(c *fiber.Ctx) error {
	return requireRole(c, RoleStudent)
}

// ClubAuthMiddleware requires a valid club token.
func ClubAuthMiddleware(c *fiber.Ctx) error {
	return requireRole(c, RoleClub)
}

// AdminAuthMiddleware requires a valid admin token.
func AdminAuthMiddleware(c *fiber.Ctx) error {
	return requireRole(c, RoleAdmin)
}

func requireRole(c *fiber.Ctx, role string) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Missing authorization header"})
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Invalid authorization header format"})
	}

	tokenString := parts[1]
	jwtSecret := os.Getenv("JWT_SECRET")

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(401, "Invalid signing method")
		}
		return []byte(jwtSecret), nil
	})

	if err != nil || !token.Valid {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Invalid or expired token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Invalid token claims"})
	}

	exp, ok := claims["exp"].(float64)
	if !ok || time.Unix(int64(exp), 0).Before(time.Now()) {
		return c.Status(401).JSON(fiber.Map{"success": false, "error": "Token expired"})
	}

	tokenRole, ok := claims["role"].(string)
	if !ok || tokenRole != role {
		return c.Status(403).JSON(fiber.Map{"success": false, "error": "Access denied"})
	}

	c.Locals("userId", claims["user_id"])
	c.Locals("email", claims["email"])
	c.Locals("role", tokenRole)

	return c.Next()
}

// GetUserID extracts the authenticated account id from the request context.
func GetUserID(c *fiber.Ctx) (uint, error) {
	userID := c.Locals("userId")
	if userID == nil {
		return 0, fiber.NewError(401, "User not authenticated")
	}

	// JWT claims decode numbers as float64
	if id, ok := userID.(float64); ok {
		return uint(id), nil
	}

	if id, ok := userID.(uint); ok {
		return id, nil
	}

	return 0, fiber.NewError(401, "Invalid user ID format")
}

// GetEmail extracts the authenticated account email from the request context.
func GetEmail(c *fiber.Ctx) (string, error) {
	email := c.Locals("email")
	if email == nil {
		return "", fiber.NewError(401, "User not authenticated")
	}

	if addr, ok := email.(string); ok {
		return addr, nil
	}

	return "", fiber.NewError(401, "Invalid email format")
}
